package usecases

import (
	"context"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/db"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

type CreateTicketCommand struct {
	RequesterID uint
	Kind        string
	Subject     string
	Category    string
	Priority    string
	Body        string
	BodyFormat  string
	Attachments []Upload
}

type CreateTicketResult struct {
	TicketID        uint
	Number          string
	Status          string
	MessageID       uint
	AttachmentCount int
}

type CreateTicketUseCase struct {
	ticketRepo     ticket.TicketRepository
	messageRepo    ticket.MessageRepository
	attachmentRepo ticket.AttachmentRepository
	numberGen      ticket.NumberGenerator
	ingestor       *AttachmentIngestor
	dispatcher     NotificationDispatcher
	txMgr          db.TxRunner
	logger         logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	messageRepo ticket.MessageRepository,
	attachmentRepo ticket.AttachmentRepository,
	numberGen ticket.NumberGenerator,
	ingestor *AttachmentIngestor,
	dispatcher NotificationDispatcher,
	txMgr db.TxRunner,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo:     ticketRepo,
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		numberGen:      numberGen,
		ingestor:       ingestor,
		dispatcher:     dispatcher,
		txMgr:          txMgr,
		logger:         logger,
	}
}

// createAttempts bounds retries after a number collision at insert time.
const createAttempts = 3

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	uc.logger.Infow("executing create ticket use case", "requester_id", cmd.RequesterID, "kind", cmd.Kind)

	if _, _, err := uc.buildTicket(cmd); err != nil {
		uc.logger.Warnw("invalid create ticket command", "requester_id", cmd.RequesterID, "error", err)
		return nil, err
	}

	// blobs are written before the transaction so no row lock waits on I/O
	files := uc.ingestor.Ingest(ctx, cmd.Attachments)

	var (
		t     *ticket.Ticket
		first *ticket.Message
		err   error
	)
	for attempt := 0; attempt < createAttempts; attempt++ {
		t, first, err = uc.insert(ctx, cmd, files)
		if err == nil {
			break
		}
		if errors.IsConflictError(err) && attempt < createAttempts-1 {
			uc.logger.Warnw("ticket number taken at insert, retrying",
				"requester_id", cmd.RequesterID,
				"attempt", attempt,
			)
			continue
		}
		return nil, err
	}

	publish(ctx, uc.dispatcher, uc.logger, ticket.NewTicketCreatedEvent(t))

	uc.logger.Infow("ticket created successfully",
		"ticket_id", t.ID(),
		"number", t.Number(),
		"attachments", len(files),
	)

	return &CreateTicketResult{
		TicketID:        t.ID(),
		Number:          t.Number(),
		Status:          t.Status().String(),
		MessageID:       first.ID(),
		AttachmentCount: len(files),
	}, nil
}

// insert writes one ticket under a freshly generated number.
func (uc *CreateTicketUseCase) insert(ctx context.Context, cmd CreateTicketCommand, files []ticket.StoredFile) (*ticket.Ticket, *ticket.Message, error) {
	t, first, err := uc.buildTicket(cmd)
	if err != nil {
		return nil, nil, err
	}

	number, err := uc.numberGen.Generate(ctx)
	if err != nil {
		uc.logger.Errorw("failed to generate ticket number", "error", err)
		return nil, nil, wrapRepoError(uc.logger, "generate ticket number", err)
	}
	if err := t.SetNumber(number); err != nil {
		uc.logger.Errorw("generated ticket number rejected", "number", number, "error", err)
		return nil, nil, errors.NewInternalError("failed to assign ticket number")
	}
	if len(files) > 0 {
		first.MarkHasAttachments()
	}

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.ticketRepo.Create(txCtx, t); err != nil {
			if errors.IsDuplicateError(err) {
				return errors.NewConflictError("ticket number collision, please retry")
			}
			return wrapRepoError(uc.logger, "create ticket", err, "number", number)
		}

		if err := first.BindTicket(t.ID()); err != nil {
			return errors.NewInternalError("failed to bind first message")
		}
		if err := uc.messageRepo.Create(txCtx, first); err != nil {
			return wrapRepoError(uc.logger, "create message", err, "ticket_id", t.ID())
		}

		if err := saveAttachments(txCtx, uc.attachmentRepo, uc.logger, t.ID(), first.ID(), files); err != nil {
			return err
		}

		if err := t.AttachFirstMessage(first); err != nil {
			uc.logger.Errorw("failed to link first message", "ticket_id", t.ID(), "error", err)
			return errors.NewInternalError("failed to link first message")
		}
		if err := uc.ticketRepo.Update(txCtx, t); err != nil {
			return wrapRepoError(uc.logger, "update ticket", err, "ticket_id", t.ID())
		}
		return nil
	})
	if txErr != nil {
		return nil, nil, txErr
	}
	return t, first, nil
}

func (uc *CreateTicketUseCase) buildTicket(cmd CreateTicketCommand) (*ticket.Ticket, *ticket.Message, error) {
	kind, err := vo.NewKind(cmd.Kind)
	if err != nil {
		return nil, nil, errors.NewFieldValidationError("kind", err.Error())
	}
	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, nil, errors.NewFieldValidationError("priority", err.Error())
	}
	format, err := vo.NewBodyFormat(cmd.BodyFormat)
	if err != nil {
		return nil, nil, errors.NewFieldValidationError("body_format", err.Error())
	}
	category, err := vo.NewCategory(cmd.Category)
	if err != nil {
		return nil, nil, errors.NewFieldValidationError("category", err.Error())
	}

	t, err := ticket.NewTicket(kind, cmd.RequesterID, cmd.Subject, cmd.Body, category, priority)
	if err != nil {
		return nil, nil, err
	}

	// message #1 is the description, always in the requester's voice
	first, err := ticket.NewMessage(0, cmd.RequesterID, cmd.Body, format, false, vo.VisibilityPublic)
	if err != nil {
		return nil, nil, err
	}
	return t, first, nil
}
