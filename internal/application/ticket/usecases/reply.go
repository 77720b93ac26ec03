package usecases

import (
	"context"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/biztime"
	"github.com/campusdesk/campusdesk/internal/shared/db"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

type ReplyCommand struct {
	TicketID   uint
	AuthorID   uint
	Body       string
	BodyFormat string
	Visibility string
	// MarkResolved is honored for handlers only.
	MarkResolved bool
	Attachments  []Upload
}

type ReplyResult struct {
	MessageID       uint
	Status          string
	StatusChanged   bool
	AttachmentCount int
}

type ReplyUseCase struct {
	access         accessChecker
	ticketRepo     ticket.TicketRepository
	messageRepo    ticket.MessageRepository
	attachmentRepo ticket.AttachmentRepository
	ingestor       *AttachmentIngestor
	dispatcher     NotificationDispatcher
	config         WorkflowConfig
	txMgr          db.TxRunner
	logger         logger.Interface
}

func NewReplyUseCase(
	ticketRepo ticket.TicketRepository,
	messageRepo ticket.MessageRepository,
	attachmentRepo ticket.AttachmentRepository,
	oracle PermissionOracle,
	ingestor *AttachmentIngestor,
	dispatcher NotificationDispatcher,
	config WorkflowConfig,
	txMgr db.TxRunner,
	logger logger.Interface,
) *ReplyUseCase {
	return &ReplyUseCase{
		access:         accessChecker{ticketRepo: ticketRepo, oracle: oracle, logger: logger},
		ticketRepo:     ticketRepo,
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		ingestor:       ingestor,
		dispatcher:     dispatcher,
		config:         config,
		txMgr:          txMgr,
		logger:         logger,
	}
}

func (uc *ReplyUseCase) Execute(ctx context.Context, cmd ReplyCommand) (*ReplyResult, error) {
	uc.logger.Infow("executing reply use case",
		"ticket_id", cmd.TicketID,
		"author_id", cmd.AuthorID,
		"visibility", cmd.Visibility,
		"mark_resolved", cmd.MarkResolved,
	)

	format, err := vo.NewBodyFormat(cmd.BodyFormat)
	if err != nil {
		return nil, errors.NewFieldValidationError("body_format", err.Error())
	}
	visibility, err := vo.NewVisibility(cmd.Visibility)
	if err != nil {
		return nil, errors.NewFieldValidationError("visibility", err.Error())
	}

	v, err := uc.access.load(ctx, cmd.TicketID, cmd.AuthorID)
	if err != nil {
		return nil, err
	}

	markResolved := cmd.MarkResolved
	if !v.isHandler {
		// only handlers write internal notes or resolve
		visibility = vo.VisibilityPublic
		markResolved = false
	}

	msg, err := ticket.NewMessage(v.ticket.ID(), cmd.AuthorID, cmd.Body, format, v.handlerVoice(), visibility)
	if err != nil {
		return nil, err
	}

	files := uc.ingestor.Ingest(ctx, cmd.Attachments)
	if len(files) > 0 {
		msg.MarkHasAttachments()
	}

	var (
		locked *ticket.Ticket
		change ticket.StatusChange
	)
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByIDForUpdate(txCtx, cmd.TicketID)
		if err != nil {
			return wrapRepoError(uc.logger, "lock ticket", err, "ticket_id", cmd.TicketID)
		}
		if err := msg.Stamp(biztime.NowUTC()); err != nil {
			return errors.NewInternalError("failed to stamp reply")
		}

		if err := uc.messageRepo.Create(txCtx, msg); err != nil {
			return wrapRepoError(uc.logger, "create message", err, "ticket_id", t.ID())
		}
		if err := saveAttachments(txCtx, uc.attachmentRepo, uc.logger, t.ID(), msg.ID(), files); err != nil {
			return err
		}

		change, err = t.RecordReply(msg, markResolved, uc.config.replyPolicy())
		if err != nil {
			uc.logger.Errorw("failed to record reply", "ticket_id", t.ID(), "error", err)
			return errors.NewInternalError("failed to record reply")
		}
		if err := uc.ticketRepo.Update(txCtx, t); err != nil {
			return wrapRepoError(uc.logger, "update ticket", err, "ticket_id", t.ID())
		}
		locked = t
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	events := []ticket.Event{ticket.NewReplyAddedEvent(locked, msg)}
	if change.Changed {
		events = append(events, ticket.NewStatusChangedEvent(locked, change, cmd.AuthorID))
	}
	publish(ctx, uc.dispatcher, uc.logger, events...)

	uc.logger.Infow("reply recorded successfully",
		"ticket_id", locked.ID(),
		"message_id", msg.ID(),
		"status", locked.Status(),
	)

	return &ReplyResult{
		MessageID:       msg.ID(),
		Status:          locked.Status().String(),
		StatusChanged:   change.Changed,
		AttachmentCount: len(files),
	}, nil
}
