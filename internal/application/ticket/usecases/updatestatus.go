package usecases

import (
	"context"
	"strings"

	"github.com/campusdesk/campusdesk/internal/application/ticket/dto"
	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/biztime"
	"github.com/campusdesk/campusdesk/internal/shared/db"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

type UpdateStatusCommand struct {
	TicketID uint
	CallerID uint
	Status   string
	// Note, when not blank, is stored as an internal handler message.
	Note string
}

type UpdateStatusUseCase struct {
	ticketRepo  ticket.TicketRepository
	messageRepo ticket.MessageRepository
	oracle      PermissionOracle
	dispatcher  NotificationDispatcher
	txMgr       db.TxRunner
	logger      logger.Interface
}

func NewUpdateStatusUseCase(
	ticketRepo ticket.TicketRepository,
	messageRepo ticket.MessageRepository,
	oracle PermissionOracle,
	dispatcher NotificationDispatcher,
	txMgr db.TxRunner,
	logger logger.Interface,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		ticketRepo:  ticketRepo,
		messageRepo: messageRepo,
		oracle:      oracle,
		dispatcher:  dispatcher,
		txMgr:       txMgr,
		logger:      logger,
	}
}

func (uc *UpdateStatusUseCase) Execute(ctx context.Context, cmd UpdateStatusCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing update ticket status use case",
		"ticket_id", cmd.TicketID,
		"caller_id", cmd.CallerID,
		"status", cmd.Status,
	)

	target, err := vo.NewTicketStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewFieldValidationError("status", err.Error())
	}

	if err := requireRole(ctx, uc.logger, uc.oracle.IsHandler, cmd.CallerID, constants.RoleHandler); err != nil {
		return nil, err
	}

	var note *ticket.Message
	if strings.TrimSpace(cmd.Note) != "" {
		note, err = ticket.NewMessage(cmd.TicketID, cmd.CallerID, cmd.Note, vo.FormatPlain, true, vo.VisibilityInternal)
		if err != nil {
			return nil, err
		}
	}

	var (
		updated *ticket.Ticket
		change  ticket.StatusChange
	)
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByIDForUpdate(txCtx, cmd.TicketID)
		if err != nil {
			return wrapRepoError(uc.logger, "lock ticket", err, "ticket_id", cmd.TicketID)
		}

		if note != nil {
			if err := note.Stamp(biztime.NowUTC()); err != nil {
				return errors.NewInternalError("failed to stamp status note")
			}
			if err := uc.messageRepo.Create(txCtx, note); err != nil {
				return wrapRepoError(uc.logger, "create status note", err, "ticket_id", t.ID())
			}
		}

		change, err = t.ChangeStatus(target, note)
		if err != nil {
			if errors.IsAppError(err) {
				return err
			}
			uc.logger.Errorw("failed to change status", "ticket_id", t.ID(), "error", err)
			return errors.NewInternalError("failed to change status")
		}
		if change.Changed || note != nil {
			if err := uc.ticketRepo.Update(txCtx, t); err != nil {
				return wrapRepoError(uc.logger, "update ticket", err, "ticket_id", t.ID())
			}
		}
		updated = t
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if change.Changed {
		publish(ctx, uc.dispatcher, uc.logger, ticket.NewStatusChangedEvent(updated, change, cmd.CallerID))
	}

	uc.logger.Infow("ticket status updated",
		"ticket_id", updated.ID(),
		"from", change.From,
		"to", change.To,
		"changed", change.Changed,
	)
	return dto.ToTicketDTO(updated), nil
}
