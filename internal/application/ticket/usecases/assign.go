package usecases

import (
	"context"

	"github.com/campusdesk/campusdesk/internal/application/ticket/dto"
	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/db"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

type AssignTicketCommand struct {
	TicketID uint
	CallerID uint
	// AssigneeID nil clears the assignment.
	AssigneeID *uint
}

type AssignTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	oracle     PermissionOracle
	dispatcher NotificationDispatcher
	txMgr      db.TxRunner
	logger     logger.Interface
}

func NewAssignTicketUseCase(
	ticketRepo ticket.TicketRepository,
	oracle PermissionOracle,
	dispatcher NotificationDispatcher,
	txMgr db.TxRunner,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo: ticketRepo,
		oracle:     oracle,
		dispatcher: dispatcher,
		txMgr:      txMgr,
		logger:     logger,
	}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing assign ticket use case",
		"ticket_id", cmd.TicketID,
		"caller_id", cmd.CallerID,
		"assignee_id", cmd.AssigneeID,
	)

	// caller and assignee are checked in one oracle round trip
	ids := []uint{cmd.CallerID}
	if cmd.AssigneeID != nil && *cmd.AssigneeID != cmd.CallerID {
		ids = append(ids, *cmd.AssigneeID)
	}
	handlers, err := uc.oracle.AreHandlers(ctx, ids...)
	if err != nil {
		uc.logger.Errorw("permission oracle failed", "user_ids", ids, "error", err)
		return nil, errors.NewUpstreamError("permission check unavailable")
	}
	if !handlers[cmd.CallerID] {
		uc.logger.Warnw("caller lacks role", "user_id", cmd.CallerID, "role", constants.RoleHandler)
		return nil, errors.NewPermissionDeniedError()
	}
	if cmd.AssigneeID != nil && !handlers[*cmd.AssigneeID] {
		return nil, errors.NewFieldValidationError("assignee_id", "assignee must be a handler")
	}

	var (
		updated *ticket.Ticket
		changed bool
	)
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByIDForUpdate(txCtx, cmd.TicketID)
		if err != nil {
			return wrapRepoError(uc.logger, "lock ticket", err, "ticket_id", cmd.TicketID)
		}
		changed = t.Assign(cmd.AssigneeID)
		if changed {
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

	if changed {
		publish(ctx, uc.dispatcher, uc.logger, ticket.NewAssignedEvent(updated, cmd.CallerID))
	}

	uc.logger.Infow("ticket assignment updated", "ticket_id", updated.ID(), "changed", changed)
	return dto.ToTicketDTO(updated), nil
}
