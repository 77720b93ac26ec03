package usecases

import (
	"context"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/db"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

type DeleteTicketCommand struct {
	TicketID uint
	CallerID uint
}

// DeleteTicketUseCase is the administrative hard delete. Stored blobs are
// left in place since identical content is shared by key.
type DeleteTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	oracle     PermissionOracle
	txMgr      db.TxRunner
	logger     logger.Interface
}

func NewDeleteTicketUseCase(
	ticketRepo ticket.TicketRepository,
	oracle PermissionOracle,
	txMgr db.TxRunner,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		ticketRepo: ticketRepo,
		oracle:     oracle,
		txMgr:      txMgr,
		logger:     logger,
	}
}

func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) error {
	uc.logger.Infow("executing delete ticket use case", "ticket_id", cmd.TicketID, "caller_id", cmd.CallerID)

	if err := requireRole(ctx, uc.logger, uc.oracle.IsAdmin, cmd.CallerID, constants.RoleAdmin); err != nil {
		return err
	}

	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.ticketRepo.Delete(txCtx, cmd.TicketID); err != nil {
			return wrapRepoError(uc.logger, "delete ticket", err, "ticket_id", cmd.TicketID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Infow("ticket deleted", "ticket_id", cmd.TicketID, "caller_id", cmd.CallerID)
	return nil
}
