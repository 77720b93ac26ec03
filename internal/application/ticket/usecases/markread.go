package usecases

import (
	"context"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

type MarkReadCommand struct {
	TicketID uint
	UserID   uint
}

type MarkReadUseCase struct {
	access      accessChecker
	messageRepo ticket.MessageRepository
	readRepo    ticket.ReadMarkerRepository
	config      WorkflowConfig
	logger      logger.Interface
}

func NewMarkReadUseCase(
	ticketRepo ticket.TicketRepository,
	messageRepo ticket.MessageRepository,
	readRepo ticket.ReadMarkerRepository,
	oracle PermissionOracle,
	config WorkflowConfig,
	logger logger.Interface,
) *MarkReadUseCase {
	return &MarkReadUseCase{
		access:      accessChecker{ticketRepo: ticketRepo, oracle: oracle, logger: logger},
		messageRepo: messageRepo,
		readRepo:    readRepo,
		config:      config,
		logger:      logger,
	}
}

// Execute returns the number of messages covered by the call. Without read
// tracking it only checks access.
func (uc *MarkReadUseCase) Execute(ctx context.Context, cmd MarkReadCommand) (int, error) {
	uc.logger.Infow("executing mark read use case", "ticket_id", cmd.TicketID, "user_id", cmd.UserID)

	v, err := uc.access.load(ctx, cmd.TicketID, cmd.UserID)
	if err != nil {
		return 0, err
	}
	if !uc.config.ReadTracking || uc.readRepo == nil {
		return 0, nil
	}

	ids, err := uc.messageRepo.ListHandlerAuthoredIDs(ctx, v.ticket.ID())
	if err != nil {
		return 0, wrapRepoError(uc.logger, "list handler messages", err, "ticket_id", v.ticket.ID())
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := uc.readRepo.MarkRead(ctx, v.ticket.ID(), cmd.UserID, ids); err != nil {
		return 0, wrapRepoError(uc.logger, "mark read", err, "ticket_id", v.ticket.ID())
	}
	return len(ids), nil
}
