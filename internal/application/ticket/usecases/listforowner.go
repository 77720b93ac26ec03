package usecases

import (
	"context"

	"github.com/campusdesk/campusdesk/internal/application/ticket/dto"
	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/biztime"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

type ListForOwnerQuery struct {
	UserID uint
	// Kind is optional; empty lists both kinds.
	Kind string
}

type ListForOwnerUseCase struct {
	ticketRepo ticket.TicketRepository
	readRepo   ticket.ReadMarkerRepository
	directory  UserDirectory
	renderer   BodyRenderer
	config     WorkflowConfig
	logger     logger.Interface
}

func NewListForOwnerUseCase(
	ticketRepo ticket.TicketRepository,
	readRepo ticket.ReadMarkerRepository,
	directory UserDirectory,
	renderer BodyRenderer,
	config WorkflowConfig,
	logger logger.Interface,
) *ListForOwnerUseCase {
	return &ListForOwnerUseCase{
		ticketRepo: ticketRepo,
		readRepo:   readRepo,
		directory:  directory,
		renderer:   renderer,
		config:     config,
		logger:     logger,
	}
}

func (uc *ListForOwnerUseCase) Execute(ctx context.Context, query ListForOwnerQuery) ([]*dto.TicketSummaryDTO, error) {
	uc.logger.Infow("executing list tickets for owner use case", "user_id", query.UserID, "kind", query.Kind)

	kind, err := parseOptionalKind(query.Kind)
	if err != nil {
		return nil, err
	}

	tickets, err := uc.ticketRepo.ListByRequester(ctx, query.UserID, kind)
	if err != nil {
		return nil, wrapRepoError(uc.logger, "list tickets", err, "user_id", query.UserID)
	}

	unread := uc.unreadCounts(ctx, query.UserID, tickets)
	names := lookupNames(ctx, uc.directory, uc.logger, assigneeIDs(tickets)...)

	now := biztime.NowUTC()
	items := make([]*dto.TicketSummaryDTO, 0, len(tickets))
	for _, t := range tickets {
		item := dto.ToTicketSummaryDTO(t, uc.preview(t), unread[t.ID()], now)
		if a := t.AssigneeID(); a != nil {
			item.AssigneeName = names[*a]
		}
		items = append(items, item)
	}
	return items, nil
}

// unreadCounts is zero for every ticket without read tracking. With it, a
// lookup failure is surfaced as an error-free zero as well, logged.
func (uc *ListForOwnerUseCase) unreadCounts(ctx context.Context, userID uint, tickets []*ticket.Ticket) map[uint]int {
	if !uc.config.ReadTracking || uc.readRepo == nil || len(tickets) == 0 {
		return map[uint]int{}
	}
	ids := make([]uint, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID())
	}
	counts, err := uc.readRepo.UnreadCounts(ctx, userID, ids)
	if err != nil {
		uc.logger.Errorw("failed to compute unread counts", "user_id", userID, "error", err)
		return map[uint]int{}
	}
	return counts
}

func (uc *ListForOwnerUseCase) preview(t *ticket.Ticket) string {
	// the description is message #1, whose format is not on the ticket row;
	// markdown rendering is a superset of plain text for previews
	return uc.renderer.Preview(t.Body(), vo.FormatMarkdown, uc.config.previewLength())
}

func parseOptionalKind(raw string) (*vo.Kind, error) {
	if raw == "" {
		return nil, nil
	}
	k, err := vo.NewKind(raw)
	if err != nil {
		return nil, errors.NewFieldValidationError("kind", err.Error())
	}
	return &k, nil
}

func assigneeIDs(tickets []*ticket.Ticket) []uint {
	ids := make([]uint, 0, len(tickets))
	for _, t := range tickets {
		if a := t.AssigneeID(); a != nil {
			ids = append(ids, *a)
		}
	}
	return ids
}

// lookupNames is best-effort: listings still render without names.
func lookupNames(ctx context.Context, dir UserDirectory, log logger.Interface, ids ...uint) map[uint]string {
	ids = uniqueIDs(ids...)
	if dir == nil || len(ids) == 0 {
		return map[uint]string{}
	}
	names, err := dir.DisplayNames(ctx, ids)
	if err != nil {
		log.Warnw("failed to resolve display names", "count", len(ids), "error", err)
		return map[uint]string{}
	}
	return names
}
