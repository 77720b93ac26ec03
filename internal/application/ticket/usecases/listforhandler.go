package usecases

import (
	"context"
	"strings"

	"github.com/campusdesk/campusdesk/internal/application/ticket/dto"
	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/biztime"
	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
	"github.com/campusdesk/campusdesk/internal/shared/utils"
)

type ListForHandlerQuery struct {
	HandlerID uint
	Kind      string
	Status    string
	Priority  string
	// Assigned is "unassigned", "self" or a user id.
	Assigned string
	Search   string
	Page     int
	PageSize int
}

type ListForHandlerUseCase struct {
	ticketRepo ticket.TicketRepository
	oracle     PermissionOracle
	directory  UserDirectory
	renderer   BodyRenderer
	config     WorkflowConfig
	logger     logger.Interface
}

func NewListForHandlerUseCase(
	ticketRepo ticket.TicketRepository,
	oracle PermissionOracle,
	directory UserDirectory,
	renderer BodyRenderer,
	config WorkflowConfig,
	logger logger.Interface,
) *ListForHandlerUseCase {
	return &ListForHandlerUseCase{
		ticketRepo: ticketRepo,
		oracle:     oracle,
		directory:  directory,
		renderer:   renderer,
		config:     config,
		logger:     logger,
	}
}

func (uc *ListForHandlerUseCase) Execute(ctx context.Context, query ListForHandlerQuery) (*dto.HandlerQueueDTO, error) {
	uc.logger.Infow("executing list tickets for handler use case",
		"handler_id", query.HandlerID,
		"page", query.Page,
		"page_size", query.PageSize,
	)

	filter, err := uc.buildFilter(query)
	if err != nil {
		return nil, err
	}

	if err := requireRole(ctx, uc.logger, uc.oracle.IsHandler, query.HandlerID, constants.RoleHandler); err != nil {
		return nil, err
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		return nil, wrapRepoError(uc.logger, "list tickets", err, "handler_id", query.HandlerID)
	}

	counts, err := uc.ticketRepo.CountByStatus(ctx, ticket.CountScope{Kind: filter.Kind})
	if err != nil {
		return nil, wrapRepoError(uc.logger, "count tickets", err, "handler_id", query.HandlerID)
	}

	names := lookupNames(ctx, uc.directory, uc.logger, assigneeIDs(tickets)...)
	now := biztime.NowUTC()
	items := make([]*dto.TicketSummaryDTO, 0, len(tickets))
	for _, t := range tickets {
		preview := uc.renderer.Preview(t.Body(), vo.FormatMarkdown, uc.config.previewLength())
		item := dto.ToTicketSummaryDTO(t, preview, 0, now)
		if a := t.AssigneeID(); a != nil {
			item.AssigneeName = names[*a]
		}
		items = append(items, item)
	}

	return &dto.HandlerQueueDTO{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: utils.TotalPages(total, filter.PageSize),
		Summary:    toStatusSummary(counts),
	}, nil
}

func (uc *ListForHandlerUseCase) buildFilter(query ListForHandlerQuery) (ticket.ListFilter, error) {
	filter := ticket.ListFilter{
		Search:   strings.TrimSpace(query.Search),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}

	kind, err := parseOptionalKind(query.Kind)
	if err != nil {
		return filter, err
	}
	filter.Kind = kind

	if query.Status != "" {
		s, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return filter, errors.NewFieldValidationError("status", err.Error())
		}
		filter.Status = &s
	}
	if query.Priority != "" {
		p, err := vo.NewPriority(query.Priority)
		if err != nil {
			return filter, errors.NewFieldValidationError("priority", err.Error())
		}
		filter.Priority = &p
	}
	if query.Assigned != "" {
		a, err := ticket.ParseAssignedFilter(query.Assigned)
		if err != nil {
			return filter, errors.NewFieldValidationError("assigned", err.Error())
		}
		a = a.Resolve(query.HandlerID)
		filter.Assigned = &a
	}
	return filter, nil
}

func toStatusSummary(counts map[vo.TicketStatus]int64) dto.StatusSummaryDTO {
	s := dto.StatusSummaryDTO{
		Open:       counts[vo.StatusOpen],
		InProgress: counts[vo.StatusInProgress],
		Resolved:   counts[vo.StatusResolved],
		Closed:     counts[vo.StatusClosed],
	}
	s.Total = s.Open + s.InProgress + s.Resolved + s.Closed
	return s
}
