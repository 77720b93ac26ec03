package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/biztime"
	apperrors "github.com/campusdesk/campusdesk/internal/shared/errors"
)

func TestListForOwnerUseCase_Execute(t *testing.T) {
	restore := biztime.SetNowFunc(func() time.Time { return testNow })
	defer restore()

	t1 := storedTicket(1, requesterID, vo.StatusOpen)
	t2 := storedTicket(2, requesterID, vo.StatusInProgress)
	assignee := handlerID
	t2.Assign(&assignee)

	var gotKind *vo.Kind
	tickets := &mockTicketRepository{
		ListByRequesterFunc: func(ctx context.Context, userID uint, kind *vo.Kind) ([]*ticket.Ticket, error) {
			assert.Equal(t, requesterID, userID)
			gotKind = kind
			return []*ticket.Ticket{t2, t1}, nil
		},
	}
	var unreadCalls int
	reads := &mockReadMarkerRepository{
		UnreadCountsFunc: func(ctx context.Context, userID uint, ids []uint) (map[uint]int, error) {
			unreadCalls++
			assert.ElementsMatch(t, []uint{1, 2}, ids)
			return map[uint]int{2: 3}, nil
		},
	}
	dir := &mockDirectory{names: map[uint]string{handlerID: "Grace"}}
	uc := NewListForOwnerUseCase(tickets, reads, dir, mockRenderer{}, WorkflowConfig{ReadTracking: true, PreviewLength: 10}, &mockLogger{})

	items, err := uc.Execute(context.Background(), ListForOwnerQuery{UserID: requesterID, Kind: "doubt"})

	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, gotKind)
	assert.Equal(t, vo.KindDoubt, *gotKind)
	assert.Equal(t, 1, unreadCalls)
	assert.Equal(t, 1, dir.calls)

	assert.Equal(t, uint(2), items[0].ID)
	assert.Equal(t, 3, items[0].UnreadCount)
	assert.Equal(t, "Grace", items[0].AssigneeName)
	assert.Equal(t, "2 days ago", items[0].TimeAgo)
	assert.Equal(t, 0, items[1].UnreadCount)
	assert.True(t, strings.HasSuffix(items[1].Preview, "…"))
}

func TestListForOwnerUseCase_WithoutReadTracking(t *testing.T) {
	tickets := &mockTicketRepository{
		ListByRequesterFunc: func(ctx context.Context, userID uint, kind *vo.Kind) ([]*ticket.Ticket, error) {
			return []*ticket.Ticket{storedTicket(1, requesterID, vo.StatusOpen)}, nil
		},
	}
	reads := &mockReadMarkerRepository{
		UnreadCountsFunc: func(ctx context.Context, userID uint, ids []uint) (map[uint]int, error) {
			t.Fatal("read markers must not be queried")
			return nil, nil
		},
	}
	uc := NewListForOwnerUseCase(tickets, reads, &mockDirectory{}, mockRenderer{}, WorkflowConfig{}, &mockLogger{})

	items, err := uc.Execute(context.Background(), ListForOwnerQuery{UserID: requesterID})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Zero(t, items[0].UnreadCount)
}

func TestListForOwnerUseCase_RepositoryFailure(t *testing.T) {
	tickets := &mockTicketRepository{
		ListByRequesterFunc: func(ctx context.Context, userID uint, kind *vo.Kind) ([]*ticket.Ticket, error) {
			return nil, errors.New("i/o timeout")
		},
	}
	uc := NewListForOwnerUseCase(tickets, nil, nil, mockRenderer{}, WorkflowConfig{}, &mockLogger{})

	_, err := uc.Execute(context.Background(), ListForOwnerQuery{UserID: requesterID})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.GetAppError(err).Type)
}

func TestListForHandlerUseCase_Execute(t *testing.T) {
	var (
		gotFilter ticket.ListFilter
		gotScope  ticket.CountScope
	)
	tickets := &mockTicketRepository{
		ListFunc: func(ctx context.Context, filter ticket.ListFilter) ([]*ticket.Ticket, int64, error) {
			gotFilter = filter
			return []*ticket.Ticket{storedTicket(3, requesterID, vo.StatusOpen)}, 41, nil
		},
		CountByStatusFunc: func(ctx context.Context, scope ticket.CountScope) (map[vo.TicketStatus]int64, error) {
			gotScope = scope
			return map[vo.TicketStatus]int64{vo.StatusOpen: 3, vo.StatusResolved: 2}, nil
		},
	}
	uc := NewListForHandlerUseCase(tickets, newMockOracle(handlerID), &mockDirectory{}, mockRenderer{}, WorkflowConfig{}, &mockLogger{})

	result, err := uc.Execute(context.Background(), ListForHandlerQuery{
		HandlerID: handlerID,
		Kind:      "support",
		Status:    "open",
		Assigned:  "self",
		Search:    "  quiz ",
		PageSize:  500,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(41), result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 100, result.PageSize)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, int64(5), result.Summary.Total)
	assert.Equal(t, int64(3), result.Summary.Open)
	assert.Equal(t, int64(2), result.Summary.Resolved)
	assert.Zero(t, result.Summary.InProgress)

	require.NotNil(t, gotFilter.Status)
	assert.Equal(t, vo.StatusOpen, *gotFilter.Status)
	require.NotNil(t, gotFilter.Assigned)
	id, ok := gotFilter.Assigned.AssigneeID()
	assert.True(t, ok)
	assert.Equal(t, handlerID, id)
	assert.Equal(t, "quiz", gotFilter.Search)
	assert.Nil(t, gotFilter.Priority)

	require.NotNil(t, gotScope.Kind)
	assert.Equal(t, vo.KindSupport, *gotScope.Kind)
}

func TestListForHandlerUseCase_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query ListForHandlerQuery
		check func(error) bool
		field string
	}{
		{
			name:  "non-handler is denied",
			query: ListForHandlerQuery{HandlerID: requesterID},
			check: apperrors.IsForbiddenError,
		},
		{
			name:  "unknown status",
			query: ListForHandlerQuery{HandlerID: handlerID, Status: "pending"},
			check: apperrors.IsValidationError,
			field: "status",
		},
		{
			name:  "unknown priority",
			query: ListForHandlerQuery{HandlerID: handlerID, Priority: "blocker"},
			check: apperrors.IsValidationError,
			field: "priority",
		},
		{
			name:  "bad assigned filter",
			query: ListForHandlerQuery{HandlerID: handlerID, Assigned: "someone"},
			check: apperrors.IsValidationError,
			field: "assigned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickets := &mockTicketRepository{
				ListFunc: func(ctx context.Context, filter ticket.ListFilter) ([]*ticket.Ticket, int64, error) {
					t.Fatal("list must not run")
					return nil, 0, nil
				},
			}
			uc := NewListForHandlerUseCase(tickets, newMockOracle(handlerID), nil, mockRenderer{}, WorkflowConfig{}, &mockLogger{})

			_, err := uc.Execute(context.Background(), tt.query)

			require.Error(t, err)
			assert.True(t, tt.check(err))
			if tt.field != "" {
				assert.Equal(t, tt.field, apperrors.GetAppError(err).Field)
			}
		})
	}
}
