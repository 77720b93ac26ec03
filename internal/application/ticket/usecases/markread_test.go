package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	apperrors "github.com/campusdesk/campusdesk/internal/shared/errors"
)

func TestMarkReadUseCase_Execute(t *testing.T) {
	tk := storedTicket(5, requesterID, vo.StatusOpen)
	messages := &mockMessageRepository{
		ListHandlerAuthoredIDsFunc: func(ctx context.Context, ticketID uint) ([]uint, error) {
			return []uint{11, 12}, nil
		},
	}
	var marked []uint
	reads := &mockReadMarkerRepository{
		MarkReadFunc: func(ctx context.Context, ticketID, userID uint, ids []uint) error {
			assert.Equal(t, uint(5), ticketID)
			assert.Equal(t, requesterID, userID)
			marked = ids
			return nil
		},
	}

	uc := NewMarkReadUseCase(ticketRepoWith(tk), messages, reads, newMockOracle(handlerID), WorkflowConfig{ReadTracking: true}, &mockLogger{})
	n, err := uc.Execute(context.Background(), MarkReadCommand{TicketID: 5, UserID: requesterID})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uint{11, 12}, marked)
}

func TestMarkReadUseCase_WithoutReadTracking(t *testing.T) {
	tk := storedTicket(5, requesterID, vo.StatusOpen)
	reads := &mockReadMarkerRepository{
		MarkReadFunc: func(ctx context.Context, ticketID, userID uint, ids []uint) error {
			t.Fatal("markers must not be written")
			return nil
		},
	}
	uc := NewMarkReadUseCase(ticketRepoWith(tk), &mockMessageRepository{}, reads, newMockOracle(handlerID), WorkflowConfig{}, &mockLogger{})

	n, err := uc.Execute(context.Background(), MarkReadCommand{TicketID: 5, UserID: requesterID})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = uc.Execute(context.Background(), MarkReadCommand{TicketID: 5, UserID: strangerID})
	assert.True(t, apperrors.IsForbiddenError(err))
}
