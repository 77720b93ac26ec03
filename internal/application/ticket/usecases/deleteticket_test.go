package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	apperrors "github.com/campusdesk/campusdesk/internal/shared/errors"
)

func TestDeleteTicketUseCase_Execute(t *testing.T) {
	const adminID = uint(1)
	oracle := newMockOracle(handlerID)
	oracle.admins[adminID] = true

	var deleted []uint
	tickets := &mockTicketRepository{
		DeleteFunc: func(ctx context.Context, id uint) error {
			if id == 404 {
				return ticket.ErrTicketNotFound
			}
			deleted = append(deleted, id)
			return nil
		},
	}
	uc := NewDeleteTicketUseCase(tickets, oracle, &passThroughTx{}, &mockLogger{})

	require.NoError(t, uc.Execute(context.Background(), DeleteTicketCommand{TicketID: 5, CallerID: adminID}))
	assert.Equal(t, []uint{5}, deleted)

	err := uc.Execute(context.Background(), DeleteTicketCommand{TicketID: 6, CallerID: handlerID})
	assert.True(t, apperrors.IsForbiddenError(err))

	err = uc.Execute(context.Background(), DeleteTicketCommand{TicketID: 404, CallerID: adminID})
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.Equal(t, []uint{5}, deleted)
}
