package http

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk/internal/application/ticket/usecases"
	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/models"
	"github.com/campusdesk/campusdesk/internal/shared/id"
)

func TestCreateTicket_ConcurrentNumbersAreDistinct(t *testing.T) {
	h := newDeskHarness(t)
	uc := h.container.ucs.createTicketUC
	const n = 24

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]uint, n)
		errs    []error
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := uc.Execute(context.Background(), usecases.CreateTicketCommand{
				RequesterID: studentID + uint(i%2),
				Kind:        "support",
				Subject:     fmt.Sprintf("Printer jam #%d", i),
				Body:        "The library printer is jammed again.",
				Attachments: []usecases.Upload{{Filename: "jam.txt", Data: []byte(fmt.Sprintf("tray %d", i))}},
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers[res.Number] = res.TicketID
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, numbers, n, "every ticket gets its own number")
	for number := range numbers {
		assert.True(t, id.IsTicketNumber(number), number)
	}

	var rows, withFiles int64
	require.NoError(t, h.container.db.Model(&models.TicketModel{}).Count(&rows).Error)
	assert.Equal(t, int64(n), rows)
	require.NoError(t, h.container.db.Model(&models.TicketMessageModel{}).
		Where("has_attachments = ?", true).Count(&withFiles).Error)
	assert.Equal(t, int64(n), withFiles)
}
