package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/models"
	"github.com/campusdesk/campusdesk/internal/shared/db"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
)

func TestTicketRepository_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createTicket(t, "TKT-AAAA0001", vo.KindDoubt, 7, "Integral question", "How do I solve this?")

	got, err := f.tickets.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "TKT-AAAA0001", got.Number())
	assert.Equal(t, vo.KindDoubt, got.Kind())
	assert.Equal(t, vo.StatusOpen, got.Status())
	assert.Equal(t, created.LastMessageID(), got.LastMessageID())
	assert.Equal(t, created.Version(), got.Version())
	assert.Nil(t, got.ResolvedAt())
	assert.Equal(t, created.CreatedAt().UnixMilli(), got.CreatedAt().UnixMilli())

	exists, err := f.tickets.ExistsByNumber(ctx, "TKT-AAAA0001")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = f.tickets.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
}

func TestTicketRepository_DuplicateNumberIsReported(t *testing.T) {
	f := newFixture(t)
	f.createTicket(t, "TKT-AAAA0001", vo.KindSupport, 7, "First", "body")

	tk, err := ticket.NewTicket(vo.KindSupport, 8, "Second", "body", vo.DefaultCategory, vo.PriorityNormal)
	require.NoError(t, err)
	require.NoError(t, tk.SetNumber("TKT-AAAA0001"))

	err = f.tickets.Create(context.Background(), tk)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateError(err))
}

func TestTicketRepository_UpdateVersionConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createTicket(t, "TKT-AAAA0001", vo.KindSupport, 7, "Wifi down", "No signal in hall B")

	first, err := f.tickets.GetByID(ctx, created.ID())
	require.NoError(t, err)
	second, err := f.tickets.GetByID(ctx, created.ID())
	require.NoError(t, err)

	handler := uint(2)
	require.True(t, first.Assign(&handler))
	require.NoError(t, f.tickets.Update(ctx, first))

	_, err = second.ChangeStatus(vo.StatusClosed, nil)
	require.NoError(t, err)
	err = f.tickets.Update(ctx, second)
	assert.ErrorIs(t, err, ticket.ErrVersionConflict)

	stored, err := f.tickets.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusOpen, stored.Status())
	assert.True(t, stored.IsAssignedTo(handler))
	assert.Equal(t, created.Version()+1, stored.Version())
}

func TestTicketRepository_UpdateUnknownTicket(t *testing.T) {
	f := newFixture(t)
	ghost, err := ticket.ReconstructTicket(42, "TKT-GHOST000", vo.KindSupport, 7, "s", "b", vo.DefaultCategory,
		vo.StatusOpen, vo.PriorityNormal, nil, nil, 1, testNow, testNow, nil)
	require.NoError(t, err)
	handler := uint(2)
	ghost.Assign(&handler)

	err = f.tickets.Update(context.Background(), ghost)
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
}

func TestTicketRepository_ResolvedAtRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createTicket(t, "TKT-AAAA0001", vo.KindSupport, 7, "Printer", "Jammed")

	_, err := created.ChangeStatus(vo.StatusResolved, nil)
	require.NoError(t, err)
	require.NoError(t, f.tickets.Update(ctx, created))

	got, err := f.tickets.GetByID(ctx, created.ID())
	require.NoError(t, err)
	require.NotNil(t, got.ResolvedAt())
	assert.Equal(t, created.ResolvedAt().UnixMilli(), got.ResolvedAt().UnixMilli())
}

func TestTicketRepository_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.createTicket(t, "TKT-AAAA0001", vo.KindSupport, 7, "Projector broken", "Room 101")
	b := f.createTicket(t, "TKT-AAAA0002", vo.KindSupport, 8, "Discount 100% off?", "fees")
	c := f.createTicket(t, "TKT-AAAA0003", vo.KindDoubt, 9, "Limits", "what is 1_000 / 0")

	handler := uint(2)
	a.Assign(&handler)
	require.NoError(t, f.tickets.Update(ctx, a))
	_, err := b.ChangeStatus(vo.StatusInProgress, nil)
	require.NoError(t, err)
	require.NoError(t, f.tickets.Update(ctx, b))

	support := vo.KindSupport
	inProgress := vo.StatusInProgress
	unassigned := ticket.Unassigned()
	mine := ticket.AssignedToSelf().Resolve(handler)

	tests := []struct {
		name   string
		filter ticket.ListFilter
		want   []uint
	}{
		{name: "all newest first", filter: ticket.ListFilter{}, want: []uint{c.ID(), b.ID(), a.ID()}},
		{name: "kind", filter: ticket.ListFilter{Kind: &support}, want: []uint{b.ID(), a.ID()}},
		{name: "status", filter: ticket.ListFilter{Status: &inProgress}, want: []uint{b.ID()}},
		{name: "unassigned", filter: ticket.ListFilter{Assigned: &unassigned}, want: []uint{c.ID(), b.ID()}},
		{name: "assigned to self", filter: ticket.ListFilter{Assigned: &mine}, want: []uint{a.ID()}},
		{name: "search subject", filter: ticket.ListFilter{Search: "projector"}, want: []uint{a.ID()}},
		{name: "search percent is literal", filter: ticket.ListFilter{Search: "100%"}, want: []uint{b.ID()}},
		{name: "search underscore is literal", filter: ticket.ListFilter{Search: "1_0"}, want: []uint{c.ID()}},
		{name: "search lone percent is literal", filter: ticket.ListFilter{Search: "%"}, want: []uint{b.ID()}},
		{name: "second page", filter: ticket.ListFilter{Page: 2, PageSize: 2}, want: []uint{a.ID()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := f.tickets.List(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]uint, 0, len(got))
			for _, tk := range got {
				ids = append(ids, tk.ID())
			}
			assert.Equal(t, tt.want, ids)
			if tt.filter.PageSize == 0 {
				assert.Equal(t, int64(len(tt.want)), total)
			} else {
				assert.Equal(t, int64(3), total)
			}
		})
	}
}

func TestTicketRepository_ListByRequesterAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createTicket(t, "TKT-AAAA0001", vo.KindSupport, 7, "One", "x")
	two := f.createTicket(t, "TKT-AAAA0002", vo.KindDoubt, 7, "Two", "x")
	f.createTicket(t, "TKT-AAAA0003", vo.KindDoubt, 8, "Three", "x")

	_, err := two.ChangeStatus(vo.StatusResolved, nil)
	require.NoError(t, err)
	require.NoError(t, f.tickets.Update(ctx, two))

	all, err := f.tickets.ListByRequester(ctx, 7, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	doubt := vo.KindDoubt
	doubts, err := f.tickets.ListByRequester(ctx, 7, &doubt)
	require.NoError(t, err)
	require.Len(t, doubts, 1)
	assert.Equal(t, two.ID(), doubts[0].ID())

	counts, err := f.tickets.CountByStatus(ctx, ticket.CountScope{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[vo.StatusOpen])
	assert.Equal(t, int64(1), counts[vo.StatusResolved])

	doubtCounts, err := f.tickets.CountByStatus(ctx, ticket.CountScope{Kind: &doubt})
	require.NoError(t, err)
	assert.Equal(t, int64(1), doubtCounts[vo.StatusOpen])
	assert.Equal(t, int64(1), doubtCounts[vo.StatusResolved])
}

func TestTicketRepository_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := db.NewTransactionManager(f.db)

	doomed := f.createTicket(t, "TKT-AAAA0001", vo.KindSupport, 7, "Delete me", "x")
	kept := f.createTicket(t, "TKT-AAAA0002", vo.KindSupport, 7, "Keep me", "x")
	reply := f.addMessage(t, doomed.ID(), 2, true, vo.VisibilityPublic)
	att, err := ticket.NewAttachment(doomed.ID(), reply.ID(), ticket.StoredFile{
		Key: "ab/abcdef", ContentHash: "abcdef", SizeBytes: 3, MIMEType: "text/plain", Filename: "a.txt",
	})
	require.NoError(t, err)
	require.NoError(t, f.attachments.CreateBatch(ctx, []*ticket.Attachment{att}))
	require.NoError(t, f.markers.MarkRead(ctx, doomed.ID(), 7, []uint{reply.ID()}))

	err = tm.RunInTransaction(ctx, func(ctx context.Context) error {
		return f.tickets.Delete(ctx, doomed.ID())
	})
	require.NoError(t, err)

	var n int64
	f.db.Model(&models.TicketMessageModel{}).Where("ticket_id = ?", doomed.ID()).Count(&n)
	assert.Zero(t, n)
	f.db.Model(&models.TicketAttachmentModel{}).Where("ticket_id = ?", doomed.ID()).Count(&n)
	assert.Zero(t, n)
	f.db.Model(&models.TicketReadMarkerModel{}).Where("ticket_id = ?", doomed.ID()).Count(&n)
	assert.Zero(t, n)

	_, err = f.tickets.GetByID(ctx, kept.ID())
	assert.NoError(t, err)

	err = f.tickets.Delete(ctx, doomed.ID())
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
}
