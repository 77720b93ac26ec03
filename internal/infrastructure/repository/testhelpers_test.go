package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/infrastructure/migration"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(migration.AutoMigrateModels()...))
	return gdb
}

type fixture struct {
	db          *gorm.DB
	tickets     *TicketRepository
	messages    *TicketMessageRepository
	attachments *TicketAttachmentRepository
	markers     *TicketReadMarkerRepository
}

func newFixture(t *testing.T) *fixture {
	gdb := setupTestDB(t)
	return &fixture{
		db:          gdb,
		tickets:     NewTicketRepository(gdb, HasReadMarkerTable(gdb), logger.NewLogger()),
		messages:    NewTicketMessageRepository(gdb),
		attachments: NewTicketAttachmentRepository(gdb),
		markers:     NewTicketReadMarkerRepository(gdb),
	}
}

func (f *fixture) createTicket(t *testing.T, number string, kind vo.Kind, requesterID uint, subject, body string) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(kind, requesterID, subject, body, vo.DefaultCategory, vo.PriorityNormal)
	require.NoError(t, err)
	require.NoError(t, tk.SetNumber(number))
	require.NoError(t, f.tickets.Create(context.Background(), tk))

	first := f.addMessage(t, tk.ID(), requesterID, false, vo.VisibilityPublic)
	require.NoError(t, tk.AttachFirstMessage(first))
	require.NoError(t, f.tickets.Update(context.Background(), tk))
	return tk
}

func (f *fixture) addMessage(t *testing.T, ticketID, authorID uint, handler bool, visibility vo.Visibility) *ticket.Message {
	t.Helper()
	m, err := ticket.NewMessage(ticketID, authorID, "message body", vo.FormatPlain, handler, visibility)
	require.NoError(t, err)
	require.NoError(t, f.messages.Create(context.Background(), m))
	return m
}
