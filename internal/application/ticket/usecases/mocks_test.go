package usecases

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

type mockTicketRepository struct {
	CreateFunc           func(ctx context.Context, t *ticket.Ticket) error
	GetByIDFunc          func(ctx context.Context, id uint) (*ticket.Ticket, error)
	GetByIDForUpdateFunc func(ctx context.Context, id uint) (*ticket.Ticket, error)
	ExistsByNumberFunc   func(ctx context.Context, number string) (bool, error)
	UpdateFunc           func(ctx context.Context, t *ticket.Ticket) error
	ListFunc             func(ctx context.Context, filter ticket.ListFilter) ([]*ticket.Ticket, int64, error)
	ListByRequesterFunc  func(ctx context.Context, requesterID uint, kind *vo.Kind) ([]*ticket.Ticket, error)
	CountByStatusFunc    func(ctx context.Context, scope ticket.CountScope) (map[vo.TicketStatus]int64, error)
	DeleteFunc           func(ctx context.Context, id uint) error
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return t.SetID(1)
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ticket.ErrTicketNotFound
}

func (m *mockTicketRepository) GetByIDForUpdate(ctx context.Context, id uint) (*ticket.Ticket, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *mockTicketRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	if m.ExistsByNumberFunc != nil {
		return m.ExistsByNumberFunc(ctx, number)
	}
	return false, nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	t.MarkPersisted()
	return nil
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.ListFilter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTicketRepository) ListByRequester(ctx context.Context, requesterID uint, kind *vo.Kind) ([]*ticket.Ticket, error) {
	if m.ListByRequesterFunc != nil {
		return m.ListByRequesterFunc(ctx, requesterID, kind)
	}
	return nil, nil
}

func (m *mockTicketRepository) CountByStatus(ctx context.Context, scope ticket.CountScope) (map[vo.TicketStatus]int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, scope)
	}
	return map[vo.TicketStatus]int64{}, nil
}

func (m *mockTicketRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockMessageRepository struct {
	CreateFunc                 func(ctx context.Context, msg *ticket.Message) error
	GetByIDFunc                func(ctx context.Context, id uint) (*ticket.Message, error)
	ListByTicketFunc           func(ctx context.Context, ticketID uint, includeInternal bool) ([]*ticket.Message, error)
	ListHandlerAuthoredIDsFunc func(ctx context.Context, ticketID uint) ([]uint, error)

	nextID uint
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *ticket.Message) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, msg)
	}
	m.nextID++
	return msg.SetID(100 + m.nextID)
}

func (m *mockMessageRepository) GetByID(ctx context.Context, id uint) (*ticket.Message, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ticket.ErrMessageNotFound
}

func (m *mockMessageRepository) ListByTicket(ctx context.Context, ticketID uint, includeInternal bool) ([]*ticket.Message, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID, includeInternal)
	}
	return nil, nil
}

func (m *mockMessageRepository) ListHandlerAuthoredIDs(ctx context.Context, ticketID uint) ([]uint, error) {
	if m.ListHandlerAuthoredIDsFunc != nil {
		return m.ListHandlerAuthoredIDsFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockAttachmentRepository struct {
	CreateBatchFunc      func(ctx context.Context, attachments []*ticket.Attachment) error
	ListByMessageIDsFunc func(ctx context.Context, messageIDs []uint) ([]*ticket.Attachment, error)
	ListByStorageKeyFunc func(ctx context.Context, key string) ([]*ticket.Attachment, error)
}

func (m *mockAttachmentRepository) CreateBatch(ctx context.Context, attachments []*ticket.Attachment) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, attachments)
	}
	return nil
}

func (m *mockAttachmentRepository) ListByMessageIDs(ctx context.Context, messageIDs []uint) ([]*ticket.Attachment, error) {
	if m.ListByMessageIDsFunc != nil {
		return m.ListByMessageIDsFunc(ctx, messageIDs)
	}
	return nil, nil
}

func (m *mockAttachmentRepository) ListByStorageKey(ctx context.Context, key string) ([]*ticket.Attachment, error) {
	if m.ListByStorageKeyFunc != nil {
		return m.ListByStorageKeyFunc(ctx, key)
	}
	return nil, nil
}

type mockReadMarkerRepository struct {
	MarkReadFunc     func(ctx context.Context, ticketID, userID uint, messageIDs []uint) error
	UnreadCountsFunc func(ctx context.Context, userID uint, ticketIDs []uint) (map[uint]int, error)
}

func (m *mockReadMarkerRepository) MarkRead(ctx context.Context, ticketID, userID uint, messageIDs []uint) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, ticketID, userID, messageIDs)
	}
	return nil
}

func (m *mockReadMarkerRepository) UnreadCounts(ctx context.Context, userID uint, ticketIDs []uint) (map[uint]int, error) {
	if m.UnreadCountsFunc != nil {
		return m.UnreadCountsFunc(ctx, userID, ticketIDs)
	}
	return map[uint]int{}, nil
}

type mockNumberGenerator struct {
	GenerateFunc func(ctx context.Context) (string, error)
}

func (m *mockNumberGenerator) Generate(ctx context.Context) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx)
	}
	return "TKT-ABCD2345", nil
}

// mockOracle treats handlers and admins as fixed sets and counts calls.
type mockOracle struct {
	handlers map[uint]bool
	admins   map[uint]bool
	viewers  map[uint]bool
	err      error

	mu         sync.Mutex
	handlerQs  int
	viewQs     int
	adminCalls int
}

func newMockOracle(handlerIDs ...uint) *mockOracle {
	m := &mockOracle{handlers: map[uint]bool{}, admins: map[uint]bool{}, viewers: map[uint]bool{}}
	for _, id := range handlerIDs {
		m.handlers[id] = true
	}
	return m
}

func (m *mockOracle) IsHandler(_ context.Context, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlerQs++
	return m.handlers[userID], m.err
}

func (m *mockOracle) AreHandlers(_ context.Context, userIDs ...uint) (map[uint]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlerQs++
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		out[id] = m.handlers[id]
	}
	return out, nil
}

func (m *mockOracle) IsAdmin(_ context.Context, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adminCalls++
	return m.admins[userID], m.err
}

func (m *mockOracle) CanViewTicket(_ context.Context, userID uint, _ *ticket.Ticket) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewQs++
	return m.viewers[userID], m.err
}

type mockDirectory struct {
	names map[uint]string
	err   error
	calls int
}

func (m *mockDirectory) DisplayNames(_ context.Context, userIDs []uint) (map[uint]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[uint]string, len(userIDs))
	for _, id := range userIDs {
		if n, ok := m.names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type mockStore struct {
	StoreFunc func(ctx context.Context, data []byte, filename, declaredMIME string) (ticket.StoredFile, error)
	blobs     map[string][]byte
}

func (m *mockStore) Store(ctx context.Context, data []byte, filename, declaredMIME string) (ticket.StoredFile, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, data, filename, declaredMIME)
	}
	key := fmt.Sprintf("key-%d", len(data))
	if m.blobs == nil {
		m.blobs = map[string][]byte{}
	}
	m.blobs[key] = data
	return ticket.StoredFile{
		Key:         key,
		ContentHash: fmt.Sprintf("hash-%d", len(data)),
		SizeBytes:   int64(len(data)),
		MIMEType:    "text/plain; charset=utf-8",
		Filename:    filename,
	}, nil
}

func (m *mockStore) ResolveURL(a *ticket.Attachment) string {
	return "/api/v1/attachments/" + a.StorageKey()
}

func (m *mockStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type mockDispatcher struct {
	mu     sync.Mutex
	events []ticket.Event
	err    error
}

func (m *mockDispatcher) Publish(_ context.Context, event ticket.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

func (m *mockDispatcher) types() []ticket.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ticket.EventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

type mockRenderer struct{}

func (mockRenderer) RenderHTML(body string, _ vo.BodyFormat) string {
	return "<p>" + body + "</p>"
}

func (mockRenderer) Preview(body string, _ vo.BodyFormat, limit int) string {
	r := []rune(body)
	if len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return body
}

// passThroughTx runs fn directly; commits is the number of successful runs.
type passThroughTx struct {
	commits int
}

func (p *passThroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	p.commits++
	return nil
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)           {}
func (m *mockLogger) Info(msg string, args ...any)            {}
func (m *mockLogger) Warn(msg string, args ...any)            {}
func (m *mockLogger) Error(msg string, args ...any)           {}
func (m *mockLogger) With(args ...any) logger.Interface       { return m }
func (m *mockLogger) Named(name string) logger.Interface      { return m }
func (m *mockLogger) Debugw(msg string, keysAndValues ...any) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...any)  {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...any)  {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...any) {}

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

// storedTicket rebuilds a persisted ticket in the given status.
func storedTicket(id, requesterID uint, status vo.TicketStatus) *ticket.Ticket {
	var resolvedAt *time.Time
	if status.IsSettled() {
		r := testNow.Add(-time.Hour)
		resolvedAt = &r
	}
	last := id * 10
	t, err := ticket.ReconstructTicket(
		id, fmt.Sprintf("TKT-%08d", id), vo.KindSupport, requesterID,
		"Cannot submit quiz", "The submit button does nothing", vo.DefaultCategory,
		status, vo.PriorityNormal, nil, &last, 3,
		testNow.Add(-48*time.Hour), testNow.Add(-2*time.Hour), resolvedAt,
	)
	if err != nil {
		panic(err)
	}
	return t
}

func storedMessage(id, ticketID, authorID uint, handler bool, visibility vo.Visibility) *ticket.Message {
	m, err := ticket.ReconstructMessage(id, ticketID, authorID, fmt.Sprintf("message %d", id),
		vo.FormatPlain, handler, visibility, false, testNow.Add(time.Duration(id)*time.Minute))
	if err != nil {
		panic(err)
	}
	return m
}

func ticketRepoWith(t *ticket.Ticket) *mockTicketRepository {
	return &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			if id != t.ID() {
				return nil, ticket.ErrTicketNotFound
			}
			return t, nil
		},
	}
}
