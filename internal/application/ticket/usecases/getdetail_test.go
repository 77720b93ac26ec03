package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	apperrors "github.com/campusdesk/campusdesk/internal/shared/errors"
)

type detailFixture struct {
	messages    *mockMessageRepository
	attachments *mockAttachmentRepository
	reads       *mockReadMarkerRepository
	oracle      *mockOracle
	directory   *mockDirectory
	marked      []uint
	uc          *GetTicketDetailUseCase
}

func newDetailFixture(cfg WorkflowConfig) *detailFixture {
	tk := storedTicket(5, requesterID, vo.StatusInProgress)
	thread := []*ticket.Message{
		storedMessage(1, 5, requesterID, false, vo.VisibilityPublic),
		storedMessage(2, 5, handlerID, true, vo.VisibilityPublic),
		storedMessage(3, 5, handlerID, true, vo.VisibilityInternal),
	}
	withFile, _ := ticket.ReconstructMessage(4, 5, handlerID, "see attached", vo.FormatMarkdown, true,
		vo.VisibilityPublic, true, testNow.Add(5*time.Minute))
	thread = append(thread, withFile)

	f := &detailFixture{
		oracle:    newMockOracle(handlerID),
		directory: &mockDirectory{names: map[uint]string{requesterID: "Ada", handlerID: "Grace"}},
	}
	f.messages = &mockMessageRepository{
		ListByTicketFunc: func(ctx context.Context, ticketID uint, includeInternal bool) ([]*ticket.Message, error) {
			var out []*ticket.Message
			for _, m := range thread {
				if includeInternal || !m.Visibility().IsInternal() {
					out = append(out, m)
				}
			}
			return out, nil
		},
	}
	f.attachments = &mockAttachmentRepository{
		ListByMessageIDsFunc: func(ctx context.Context, ids []uint) ([]*ticket.Attachment, error) {
			a := ticket.ReconstructAttachment(9, 4, 5, "log.txt", "text/plain", 2048, "abc", "ab/abc", testNow)
			return []*ticket.Attachment{a}, nil
		},
	}
	f.reads = &mockReadMarkerRepository{
		MarkReadFunc: func(ctx context.Context, ticketID, userID uint, ids []uint) error {
			f.marked = append(f.marked, ids...)
			return nil
		},
	}
	f.uc = NewGetTicketDetailUseCase(ticketRepoWith(tk), f.messages, f.attachments, f.reads, f.oracle,
		f.directory, &mockStore{}, mockRenderer{}, cfg, &mockLogger{})
	return f
}

func TestGetTicketDetailUseCase_RequesterView(t *testing.T) {
	f := newDetailFixture(WorkflowConfig{ReadTracking: true})

	detail, err := f.uc.Execute(context.Background(), GetTicketDetailQuery{TicketID: 5, CallerID: requesterID})

	require.NoError(t, err)
	assert.Equal(t, "Ada", detail.RequesterName)
	require.Len(t, detail.Messages, 3)
	for _, m := range detail.Messages {
		assert.Equal(t, "public", m.Visibility)
	}
	assert.Equal(t, "Grace", detail.Messages[1].AuthorName)
	assert.Equal(t, "<p>message 2</p>", detail.Messages[1].BodyHTML)

	last := detail.Messages[2]
	require.Len(t, last.Attachments, 1)
	assert.Equal(t, "log.txt", last.Attachments[0].Filename)
	assert.Equal(t, "2.0 KiB", last.Attachments[0].Size)
	assert.Equal(t, "/api/v1/attachments/ab/abc", last.Attachments[0].URL)

	assert.Equal(t, []uint{2, 4}, f.marked)
	assert.Equal(t, 1, f.directory.calls)
}

func TestGetTicketDetailUseCase_HandlerSeesInternalNotes(t *testing.T) {
	f := newDetailFixture(WorkflowConfig{ReadTracking: true})

	detail, err := f.uc.Execute(context.Background(), GetTicketDetailQuery{TicketID: 5, CallerID: handlerID})

	require.NoError(t, err)
	assert.Len(t, detail.Messages, 4)
	assert.Empty(t, f.marked)
}

func TestGetTicketDetailUseCase_MarkReadFailureIsSwallowed(t *testing.T) {
	f := newDetailFixture(WorkflowConfig{ReadTracking: true})
	f.reads.MarkReadFunc = func(ctx context.Context, ticketID, userID uint, ids []uint) error {
		return errors.New("table missing")
	}

	detail, err := f.uc.Execute(context.Background(), GetTicketDetailQuery{TicketID: 5, CallerID: requesterID})

	require.NoError(t, err)
	assert.NotNil(t, detail)
}

func TestGetTicketDetailUseCase_Access(t *testing.T) {
	t.Run("stranger", func(t *testing.T) {
		f := newDetailFixture(WorkflowConfig{})
		_, err := f.uc.Execute(context.Background(), GetTicketDetailQuery{TicketID: 5, CallerID: strangerID})
		assert.True(t, apperrors.IsForbiddenError(err))
		assert.Equal(t, "permission denied", apperrors.GetAppError(err).Message)
	})

	t.Run("oracle failure is upstream", func(t *testing.T) {
		f := newDetailFixture(WorkflowConfig{})
		f.oracle.err = errors.New("directory down")
		_, err := f.uc.Execute(context.Background(), GetTicketDetailQuery{TicketID: 5, CallerID: requesterID})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUpstream, apperrors.GetAppError(err).Type)
	})

	t.Run("directory failure leaves names empty", func(t *testing.T) {
		f := newDetailFixture(WorkflowConfig{})
		f.directory.err = errors.New("timeout")
		detail, err := f.uc.Execute(context.Background(), GetTicketDetailQuery{TicketID: 5, CallerID: requesterID})
		require.NoError(t, err)
		assert.Empty(t, detail.RequesterName)
	})
}
