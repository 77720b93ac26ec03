package usecases

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	apperrors "github.com/campusdesk/campusdesk/internal/shared/errors"
)

func newOpenAttachmentFixture(visibility vo.Visibility) *OpenAttachmentUseCase {
	tk := storedTicket(5, requesterID, vo.StatusOpen)
	msg := storedMessage(4, 5, handlerID, true, visibility)
	store := &mockStore{blobs: map[string][]byte{"ab/abc": []byte("hello")}}
	attachments := &mockAttachmentRepository{
		ListByStorageKeyFunc: func(ctx context.Context, key string) ([]*ticket.Attachment, error) {
			if key != "ab/abc" {
				return nil, nil
			}
			a := ticket.ReconstructAttachment(9, 4, 5, "hello.txt", "text/plain", 5, "abc", key, testNow)
			return []*ticket.Attachment{a}, nil
		},
	}
	messages := &mockMessageRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Message, error) {
			return msg, nil
		},
	}
	return NewOpenAttachmentUseCase(ticketRepoWith(tk), messages, attachments, newMockOracle(handlerID), store, &mockLogger{})
}

func TestOpenAttachmentUseCase_Execute(t *testing.T) {
	uc := newOpenAttachmentFixture(vo.VisibilityPublic)

	result, err := uc.Execute(context.Background(), OpenAttachmentQuery{StorageKey: "ab/abc", CallerID: requesterID})

	require.NoError(t, err)
	defer result.Content.Close()
	body, err := io.ReadAll(result.Content)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "hello.txt", result.Filename)
}

func TestOpenAttachmentUseCase_Visibility(t *testing.T) {
	tests := []struct {
		name       string
		visibility vo.Visibility
		key        string
		caller     uint
		allowed    bool
	}{
		{"stranger", vo.VisibilityPublic, "ab/abc", strangerID, false},
		{"requester on internal note", vo.VisibilityInternal, "ab/abc", requesterID, false},
		{"handler on internal note", vo.VisibilityInternal, "ab/abc", handlerID, true},
		{"unknown key", vo.VisibilityPublic, "zz/zzz", handlerID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newOpenAttachmentFixture(tt.visibility)

			result, err := uc.Execute(context.Background(), OpenAttachmentQuery{StorageKey: tt.key, CallerID: tt.caller})

			if tt.allowed {
				require.NoError(t, err)
				result.Content.Close()
				return
			}
			assert.True(t, apperrors.IsForbiddenError(err))
		})
	}
}
