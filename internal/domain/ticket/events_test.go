package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
)

func TestNewReplyAddedEvent_Recipients(t *testing.T) {
	tk := persistedTicket(t, vo.StatusOpen)
	assignee := uint(30)
	tk.Assign(&assignee)

	handlerReply := reply(t, tk, handlerID, true, vo.VisibilityPublic)
	e := NewReplyAddedEvent(tk, handlerReply)
	assert.Equal(t, EventReplyAdded, e.Type)
	assert.Equal(t, []uint{requesterID}, e.Recipients)
	assert.Equal(t, AudienceNone, e.Audience)

	note := reply(t, tk, handlerID, true, vo.VisibilityInternal)
	e = NewReplyAddedEvent(tk, note)
	assert.Equal(t, AudienceHandlers, e.Audience)
	assert.Equal(t, []uint{assignee}, e.Recipients)

	requesterReply := reply(t, tk, requesterID, false, vo.VisibilityPublic)
	e = NewReplyAddedEvent(tk, requesterReply)
	assert.Equal(t, AudienceHandlers, e.Audience)
	assert.Equal(t, tk.Number(), e.TicketNumber)
}

func TestNewAssignedEvent(t *testing.T) {
	tk := persistedTicket(t, vo.StatusOpen)
	self := handlerID
	tk.Assign(&self)

	e := NewAssignedEvent(tk, handlerID)
	assert.Empty(t, e.Recipients, "self-assignment notifies nobody")
	assert.Equal(t, &self, e.AssigneeID)
}
