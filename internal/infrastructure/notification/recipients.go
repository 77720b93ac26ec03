package notification

import (
	"context"
	"slices"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
)

// HandlerLister resolves the handlers audience.
type HandlerLister interface {
	HandlerIDs(ctx context.Context) ([]uint, error)
}

// expandRecipients merges the named recipients with the audience and drops
// the actor, who never needs to hear about their own change.
func expandRecipients(ctx context.Context, event ticket.Event, handlers HandlerLister) ([]uint, error) {
	ids := slices.Clone(event.Recipients)
	if event.Audience == ticket.AudienceHandlers && handlers != nil {
		group, err := handlers.HandlerIDs(ctx)
		if err != nil {
			return nil, err
		}
		ids = append(ids, group...)
	}

	slices.Sort(ids)
	ids = slices.Compact(ids)
	return slices.DeleteFunc(ids, func(id uint) bool {
		return id == event.ActorID || id == 0
	}), nil
}
