package permission

import (
	"context"
	"slices"
	"strconv"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/shared/constants"
)

// TicketOracle answers the workflow's role questions from casbin.
type TicketOracle struct {
	enforcer *Enforcer
}

func NewTicketOracle(enforcer *Enforcer) *TicketOracle {
	return &TicketOracle{enforcer: enforcer}
}

func (o *TicketOracle) IsHandler(ctx context.Context, userID uint) (bool, error) {
	return o.check(ctx, userID, constants.ActionHandle)
}

func (o *TicketOracle) AreHandlers(ctx context.Context, userIDs ...uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		ok, err := o.check(ctx, id, constants.ActionHandle)
		if err != nil {
			return nil, err
		}
		out[id] = ok
	}
	return out, nil
}

func (o *TicketOracle) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	return o.check(ctx, userID, constants.ActionAdmin)
}

// CanViewTicket admits the current assignee and holders of the view grant.
func (o *TicketOracle) CanViewTicket(ctx context.Context, userID uint, t *ticket.Ticket) (bool, error) {
	if t.IsAssignedTo(userID) {
		return true, nil
	}
	return o.check(ctx, userID, constants.ActionView)
}

// HandlerIDs lists everyone who works the queue, for group notifications.
func (o *TicketOracle) HandlerIDs(ctx context.Context) ([]uint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{})
	var ids []uint
	for _, role := range []string{constants.RoleHandler, constants.RoleAdmin} {
		subjects, err := o.enforcer.GetUsersForRole(role)
		if err != nil {
			return nil, err
		}
		for _, s := range subjects {
			id, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				continue
			}
			if _, dup := seen[uint(id)]; dup {
				continue
			}
			seen[uint(id)] = struct{}{}
			ids = append(ids, uint(id))
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (o *TicketOracle) check(ctx context.Context, userID uint, action string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if userID == 0 {
		return false, nil
	}
	return o.enforcer.Enforce(Subject(userID), constants.ResourceTicket, action)
}

// Subject is the casbin subject for a user id.
func Subject(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
