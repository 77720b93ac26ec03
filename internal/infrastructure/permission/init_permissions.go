package permission

import (
	"fmt"

	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// ticketPolicies are the role grants the ticket workflow asks about.
// Admins can also work the queue.
var ticketPolicies = [][]string{
	{constants.RoleHandler, constants.ResourceTicket, constants.ActionHandle},
	{constants.RoleAdmin, constants.ResourceTicket, constants.ActionHandle},
	{constants.RoleAdmin, constants.ResourceTicket, constants.ActionAdmin},
	{constants.RoleAuditor, constants.ResourceTicket, constants.ActionView},
}

// InitTicketPermissions makes sure the ticket role grants exist.
func InitTicketPermissions(e *Enforcer, log logger.Interface) error {
	if err := e.AddPolicies(ticketPolicies); err != nil {
		return fmt.Errorf("failed to initialize ticket permissions: %w", err)
	}

	log.Info("ticket permissions initialized successfully")
	return nil
}

// KnownRole reports whether role is one the ticket policies grant.
func KnownRole(role string) bool {
	for _, p := range ticketPolicies {
		if p[0] == role {
			return true
		}
	}
	return false
}
