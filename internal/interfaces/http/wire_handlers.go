package http

import (
	"github.com/campusdesk/campusdesk/internal/interfaces/http/handlers"
	ticketHandlers "github.com/campusdesk/campusdesk/internal/interfaces/http/handlers/ticket"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler *handlers.HealthHandler
	ticketHandler *ticketHandlers.TicketHandler
}

// ============================================================
// Section 3: Handlers
// ============================================================

func (c *Container) initHandlers() {
	ucs := c.ucs

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(c.db, c.redis, c.readTracking),
		ticketHandler: ticketHandlers.NewTicketHandler(
			ucs.createTicketUC,
			ucs.listForOwnerUC,
			ucs.listForHandlerUC,
			ucs.getDetailUC,
			ucs.replyUC,
			ucs.updateStatusUC,
			ucs.assignTicketUC,
			ucs.markReadUC,
			ucs.deleteTicketUC,
			ucs.openAttachmentUC,
			c.cfg.Storage.MaxFileBytes,
			c.log.Named("ticket_handler"),
		),
	}
}
