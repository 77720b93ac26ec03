package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/campusdesk/campusdesk/internal/interfaces/http/handlers/ticket"
	"github.com/campusdesk/campusdesk/internal/interfaces/http/middleware"
)

// TicketRouteConfig carries the handlers and middlewares the ticket routes need.
// RateLimiter is optional.
type TicketRouteConfig struct {
	TicketHandler  *tickethandlers.TicketHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

// SetupTicketRoutes registers the ticket and attachment endpoints on api.
// Permission checks happen in the use cases, so every route only requires
// an authenticated caller.
func SetupTicketRoutes(api *gin.RouterGroup, config *TicketRouteConfig) {
	h := config.TicketHandler
	write := writeChain(config.RateLimiter)

	tickets := api.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		// IMPORTANT: Register specific paths BEFORE parameterized paths to avoid route conflicts
		tickets.POST("", append(write, h.CreateTicket)...)
		tickets.GET("", h.ListQueue)
		tickets.GET("/mine", h.ListMine)

		tickets.POST("/:id/replies", append(write, h.Reply)...)
		tickets.PATCH("/:id/status", append(write, h.UpdateStatus)...)
		tickets.PUT("/:id/assignee", append(write, h.AssignTicket)...)
		tickets.POST("/:id/read", h.MarkRead)

		// Generic parameterized routes (must come LAST)
		tickets.GET("/:id", h.GetTicket)
		tickets.DELETE("/:id", append(write, h.DeleteTicket)...)
	}

	attachments := api.Group("/attachments")
	attachments.Use(config.AuthMiddleware.RequireAuth())
	{
		attachments.GET("/:key", h.DownloadAttachment)
	}
}

// writeChain returns the middlewares placed in front of mutating endpoints.
// The slice is always full, so append never shares its backing array.
func writeChain(limiter *middleware.RateLimiter) []gin.HandlerFunc {
	if limiter == nil {
		return nil
	}
	return []gin.HandlerFunc{limiter.Limit()}
}
