package http

import (
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/campusdesk/campusdesk/internal/interfaces/http/middleware"
	"github.com/campusdesk/campusdesk/internal/interfaces/http/routes"

	_ "github.com/campusdesk/campusdesk/docs"
)

// multipartMemory is how much of a multipart body gin keeps in memory
// before spilling uploads to temporary files.
const multipartMemory = 8 << 20

// setupRoutes installs global middlewares and registers every route group.
func (c *Container) setupRoutes() {
	r := c.engine
	r.MaxMultipartMemory = multipartMemory

	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(c.log.Named("http")))
	r.Use(middleware.Recovery(c.log))
	r.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	r.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.SecurityHeaders())

	routes.SetupTicketRoutes(api, &routes.TicketRouteConfig{
		TicketHandler:  c.hdlrs.ticketHandler,
		AuthMiddleware: c.authMiddleware,
		RateLimiter:    c.rateLimiter,
	})
}
