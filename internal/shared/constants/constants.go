package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys set by the auth middleware.
	ContextKeyUserID    = "user_id"
	ContextKeySessionID = "session_id"

	// Casbin role names.
	RoleAdmin   = "admin"
	RoleHandler = "handler"
	RoleAuditor = "auditor"

	// Casbin object/action pairs.
	ResourceTicket = "ticket"
	ActionHandle   = "handle"
	ActionAdmin    = "administer"
	ActionView     = "view"

	ErrMsgInternalServerError = "Internal server error occurred"
)
