package constants

const (
	// Session and context keys
	SessionCookieName    = "crewdesk_session"
	ContextKeyUserID     = "user_id"
	ContextKeyTenantID   = "tenant_id"
	ContextKeyActor      = "actor"
	ContextKeyRequestID  = "request_id"
	HeaderRequestID      = "X-Request-ID"
	SessionMaxAgeSeconds = 86400 * 7

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Limits
	MaxDistilledSteps = 50
	MaxImportBytes    = 5 << 20
	MinPasswordLength = 1
)
