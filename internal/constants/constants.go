package constants

const (
	// Pagination
	MinPageSize     = 1
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyIdentity  = "identity"
	ContextKeyRequestID = "request_id"

	// Authentication
	BcryptCost        = 12
	MinPasswordLength = 6
	BearerPrefix      = "Bearer "

	HeaderRequestID = "X-Request-ID"

	EnvProduction = "production"
)
