package constants

// gin context keys
const (
	DbField        = "_lingsync_db"
	RequestIDField = "_lingsync_request_id"
)

const (
	// HeaderRequestID is echoed back on every response
	HeaderRequestID = "X-Request-ID"

	ENV_APP_ENV = "APP_ENV"
)

// activity log actions
const (
	ActionUserCreated = "User created"
	ActionUserUpdated = "User updated"
	ActionUserDeleted = "User deleted"
)
