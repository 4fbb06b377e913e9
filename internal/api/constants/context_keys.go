package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyProfile   = "profile"
	ContextKeyUserID    = "userID"
	ContextKeyRequestID = "RequestID"
)
