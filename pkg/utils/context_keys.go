package utils

// Keys under which middleware stores per-request values in the gin context.
const (
	RequestIDKey   = "requestID"
	RoleContextKey = "roleContext"
)
