package contextkeys

// Custom type to avoid context key collisions.
type contextKey string

const (
	// RequestIDKey is the key under which middleware stores the request id
	// in the gin context.
	RequestIDKey = contextKey("request_id")

	// UserIDKey and UserRoleKey carry the authenticated principal set by the
	// auth middleware.
	UserIDKey   = contextKey("userID")
	UserRoleKey = contextKey("userRole")
)

// Gin's context is a string-keyed map; these are the stable string forms.
const (
	GinRequestID = "request_id"
	GinUserID    = "userID"
	GinUserRole  = "userRole"
)
