package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	AuthKey          = "authenticated"
	KeyUserID        = "user_id"
	KeyUsername      = "user_name"
	KeyIsAdmin       = "user_is_admin"
	KeyFromProtected = "from_protected"
)
