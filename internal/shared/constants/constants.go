package constants

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
	HeaderCSRFToken     = "X-CSRF-Token"

	// CookieCSRFToken is readable by scripts so they can echo it back in
	// HeaderCSRFToken.
	CookieCSRFToken = "csrf_token"

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"

	// Context keys set by the auth middleware.
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyToken     = "auth_token"
	ContextKeyRequestID = "request_id"

	// RateLimitMaxEntriesPerKey caps how many timestamps the rate limiter
	// keeps for one key, which makes it the largest rule max it can enforce.
	RateLimitMaxEntriesPerKey = 100

	// Rate limiter actions.
	ActionLogin      = "login"
	ActionFileUpload = "file_upload"
	ActionAPI        = "api"

	TableUsers       = "users"
	TableDepartments = "departments"
	TableTickets     = "tickets"
	TableNotes       = "ticket_notes"
	TableAttachments = "ticket_attachments"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Authentication required"
	ErrMsgForbidden           = "Access denied"
)
