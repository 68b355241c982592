package values

// Response statuses. util.StatusCode maps each of these to an HTTP code.
const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	SystemErr      = "system-error"
	BadRequestBody = "bad-request-body"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	Conflict       = "conflict"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorised"
	TokenExpired   = "token-expired"
	TooManyRequest = "too-many-requests"
	Unavailable    = "service-unavailable"
)

const (
	HeaderRequestSource = "X-Request-Source"
	HeaderRequestID     = "X-Request-ID"

	// DefaultRequestSource is assumed when a browser omits X-Request-Source.
	DefaultRequestSource = "web"
)

type contextKey string

const (
	ContextTracingKey contextKey = "tracing"
	ContextUserKey    contextKey = "user"
)

// TokenCookie carries the access token for browser sessions.
const TokenCookie = "love_map_token"
