package core

// Error codes
const (
	ErrPositionNotFound  = "POSITION_NOT_FOUND"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidFEN        = "INVALID_FEN"
	ErrInvalidCoordinate = "INVALID_COORDINATE"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrRouteNotFound     = "ROUTE_NOT_FOUND"
)
