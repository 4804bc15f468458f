package dto

import "net/http"

// Error kinds mirrored from the domain error taxonomy. The transport layer
// maps kinds, not individual codes, onto HTTP statuses; codes stay
// domain-specific and pass through to the client untouched.
const (
	KindValidation    = "VALIDATION"
	KindNotFound      = "NOT_FOUND"
	KindAuthorization = "AUTHORIZATION"
	KindStateConflict = "STATE_CONFLICT"
	KindDependency    = "DEPENDENCY"
	KindConflict      = "CONFLICT"
)

// Transport-level error codes produced by the HTTP layer itself, not by
// the domain.
const (
	// CodeInvalidRequest is used when request binding or validation fails
	CodeInvalidRequest = "INVALID_REQUEST"
	// CodeUnauthorized is used when authentication is required but missing or invalid
	CodeUnauthorized = "UNAUTHORIZED"
	// CodeTokenExpired is used when the access token has expired
	CodeTokenExpired = "TOKEN_EXPIRED"
	// CodeTokenInvalid is used when the access token cannot be parsed or verified
	CodeTokenInvalid = "TOKEN_INVALID"
	// CodeTokenRevoked is used when the access token has been revoked
	CodeTokenRevoked = "TOKEN_REVOKED"
	// CodeRateLimited is used when the caller exceeds the request rate limit
	CodeRateLimited = "RATE_LIMIT_EXCEEDED"
	// CodeRequestTooLarge is used when the request body exceeds the size limit
	CodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// CodeInternal is used for unexpected server-side failures
	CodeInternal = "INTERNAL_ERROR"
)

// kindHTTPStatus maps domain error kinds to HTTP status codes.
var kindHTTPStatus = map[string]int{
	KindValidation:    http.StatusBadRequest,
	KindNotFound:      http.StatusNotFound,
	KindAuthorization: http.StatusForbidden,
	KindStateConflict: http.StatusConflict,
	KindDependency:    http.StatusUnprocessableEntity,
	KindConflict:      http.StatusConflict,
}

// KindHTTPStatus returns the HTTP status code for a domain error kind.
// Unknown kinds map to 500 Internal Server Error.
func KindHTTPStatus(kind string) int {
	if status, ok := kindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
