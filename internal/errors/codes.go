package errors

import "net/http"

// ErrorCode represents the type of error
type ErrorCode string

const (
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrForbidden       ErrorCode = "FORBIDDEN"
	ErrValidation      ErrorCode = "VALIDATION_ERROR"
	ErrBadRequest      ErrorCode = "BAD_REQUEST"
	ErrUploadFailed    ErrorCode = "UPLOAD_FAILED"
	ErrInternalError   ErrorCode = "INTERNAL_ERROR"
	ErrPayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrRateLimited     ErrorCode = "RATE_LIMITED"
	ErrServiceUnavail  ErrorCode = "SERVICE_UNAVAILABLE"
)

// StatusCodeMap maps ErrorCode to its default HTTP status code
var StatusCodeMap = map[ErrorCode]int{
	ErrNotFound:        http.StatusNotFound,
	ErrUnauthorized:    http.StatusUnauthorized,
	ErrForbidden:       http.StatusForbidden,
	ErrValidation:      http.StatusUnprocessableEntity,
	ErrBadRequest:      http.StatusBadRequest,
	ErrUploadFailed:    http.StatusInternalServerError,
	ErrInternalError:   http.StatusInternalServerError,
	ErrPayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrRateLimited:     http.StatusTooManyRequests,
	ErrServiceUnavail:  http.StatusServiceUnavailable,
}

// StatusCode returns the HTTP status code for this error code
func (e ErrorCode) StatusCode() int {
	if code, ok := StatusCodeMap[e]; ok {
		return code
	}
	return http.StatusInternalServerError
}
