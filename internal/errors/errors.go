package errors

import (
	"fmt"
	"net/http"
)

// APIError is the error every handler converts to at the response boundary.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"detail"`
	Field   string    `json:"field,omitempty"`
	Status  int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newAPIError(code ErrorCode, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Status:  code.StatusCode(),
	}
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return newAPIError(ErrNotFound, fmt.Sprintf("%s not found", resource))
}

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *APIError {
	return newAPIError(ErrUnauthorized, message)
}

// Forbidden creates a FORBIDDEN error
func Forbidden(message string) *APIError {
	return newAPIError(ErrForbidden, message)
}

// ValidationError creates a VALIDATION_ERROR (422)
func ValidationError(field, message string) *APIError {
	e := newAPIError(ErrValidation, message)
	e.Field = field
	return e
}

// InvalidParam is a VALIDATION_ERROR for a malformed path or form value.
// It answers 400 rather than 422 since the request itself is unusable.
func InvalidParam(field, message string) *APIError {
	e := ValidationError(field, message)
	e.Status = http.StatusBadRequest
	return e
}

// BadRequest creates a BAD_REQUEST error. Auth flows use machine-readable
// messages such as LOGIN_BAD_CREDENTIALS here.
func BadRequest(message string) *APIError {
	return newAPIError(ErrBadRequest, message)
}

// UploadFailed wraps a failure while storing an upload.
func UploadFailed(message string) *APIError {
	return newAPIError(ErrUploadFailed, message)
}

// UploadRejected reports a media store that answered with a non-200 status.
func UploadRejected(providerStatus int) *APIError {
	e := newAPIError(ErrUploadFailed, fmt.Sprintf("media store rejected upload with status %d", providerStatus))
	e.Status = http.StatusBadGateway
	return e
}

// InternalError creates an INTERNAL_ERROR
func InternalError(message string) *APIError {
	return newAPIError(ErrInternalError, message)
}

// PayloadTooLarge creates a PAYLOAD_TOO_LARGE error
func PayloadTooLarge(limit int64) *APIError {
	return newAPIError(ErrPayloadTooLarge, fmt.Sprintf("upload exceeds the %d byte limit", limit))
}

// RateLimited creates a RATE_LIMITED error
func RateLimited(message string) *APIError {
	if message == "" {
		message = "rate limit exceeded"
	}
	return newAPIError(ErrRateLimited, message)
}

// ServiceUnavailable creates a SERVICE_UNAVAILABLE error
func ServiceUnavailable(service string) *APIError {
	return newAPIError(ErrServiceUnavail, fmt.Sprintf("%s is temporarily unavailable", service))
}
