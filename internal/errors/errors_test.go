package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		code   ErrorCode
		status int
	}{
		{"not found", NotFound("Post"), ErrNotFound, http.StatusNotFound},
		{"unauthorized", Unauthorized("no token"), ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("nope"), ErrForbidden, http.StatusForbidden},
		{"validation", ValidationError("email", "bad"), ErrValidation, http.StatusUnprocessableEntity},
		{"invalid param", InvalidParam("post_id", "bad uuid"), ErrValidation, http.StatusBadRequest},
		{"bad request", BadRequest("LOGIN_BAD_CREDENTIALS"), ErrBadRequest, http.StatusBadRequest},
		{"upload failed", UploadFailed("disk full"), ErrUploadFailed, http.StatusInternalServerError},
		{"upload rejected", UploadRejected(403), ErrUploadFailed, http.StatusBadGateway},
		{"internal", InternalError("boom"), ErrInternalError, http.StatusInternalServerError},
		{"too large", PayloadTooLarge(10), ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"rate limited", RateLimited(""), ErrRateLimited, http.StatusTooManyRequests},
		{"unavailable", ServiceUnavailable("redis"), ErrServiceUnavail, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Post not found", NotFound("Post").Message)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "FORBIDDEN: nope", Forbidden("nope").Error())
	assert.Equal(t, "VALIDATION_ERROR: bad (field: post_id)", InvalidParam("post_id", "bad").Error())
}

func TestJSONShape(t *testing.T) {
	data, err := json.Marshal(NotFound("Post"))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "Post not found", body["detail"])
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.NotContains(t, body, "field")
	assert.NotContains(t, body, "Status")
}

func TestUnknownCodeDefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, ErrorCode("MYSTERY").StatusCode())
}
