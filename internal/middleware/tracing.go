package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware returns the otelgin span middleware followed by a handler
// that annotates the open span with the request ID, the authenticated user and
// server errors.
func TracingMiddleware(serviceName string, opts ...otelgin.Option) []gin.HandlerFunc {
	return []gin.HandlerFunc{otelgin.Middleware(serviceName, opts...), spanAttributes}
}

func spanAttributes(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		c.Next()
		return
	}

	if requestID := c.GetString("request_id"); requestID != "" {
		span.SetAttributes(attribute.String("request.id", requestID))
	}

	c.Next()

	// user_id is set by the auth middleware further down the chain
	if userID := c.GetString("user_id"); userID != "" {
		span.SetAttributes(attribute.String("user.id", userID))
	}
	for _, ginErr := range c.Errors {
		span.RecordError(ginErr.Err)
	}
	if status := c.Writer.Status(); status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
