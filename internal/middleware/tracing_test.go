package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTracedRouter(recorder *tracetest.SpanRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(TracingMiddleware("socialsimple-test", otelgin.WithTracerProvider(tp))...)
	router.GET("/feed", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.JSON(http.StatusOK, gin.H{"posts": []string{}})
	})
	router.GET("/broken", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})
	return router
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestTracingMiddlewareAnnotatesSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	router := newTracedRouter(recorder)

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := spanAttrs(spans[0])
	assert.Equal(t, "req-123", attrs["request.id"].AsString())
	assert.Equal(t, "user-1", attrs["user.id"].AsString())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracingMiddlewareMarksServerErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	router := newTracedRouter(recorder)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	_, hasUser := spanAttrs(spans[0])["user.id"]
	assert.False(t, hasUser)
}
