package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialsimple/backend/internal/database"
	"github.com/socialsimple/backend/internal/logger"
	"go.uber.org/zap"
)

// Health reports database connectivity, and Redis when configured.
// GET /health
func (h *Handlers) Health(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}

	if err := database.Health(h.kernel.DB()); err != nil {
		logger.Log.Error("Health check: database unreachable", zap.Error(err))
		checks["database"] = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "healthy"
	}

	if rc := h.kernel.Cache(); rc != nil {
		if err := rc.Ping(c.Request.Context()); err != nil {
			logger.Log.Warn("Health check: redis unreachable", zap.Error(err))
			checks["redis"] = "unhealthy"
		} else {
			checks["redis"] = "healthy"
		}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
