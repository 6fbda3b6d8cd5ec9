package middleware

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialsimple/backend/internal/cache"
	"github.com/socialsimple/backend/internal/errors"
	"github.com/socialsimple/backend/internal/logger"
	"github.com/socialsimple/backend/internal/util"
	"go.uber.org/zap"
)

// RedisRateLimitMiddleware creates a fixed-window rate limiter shared by every
// instance through Redis. With no client it falls back to an in-memory limiter.
func RedisRateLimitMiddleware(redisClient *cache.RedisClient, config RateLimitConfig) gin.HandlerFunc {
	if redisClient == nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiter",
			zap.Int("max_requests", config.Limit),
			zap.Duration("window", config.Window),
		)
		return NewRateLimiter(config).Middleware()
	}

	return func(c *gin.Context) {
		clientKey := config.key(c)
		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), clientKey)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Increment first so concurrent requests cannot all pass a stale read
		count, err := redisClient.IncrBy(ctx, key, 1)
		if err != nil {
			// Fail closed: a broken limiter must not open the auth endpoints
			logger.Log.Error("Rate limit increment failed - rejecting request",
				logger.WithIP(clientKey),
				zap.Error(err),
			)
			util.RespondWithAPIError(c, errors.ServiceUnavailable("rate limiter"))
			c.Abort()
			return
		}

		// Set expiration on first request in this window
		if count == 1 {
			if err := redisClient.Expire(ctx, key, config.Window); err != nil {
				logger.Log.Warn("Failed to set rate limit expiration",
					logger.WithIP(clientKey),
					zap.Error(err),
				)
			}
		}

		if count > int64(config.Limit) {
			logger.Log.Warn("Rate limit exceeded",
				logger.WithIP(clientKey),
				zap.Int("max_requests", config.Limit),
				zap.Int64("current_requests", count),
			)
			retryAfter := int(config.Window.Seconds())
			if ttl, err := redisClient.TTL(ctx, key); err == nil && ttl > 0 {
				retryAfter = int(math.Ceil(ttl.Seconds()))
			}
			respondRateLimited(c, config.Limit, retryAfter)
			return
		}

		c.Next()
	}
}
