package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialsimple/backend/internal/errors"
	"github.com/socialsimple/backend/internal/metrics"
	"github.com/socialsimple/backend/internal/util"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Window duration
	Window time.Duration
	// KeyFunc identifies the caller. Defaults to the client IP.
	KeyFunc func(c *gin.Context) string
}

// AuthRateLimitConfig returns limits for the /auth endpoints
func AuthRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = time.Minute
	}
	return RateLimitConfig{
		Limit:   limit,
		Window:  window,
		KeyFunc: clientIPKey,
	}
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

func (cfg RateLimitConfig) key(c *gin.Context) string {
	if cfg.KeyFunc != nil {
		return cfg.KeyFunc(c)
	}
	return clientIPKey(c)
}

// TokenBucket for rate limiting
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a request is allowed based on token availability
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(time.Now())
	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// GetRetryAfter returns seconds to wait before next request
func (tb *TokenBucket) GetRetryAfter() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.tokens < 1 {
		timeToToken := (1 - tb.tokens) / tb.refillRate
		return int(timeToToken) + 1
	}
	return 0
}

// idle reports whether the bucket is full again as of now.
func (tb *TokenBucket) idle(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	return tb.tokens >= tb.maxTokens
}

func (tb *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens = min(tb.maxTokens, tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now
}

// RateLimiter keeps one token bucket per caller key, in process memory
type RateLimiter struct {
	buckets   map[string]*TokenBucket
	config    RateLimitConfig
	mu        sync.Mutex
	nextSweep time.Time
}

// NewRateLimiter creates a limiter; use Middleware to mount it
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		buckets:   make(map[string]*TokenBucket),
		config:    config,
		nextSweep: time.Now().Add(config.Window),
	}
}

// Middleware rejects callers over the limit with 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.config.key(c)
		if !rl.Allow(key) {
			respondRateLimited(c, rl.config.Limit, rl.GetRetryAfter(key))
			return
		}
		c.Next()
	}
}

// Allow checks if a key is allowed to make a request
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	now := time.Now()
	if now.After(rl.nextSweep) {
		rl.sweep(now)
	}

	bucket, exists := rl.buckets[key]
	if !exists {
		refillRate := float64(rl.config.Limit) / rl.config.Window.Seconds()
		bucket = NewTokenBucket(float64(rl.config.Limit), refillRate)
		rl.buckets[key] = bucket
	}
	rl.mu.Unlock()

	return bucket.Allow()
}

// GetRetryAfter gets retry-after seconds for a key
func (rl *RateLimiter) GetRetryAfter(key string) int {
	rl.mu.Lock()
	bucket, exists := rl.buckets[key]
	rl.mu.Unlock()

	if !exists {
		return 1
	}
	return bucket.GetRetryAfter()
}

// sweep drops buckets that have fully refilled. Caller holds rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, bucket := range rl.buckets {
		if bucket.idle(now) {
			delete(rl.buckets, key)
		}
	}
	rl.nextSweep = now.Add(rl.config.Window)
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

func respondRateLimited(c *gin.Context, limit, retryAfter int) {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	metrics.RecordRateLimitExceeded(path, c.Request.Method)

	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", "0")
	util.RespondWithAPIError(c, errors.RateLimited(""))
	c.Abort()
}
