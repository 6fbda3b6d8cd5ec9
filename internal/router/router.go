// Package router assembles the gin engine: global middleware, the auth and
// user groups, and the post routes.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/socialsimple/backend/internal/auth"
	"github.com/socialsimple/backend/internal/config"
	"github.com/socialsimple/backend/internal/handlers"
	"github.com/socialsimple/backend/internal/kernel"
	"github.com/socialsimple/backend/internal/metrics"
	"github.com/socialsimple/backend/internal/middleware"
)

// New builds the HTTP engine for k. The kernel must pass Validate.
func New(k *kernel.Kernel, cfg config.Config) *gin.Engine {
	metrics.Initialize()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.TracingMiddleware(cfg.OTelServiceName)...)
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	origins := cfg.AllowedOrigins()
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "Retry-After"}
	r.Use(cors.New(corsConfig))

	// Media bodies are already compressed
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/upload", "/metrics"})))

	h := handlers.NewHandlers(k)
	authMiddleware := k.Auth().Middleware()

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RedisRateLimitMiddleware(k.Cache(), middleware.AuthRateLimitConfig(cfg.AuthRateLimit, cfg.AuthRateWindow)))
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/jwt/login", h.Login)
		authGroup.POST("/jwt/logout", authMiddleware, h.Logout)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password", h.ResetPassword)
		authGroup.POST("/request-verify-token", h.RequestVerifyToken)
		authGroup.POST("/verify", h.Verify)
	}

	users := r.Group("/users")
	users.Use(authMiddleware)
	{
		users.GET("/me", h.GetMe)
		users.PATCH("/me", h.UpdateMe)

		admin := users.Group("", auth.RequireSuperuser())
		admin.GET("/:id", h.GetUser)
		admin.PATCH("/:id", h.UpdateUser)
		admin.DELETE("/:id", h.DeleteUser)
	}

	api := r.Group("")
	api.Use(authMiddleware)
	{
		api.POST("/upload", h.Upload)
		api.GET("/feed", h.GetFeed)
		api.DELETE("/posts/:post_id", h.DeletePost)
	}

	return r
}
