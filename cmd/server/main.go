package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialsimple/backend/internal/auth"
	"github.com/socialsimple/backend/internal/cache"
	"github.com/socialsimple/backend/internal/config"
	"github.com/socialsimple/backend/internal/database"
	"github.com/socialsimple/backend/internal/email"
	"github.com/socialsimple/backend/internal/kernel"
	"github.com/socialsimple/backend/internal/logger"
	"github.com/socialsimple/backend/internal/router"
	"github.com/socialsimple/backend/internal/storage"
	"github.com/socialsimple/backend/internal/telemetry"
	"github.com/socialsimple/backend/internal/validation"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Log.Info("=== socialsimple server starting ===",
		zap.String("environment", cfg.Environment),
		zap.String("media_provider", cfg.MediaProvider),
	)

	k, err := buildKernel(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize", zap.Error(err))
	}
	if err := k.Validate(); err != nil {
		logger.Log.Fatal("Kernel validation failed", zap.Error(err))
	}

	validator := validation.NewServiceValidator(serviceChecks(k), validation.ParseRequiredServices(cfg.RequiredServices))
	if err := validator.ValidateServices(context.Background()); err != nil {
		logger.Log.Fatal("Service validation failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(k, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info("socialsimple backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := k.Cleanup(ctx); err != nil {
		logger.Log.Warn("Cleanup finished with errors", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}

// buildKernel opens the database and constructs every collaborator named by cfg.
func buildKernel(cfg config.Config) (*kernel.Kernel, error) {
	ctx := context.Background()
	k := kernel.New().
		SetLogger(logger.Log).
		SetMaxUploadBytes(cfg.MaxUploadBytes)

	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Config{
		ServiceName:  cfg.OTelServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplingRate: cfg.OTelSamplingRate,
	})
	if err != nil {
		return nil, err
	}
	if cfg.OTLPEndpoint != "" {
		logger.Log.Info("Tracing enabled", zap.String("endpoint", cfg.OTLPEndpoint))
	}
	// Registered first so it runs last, after the database and redis close
	k.OnCleanup(func(ctx context.Context) error {
		return shutdownTracer(ctx)
	})

	db, err := database.Open(cfg.DatabaseURL, database.DefaultOptions())
	if err != nil {
		return nil, err
	}
	k.SetDB(db).OnCleanup(func(context.Context) error {
		return database.Close(db)
	})
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	store, err := newMediaStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	k.SetMediaStore(store)

	notifier, err := newNotifier(ctx, cfg)
	if err != nil {
		return nil, err
	}
	k.SetNotifier(notifier)

	var revoker auth.TokenRevoker
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Log.Warn("Redis unavailable - continuing without it", zap.Error(err))
		} else {
			k.SetCache(rc).OnCleanup(func(context.Context) error {
				return rc.Close()
			})
			revoker = rc
		}
	}

	k.SetAuthService(auth.NewService(k.Users(), []byte(cfg.JWTSecret), notifier, revoker, auth.Options{
		AccessTokenTTL: cfg.AccessTokenTTL,
		ResetTokenTTL:  cfg.ResetTokenTTL,
		VerifyTokenTTL: cfg.VerifyTokenTTL,
	}))

	return k, nil
}

// serviceChecks probes the external services behind k. Which failures are
// fatal is decided by REQUIRED_SERVICES.
func serviceChecks(k *kernel.Kernel) map[string]validation.Check {
	return map[string]validation.Check{
		"database": func(ctx context.Context) error {
			return database.Health(k.DB().WithContext(ctx))
		},
		"media": func(ctx context.Context) error {
			return k.MediaStore().CheckAccess(ctx)
		},
		"redis": func(ctx context.Context) error {
			rc := k.Cache()
			if rc == nil {
				return errors.New("REDIS_ADDR not configured")
			}
			return rc.Ping(ctx)
		},
	}
}

func newMediaStore(ctx context.Context, cfg config.Config) (storage.MediaStore, error) {
	if cfg.MediaProvider == config.MediaProviderCloudinary {
		return storage.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	}
	return storage.NewS3Store(ctx, cfg.AWSRegion, cfg.AWSBucket, cfg.CDNBaseURL, cfg.MediaPrefix)
}

func newNotifier(ctx context.Context, cfg config.Config) (email.Notifier, error) {
	if cfg.MailProvider == config.MailProviderSES {
		return email.NewSESNotifier(ctx, cfg.AWSRegion, cfg.MailFrom, cfg.MailFromName, cfg.PublicBaseURL)
	}
	return email.LogNotifier{}, nil
}
