// Package kernel holds the explicitly constructed dependencies of the backend:
// the database handle, media store, auth service and their optional helpers.
package kernel

import (
	"context"
	"sync"

	"github.com/socialsimple/backend/internal/auth"
	"github.com/socialsimple/backend/internal/cache"
	"github.com/socialsimple/backend/internal/email"
	"github.com/socialsimple/backend/internal/logger"
	"github.com/socialsimple/backend/internal/repository"
	"github.com/socialsimple/backend/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultMaxUploadBytes caps uploads when no limit is configured.
const DefaultMaxUploadBytes int64 = 100 << 20

// Kernel holds all application dependencies and provides type-safe access.
// Repositories are derived from the database handle when it is set.
type Kernel struct {
	// Core infrastructure
	db     *gorm.DB
	logger *zap.Logger
	cache  *cache.RedisClient

	// Data access
	posts repository.PostRepository
	users repository.UserRepository

	// Collaborators
	media    storage.MediaStore
	auth     *auth.Service
	notifier email.Notifier

	maxUploadBytes int64

	// Lifecycle hooks
	cleanupFuncs []func(context.Context) error
	mu           sync.RWMutex
}

// New creates a new empty kernel.
// Services should be registered using Set* methods.
func New() *Kernel {
	return &Kernel{
		maxUploadBytes: DefaultMaxUploadBytes,
		cleanupFuncs:   make([]func(context.Context) error, 0),
	}
}

// ============================================================================
// CORE INFRASTRUCTURE
// ============================================================================

// SetDB registers the database connection and builds the repositories on it
func (k *Kernel) SetDB(db *gorm.DB) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.db = db
	if db != nil {
		k.posts = repository.NewPostRepository(db)
		k.users = repository.NewUserRepository(db)
	} else {
		k.posts = nil
		k.users = nil
	}
	return k
}

// DB returns the database connection
func (k *Kernel) DB() *gorm.DB {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.db
}

// Posts returns the post repository
func (k *Kernel) Posts() repository.PostRepository {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.posts
}

// Users returns the user repository
func (k *Kernel) Users() repository.UserRepository {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.users
}

// SetLogger registers the logger
func (k *Kernel) SetLogger(l *zap.Logger) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.logger = l
	return k
}

// Logger returns the logger instance
func (k *Kernel) Logger() *zap.Logger {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.logger == nil {
		return logger.Log
	}
	return k.logger
}

// SetCache registers the Redis cache client
func (k *Kernel) SetCache(client *cache.RedisClient) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cache = client
	return k
}

// Cache returns the Redis cache client, nil when Redis is not configured
func (k *Kernel) Cache() *cache.RedisClient {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.cache
}

// ============================================================================
// COLLABORATORS
// ============================================================================

// SetMediaStore registers the media CDN backend
func (k *Kernel) SetMediaStore(store storage.MediaStore) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.media = store
	return k
}

// MediaStore returns the media CDN backend
func (k *Kernel) MediaStore() storage.MediaStore {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.media
}

// SetAuthService registers the authentication service
func (k *Kernel) SetAuthService(service *auth.Service) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.auth = service
	return k
}

// Auth returns the authentication service
func (k *Kernel) Auth() *auth.Service {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.auth
}

// SetNotifier registers the mail notifier
func (k *Kernel) SetNotifier(n email.Notifier) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.notifier = n
	return k
}

// Notifier returns the mail notifier, falling back to logging tokens
func (k *Kernel) Notifier() email.Notifier {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.notifier == nil {
		return email.LogNotifier{}
	}
	return k.notifier
}

// SetMaxUploadBytes sets the upload size limit. Non-positive values restore the default.
func (k *Kernel) SetMaxUploadBytes(n int64) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	if n <= 0 {
		n = DefaultMaxUploadBytes
	}
	k.maxUploadBytes = n
	return k
}

// MaxUploadBytes returns the upload size limit
func (k *Kernel) MaxUploadBytes() int64 {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.maxUploadBytes
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// OnCleanup registers a cleanup function to be called during shutdown.
// Cleanup functions are called in LIFO order (last registered, first cleaned up).
func (k *Kernel) OnCleanup(fn func(context.Context) error) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cleanupFuncs = append(k.cleanupFuncs, fn)
	return k
}

// Cleanup runs every registered cleanup function in reverse order. Failures
// are logged and do not stop the remaining functions; the first one is returned.
func (k *Kernel) Cleanup(ctx context.Context) error {
	k.mu.Lock()
	funcs := k.cleanupFuncs
	k.cleanupFuncs = nil
	k.mu.Unlock()

	var first error
	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](ctx); err != nil {
			k.Logger().Error("Cleanup function failed", zap.Int("index", i), zap.Error(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Validate checks that all required dependencies are registered.
// This should be called after initialization and before starting the server.
func (k *Kernel) Validate() error {
	k.mu.RLock()
	defer k.mu.RUnlock()

	missingDeps := []string{}

	if k.db == nil {
		missingDeps = append(missingDeps, "database (DB)")
	}
	if k.media == nil {
		missingDeps = append(missingDeps, "media store")
	}
	if k.auth == nil {
		missingDeps = append(missingDeps, "auth service")
	}

	if len(missingDeps) > 0 {
		return NewInitializationError("Missing required dependencies", missingDeps)
	}

	if k.cache == nil {
		k.loggerLocked().Warn("Redis not configured: rate limits are per-process and logout does not revoke tokens")
	}
	return nil
}

func (k *Kernel) loggerLocked() *zap.Logger {
	if k.logger == nil {
		return logger.Log
	}
	return k.logger
}
