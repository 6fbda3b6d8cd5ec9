package kernel

import (
	"github.com/socialsimple/backend/internal/auth"
	"github.com/socialsimple/backend/internal/cache"
	"github.com/socialsimple/backend/internal/email"
	"github.com/socialsimple/backend/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockJWTSecret signs tokens issued by mock kernels.
const MockJWTSecret = "test-secret"

// MockKernel is a kernel designed for testing. It runs the real auth service
// on the given database with cheap hashing, and an in-memory media store.
type MockKernel struct {
	*Kernel
	Store *storage.MockMediaStore
}

// NewMock creates a mock kernel on db
func NewMock(db *gorm.DB) *MockKernel {
	m := &MockKernel{
		Kernel: New(),
		Store:  storage.NewMockMediaStore(),
	}
	m.SetDB(db)
	m.SetLogger(zap.NewNop())
	m.SetMediaStore(m.Store)
	m.rebuildAuth()
	return m
}

// WithMockCache sets a cache and makes it the auth service's token revoker
func (m *MockKernel) WithMockCache(c *cache.RedisClient) *MockKernel {
	m.SetCache(c)
	m.rebuildAuth()
	return m
}

// WithMockNotifier swaps the mail notifier used by the auth service
func (m *MockKernel) WithMockNotifier(n email.Notifier) *MockKernel {
	m.SetNotifier(n)
	m.rebuildAuth()
	return m
}

func (m *MockKernel) rebuildAuth() {
	var revoker auth.TokenRevoker
	if c := m.Cache(); c != nil {
		revoker = c
	}
	opts := auth.DefaultOptions()
	opts.BcryptCost = bcrypt.MinCost
	m.SetAuthService(auth.NewService(m.Users(), []byte(MockJWTSecret), m.Notifier(), revoker, opts))
}
