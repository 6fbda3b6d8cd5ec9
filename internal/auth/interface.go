package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/socialsimple/backend/internal/models"
)

// AuthServiceInterface defines the contract for authentication operations.
type AuthServiceInterface interface {
	// Registration and Login
	Register(ctx context.Context, email, password string) (*models.Account, error)
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	Logout(ctx context.Context, tokenString string) error

	// Token operations
	Authenticate(ctx context.Context, tokenString string) (*models.Account, error)
	Middleware() gin.HandlerFunc

	// Password reset and verification
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	RequestVerification(ctx context.Context, email string) error
	Verify(ctx context.Context, token string) (*models.Account, error)

	// User management
	GetAccount(ctx context.Context, userID uuid.UUID) (*models.Account, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, update UserUpdate, privileged bool) (*models.Account, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// Ensure Service implements AuthServiceInterface
var _ AuthServiceInterface = (*Service)(nil)
