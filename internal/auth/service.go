package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/socialsimple/backend/internal/email"
	"github.com/socialsimple/backend/internal/logger"
	"github.com/socialsimple/backend/internal/models"
	"github.com/socialsimple/backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted on register, reset and update.
const MinPasswordLength = 8

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrBadResetToken      = errors.New("invalid or expired reset token")
	ErrBadVerifyToken     = errors.New("invalid or expired verification token")
	ErrAlreadyVerified    = errors.New("user already verified")
)

// TokenRevoker remembers logged-out access tokens until they expire.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Options tunes token lifetimes and hashing cost.
type Options struct {
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
	VerifyTokenTTL time.Duration
	BcryptCost     int
}

// DefaultOptions returns one-hour tokens and bcrypt's default cost.
func DefaultOptions() Options {
	return Options{
		AccessTokenTTL: time.Hour,
		ResetTokenTTL:  time.Hour,
		VerifyTokenTTL: time.Hour,
		BcryptCost:     bcrypt.DefaultCost,
	}
}

// Service handles all authentication operations
type Service struct {
	users     repository.UserRepository
	jwtSecret []byte
	notifier  email.Notifier
	revoker   TokenRevoker
	opts      Options
	now       func() time.Time

	// dummyHash is compared against on unknown emails so login timing does
	// not reveal which addresses are registered.
	dummyHash []byte
}

// NewService creates a new authentication service. notifier and revoker may be nil.
func NewService(users repository.UserRepository, jwtSecret []byte, notifier email.Notifier, revoker TokenRevoker, opts Options) *Service {
	defaults := DefaultOptions()
	if opts.AccessTokenTTL <= 0 {
		opts.AccessTokenTTL = defaults.AccessTokenTTL
	}
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = defaults.ResetTokenTTL
	}
	if opts.VerifyTokenTTL <= 0 {
		opts.VerifyTokenTTL = defaults.VerifyTokenTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = defaults.BcryptCost
	}
	if notifier == nil {
		notifier = email.LogNotifier{}
	}

	dummy, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), opts.BcryptCost)

	return &Service{
		users:     users,
		jwtSecret: jwtSecret,
		notifier:  notifier,
		revoker:   revoker,
		opts:      opts,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// TokenResponse is the bearer login response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserUpdate is a partial account update. Nil fields are left alone.
type UserUpdate struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
	IsVerified  *bool   `json:"is_verified"`
}

// Register creates a new active, unverified, non-superuser account
func (s *Service) Register(ctx context.Context, emailAddr, password string) (*models.Account, error) {
	emailAddr, err := normalizeEmail(emailAddr)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrInvalidPassword
	}

	hashed, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: emailAddr}
	cred := &models.Credential{
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.users.CreateUser(ctx, user, cred); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Log.Info("User registered", logger.WithUserID(user.ID.String()))

	return &models.Account{User: *user, Credential: *cred}, nil
}

// Login authenticates with email/password and issues an access token
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*TokenResponse, error) {
	account, err := s.users.GetAccountByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Credential.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.Credential.IsActive {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueAccessToken(account.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// IssueAccessToken mints a bearer token for a user
func (s *Service) IssueAccessToken(userID uuid.UUID) (string, error) {
	return s.signToken(AudienceAuth, userID, s.opts.AccessTokenTTL, Claims{})
}

// Authenticate resolves a bearer token to the current active account
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*models.Account, error) {
	claims, userID, err := s.parseToken(tokenString, AudienceAuth)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("revocation check failed: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	account, err := s.users.GetAccount(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !account.Credential.IsActive {
		return nil, ErrInactiveUser
	}

	return account, nil
}

// Logout revokes the token until its natural expiry. Without a revoker the
// token simply stays valid until it expires.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, _, err := s.parseToken(tokenString, AudienceAuth)
	if err != nil {
		return ErrInvalidToken
	}
	if s.revoker == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revoker.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// ForgotPassword mails a reset token to an active user. Unknown and inactive
// addresses succeed silently.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	account, err := s.users.GetAccountByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if !account.Credential.IsActive {
		return nil
	}

	token, err := s.signToken(AudienceReset, account.ID, s.opts.ResetTokenTTL, Claims{
		PasswordFingerprint: passwordFingerprint(account.Credential.HashedPassword),
	})
	if err != nil {
		return err
	}

	return s.notifier.SendPasswordReset(ctx, account.Email, token)
}

// ResetPassword validates the reset token and updates the user's password.
// A token is single-use: the new hash no longer matches its fingerprint.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, userID, err := s.parseToken(token, AudienceReset)
	if err != nil {
		return ErrBadResetToken
	}

	account, err := s.users.GetAccount(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrBadResetToken
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if !account.Credential.IsActive ||
		claims.PasswordFingerprint != passwordFingerprint(account.Credential.HashedPassword) {
		return ErrBadResetToken
	}

	if len(newPassword) < MinPasswordLength {
		return ErrInvalidPassword
	}

	hashed, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdateCredential(ctx, userID, map[string]interface{}{"hashed_password": hashed}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	logger.Log.Info("Password reset", logger.WithUserID(userID.String()))
	return nil
}

// RequestVerification mails a verification token to an active, unverified
// user. Every other case succeeds silently.
func (s *Service) RequestVerification(ctx context.Context, emailAddr string) error {
	account, err := s.users.GetAccountByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if !account.Credential.IsActive || account.Credential.IsVerified {
		return nil
	}

	token, err := s.signToken(AudienceVerify, account.ID, s.opts.VerifyTokenTTL, Claims{Email: account.Email})
	if err != nil {
		return err
	}

	return s.notifier.SendVerification(ctx, account.Email, token)
}

// Verify marks the token's user as verified
func (s *Service) Verify(ctx context.Context, token string) (*models.Account, error) {
	claims, userID, err := s.parseToken(token, AudienceVerify)
	if err != nil {
		return nil, ErrBadVerifyToken
	}

	account, err := s.users.GetAccount(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrBadVerifyToken
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !strings.EqualFold(claims.Email, account.Email) {
		return nil, ErrBadVerifyToken
	}
	if account.Credential.IsVerified {
		return nil, ErrAlreadyVerified
	}

	if err := s.users.UpdateCredential(ctx, userID, map[string]interface{}{"is_verified": true}); err != nil {
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}
	account.Credential.IsVerified = true

	logger.Log.Info("User verified", logger.WithUserID(userID.String()))
	return account, nil
}

// GetAccount looks up an account by ID
func (s *Service) GetAccount(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	account, err := s.users.GetAccount(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return account, err
}

// UpdateAccount applies a partial update. Status flags are only honored when
// privileged is set. Changing the email clears the verified flag.
func (s *Service) UpdateAccount(ctx context.Context, userID uuid.UUID, update UserUpdate, privileged bool) (*models.Account, error) {
	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	creds := map[string]interface{}{}

	// Everything is validated before the single write below.
	var newEmail *string
	if update.Email != nil {
		normalized, err := normalizeEmail(*update.Email)
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(normalized, account.Email) {
			newEmail = &normalized
			creds["is_verified"] = false
		}
	}

	if update.Password != nil {
		if len(*update.Password) < MinPasswordLength {
			return nil, ErrInvalidPassword
		}
		hashed, err := s.hashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		creds["hashed_password"] = hashed
	}

	if privileged {
		if update.IsActive != nil {
			creds["is_active"] = *update.IsActive
		}
		if update.IsSuperuser != nil {
			creds["is_superuser"] = *update.IsSuperuser
		}
		if update.IsVerified != nil {
			creds["is_verified"] = *update.IsVerified
		}
	}

	if err := s.users.UpdateAccount(ctx, userID, newEmail, creds); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrUserExists
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.GetAccount(ctx, userID)
}

// DeleteAccount removes a user together with its credential and posts
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	err := s.users.DeleteUser(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logger.Log.Info("User deleted", logger.WithUserID(userID.String()))
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Address != strings.TrimSpace(raw) {
		logger.Log.Debug("Rejected email address", zap.String("email", raw))
		return "", ErrInvalidEmail
	}
	return addr.Address, nil
}
