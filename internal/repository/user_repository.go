package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/socialsimple/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository handles all database operations for users and their credentials
type UserRepository interface {
	// Account CRUD
	CreateUser(ctx context.Context, user *models.User, cred *models.Credential) error
	GetAccount(ctx context.Context, userID uuid.UUID) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, email *string, updates map[string]interface{}) error
	UpdateCredential(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// User queries
	GetEmailsByID(ctx context.Context) (map[uuid.UUID]string, error)

	// Stats
	GetTotalUserCount(ctx context.Context) (int64, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser inserts a user and its credential in one transaction.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User, cred *models.Credential) error {
	if user == nil || cred == nil || strings.TrimSpace(user.Email) == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, user.Email, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}
		cred.UserID = user.ID
		return tx.Create(cred).Error
	})
}

// GetAccount gets a user and its credential by user ID
func (r *userRepository) GetAccount(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return r.withCredential(ctx, user)
}

// GetAccountByEmail gets an account by email (case-insensitive)
func (r *userRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return r.withCredential(ctx, user)
}

func (r *userRepository) withCredential(ctx context.Context, user models.User) (*models.Account, error) {
	var cred models.Credential
	err := r.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &models.Account{User: user, Credential: cred}, nil
}

// UpdateAccount changes a user's email (when email is non-nil) and applies
// credential column updates in one transaction. An email held by another
// user is refused and nothing is written.
func (r *userRepository) UpdateAccount(ctx context.Context, userID uuid.UUID, email *string, updates map[string]interface{}) error {
	if email != nil && strings.TrimSpace(*email) == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if email != nil {
			taken, err := emailTaken(tx, *email, userID)
			if err != nil {
				return err
			}
			if taken {
				return ErrEmailTaken
			}

			result := tx.Model(&models.User{}).Where("id = ?", userID).Update("email", *email)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrUserNotFound
			}
		}

		if len(updates) == 0 {
			return nil
		}
		return updateCredential(tx, userID, updates)
	})
}

// UpdateCredential applies column updates to a user's credential row
func (r *userRepository) UpdateCredential(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	return updateCredential(r.db.WithContext(ctx), userID, updates)
}

func updateCredential(tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error {
	result := tx.Model(&models.Credential{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user along with its credential and posts. The rows are
// deleted explicitly so the result does not depend on FK enforcement.
func (r *userRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Credential{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// GetEmailsByID maps every user ID to its email, for annotating feeds.
func (r *userRepository) GetEmailsByID(ctx context.Context) (map[uuid.UUID]string, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Select("id", "email").Find(&users).Error; err != nil {
		return nil, err
	}

	emails := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}
	return emails, nil
}

func (r *userRepository) GetTotalUserCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func emailTaken(tx *gorm.DB, email string, except uuid.UUID) (bool, error) {
	var count int64
	q := tx.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email))
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
