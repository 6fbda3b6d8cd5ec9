package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the domain account record. Credentials live in Credential, keyed by
// the same ID.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Posts     []Post    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Credential holds the auth-only state for a User.
type Credential struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	User           *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	HashedPassword string    `gorm:"type:text;not null" json:"-"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	IsSuperuser    bool      `gorm:"not null" json:"is_superuser"`
	IsVerified     bool      `gorm:"not null" json:"is_verified"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (Credential) TableName() string {
	return "user_credentials"
}

// Account is a User together with its Credential.
type Account struct {
	User
	Credential Credential
}

// UserRead is the public shape of an account.
type UserRead struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	IsVerified  bool   `json:"is_verified"`
}

func (a *Account) Read() UserRead {
	return UserRead{
		ID:          a.ID.String(),
		Email:       a.Email,
		IsActive:    a.Credential.IsActive,
		IsSuperuser: a.Credential.IsSuperuser,
		IsVerified:  a.Credential.IsVerified,
	}
}
