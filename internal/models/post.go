package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FileTypeImage = "image"
	FileTypeVideo = "video"
)

// Post is a single uploaded media item. Posts are never updated, only deleted.
type Post struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Caption    string    `gorm:"type:text" json:"caption"`
	URL        string    `gorm:"not null" json:"url"`
	FileType   string    `gorm:"not null" json:"file_type"`
	FileName   string    `gorm:"not null" json:"file_name"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FileTypeFor classifies an upload: "video" for video/* content types,
// "image" for everything else.
func FileTypeFor(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return FileTypeVideo
	}
	return FileTypeImage
}

// PostView is a feed entry annotated for the viewer.
type PostView struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Caption   string `json:"caption"`
	URL       string `json:"url"`
	FileType  string `json:"file_type"`
	FileName  string `json:"file_name"`
	CreatedAt string `json:"created_at"`
	IsOwner   bool   `json:"is_owner"`
	Email     string `json:"email"`
}

// UnknownEmail is reported for posts whose owner record is missing.
const UnknownEmail = "Unknown"

// NewPostView flattens a post for the feed.
func NewPostView(p Post, viewerID uuid.UUID, emails map[uuid.UUID]string) PostView {
	email, ok := emails[p.UserID]
	if !ok {
		email = UnknownEmail
	}
	return PostView{
		ID:        p.ID.String(),
		UserID:    p.UserID.String(),
		Caption:   p.Caption,
		URL:       p.URL,
		FileType:  p.FileType,
		FileName:  p.FileName,
		CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		IsOwner:   p.UserID == viewerID,
		Email:     email,
	}
}
