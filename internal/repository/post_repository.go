package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/socialsimple/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository handles all database operations for posts
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID uuid.UUID) (*models.Post, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error

	// Feed queries
	ListPostsNewestFirst(ctx context.Context) ([]models.Post, error)
	ListPostsByUser(ctx context.Context, userID uuid.UUID) ([]models.Post, error)

	// Stats
	GetTotalPostCount(ctx context.Context) (int64, error)
}

// postRepository implements PostRepository interface
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// CreatePost persists a new post. The ID and created_at are filled in.
func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil || post.UserID == uuid.Nil {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Create(post).Error
}

// GetPost gets a post by ID
func (r *postRepository) GetPost(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// DeletePost hard-deletes a post. A post that vanished between lookup and
// delete reports ErrPostNotFound.
func (r *postRepository) DeletePost(ctx context.Context, postID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", postID).Delete(&models.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ListPostsNewestFirst returns every post, most recent first.
func (r *postRepository) ListPostsNewestFirst(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error

	return posts, err
}

func (r *postRepository) ListPostsByUser(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error

	return posts, err
}

func (r *postRepository) GetTotalPostCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}
