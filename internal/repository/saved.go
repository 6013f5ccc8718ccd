package repository

import (
	"context"

	"studyhall/internal/models"

	"gorm.io/gorm"
)

// SavedPostRepository defines the interface for bookmark operations
type SavedPostRepository interface {
	Save(ctx context.Context, userID, postID uint) error
	Unsave(ctx context.Context, userID, postID uint) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.SavedPost, error)
	IsSaved(ctx context.Context, userID, postID uint) (bool, error)
}

type savedPostRepository struct {
	db *gorm.DB
}

// NewSavedPostRepository creates a new saved-post repository
func NewSavedPostRepository(db *gorm.DB) SavedPostRepository {
	return &savedPostRepository{db: db}
}

func (r *savedPostRepository) Save(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).Create(&models.SavedPost{UserID: userID, PostID: postID}).Error
}

func (r *savedPostRepository) Unsave(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.SavedPost{}).Error
}

func (r *savedPostRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.SavedPost, error) {
	var saved []*models.SavedPost
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&saved).Error
	return saved, err
}

func (r *savedPostRepository) IsSaved(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SavedPost{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}
