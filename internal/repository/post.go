package repository

import (
	"context"

	"studyhall/internal/models"

	"gorm.io/gorm"
)

// Scope narrows a query; the visibility resolver produces these for list reads.
type Scope func(*gorm.DB) *gorm.DB

// PostRepository defines the interface for post data operations.
// Vote and report rows are NOT reachable from here: the vote ledger and the
// report aggregator are their exclusive writers.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, visible Scope, limit, offset int) ([]*models.Post, error)
	ListByTopic(ctx context.Context, topicID uint, visible Scope, limit, offset int) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID uint, visible Scope, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails selects the computed vote and comment counts alongside
// the post columns.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.post_id = posts.id) as votes_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("User").
		Preload("Topic").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, visible Scope, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx).Scopes(visible)).
		Preload("User").
		Preload("Topic").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByTopic(ctx context.Context, topicID uint, visible Scope, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx).Scopes(visible)).
		Preload("User").
		Where("topic_id = ?", topicID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, visible Scope, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx).Scopes(visible)).
		Preload("User").
		Preload("Topic").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}
