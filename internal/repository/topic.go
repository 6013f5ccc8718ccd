package repository

import (
	"context"

	"studyhall/internal/models"

	"gorm.io/gorm"
)

// TopicRepository defines the interface for topic data operations
type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, id uint) (*models.Topic, error)
	GetBySlug(ctx context.Context, slug string) (*models.Topic, error)
	List(ctx context.Context, limit, offset int) ([]*models.Topic, error)
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *topicRepository) GetByID(ctx context.Context, id uint) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).Preload("Creator").First(&topic, id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) GetBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).Preload("Creator").Where("slug = ?", slug).First(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) List(ctx context.Context, limit, offset int) ([]*models.Topic, error) {
	var topics []*models.Topic
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&topics).Error
	return topics, err
}
