package service

import (
	"context"
	"errors"
	"strings"

	"studyhall/internal/models"
	"studyhall/internal/repository"
	"studyhall/internal/validation"

	"gorm.io/gorm"
)

// TopicService handles study topics. Topics carry no moderation state.
type TopicService struct {
	topicRepo repository.TopicRepository
}

// NewTopicService returns a new TopicService.
func NewTopicService(topicRepo repository.TopicRepository) *TopicService {
	return &TopicService{topicRepo: topicRepo}
}

// CreateTopicInput carries a new topic's fields.
type CreateTopicInput struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *TopicService) CreateTopic(ctx context.Context, creatorID uint, input CreateTopicInput) (*models.Topic, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	title := strings.TrimSpace(input.Title)
	if err := validation.ValidateTopicSlug(slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}

	topic := &models.Topic{
		Slug:        slug,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		CreatorID:   creatorID,
	}
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("A topic with this slug already exists")
		}
		return nil, err
	}
	return s.topicRepo.GetByID(ctx, topic.ID)
}

func (s *TopicService) GetTopic(ctx context.Context, id uint) (*models.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("topic", id)
		}
		return nil, err
	}
	return topic, nil
}

func (s *TopicService) GetTopicBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	topic, err := s.topicRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("topic", slug)
		}
		return nil, err
	}
	return topic, nil
}

func (s *TopicService) ListTopics(ctx context.Context, limit, offset int) ([]*models.Topic, error) {
	return s.topicRepo.List(ctx, limit, offset)
}
