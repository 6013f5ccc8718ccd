package service

import (
	"context"
	"errors"
	"strings"

	"studyhall/internal/models"
	"studyhall/internal/repository"

	"gorm.io/gorm"
)

// PostService handles post CRUD. All reads go through the visibility
// resolver; moderation state is owned elsewhere and never written here.
type PostService struct {
	postRepo  repository.PostRepository
	topicRepo repository.TopicRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, topicRepo repository.TopicRepository) *PostService {
	return &PostService{postRepo: postRepo, topicRepo: topicRepo}
}

// CreatePostInput carries a new post's fields.
type CreatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	TopicID *uint  `json:"topic_id,omitempty"`
}

// UpdatePostInput carries the editable post fields. Nil means unchanged.
type UpdatePostInput struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (s *PostService) CreatePost(ctx context.Context, userID uint, input CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > 300 {
		return nil, models.NewValidationError("Title must be at most 300 characters")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	if input.TopicID != nil {
		if _, err := s.topicRepo.GetByID(ctx, *input.TopicID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("topic", *input.TopicID)
			}
			return nil, err
		}
	}

	post := &models.Post{
		Title:   title,
		Content: content,
		UserID:  userID,
		TopicID: input.TopicID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns the post if the viewer may see it; suppressed posts look
// absent to everyone but the author and admins.
func (s *PostService) GetPost(ctx context.Context, viewer Viewer, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, err
	}
	if !PostVisible(viewer, post) {
		return nil, models.NewNotFoundError("post", id)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, viewer Viewer, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, VisibleScope(viewer, false), limit, offset)
}

func (s *PostService) ListPostsByTopic(ctx context.Context, viewer Viewer, topicID uint, limit, offset int) ([]*models.Post, error) {
	if _, err := s.topicRepo.GetByID(ctx, topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("topic", topicID)
		}
		return nil, err
	}
	return s.postRepo.ListByTopic(ctx, topicID, VisibleScope(viewer, false), limit, offset)
}

// ListPostsByUser lists a user's posts. When the viewer is that user, their
// suppressed posts are included.
func (s *PostService) ListPostsByUser(ctx context.Context, viewer Viewer, userID uint, limit, offset int) ([]*models.Post, error) {
	ownOnly := viewer.ID != 0 && viewer.ID == userID
	scope := VisibleScope(viewer, ownOnly)
	return s.postRepo.ListByUser(ctx, userID, scope, limit, offset)
}

// UpdatePost edits a post's title or content. Only the author (or an admin)
// may edit, and editing never touches the suppressed flag.
func (s *PostService) UpdatePost(ctx context.Context, viewer Viewer, id uint, input UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != viewer.ID && !viewer.Admin() {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(title) > 300 {
			return nil, models.NewValidationError("Title must be at most 300 characters")
		}
		post.Title = title
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return nil, models.NewValidationError("Content is required")
		}
		post.Content = content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, id)
}

// DeletePost soft-deletes a post. Vote and report rows are kept; the
// ledger resolves deleted posts when later removals need the author.
func (s *PostService) DeletePost(ctx context.Context, viewer Viewer, id uint) error {
	post, err := s.GetPost(ctx, viewer, id)
	if err != nil {
		return err
	}
	if post.UserID != viewer.ID && !viewer.Admin() {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, id)
}
