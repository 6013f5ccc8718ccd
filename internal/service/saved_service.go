package service

import (
	"context"
	"errors"

	"studyhall/internal/models"
	"studyhall/internal/repository"

	"gorm.io/gorm"
)

// SavedPostService handles bookmarks. Saving is idempotent at the storage
// layer: the unique index collapses duplicate saves to a conflict.
type SavedPostService struct {
	savedRepo repository.SavedPostRepository
	postRepo  repository.PostRepository
}

// NewSavedPostService returns a new SavedPostService.
func NewSavedPostService(savedRepo repository.SavedPostRepository, postRepo repository.PostRepository) *SavedPostService {
	return &SavedPostService{savedRepo: savedRepo, postRepo: postRepo}
}

// SavePost bookmarks a post for the viewer. The post must be visible to
// them at save time.
func (s *SavedPostService) SavePost(ctx context.Context, viewer Viewer, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("post", postID)
		}
		return err
	}
	if !PostVisible(viewer, post) {
		return models.NewNotFoundError("post", postID)
	}

	if err := s.savedRepo.Save(ctx, viewer.ID, postID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("You have already saved this post")
		}
		return err
	}
	return nil
}

// UnsavePost removes the viewer's bookmark. Removing an absent bookmark is
// a no-op.
func (s *SavedPostService) UnsavePost(ctx context.Context, viewer Viewer, postID uint) error {
	return s.savedRepo.Unsave(ctx, viewer.ID, postID)
}

// ListSavedPosts lists the viewer's bookmarks, newest first.
func (s *SavedPostService) ListSavedPosts(ctx context.Context, viewer Viewer, limit, offset int) ([]*models.SavedPost, error) {
	return s.savedRepo.ListByUser(ctx, viewer.ID, limit, offset)
}

// IsSaved reports whether the viewer bookmarked the post.
func (s *SavedPostService) IsSaved(ctx context.Context, viewer Viewer, postID uint) (bool, error) {
	return s.savedRepo.IsSaved(ctx, viewer.ID, postID)
}
