package service

import (
	"context"
	"errors"
	"strings"

	"studyhall/internal/cache"
	"studyhall/internal/models"
	"studyhall/internal/repository"

	"gorm.io/gorm"
)

// CommentService handles comments. Deletion is a hard delete, so it also
// clears the votes and reports that reference the comment and rolls the
// author's reputation back by the removed votes, all in one transaction.
type CommentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(db *gorm.DB, commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{db: db, commentRepo: commentRepo, postRepo: postRepo}
}

func (s *CommentService) CreateComment(ctx context.Context, viewer Viewer, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > 10000 {
		return nil, models.NewValidationError("Content must be at most 10000 characters")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", postID)
		}
		return nil, err
	}
	if !PostVisible(viewer, post) {
		return nil, models.NewNotFoundError("post", postID)
	}

	comment := &models.Comment{
		Content: content,
		UserID:  viewer.ID,
		PostID:  postID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// GetComment returns the comment if the viewer may see it.
func (s *CommentService) GetComment(ctx context.Context, viewer Viewer, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", id)
		}
		return nil, err
	}
	if !CommentVisible(viewer, comment) {
		return nil, models.NewNotFoundError("comment", id)
	}
	return comment, nil
}

// ListComments lists a post's comments under the viewer's visibility.
func (s *CommentService) ListComments(ctx context.Context, viewer Viewer, postID uint) ([]*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", postID)
		}
		return nil, err
	}
	if !PostVisible(viewer, post) {
		return nil, models.NewNotFoundError("post", postID)
	}
	return s.commentRepo.ListByPost(ctx, postID, VisibleScope(viewer, false))
}

// DeleteComment removes a comment permanently. The votes on the comment
// disappear with it, so the author's reputation drops by the same amount,
// keeping the counter equal to the votes that still exist.
func (s *CommentService) DeleteComment(ctx context.Context, viewer Viewer, id uint) error {
	comment, err := s.GetComment(ctx, viewer, id)
	if err != nil {
		return err
	}
	if comment.UserID != viewer.ID && !viewer.Admin() {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var votes int64
		if err := tx.Model(&models.Vote{}).Where("comment_id = ?", id).Count(&votes).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if votes > 0 {
			if err := tx.Model(&models.User{}).
				Where("id = ?", comment.UserID).
				Update("reputation", gorm.Expr("reputation - ?", votes)).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(&models.Comment{}, id).Error
	})
	if err != nil {
		return err
	}

	cache.Invalidate(ctx, cache.CommentVotesKey(id))
	return nil
}
