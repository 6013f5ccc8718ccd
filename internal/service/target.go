// Package service contains the application's business logic, including the
// interaction ledger, report aggregator, and visibility resolver.
package service

import (
	"context"
	"errors"

	"studyhall/internal/models"

	"gorm.io/gorm"
)

// Target identifies the content item a vote or report acts on: exactly one
// of PostID or CommentID must be set.
type Target struct {
	PostID    *uint
	CommentID *uint
}

// PostTarget builds a post target.
func PostTarget(id uint) Target {
	return Target{PostID: &id}
}

// CommentTarget builds a comment target.
func CommentTarget(id uint) Target {
	return Target{CommentID: &id}
}

// Validate rejects targets with both or neither reference set.
func (t Target) Validate() error {
	if (t.PostID == nil) == (t.CommentID == nil) {
		return models.NewInvalidTargetError()
	}
	return nil
}

// Kind returns "post" or "comment". Call only on a validated target.
func (t Target) Kind() string {
	if t.PostID != nil {
		return "post"
	}
	return "comment"
}

// ID returns the referenced item's ID. Call only on a validated target.
func (t Target) ID() uint {
	if t.PostID != nil {
		return *t.PostID
	}
	return *t.CommentID
}

// targetAuthor resolves the author of the targeted item. Soft-deleted posts
// are treated as missing, per the engine's visibility rules.
func targetAuthor(ctx context.Context, tx *gorm.DB, t Target) (uint, error) {
	if t.PostID != nil {
		var post models.Post
		if err := tx.WithContext(ctx).Select("id", "user_id").First(&post, *t.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, models.NewNotFoundError("post", *t.PostID)
			}
			return 0, err
		}
		return post.UserID, nil
	}

	var comment models.Comment
	if err := tx.WithContext(ctx).Select("id", "user_id").First(&comment, *t.CommentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError("comment", *t.CommentID)
		}
		return 0, err
	}
	return comment.UserID, nil
}
