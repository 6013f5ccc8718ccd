package service

import (
	"studyhall/internal/models"
	"studyhall/internal/repository"

	"gorm.io/gorm"
)

// Viewer is the identity a read is resolved against. A zero ID is an
// anonymous caller.
type Viewer struct {
	ID   uint
	Role models.Role
}

// Admin reports whether the viewer holds the admin role.
func (v Viewer) Admin() bool {
	return v.Role == models.RoleAdmin
}

// Visible is the single decision point for whether one content item may be
// shown to a viewer:
//
//   - deleted items are invisible to everyone, the author and admins included
//   - admins see everything else
//   - authors see their own content even while suppressed
//   - everyone else sees only unsuppressed content
func Visible(v Viewer, authorID uint, suppressed, deleted bool) bool {
	if deleted {
		return false
	}
	if v.Admin() {
		return true
	}
	if v.ID != 0 && v.ID == authorID {
		return true
	}
	return !suppressed
}

// PostVisible applies Visible to a post.
func PostVisible(v Viewer, post *models.Post) bool {
	return Visible(v, post.UserID, post.Suppressed, post.DeletedAt.Valid)
}

// CommentVisible applies Visible to a comment. Comments are hard-deleted,
// so only suppression matters.
func CommentVisible(v Viewer, comment *models.Comment) bool {
	return Visible(v, comment.UserID, comment.Suppressed, false)
}

// VisibleScope returns the list-query predicate equivalent of Visible, so
// list endpoints filter in the database instead of fetching and discarding
// rows at the edge. Soft-deleted posts are already excluded by GORM's
// default scope, for admins as well.
//
// ownOnly restricts the query to the viewer's own rows, where their
// suppressed content remains listed.
func VisibleScope(v Viewer, ownOnly bool) repository.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if ownOnly {
			return db.Where("user_id = ?", v.ID)
		}
		if v.Admin() {
			return db
		}
		if v.ID == 0 {
			return db.Where("suppressed = ?", false)
		}
		return db.Where("suppressed = ? OR user_id = ?", false, v.ID)
	}
}
