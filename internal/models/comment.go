// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Comment represents a comment on a post.
// Comments share the suppression machinery with posts but are removed by
// hard delete rather than soft delete.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	Post       Post      `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Suppressed bool      `gorm:"not null;default:false;index" json:"suppressed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
