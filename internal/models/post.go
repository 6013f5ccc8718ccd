// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in a Studyhall topic.
//
// Suppressed is the moderation-driven hidden state: the post stays in the
// database but is only visible to its author and admins. It is distinct
// from DeletedAt (soft delete), which hides the post from everyone.
type Post struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"not null" json:"title"`
	Content    string `gorm:"type:text;not null" json:"content"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	User       User   `gorm:"foreignKey:UserID" json:"user"`
	TopicID    *uint  `gorm:"index" json:"topic_id,omitempty"`
	Topic      *Topic `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
	Suppressed bool   `gorm:"not null;default:false;index" json:"suppressed"`
	// VotesCount is not persisted; computed at query time
	VotesCount int `gorm:"->" json:"votes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
