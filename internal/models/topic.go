package models

import (
	"time"

	"gorm.io/gorm"
)

// Topic groups posts under a study subject.
type Topic struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Slug        string         `gorm:"unique;not null" json:"slug"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	CreatorID   uint           `gorm:"not null;index" json:"creator_id"`
	Creator     User           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Topic) TableName() string {
	return "topics"
}
