// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role classifies a caller for authorization and rate-limit decisions.
type Role string

const (
	// RoleUser is a regular human member.
	RoleUser Role = "user"
	// RoleAdmin may see suppressed content and use the moderation surface.
	RoleAdmin Role = "admin"
	// RoleService is a non-human integration identity, exempt from rate limits.
	RoleService Role = "service"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleService:
		return true
	}
	return false
}

// User represents a member of the Studyhall platform.
// Reputation is adjusted only by the vote ledger, inside the same
// transaction as the vote row change that caused it.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Username   string         `gorm:"unique;not null" json:"username"`
	Email      string         `gorm:"unique;not null" json:"email"`
	Password   string         `gorm:"not null" json:"-"`
	Bio        string         `json:"bio"`
	Avatar     string         `json:"avatar"`
	Role       Role           `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Reputation int            `gorm:"not null;default:0" json:"reputation"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
