package service

import (
	"testing"

	"studyhall/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the same error
// translation as production, so duplicate-key failures surface as
// gorm.ErrDuplicatedKey here too. The pool is pinned to one connection
// to keep concurrent transactions deterministic under sqlite.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Topic{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.Report{},
		&models.SavedPost{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
		Role:     models.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.User) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:   "Spaced repetition schedules",
		Content: "What intervals work for you?",
		UserID:  author.ID,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

func createTestComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Content: "Two days, then a week.",
		UserID:  author.ID,
		PostID:  post.ID,
	}
	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("failed to create test comment: %v", err)
	}
	return comment
}

func reputationOf(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	return user.Reputation
}
