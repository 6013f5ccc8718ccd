package service

import (
	"context"
	"testing"

	"studyhall/internal/models"
	"studyhall/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSavedService(db *gorm.DB) *SavedPostService {
	return NewSavedPostService(repository.NewSavedPostRepository(db), repository.NewPostRepository(db))
}

func TestSavePost(t *testing.T) {
	db := setupTestDB(t)
	svc := newSavedService(db)
	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	post := createTestPost(t, db, author)
	viewer := Viewer{ID: reader.ID, Role: models.RoleUser}

	require.NoError(t, svc.SavePost(context.Background(), viewer, post.ID))

	saved, err := svc.IsSaved(context.Background(), viewer, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	// Saving twice is a conflict, not a second row.
	err = svc.SavePost(context.Background(), viewer, post.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)

	posts, err := svc.ListSavedPosts(context.Background(), viewer, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].PostID)

	require.NoError(t, svc.UnsavePost(context.Background(), viewer, post.ID))
	saved, err = svc.IsSaved(context.Background(), viewer, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	// Unsaving an absent bookmark is a no-op.
	require.NoError(t, svc.UnsavePost(context.Background(), viewer, post.ID))
}

func TestSavePostVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := newSavedService(db)
	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	post := createTestPost(t, db, author)
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Update("suppressed", true).Error)

	err := svc.SavePost(context.Background(), Viewer{ID: reader.ID, Role: models.RoleUser}, post.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
