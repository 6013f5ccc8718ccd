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

func newPostService(db *gorm.DB) *PostService {
	return NewPostService(repository.NewPostRepository(db), repository.NewTopicRepository(db))
}

func TestCreatePost(t *testing.T) {
	t.Run("creates a post", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newPostService(db)
		author := createTestUser(t, db, "author")

		post, err := svc.CreatePost(context.Background(), author.ID, CreatePostInput{
			Title:   "Pomodoro lengths",
			Content: "Is 25 minutes too short for proofs?",
		})
		require.NoError(t, err)
		assert.Equal(t, author.ID, post.UserID)
		assert.False(t, post.Suppressed)
	})

	t.Run("rejects blank title and content", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newPostService(db)
		author := createTestUser(t, db, "author")

		var appErr *models.AppError
		_, err := svc.CreatePost(context.Background(), author.ID, CreatePostInput{Title: " ", Content: "x"})
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)

		_, err = svc.CreatePost(context.Background(), author.ID, CreatePostInput{Title: "x", Content: " "})
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})

	t.Run("unknown topic returns not found", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newPostService(db)
		author := createTestUser(t, db, "author")
		topicID := uint(42)

		_, err := svc.CreatePost(context.Background(), author.ID, CreatePostInput{
			Title: "x", Content: "y", TopicID: &topicID,
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestGetPost(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")
	post := createTestPost(t, db, author)
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Update("suppressed", true).Error)

	// Suppressed content is indistinguishable from absent content for
	// strangers, while the author and admins still resolve it.
	_, err := svc.GetPost(context.Background(), Viewer{ID: stranger.ID, Role: models.RoleUser}, post.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	got, err := svc.GetPost(context.Background(), Viewer{ID: author.ID, Role: models.RoleUser}, post.ID)
	require.NoError(t, err)
	assert.True(t, got.Suppressed)

	_, err = svc.GetPost(context.Background(), Viewer{ID: 99, Role: models.RoleAdmin}, post.ID)
	require.NoError(t, err)
}

func TestUpdatePost(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")
	post := createTestPost(t, db, author)

	title := "Updated title"
	_, err := svc.UpdatePost(context.Background(), Viewer{ID: stranger.ID, Role: models.RoleUser}, post.ID, UpdatePostInput{Title: &title})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)

	updated, err := svc.UpdatePost(context.Background(), Viewer{ID: author.ID, Role: models.RoleUser}, post.ID, UpdatePostInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	// Editing leaves moderation state alone.
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Update("suppressed", true).Error)
	content := "new content"
	updated, err = svc.UpdatePost(context.Background(), Viewer{ID: author.ID, Role: models.RoleUser}, post.ID, UpdatePostInput{Content: &content})
	require.NoError(t, err)
	assert.True(t, updated.Suppressed)
}

func TestDeletePost(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")
	post := createTestPost(t, db, author)

	err := svc.DeletePost(context.Background(), Viewer{ID: stranger.ID, Role: models.RoleUser}, post.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)

	require.NoError(t, svc.DeletePost(context.Background(), Viewer{ID: author.ID, Role: models.RoleUser}, post.ID))

	// Soft-deleted: invisible even to admins, but the row survives.
	_, err = svc.GetPost(context.Background(), Viewer{ID: 99, Role: models.RoleAdmin}, post.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListPostsByUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")

	createTestPost(t, db, author)
	suppressed := createTestPost(t, db, author)
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", suppressed.ID).Update("suppressed", true).Error)

	posts, err := svc.ListPostsByUser(context.Background(), Viewer{ID: stranger.ID, Role: models.RoleUser}, author.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = svc.ListPostsByUser(context.Background(), Viewer{ID: author.ID, Role: models.RoleUser}, author.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}
