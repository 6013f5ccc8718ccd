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

func newCommentService(db *gorm.DB) *CommentService {
	return NewCommentService(db, repository.NewCommentRepository(db), repository.NewPostRepository(db))
}

func TestCreateComment(t *testing.T) {
	t.Run("creates a comment on a visible post", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newCommentService(db)
		author := createTestUser(t, db, "author")
		commenter := createTestUser(t, db, "commenter")
		post := createTestPost(t, db, author)

		comment, err := svc.CreateComment(context.Background(), Viewer{ID: commenter.ID, Role: models.RoleUser}, post.ID, "Try two-day intervals first.")
		require.NoError(t, err)
		assert.Equal(t, commenter.ID, comment.UserID)
		assert.Equal(t, post.ID, comment.PostID)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newCommentService(db)
		author := createTestUser(t, db, "author")
		commenter := createTestUser(t, db, "commenter")
		post := createTestPost(t, db, author)

		_, err := svc.CreateComment(context.Background(), Viewer{ID: commenter.ID, Role: models.RoleUser}, post.ID, "   ")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})

	t.Run("suppressed post looks absent to strangers", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newCommentService(db)
		author := createTestUser(t, db, "author")
		commenter := createTestUser(t, db, "commenter")
		post := createTestPost(t, db, author)
		require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Update("suppressed", true).Error)

		_, err := svc.CreateComment(context.Background(), Viewer{ID: commenter.ID, Role: models.RoleUser}, post.ID, "hello")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)

		// The author can still comment on their own suppressed post.
		_, err = svc.CreateComment(context.Background(), Viewer{ID: author.ID, Role: models.RoleUser}, post.ID, "still here")
		require.NoError(t, err)
	})
}

func TestListComments(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommentService(db)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")
	post := createTestPost(t, db, author)

	visible := createTestComment(t, db, stranger, post)
	hidden := createTestComment(t, db, stranger, post)
	require.NoError(t, db.Model(&models.Comment{}).Where("id = ?", hidden.ID).Update("suppressed", true).Error)

	comments, err := svc.ListComments(context.Background(), Viewer{ID: author.ID, Role: models.RoleUser}, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, visible.ID, comments[0].ID)

	// The suppressed comment's own author still sees it in the list.
	comments, err = svc.ListComments(context.Background(), Viewer{ID: stranger.ID, Role: models.RoleUser}, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestDeleteComment(t *testing.T) {
	t.Run("hard-deletes and clears dependent votes and reports", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newCommentService(db)
		votes := NewVoteService(db)
		reports := NewReportService(db)
		author := createTestUser(t, db, "author")
		commenter := createTestUser(t, db, "commenter")
		post := createTestPost(t, db, author)
		comment := createTestComment(t, db, commenter, post)

		_, err := votes.AddVote(context.Background(), author.ID, CommentTarget(comment.ID))
		require.NoError(t, err)
		_, err = reports.Report(context.Background(), author.ID, CommentTarget(comment.ID), models.ReasonSpam, "")
		require.NoError(t, err)
		require.Equal(t, 1, reputationOf(t, db, commenter.ID))

		require.NoError(t, svc.DeleteComment(context.Background(), Viewer{ID: commenter.ID, Role: models.RoleUser}, comment.ID))

		var count int64
		require.NoError(t, db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
		require.NoError(t, db.Model(&models.Vote{}).Where("comment_id = ?", comment.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
		require.NoError(t, db.Model(&models.Report{}).Where("comment_id = ?", comment.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)

		// The votes are gone, so the reputation they granted is too.
		assert.Equal(t, 0, reputationOf(t, db, commenter.ID))
	})

	t.Run("only the author or an admin may delete", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newCommentService(db)
		author := createTestUser(t, db, "author")
		stranger := createTestUser(t, db, "stranger")
		post := createTestPost(t, db, author)
		comment := createTestComment(t, db, author, post)

		err := svc.DeleteComment(context.Background(), Viewer{ID: stranger.ID, Role: models.RoleUser}, comment.ID)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeForbidden, appErr.Code)

		admin := createTestUser(t, db, "admin")
		require.NoError(t, svc.DeleteComment(context.Background(), Viewer{ID: admin.ID, Role: models.RoleAdmin}, comment.ID))
	})
}
