package server

import (
	"fmt"
	"net/http"
	"testing"

	"studyhall/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetPost(t *testing.T) {
	srv, app, db := setupTestServer(t)
	user := createUser(t, db, "author", models.RoleUser)
	token := authToken(t, srv, user)

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]string{
		"title":   "Memory palaces",
		"content": "Has anyone used one for anatomy?",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.Post
	decodeBody(t, resp, &post)
	assert.Equal(t, user.ID, post.UserID)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []models.Post
	decodeBody(t, resp, &posts)
	assert.Len(t, posts, 1)
}

func TestPostCommentFlow(t *testing.T) {
	srv, app, db := setupTestServer(t)
	author := createUser(t, db, "author", models.RoleUser)
	commenter := createUser(t, db, "commenter", models.RoleUser)
	post := createPostRow(t, db, author, "Open thread")
	token := authToken(t, srv, commenter)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), token, map[string]string{
		"content": "Subscribing.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment models.Comment
	decodeBody(t, resp, &comment)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d/comments", post.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []models.Comment
	decodeBody(t, resp, &comments)
	assert.Len(t, comments, 1)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/comments/%d", comment.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdatePostOwnership(t *testing.T) {
	srv, app, db := setupTestServer(t)
	author := createUser(t, db, "author", models.RoleUser)
	stranger := createUser(t, db, "stranger", models.RoleUser)
	post := createPostRow(t, db, author, "Before")

	resp := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/posts/%d", post.ID), authToken(t, srv, stranger), map[string]string{
		"title": "After",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/posts/%d", post.ID), authToken(t, srv, author), map[string]string{
		"title": "After",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Post
	decodeBody(t, resp, &updated)
	assert.Equal(t, "After", updated.Title)
}

func TestSavedPostsFlow(t *testing.T) {
	srv, app, db := setupTestServer(t)
	author := createUser(t, db, "author", models.RoleUser)
	reader := createUser(t, db, "reader", models.RoleUser)
	post := createPostRow(t, db, author, "Worth keeping")
	token := authToken(t, srv, reader)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/save", post.ID), token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/save", post.ID), token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/users/me/saved", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var saved []models.SavedPost
	decodeBody(t, resp, &saved)
	require.Len(t, saved, 1)
	assert.Equal(t, post.ID, saved[0].PostID)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d/save", post.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTopicFlow(t *testing.T) {
	srv, app, db := setupTestServer(t)
	user := createUser(t, db, "author", models.RoleUser)
	token := authToken(t, srv, user)

	resp := doJSON(t, app, http.MethodPost, "/api/topics", token, map[string]string{
		"slug":  "calculus",
		"title": "Calculus",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/topics", token, map[string]string{
		"slug":  "calculus",
		"title": "Calculus again",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/topics/calculus", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/topics/calculus/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
