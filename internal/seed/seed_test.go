package seed

import (
	"testing"

	"studyhall/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Topic{}, &models.Post{},
		&models.Comment{}, &models.Vote{}, &models.Report{}, &models.SavedPost{},
	))

	require.NoError(t, Seed(db, Options{NumUsers: 5, NumPosts: 10}))

	var userCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(6), userCount, "five members plus the admin")
	assert.Equal(t, int64(10), postCount)

	// Reputation must equal votes received, per user.
	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	for _, u := range users {
		var votes int64
		require.NoError(t, db.Model(&models.Vote{}).
			Joins("JOIN posts ON posts.id = votes.post_id").
			Where("posts.user_id = ?", u.ID).
			Count(&votes).Error)
		assert.Equal(t, votes, int64(u.Reputation), "user %s", u.Username)
	}

	// No self-votes slipped in.
	var selfVotes int64
	require.NoError(t, db.Model(&models.Vote{}).
		Joins("JOIN posts ON posts.id = votes.post_id").
		Where("posts.user_id = votes.voter_id").
		Count(&selfVotes).Error)
	assert.Equal(t, int64(0), selfVotes)
}
