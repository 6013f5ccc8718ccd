// Package seed populates the database with demo data for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"studyhall/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var topicPresets = []struct {
	Slug  string
	Title string
}{
	{"calculus", "Calculus"},
	{"organic-chem", "Organic Chemistry"},
	{"linguistics", "Linguistics"},
	{"world-history", "World History"},
	{"statistics", "Statistics"},
	{"microeconomics", "Microeconomics"},
	{"anatomy", "Anatomy"},
	{"algorithms", "Algorithms"},
}

// Seed populates the database with demo users, topics, posts, comments,
// votes, and a sprinkling of reports. Votes go through the same invariants
// as production writes: no self-votes, no duplicates, reputation moves
// with each vote row.
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Printf("seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Printf("warning: could not clear all existing data: %v", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}

	topics, err := createTopics(db, users)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}

	posts, err := createPosts(db, r, users, topics, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}

	if err := createComments(db, r, users, posts); err != nil {
		return fmt.Errorf("create comments: %w", err)
	}
	if err := createVotes(db, r, users, posts); err != nil {
		return fmt.Errorf("create votes: %w", err)
	}
	if err := createReports(db, r, users, posts); err != nil {
		return fmt.Errorf("create reports: %w", err)
	}

	log.Println("seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	for _, model := range []any{
		&models.Report{}, &models.Vote{}, &models.SavedPost{},
		&models.Comment{}, &models.Post{}, &models.Topic{}, &models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("SeededPass12!@"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n+1)

	admin := &models.User{
		Username: "admin",
		Email:    "admin@studyhall.dev",
		Password: string(hashed),
		Role:     models.RoleAdmin,
		Bio:      "Keeps the halls tidy.",
	}
	users = append(users, admin)

	for i := 0; i < n; i++ {
		users = append(users, &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:    gofakeit.Email(),
			Password: string(hashed),
			Role:     models.RoleUser,
			Bio:      gofakeit.Sentence(10),
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func createTopics(db *gorm.DB, users []*models.User) ([]*models.Topic, error) {
	topics := make([]*models.Topic, 0, len(topicPresets))
	for _, preset := range topicPresets {
		topics = append(topics, &models.Topic{
			Slug:        preset.Slug,
			Title:       preset.Title,
			Description: gofakeit.Sentence(12),
			CreatorID:   users[0].ID,
		})
	}
	if err := db.Create(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func createPosts(db *gorm.DB, r *rand.Rand, users []*models.User, topics []*models.Topic, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[r.Intn(len(users))]
		post := &models.Post{
			Title:   gofakeit.Sentence(6),
			Content: gofakeit.Paragraph(1, 3, 8, "\n"),
			UserID:  author.ID,
			// realistic created_at spread over the past 90 days
			CreatedAt: time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		if r.Intn(100) < 80 {
			post.TopicID = &topics[r.Intn(len(topics))].ID
		}
		posts = append(posts, post)
	}
	if err := db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func createComments(db *gorm.DB, r *rand.Rand, users []*models.User, posts []*models.Post) error {
	var comments []*models.Comment
	for _, post := range posts {
		for i := 0; i < r.Intn(5); i++ {
			comments = append(comments, &models.Comment{
				Content: gofakeit.Sentence(12),
				UserID:  users[r.Intn(len(users))].ID,
				PostID:  post.ID,
			})
		}
	}
	if len(comments) == 0 {
		return nil
	}
	return db.Create(&comments).Error
}

func createVotes(db *gorm.DB, r *rand.Rand, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		voters := r.Perm(len(users))[:r.Intn(len(users))]
		for _, idx := range voters {
			voter := users[idx]
			if voter.ID == post.UserID {
				continue
			}
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&models.Vote{VoterID: voter.ID, PostID: &post.ID}).Error; err != nil {
					return err
				}
				return tx.Model(&models.User{}).
					Where("id = ?", post.UserID).
					Update("reputation", gorm.Expr("reputation + 1")).Error
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func createReports(db *gorm.DB, r *rand.Rand, users []*models.User, posts []*models.Post) error {
	reasons := []models.ReportReason{
		models.ReasonSpam, models.ReasonInappropriate, models.ReasonOffTopic, models.ReasonOther,
	}
	for _, post := range posts {
		// most posts go unreported
		if r.Intn(100) >= 10 {
			continue
		}
		reporter := users[r.Intn(len(users))]
		if reporter.ID == post.UserID {
			continue
		}
		report := &models.Report{
			ReporterID: reporter.ID,
			PostID:     &post.ID,
			Reason:     reasons[r.Intn(len(reasons))],
		}
		if err := db.Create(report).Error; err != nil {
			return err
		}
	}
	return nil
}
