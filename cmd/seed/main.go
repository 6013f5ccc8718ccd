// Command seed fills the database with demo data for development.
package main

import (
	"flag"
	"fmt"
	"log"

	"studyhall/internal/config"
	"studyhall/internal/database"
	"studyhall/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "number of users to create")
	numPosts := flag.Int("posts", 100, "number of posts to create")
	clean := flag.Bool("clean", false, "delete existing data first")
	flag.Parse()

	if err := run(*numUsers, *numPosts, *clean); err != nil {
		log.Fatal(err)
	}
}

func run(numUsers, numPosts int, clean bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	return seed.Seed(db, seed.Options{
		NumUsers:    numUsers,
		NumPosts:    numPosts,
		ShouldClean: clean,
	})
}
