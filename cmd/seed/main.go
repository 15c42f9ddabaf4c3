// Command main runs the database seeder for Bookshelf.
package main

import (
	"flag"
	"log"

	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 120, "Number of review posts to create")
	comments := flag.Int("comments", 3, "Number of comments per post")
	clean := flag.Bool("clean", true, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Skip bcrypt hashing (seeded accounts cannot log in)")
	preset := flag.String("preset", "", "Apply a named preset instead of the volume flags")
	presetFile := flag.String("preset-file", "", "Load presets from a YAML file instead of the built-in one")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	catalog, err := seed.LoadCatalog(*presetFile)
	if err != nil {
		log.Fatalf("Failed to load presets: %v", err)
	}

	seeder, err := seed.NewSeeder(db, seed.Options{
		NumUsers:        *numUsers,
		NumPosts:        *numPosts,
		CommentsPerPost: *comments,
		Clean:           *clean,
		SkipBcrypt:      *fast,
	}, catalog)
	if err != nil {
		log.Fatalf("Failed to create seeder: %v", err)
	}

	if *preset != "" {
		err = seeder.ApplyPreset(*preset)
	} else {
		err = seeder.Run()
	}
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if !*fast {
		log.Printf("All seeded accounts use the password: %s", seed.DemoPassword)
	}
	log.Println("Seeding complete.")
}
