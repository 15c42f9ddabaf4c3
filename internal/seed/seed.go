package seed

import (
	_ "embed"
	"fmt"
	"log"
	"os"

	"bookshelf/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed presets.yml
var builtinPresets []byte

// BookPreset is one seedable catalog record. Seeding never calls the real
// catalog API; reviews are written against this fixed list.
type BookPreset struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	ISBN   string `yaml:"isbn"`
}

// Preset is a named seeding volume.
type Preset struct {
	Name            string `yaml:"name"`
	Users           int    `yaml:"users"`
	Posts           int    `yaml:"posts"`
	CommentsPerPost int    `yaml:"comments_per_post"`
}

// Catalog is the parsed preset file.
type Catalog struct {
	Presets []Preset     `yaml:"presets"`
	Books   []BookPreset `yaml:"books"`
}

// LoadCatalog parses the preset file at path, or the built-in one when path
// is empty.
func LoadCatalog(path string) (*Catalog, error) {
	raw := builtinPresets
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read preset file: %w", err)
		}
	}

	var catalog Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse preset file: %w", err)
	}
	if len(catalog.Books) == 0 {
		return nil, fmt.Errorf("preset file lists no books")
	}
	return &catalog, nil
}

// Find returns the named preset.
func (c *Catalog) Find(name string) (Preset, error) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q", name)
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	catalog *Catalog
	opts    Options
}

// NewSeeder creates a Seeder. A nil catalog falls back to the built-in one.
func NewSeeder(db *gorm.DB, opts Options, catalog *Catalog) (*Seeder, error) {
	if catalog == nil {
		var err error
		catalog, err = LoadCatalog("")
		if err != nil {
			return nil, err
		}
	}
	return &Seeder{db: db, factory: NewFactory(db, opts), catalog: catalog, opts: opts}, nil
}

// ClearAll removes every seeded row. Deletion runs child tables first so it
// works without cascading constraints.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Comment{}, &models.Post{}, &models.Profile{}, &models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// Run seeds users with profiles, review posts and comments.
func (s *Seeder) Run() error {
	opts := s.opts
	log.Printf("Seeding %d users, %d posts (%d comments each)...",
		opts.NumUsers, opts.NumPosts, opts.CommentsPerPost)

	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("clear existing data: %w", err)
		}
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	if len(users) == 0 {
		return nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		book := s.catalog.Books[s.factory.rng.Intn(len(s.catalog.Books))]
		post, err := s.factory.CreatePost(author, book)
		if err != nil {
			return fmt.Errorf("create post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	log.Printf("created %d posts", len(posts))

	comments := 0
	for _, post := range posts {
		for i := 0; i < opts.CommentsPerPost; i++ {
			commenter := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
			comments++
		}
	}
	log.Printf("created %d comments", comments)

	return nil
}

// ApplyPreset runs seeding with a named preset's volumes, keeping the other
// options the seeder was created with.
func (s *Seeder) ApplyPreset(name string) error {
	preset, err := s.catalog.Find(name)
	if err != nil {
		return err
	}
	s.opts.NumUsers = preset.Users
	s.opts.NumPosts = preset.Posts
	s.opts.CommentsPerPost = preset.CommentsPerPost
	return s.Run()
}
