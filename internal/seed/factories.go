// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"bookshelf/internal/models"
	"bookshelf/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded account gets.
const DemoPassword = "Password1234"

// Options control seeding volume and behavior.
type Options struct {
	NumUsers        int
	NumPosts        int
	CommentsPerPost int
	Clean           bool
	// SkipBcrypt stores a plaintext password marker instead of hashing.
	// Seeded accounts then cannot log in, but large seeds run much faster.
	SkipBcrypt bool
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rng  *rand.Rand
	opts Options
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	//nolint:gosec // weak randomness is fine for demo data
	return &Factory{db: db, rng: rand.New(rand.NewSource(seed)), opts: opts}
}

func (f *Factory) randomUsername() string {
	buf := make([]byte, validation.GeneratedUsernameLen)
	for i := range buf {
		buf[i] = validation.UsernameAlphabet[f.rng.Intn(len(validation.UsernameAlphabet))]
	}
	return string(buf)
}

// CreateUser persists a sample user together with its profile, mirroring the
// signup flow. Optional overrides adjust the profile before saving.
func (f *Factory) CreateUser(overrides ...func(*models.Profile)) (*models.User, error) {
	password := "plaintext:" + DemoPassword
	if !f.opts.SkipBcrypt {
		hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		password = string(hashed)
	}

	user := &models.User{
		Email:    fmt.Sprintf("%d.%s", gofakeit.Number(100, 999), gofakeit.Email()),
		Password: password,
		IsActive: true,
	}

	birth := gofakeit.DateRange(
		time.Date(1955, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC))

	profile := &models.Profile{
		Username:     f.randomUsername(),
		Name:         gofakeit.Name(),
		Introduction: gofakeit.Sentence(10),
		Gender:       models.Gender(f.rng.Intn(len(models.GenderLabels))),
		Workplace:    models.Workplace(f.rng.Intn(len(models.WorkplaceLabels))),
		Occupation:   models.Occupation(f.rng.Intn(len(models.OccupationLabels))),
		Industry:     models.Industry(f.rng.Intn(len(models.IndustryLabels))),
		Position:     models.Position(f.rng.Intn(len(models.PositionLabels))),
		Birth:        &birth,
	}
	profile.RecomputeAge(time.Now())

	for _, override := range overrides {
		override(profile)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, err
	}
	user.Profile = profile
	return user, nil
}

// CreatePost persists a review of the given book for the given user with a
// created_at spread over the past months so listings look lived-in.
func (f *Factory) CreatePost(user *models.User, book BookPreset, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		UserID:       user.ID,
		Title:        trimRunes(gofakeit.HipsterSentence(3), models.MaxPostTitleLen),
		Reason:       trimRunes(gofakeit.HipsterSentence(3), models.MaxPostReasonLen),
		Impressions:  trimRunes(gofakeit.Paragraph(1, 2, 8, " "), models.MaxPostImpressionsLen),
		Satisfaction: models.MinSatisfaction + f.rng.Intn(models.MaxSatisfaction-models.MinSatisfaction+1),
		BookTitle:    book.Title,
		BookAuthor:   book.Author,
		ISBN:         book.ISBN,
	}

	daysBack := f.rng.Intn(120)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(f.rng.Intn(24))*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment on the given post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:  user.ID,
		PostID:  post.ID,
		Content: trimRunes(gofakeit.Sentence(8), models.MaxCommentLen),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func trimRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
