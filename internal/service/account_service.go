package service

import (
	"context"
	"math/rand/v2"
	"time"

	"bookshelf/internal/middleware"
	"bookshelf/internal/models"
	"bookshelf/internal/repository"
	"bookshelf/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Repos bundles the transaction-scoped repositories account operations touch.
type Repos struct {
	Users    repository.UserRepository
	Profiles repository.ProfileRepository
	Posts    repository.PostRepository
	Comments repository.CommentRepository
}

// AvatarRemover is the slice of the media store account deletion needs.
type AvatarRemover interface {
	RemoveUserDir(userID uint) error
}

// AccountService owns account lifecycle: signup and deletion. Signup creates
// the user and its profile in one transaction so a user row can never exist
// without a profile.
type AccountService struct {
	transact func(ctx context.Context, fn func(r Repos) error) error
	media    AvatarRemover
	now      func() time.Time
	randInt  func(n int) int
}

// SignupInput carries the fields required to open an account.
type SignupInput struct {
	Email    string
	Password string
}

// NewAccountService returns an AccountService backed by the given database.
func NewAccountService(db *gorm.DB, media AvatarRemover) *AccountService {
	return NewAccountServiceWithDeps(
		func(ctx context.Context, fn func(r Repos) error) error {
			return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				return fn(Repos{
					Users:    repository.NewUserRepository(tx),
					Profiles: repository.NewProfileRepository(tx),
					Posts:    repository.NewPostRepository(tx),
					Comments: repository.NewCommentRepository(tx),
				})
			})
		},
		media,
		time.Now,
		rand.IntN,
	)
}

// NewAccountServiceWithDeps wires explicit dependencies. Used by tests.
func NewAccountServiceWithDeps(
	transact func(ctx context.Context, fn func(r Repos) error) error,
	media AvatarRemover,
	now func() time.Time,
	randInt func(n int) int,
) *AccountService {
	return &AccountService{transact: transact, media: media, now: now, randInt: randInt}
}

// usernameAttempts bounds the collision retry loop for generated usernames.
// With a 64-character alphabet and 16 positions collisions are vanishingly
// rare; the bound exists so a broken store cannot loop forever.
const usernameAttempts = 10

// CreateUserWithProfile opens an account: it validates credentials, hashes
// the password, then creates the user and a profile with a generated username
// in a single transaction.
func (s *AccountService) CreateUserWithProfile(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Password: string(hashed),
		IsActive: true,
	}

	err = s.transact(ctx, func(r Repos) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}

		username, err := s.generateUsername(ctx, r.Profiles)
		if err != nil {
			return err
		}

		profile := &models.Profile{
			UserID:   user.ID,
			Username: username,
			Name:     models.DefaultDisplayName,
		}
		if err := r.Profiles.Create(ctx, profile); err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "account created",
		"user_id", user.ID, "username", user.Profile.Username)
	return user, nil
}

// generateUsername draws random candidates until one is free.
func (s *AccountService) generateUsername(ctx context.Context, profiles repository.ProfileRepository) (string, error) {
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		buf := make([]byte, validation.GeneratedUsernameLen)
		for i := range buf {
			buf[i] = validation.UsernameAlphabet[s.randInt(len(validation.UsernameAlphabet))]
		}
		candidate := string(buf)

		taken, err := profiles.UsernameExists(ctx, candidate, 0)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errUsernameSpaceExhausted
}

var errUsernameSpaceExhausted = &models.AppError{
	Code:    models.CodeInternal,
	Message: "could not allocate a unique username",
}

// DeleteAccount removes the user and everything they authored, then cleans
// up their stored media. The database work is transactional; media removal
// is best effort afterwards.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint) error {
	err := s.transact(ctx, func(r Repos) error {
		if _, err := r.Users.GetByID(ctx, userID); err != nil {
			return err
		}
		// Comments on the user's posts go first, while the posts still
		// exist to anchor the lookup.
		if err := r.Comments.DeleteByPostOwner(ctx, userID); err != nil {
			return err
		}
		if err := r.Comments.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := r.Posts.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := r.Profiles.Delete(ctx, userID); err != nil {
			return err
		}
		return r.Users.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	if s.media != nil {
		if err := s.media.RemoveUserDir(userID); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove user media",
				"user_id", userID, "error", err.Error())
		}
	}

	middleware.Logger.InfoContext(ctx, "account deleted", "user_id", userID)
	return nil
}
