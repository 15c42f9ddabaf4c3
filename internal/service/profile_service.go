package service

import (
	"context"
	"fmt"
	"time"

	"bookshelf/internal/cache"
	"bookshelf/internal/models"
	"bookshelf/internal/repository"
	"bookshelf/internal/validation"
)

// AvatarSaver is the slice of the media store avatar updates need.
type AvatarSaver interface {
	SaveAvatar(userID uint, data []byte) (string, error)
}

// ProfileService owns profile reads and edits.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	media       AvatarSaver
	now         func() time.Time
}

// UpdateProfileInput carries an edit to the caller's own profile. All fields
// replace the stored values.
type UpdateProfileInput struct {
	UserID       uint
	Username     string
	Name         string
	Introduction string
	Gender       models.Gender
	Workplace    models.Workplace
	Occupation   models.Occupation
	Industry     models.Industry
	Position     models.Position
	Birth        *time.Time
}

// NewProfileService returns a ProfileService.
func NewProfileService(profileRepo repository.ProfileRepository, media AvatarSaver, now func() time.Time) *ProfileService {
	if now == nil {
		now = time.Now
	}
	return &ProfileService{profileRepo: profileRepo, media: media, now: now}
}

// GetByUsername returns the public profile for a username.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.profileRepo.GetByUsername(ctx, username)
}

// GetByUserID returns the profile owned by a user.
func (s *ProfileService) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// UpdateProfile validates and applies an edit to the caller's profile. The
// derived age is recomputed on every save so it can never drift from the
// birth date.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateProfileUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Username != profile.Username {
		taken, err := s.profileRepo.UsernameExists(ctx, in.Username, in.UserID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewValidationError("This username is already taken")
		}
	}

	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len([]rune(in.Name)) > models.MaxProfileNameLen {
		return nil, models.NewValidationError(fmt.Sprintf("Name must not exceed %d characters", models.MaxProfileNameLen))
	}
	if len([]rune(in.Introduction)) > models.MaxIntroductionLen {
		return nil, models.NewValidationError(fmt.Sprintf("Introduction must not exceed %d characters", models.MaxIntroductionLen))
	}
	if err := validation.ValidateBirthDate(in.Birth, s.now()); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !in.Gender.Valid() || !in.Workplace.Valid() || !in.Occupation.Valid() ||
		!in.Industry.Valid() || !in.Position.Valid() {
		return nil, models.NewValidationError("Invalid selection value")
	}

	oldUsername := profile.Username
	profile.Username = in.Username
	profile.Name = in.Name
	profile.Introduction = in.Introduction
	profile.Gender = in.Gender
	profile.Workplace = in.Workplace
	profile.Occupation = in.Occupation
	profile.Industry = in.Industry
	profile.Position = in.Position
	profile.Birth = in.Birth
	profile.RecomputeAge(s.now())

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	// The cached entry under the old username is now stale.
	if oldUsername != profile.Username {
		cache.InvalidateProfile(ctx, oldUsername)
	}
	return profile, nil
}

// UpdateAvatar stores a new avatar image and records its path on the profile.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID uint, data []byte) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.media == nil {
		return nil, models.NewInternalError(errMediaUnconfigured)
	}

	path, err := s.media.SaveAvatar(userID, data)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	profile.AvatarPath = path
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

var errMediaUnconfigured = &models.AppError{
	Code:    models.CodeInternal,
	Message: "media storage is not configured",
}
