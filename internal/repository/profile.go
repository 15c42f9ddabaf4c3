package repository

import (
	"context"
	"errors"

	"bookshelf/internal/cache"
	"bookshelf/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, userID uint) error
	UsernameExists(ctx context.Context, username string, excludeUserID uint) (bool, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return cache.Aside(ctx, cache.ProfileKey(username), cache.ProfileTTL,
		func(ctx context.Context) (*models.Profile, error) {
			var profile models.Profile
			if err := r.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, models.NewNotFoundError("Profile", username)
				}
				return nil, models.NewInternalError(err)
			}
			return &profile, nil
		})
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("This username is already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("This username is already taken")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, profile.Username)
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, userID uint) error {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, profile.Username)
	return nil
}

// UsernameExists reports whether another profile already owns username.
// excludeUserID lets a user keep their own name when editing.
func (r *profileRepository) UsernameExists(ctx context.Context, username string, excludeUserID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Profile{}).Where("username = ?", username)
	if excludeUserID != 0 {
		q = q.Where("user_id <> ?", excludeUserID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
