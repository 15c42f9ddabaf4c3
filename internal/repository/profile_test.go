package repository

import (
	"context"
	"testing"

	"bookshelf/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepositoryGetByUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(testDB)

	createTestUser(t, "profile-get@example.com", "profilegetuser")

	got, err := repo.GetByUsername(ctx, "profilegetuser")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDisplayName, got.Name)

	_, err = repo.GetByUsername(ctx, "no_such_user_xx")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestProfileRepositoryUsernameExists(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(testDB)

	owner := createTestUser(t, "exists-a@example.com", "existinguser1")
	createTestUser(t, "exists-b@example.com", "existinguser2")

	exists, err := repo.UsernameExists(ctx, "existinguser1", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	// A user keeps their own username when editing.
	exists, err = repo.UsernameExists(ctx, "existinguser1", owner.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.UsernameExists(ctx, "existinguser2", owner.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UsernameExists(ctx, "brand_new_name", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProfileRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(testDB)

	user := createTestUser(t, "profile-upd@example.com", "profileupduser")

	profile, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)

	profile.Name = "Shelf Reader"
	profile.Gender = models.Gender(2)
	require.NoError(t, repo.Update(ctx, profile))

	got, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shelf Reader", got.Name)
	assert.Equal(t, "Female", got.Gender.Label())
}
