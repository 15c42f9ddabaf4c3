package repository

import (
	"context"
	"fmt"
	"testing"

	"bookshelf/internal/cache"
	"bookshelf/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func createTestPost(t *testing.T, userID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:       userID,
		Title:        title,
		Reason:       "recommended by a friend",
		Impressions:  "left a lasting impression",
		Satisfaction: 4,
		BookTitle:    "The Go Programming Language",
		BookAuthor:   "Donovan / Kernighan",
		ISBN:         "9784621300251",
	}
	require.NoError(t, NewPostRepository(testDB).Create(context.Background(), post))
	return post
}

func TestPostRepositoryGetByIDDetails(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(testDB)

	user := createTestUser(t, uniqueEmail("post-details", 1), "postdetailuser")
	post := createTestPost(t, user.ID, "a fine read")

	require.NoError(t, NewCommentRepository(testDB).Create(ctx, &models.Comment{
		UserID:  user.ID,
		PostID:  post.ID,
		Content: "agreed",
	}))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "a fine read", got.Title)
	assert.Equal(t, 1, got.CommentsCount)
	assert.Equal(t, models.DefaultDisplayName, got.AuthorName)
}

func TestPostRepositoryListByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(testDB)

	user := createTestUser(t, uniqueEmail("post-list", 1), "postlistuser")
	other := createTestUser(t, uniqueEmail("post-list", 2), "postlistother")

	for i := 0; i < 3; i++ {
		createTestPost(t, user.ID, fmt.Sprintf("mine %d", i))
	}
	createTestPost(t, other.ID, "not mine")

	posts, err := repo.ListByUser(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	count, err := repo.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestPostRepositoryGetByIDCacheAside(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()
	repo := NewPostRepository(testDB)

	user := createTestUser(t, uniqueEmail("post-cache", 1), "postcacheuser")
	post := createTestPost(t, user.ID, "cached title")

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached title", got.Title)
	assert.True(t, mr.Exists(cache.PostKey(post.ID)))

	// A write behind the repository's back stays invisible until the entry
	// is invalidated.
	require.NoError(t, testDB.Model(&models.Post{}).
		Where("id = ?", post.ID).
		Update("title", "changed elsewhere").Error)

	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached title", got.Title)

	got.Title = "changed here"
	require.NoError(t, repo.Update(ctx, got))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed here", got.Title)
}

func TestPostRepositoryDeleteByUserDropsCachedPosts(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()
	repo := NewPostRepository(testDB)

	user := createTestUser(t, uniqueEmail("post-cascade", 1), "postcascadeuser")
	post := createTestPost(t, user.ID, "soon gone")

	_, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.PostKey(post.ID)))

	require.NoError(t, repo.DeleteByUser(ctx, user.ID))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	_, err = repo.GetByID(ctx, post.ID)
	require.Error(t, err)
}

func TestPostRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(testDB)

	user := createTestUser(t, uniqueEmail("post-del", 1), "postdeluser")
	post := createTestPost(t, user.ID, "to be removed")

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
