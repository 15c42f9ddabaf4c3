package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProfile struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	loads := 0
	load := func(context.Context) (cachedProfile, error) {
		loads++
		return cachedProfile{Username: "reader_one", Name: "Reader"}, nil
	}

	got, err := Aside(ctx, ProfileKey("reader_one"), ProfileTTL, load)
	require.NoError(t, err)
	assert.Equal(t, "reader_one", got.Username)
	assert.Equal(t, 1, loads)

	// Second call is served from cache.
	got, err = Aside(ctx, ProfileKey("reader_one"), ProfileTTL, load)
	require.NoError(t, err)
	assert.Equal(t, "Reader", got.Name)
	assert.Equal(t, 1, loads)
}

func TestAsideLoadError(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	wantErr := errors.New("db down")
	_, err := Aside(ctx, PostKey(7), PostTTL, func(context.Context) (cachedProfile, error) {
		return cachedProfile{}, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestAsideWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	loads := 0
	got, err := Aside(ctx, ProfileKey("nobody"), ProfileTTL, func(context.Context) (int, error) {
		loads++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	// No cache means every call loads.
	_, err = Aside(ctx, ProfileKey("nobody"), ProfileTTL, func(context.Context) (int, error) {
		loads++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestGetJSONCorruptEntryDropped(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(ProfileKey("broken"), "{not json"))

	var dest cachedProfile
	assert.False(t, GetJSON(ctx, ProfileKey("broken"), &dest))
	assert.False(t, mr.Exists(ProfileKey("broken")))
}

func TestInvalidatePost(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	SetJSON(ctx, PostKey(3), cachedProfile{Username: "x"}, time.Minute)
	SetJSON(ctx, PostPageKey(1), []int{1, 2, 3}, time.Minute)
	SetJSON(ctx, PostPageKey(2), []int{4, 5}, time.Minute)

	InvalidatePost(ctx, 3)

	assert.False(t, mr.Exists(PostKey(3)))
	assert.False(t, mr.Exists(PostPageKey(1)))
	assert.False(t, mr.Exists(PostPageKey(2)))
}
