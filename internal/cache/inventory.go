package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix  = "profile:%s"
	PostKeyPrefix     = "post:%d"
	PostPageKeyPrefix = "posts:page:%d"
)

const (
	ProfileTTL  = 5 * time.Minute
	PostTTL     = 30 * time.Minute
	PostPageTTL = 1 * time.Minute
)

func ProfileKey(username string) string {
	return fmt.Sprintf(ProfileKeyPrefix, username)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostPageKey(page int) string {
	return fmt.Sprintf(PostPageKeyPrefix, page)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, username string) {
	Invalidate(ctx, ProfileKey(username))
}

// InvalidatePost drops the cached post and all cached listing pages. Page
// membership shifts on any write, so the whole page namespace goes.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	InvalidatePostPages(ctx)
}

func InvalidatePostPages(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "posts:page:*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
