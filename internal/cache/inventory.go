package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	PostVotesKeyPrefix    = "votes:post:%d"
	CommentVotesKeyPrefix = "votes:comment:%d"
)

// VoteCountTTL bounds staleness if an invalidation is ever lost.
const VoteCountTTL = 5 * time.Minute

func PostVotesKey(postID uint) string {
	return fmt.Sprintf(PostVotesKeyPrefix, postID)
}

func CommentVotesKey(commentID uint) string {
	return fmt.Sprintf(CommentVotesKeyPrefix, commentID)
}

// GetCount reads a cached counter. The second return value reports a hit;
// a nil client or any Redis error is a miss.
func GetCount(ctx context.Context, key string) (int64, bool) {
	if client == nil {
		return 0, false
	}
	raw, err := client.Get(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetCount stores a counter with the vote-count TTL. Best effort.
func SetCount(ctx context.Context, key string, n int64) {
	if client != nil {
		client.Set(ctx, key, strconv.FormatInt(n, 10), VoteCountTTL)
	}
}

// Invalidate removes keys from the cache. Best effort.
func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
