package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	ItemKeyPrefix    = "item:%d"
	BrowseKeyPrefix  = "items:browse"
	WebhookKeyPrefix = "webhook:msg:%s"
)

const (
	UserTTL    = 5 * time.Minute
	ItemTTL    = 10 * time.Minute
	BrowseTTL  = 1 * time.Minute
	WebhookTTL = 24 * time.Hour
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ItemKey(itemID uint) string {
	return fmt.Sprintf(ItemKeyPrefix, itemID)
}

// BrowseKey is the cache key for the default public browse page (no filters,
// first page). Filtered queries are not cached.
func BrowseKey() string {
	return BrowseKeyPrefix
}

func WebhookKey(messageID string) string {
	return fmt.Sprintf(WebhookKeyPrefix, messageID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateItem(ctx context.Context, itemID uint) {
	Invalidate(ctx, ItemKey(itemID))
	Invalidate(ctx, BrowseKey())
}
