package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"groupware-approval/internal/usecase/notification"
)

var kinds = []notification.Kind{notification.KindApproval, notification.KindAuthor}

// BadgeCache stores notification badges as "1"/"0" strings under
// badge:<kind>:<actor>.
type BadgeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBadgeCache(rdb *redis.Client, ttl time.Duration) *BadgeCache {
	return &BadgeCache{rdb: rdb, ttl: ttl}
}

func badgeKey(kind notification.Kind, actorID uint64) string {
	return "badge:" + string(kind) + ":" + strconv.FormatUint(actorID, 10)
}

func (c *BadgeCache) Get(ctx context.Context, kind notification.Kind, actorID uint64) (bool, bool, error) {
	v, err := c.rdb.Get(ctx, badgeKey(kind, actorID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return v == "1", true, nil
}

func (c *BadgeCache) Set(ctx context.Context, kind notification.Kind, actorID uint64, value bool) error {
	v := "0"
	if value {
		v = "1"
	}
	return c.rdb.Set(ctx, badgeKey(kind, actorID), v, c.ttl).Err()
}

// Invalidate drops both badges of every given actor in one round trip.
func (c *BadgeCache) Invalidate(ctx context.Context, actorIDs ...uint64) error {
	if len(actorIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(actorIDs)*len(kinds))
	for _, id := range actorIDs {
		for _, k := range kinds {
			keys = append(keys, badgeKey(k, id))
		}
	}
	return c.rdb.Del(ctx, keys...).Err()
}
