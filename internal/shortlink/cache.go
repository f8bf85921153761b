package shortlink

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix  = "shortlink:"
	DefaultCacheTTL = 24 * time.Hour
)

// Cache keeps code → recipe id lookups in redis. A nil client turns every
// method into a miss or no-op, and redis failures are logged, never returned.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewCache(client *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl, log: log}
}

func (c *Cache) Get(ctx context.Context, code string) (uint64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	raw, err := c.client.Get(ctx, cacheKeyPrefix+code).Result()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		c.log.Warnw("short link cache read failed", "code", code, "error", err)
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.log.Warnw("corrupt short link cache entry", "code", code, "value", raw)
		return 0, false
	}
	return id, true
}

func (c *Cache) Set(ctx context.Context, code string, recipeID uint64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+code, strconv.FormatUint(recipeID, 10), c.ttl).Err(); err != nil {
		c.log.Warnw("short link cache write failed", "code", code, "error", err)
	}
}

func (c *Cache) Delete(ctx context.Context, code string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKeyPrefix+code).Err(); err != nil {
		c.log.Warnw("short link cache delete failed", "code", code, "error", err)
	}
}
