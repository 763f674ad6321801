package quote

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/model"
)

// CacheKey holds the most recent upstream quote
const CacheKey = "taskbreeze:quote"

// RedisCache caches successful results of a source for a fixed TTL.
// Failures of the wrapped source are not cached.
type RedisCache struct {
	base  Source
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCache wraps base. A nil client or zero ttl disables caching.
func NewRedisCache(base Source, client *redis.Client, ttl time.Duration) *RedisCache {
	if base == nil {
		panic("quote.NewRedisCache: base source is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{base: base, redis: client, ttl: ttl}
}

func (c *RedisCache) Quote(ctx context.Context) (model.Quote, error) {
	if q, ok := c.load(ctx); ok {
		return q, nil
	}
	q, err := c.base.Quote(ctx)
	if err != nil {
		return model.Quote{}, err
	}
	c.store(ctx, q)
	return q, nil
}

func (c *RedisCache) load(ctx context.Context) (model.Quote, bool) {
	if c.redis == nil {
		return model.Quote{}, false
	}
	data, err := c.redis.Get(ctx, CacheKey).Bytes()
	if err != nil {
		// Only a corrupt entry is evicted, never on a transport error
		if err != redis.Nil {
			logger.Debug("Quote cache unavailable", logger.Err(err))
		}
		return model.Quote{}, false
	}
	var q model.Quote
	if err := json.Unmarshal(data, &q); err != nil || q.Text == "" {
		_ = c.redis.Del(ctx, CacheKey).Err()
		return model.Quote{}, false
	}
	return q, true
}

func (c *RedisCache) store(ctx context.Context, q model.Quote) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(q)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, CacheKey, data, c.ttl).Err()
}
