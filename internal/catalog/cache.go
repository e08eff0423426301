package catalog

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores raw catalog response bodies by request URL. Misses and
// failures are indistinguishable to the caller.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, body []byte)
}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (noCache) Put(context.Context, string, []byte) {}

// RedisCache keeps responses in Redis for a fixed TTL.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisCache(rdb *redis.Client, prefix string, ttl time.Duration, log *zap.Logger) *RedisCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCache{rdb: rdb, prefix: prefix, ttl: ttl, log: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("catalog cache get", zap.Error(err))
		}
		return nil, false
	}
	return b, true
}

func (c *RedisCache) Put(ctx context.Context, key string, body []byte) {
	if err := c.rdb.Set(ctx, c.prefix+key, body, c.ttl).Err(); err != nil {
		c.log.Warn("catalog cache put", zap.Error(err))
	}
}
