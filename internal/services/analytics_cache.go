package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/prepmate/prepmate-backend/internal/logger"
)

// AnalyticsCache is a read-through cache for analytics projections. A nil
// REDIS_ADDR yields an explicitly disabled cache; a configured address that
// cannot be reached fails startup. There is no silent degraded mode.
type AnalyticsCache interface {
	Enabled() bool
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type redisAnalyticsCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

type disabledAnalyticsCache struct{}

func (disabledAnalyticsCache) Enabled() bool                                     { return false }
func (disabledAnalyticsCache) Get(context.Context, string) ([]byte, bool)        { return nil, false }
func (disabledAnalyticsCache) Set(context.Context, string, []byte, time.Duration) {}

// NewAnalyticsCache builds the redis-backed cache from REDIS_ADDR. With no
// address configured the returned cache reports Enabled() == false and the
// choice is logged once at startup.
func NewAnalyticsCache(log *logger.Logger) (AnalyticsCache, error) {
	cacheLog := log.With("service", "AnalyticsCache")
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		cacheLog.Info("REDIS_ADDR not set, analytics cache disabled")
		return disabledAnalyticsCache{}, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	cacheLog.Info("Analytics cache enabled", "addr", addr)
	return &redisAnalyticsCache{log: cacheLog, rdb: rdb}, nil
}

func (c *redisAnalyticsCache) Enabled() bool { return true }

func (c *redisAnalyticsCache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *redisAnalyticsCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", "key", key, "error", err)
	}
}
