package infra

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// ReportCache is a cache-aside store for report projections. Keys embed a
// generation counter; Invalidate bumps it, so every entry written before a
// price write becomes unreachable at once. A nil *ReportCache, or one without
// a client, always misses.
type ReportCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewReportCache(rdb *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{rdb: rdb, ttl: ttl, prefix: "grocery:reports"}
}

func (c *ReportCache) enabled() bool { return c != nil && c.rdb != nil && c.ttl > 0 }

func (c *ReportCache) versionKey() string { return c.prefix + ":version" }

func (c *ReportCache) key(ctx context.Context, name string) (string, error) {
	v, err := c.rdb.Get(ctx, c.versionKey()).Int64()
	if err == redis.Nil {
		v, err = 0, nil
	}
	if err != nil {
		return "", err
	}
	return c.prefix + ":v" + strconv.FormatInt(v, 10) + ":" + name, nil
}

// Get decodes the cached value for name into dst. It also returns the
// versioned key resolved for this read ("" when the cache is off); pass it
// to Set so a value loaded before an Invalidate lands under the old version.
func (c *ReportCache) Get(ctx context.Context, name string, dst any) (string, bool) {
	if !c.enabled() {
		return "", false
	}
	key, err := c.key(ctx, name)
	if err != nil {
		return "", false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return key, false
	}
	return key, json.Unmarshal(b, dst) == nil
}

// Set caches v under a key returned by Get. Failures are logged and
// otherwise ignored.
func (c *ReportCache) Set(ctx context.Context, key string, v any) {
	if !c.enabled() || key == "" {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("report cache: set failed")
	}
}

// Invalidate drops every cached projection.
func (c *ReportCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Incr(ctx, c.versionKey()).Err(); err != nil {
		log.Warn().Err(err).Msg("report cache: invalidate failed")
	}
}
