package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCache keeps per-user diary statistics in redis so repeated stats
// reads skip the aggregate queries. Best-effort only: every method is a
// no-op on a nil receiver and callers treat errors as cache misses.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis and verifies the connection. redisURL uses the
// redis:// scheme; password overrides the one embedded in the URL when set.
func New(redisURL, password string, ttl time.Duration) (*StatsCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &StatsCache{client: rdb, ttl: ttl}, nil
}

func statsKey(userID string) string {
	return fmt.Sprintf("diary:stats:user:%s", userID)
}

// Get unmarshals cached stats into dest. ok is false on a miss.
func (c *StatsCache) Get(ctx context.Context, userID string, dest any) (ok bool, err error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores stats under the user's key with the configured TTL.
func (c *StatsCache) Set(ctx context.Context, userID string, stats any) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(userID), raw, c.ttl).Err()
}

// Invalidate drops the cached stats after a diary mutation.
func (c *StatsCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, statsKey(userID)).Err()
}

// Close releases the underlying connection.
func (c *StatsCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
