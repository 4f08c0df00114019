package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache holds rendered leaderboard pages. It is fail-open: callers
// nil-check the cache and fall through to the database when redis is down.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Printf("Connected to Redis at %s", redisURL)
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, key).Bytes()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeleteByPrefix removes every key under prefix via SCAN, so invalidation
// never blocks redis the way KEYS would.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// LeaderboardKey names a rendered leaderboard page.
// Format: "leaderboard:<gameID>:<page>:<limit>".
func LeaderboardKey(gameID string, page, limit int) string {
	return fmt.Sprintf("leaderboard:%s:%d:%d", gameID, page, limit)
}

// LeaderboardPrefix is the invalidation prefix for one game's pages.
func LeaderboardPrefix(gameID string) string {
	return "leaderboard:" + gameID + ":"
}
