package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/paintmcp/paintd/config"
)

const redisListKey = "paintd:journal"

// Redis journals to a capped Redis list. A TTL keeps abandoned hosts
// from leaking memory.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	max    int
}

// NewRedis connects to Redis and verifies it is reachable
func NewRedis(cfg config.RedisJournalConfig, maxEntries int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	var ttl time.Duration
	if cfg.TTLHours > 0 {
		ttl = time.Duration(cfg.TTLHours) * time.Hour
	}

	return &Redis{client: client, ttl: ttl, max: maxEntries}, nil
}

// Record implements Journal
func (j *Redis) Record(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	pipe := j.client.Pipeline()
	pipe.LPush(ctx, redisListKey, payload)
	if j.max > 0 {
		pipe.LTrim(ctx, redisListKey, 0, int64(j.max-1))
	}
	if j.ttl > 0 {
		pipe.Expire(ctx, redisListKey, j.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record entry: %w", err)
	}
	return nil
}

// List implements Journal
func (j *Redis) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	raw, err := j.client.LRange(ctx, redisListKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Prune implements Journal
func (j *Redis) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return j.client.Del(ctx, redisListKey).Err()
	}
	return j.client.LTrim(ctx, redisListKey, 0, int64(keep-1)).Err()
}

// Health implements Journal
func (j *Redis) Health(ctx context.Context) error {
	return j.client.Ping(ctx).Err()
}

// Close implements Journal
func (j *Redis) Close() error {
	return j.client.Close()
}
