package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
)

const (
	listingKey    = "hostmydocs:listing"
	generationKey = "hostmydocs:listing:generation"
	payloadField  = "payload"
	etagField     = "etag"
	defaultTTL    = 10 * time.Minute
	dialTimeout   = 5 * time.Second
	ioTimeout     = 3 * time.Second
	pingTimeout   = 5 * time.Second
)

// errStaleGeneration aborts a write built before the latest invalidation
var errStaleGeneration = errors.New("listing generation moved")

// RedisConfig holds connection settings for the listing cache
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// RedisListingCache stores the listing snapshot in a Redis hash.
// Payload and ETag live under one key so they are always read together.
// A separate counter key, never expired, records invalidations.
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisListingCache connects to Redis and verifies the connection
func NewRedisListingCache(cfg RedisConfig, logger *slog.Logger) (*RedisListingCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = ioTimeout
	opts.WriteTimeout = ioTimeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRedisListingCache(client, cfg.TTL, logger), nil
}

func newRedisListingCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisListingCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisListingCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached snapshot; ok is false on a miss
func (c *RedisListingCache) Get(ctx context.Context) (*models.ListingSnapshot, bool, error) {
	fields, err := c.client.HGetAll(ctx, listingKey).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis get listing: %w", err)
	}

	payload, hasPayload := fields[payloadField]
	etag, hasETag := fields[etagField]
	if !hasPayload || !hasETag {
		if len(fields) > 0 {
			// half-written entry
			c.client.Del(ctx, listingKey)
		}
		return nil, false, nil
	}

	return &models.ListingSnapshot{Payload: []byte(payload), ETag: etag}, true, nil
}

// Generation returns the invalidation counter, 0 before the first invalidation
func (c *RedisListingCache) Generation(ctx context.Context) (int64, error) {
	generation, err := readGeneration(ctx, c.client)
	if err != nil {
		return 0, fmt.Errorf("redis get listing generation: %w", err)
	}
	return generation, nil
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, cmd stringGetter) (int64, error) {
	generation, err := cmd.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// Set stores snapshot with the configured TTL while the generation is unchanged.
// The generation key is watched, so an Invalidate racing the write aborts it.
func (c *RedisListingCache) Set(ctx context.Context, snapshot *models.ListingSnapshot, generation int64) error {
	if snapshot == nil {
		return errors.New("redis set listing: nil snapshot")
	}

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, listingKey, payloadField, snapshot.Payload, etagField, snapshot.ETag)
			pipe.Expire(ctx, listingKey, c.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("stale listing not cached", "generation", generation)
		return nil
	default:
		return fmt.Errorf("redis set listing: %w", err)
	}
}

// Invalidate drops the cached snapshot and bumps the generation
func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, listingKey)
		incr = pipe.Incr(ctx, generationKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate listing: %w", err)
	}
	c.logger.Debug("listing cache invalidated", "generation", incr.Val())
	return nil
}

// Ping checks the connection
func (c *RedisListingCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisListingCache) Close() error {
	return c.client.Close()
}
