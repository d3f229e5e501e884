package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/domain"
)

// TallyCache caches computed voting results in Redis, keyed per session.
// Entries are invalidated on any write that can change the tally and expire
// on a TTL as a safety net.
type TallyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewTallyCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *TallyCache {
	return &TallyCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// NewTallyCacheFromURL connects to Redis from a URL like
// redis://localhost:6379. Returns an error if the URL cannot be parsed or
// the server does not respond to a ping.
func NewTallyCacheFromURL(ctx context.Context, url string, ttl time.Duration, logger *zap.Logger) (*TallyCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return NewTallyCache(client, ttl, logger), nil
}

func tallyKey(sessionID uuid.UUID) string {
	return "tally:" + sessionID.String()
}

// Get returns the cached results, or (nil, nil) on a miss.
func (c *TallyCache) Get(ctx context.Context, sessionID uuid.UUID) (*domain.VotingResults, error) {
	data, err := c.client.Get(ctx, tallyKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var results domain.VotingResults
	if err := json.Unmarshal(data, &results); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		c.logger.Warn("dropping corrupt tally cache entry", zap.String("session_id", sessionID.String()), zap.Error(err))
		c.client.Del(ctx, tallyKey(sessionID))
		return nil, nil
	}
	return &results, nil
}

func (c *TallyCache) Set(ctx context.Context, sessionID uuid.UUID, results *domain.VotingResults) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tallyKey(sessionID), data, c.ttl).Err()
}

func (c *TallyCache) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	return c.client.Del(ctx, tallyKey(sessionID)).Err()
}

// Close releases the underlying Redis connection.
func (c *TallyCache) Close() error {
	return c.client.Close()
}
