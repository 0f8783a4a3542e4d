package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"cityplus-be/models"
)

const feedKey = "public_issues"

// FeedCache keeps the public issue feed in Redis for a short TTL so the
// unauthenticated landing page doesn't hit MongoDB on every reload. It is
// strictly best-effort: any Redis failure falls through to the store.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewFeedCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *FeedCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedCache{client: client, ttl: ttl, log: log}
}

// Get returns the cached feed, or ok=false on miss or error.
func (c *FeedCache) Get(ctx context.Context) ([]models.Issue, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, feedKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("feed cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var issues []models.Issue
	if err := json.Unmarshal(raw, &issues); err != nil {
		c.log.Warn("feed cache decode failed", zap.Error(err))
		return nil, false
	}
	return issues, true
}

// Set stores the feed under the configured TTL.
func (c *FeedCache) Set(ctx context.Context, issues []models.Issue) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(issues)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, feedKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("feed cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached feed. Called after every issue mutation.
func (c *FeedCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, feedKey).Err(); err != nil {
		c.log.Warn("feed cache invalidation failed", zap.Error(err))
	}
}
