// Package cache provides a redis read-through cache for active-user lookups.
// The cache is strictly advisory: every miss or redis error falls back to the
// database, and mutations invalidate the key.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"flyhigh/internal/models"

	"github.com/redis/go-redis/v9"
)

type UserCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewUserCache(redisURL string, ttl time.Duration, logger *slog.Logger) (*UserCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &UserCache{client: client, ttl: ttl, logger: logger}, nil
}

func (c *UserCache) Get(id uint) (*models.User, bool) {
	payload, err := c.client.Get(context.Background(), userKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("user cache read failed", "id", id, "error", err)
		}
		return nil, false
	}

	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		c.logger.Debug("user cache entry corrupt", "id", id, "error", err)
		return nil, false
	}
	return &user, true
}

func (c *UserCache) Set(user *models.User) {
	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := c.client.Set(context.Background(), userKey(user.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Debug("user cache write failed", "id", user.ID, "error", err)
	}
}

func (c *UserCache) Invalidate(id uint) {
	if err := c.client.Del(context.Background(), userKey(id)).Err(); err != nil {
		c.logger.Debug("user cache invalidation failed", "id", id, "error", err)
	}
}

func (c *UserCache) Close() error {
	return c.client.Close()
}

func userKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}
