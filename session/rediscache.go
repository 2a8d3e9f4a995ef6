package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mentorhub/mentor-portal-api/models"
)

// RedisCache is the production Cache backed by a redis hash per account. Role
// and display name live in one hash so they are written and cleared together.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a redis-backed session cache from a redis URL
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func sessionKey(accountID string) string {
	return "session:" + accountID
}

// Get returns the cached session for the account, or (nil, nil) when no entry exists
func (c *RedisCache) Get(ctx context.Context, accountID string) (*models.Session, error) {
	fields, err := c.client.HGetAll(ctx, sessionKey(accountID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return &models.Session{
		Role: models.Role(fields["role"]),
		Name: fields["name"],
	}, nil
}

// Put stores role and name for the account in a single HSET
func (c *RedisCache) Put(ctx context.Context, accountID string, session models.Session) error {
	return c.client.HSet(ctx, sessionKey(accountID), "role", string(session.Role), "name", session.Name).Err()
}

// Clear removes the whole cache entry for the account
func (c *RedisCache) Clear(ctx context.Context, accountID string) error {
	return c.client.Del(ctx, sessionKey(accountID)).Err()
}
