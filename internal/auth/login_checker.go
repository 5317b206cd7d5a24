package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	redisClient *redis.Client
}

func NewLoginChecker(redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		redisClient: redisClient,
	}
}

// SessionUser resolves a session token into the id of its user.
func (c *LoginChecker) SessionUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrSessionNotFound
	}

	userID, err := c.redisClient.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	if userID == "" {
		return "", ErrSessionNotFound
	}

	return userID, nil
}
