package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"
)

const (
	DefaultTTL       = 7 * 24 * time.Hour
	sessionKeyPrefix = "liftlog-session||"
	tokenLength      = 40
)

var ErrSessionNotFound = errors.New("session not found")

// Service issues and revokes session tokens. A session is a redis key
// holding the user id, expiring after ttl.
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(ttl time.Duration, redisClient *redis.Client) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Login creates a new session for the user and returns its token.
func (s *Service) Login(ctx context.Context, userID string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	if err := s.redisClient.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

// Logout removes the session. Returns false if the session was already gone.
func (s *Service) Logout(ctx context.Context, token string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.logout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	deleted, err := s.redisClient.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}

	return deleted > 0, nil
}
