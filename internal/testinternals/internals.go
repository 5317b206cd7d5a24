// Package testinternals holds helpers for tests that need a real postgres or
// redis, started separately (docker compose, CI services).
package testinternals

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/2beens/liftlog/internal/db"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewTestDBPool connects to the test database, applies the migrations and
// empties every table. The pool is closed when the test ends.
func NewTestDBPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := envOr("POSTGRES_HOST", "localhost")
	t.Logf("using postgres host: %s", host)

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     host,
		DBPort:     envOr("POSTGRES_PORT", "5432"),
		DBName:     envOr("POSTGRES_DB", "liftlog_test"),
		DBUser:     envOr("POSTGRES_USER", "postgres"),
		DBPassword: os.Getenv("POSTGRES_PASS"),
	})
	require.NoError(t, err)
	t.Cleanup(dbPool.Close)

	require.NoError(t, dbPool.Ping(ctx))
	require.NoError(t, db.RunMigrations(dbPool))

	_, err = dbPool.Exec(ctx, `TRUNCATE app_user, exercise, user_favorite_exercise, workout, workout_template CASCADE;`)
	require.NoError(t, err)

	return dbPool
}

// NewTestRedisClient connects to the test redis and flushes its default db.
func NewTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisHost := envOr("REDIS_HOST", "localhost")
	t.Logf("using redis host: [%s]", redisHost)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(redisHost, envOr("REDIS_PORT", "6379")),
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	require.NoError(t, rdb.Ping(ctx).Err())
	require.NoError(t, rdb.FlushDB(ctx).Err())

	return rdb
}
