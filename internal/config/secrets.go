package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Secrets are the values that never go into the TOML file.
type Secrets struct {
	RedisPassword    string
	PostgresPassword string
	SentryDSN        string
	HoneycombEnabled bool
	HoneycombAPIKey  string
	OtelServiceName  string
}

// LoadSecrets reads secrets from the environment. When envFile is set, its
// entries are loaded first without overriding variables already present.
// A missing env file is not an error.
func LoadSecrets(envFile string) (*Secrets, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file [%s]: %w", envFile, err)
		}
	}

	return &Secrets{
		RedisPassword:    os.Getenv("LIFTLOG_REDIS_PASS"),
		PostgresPassword: os.Getenv("LIFTLOG_POSTGRES_PASS"),
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		HoneycombEnabled: strings.EqualFold(os.Getenv("HONEYCOMB_ENABLED"), "true"),
		HoneycombAPIKey:  os.Getenv("HONEYCOMB_API_KEY"),
		OtelServiceName:  os.Getenv("OTEL_SERVICE_NAME"),
	}, nil
}
