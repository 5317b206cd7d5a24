package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultSessionTTL       = 7 * 24 * time.Hour
	defaultStatsWeeks       = 12
	defaultExerciseCacheMB  = 8
	defaultLoginRatePerMin  = 10
	defaultPrometheusPort   = "2112"
	defaultPrometheusHost   = "localhost"
	defaultPostgresPort     = "5432"
	defaultPostgresUser     = "postgres"
	defaultRedisPort        = "6379"
	defaultSentryServerName = "liftlog"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// auth
	SessionTTL                  Duration `toml:"session_ttl"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_per_min"`
	AllowedOrigins              []string `toml:"allowed_origins"`

	ExerciseCacheSizeMB int `toml:"exercise_cache_size_mb"`
	StatsDefaultWeeks   int `toml:"stats_default_weeks"`
}

// Duration lets TOML values like "168h" decode into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration [%s]: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
		if cfg != nil && cfg.Environment == "" {
			cfg.Environment = "development"
		}
	case "prod", "production":
		cfg = t.Production
		if cfg != nil && cfg.Environment == "" {
			cfg.Environment = "production"
		}
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}

	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}
	return t.Get(env)
}

// Parse is Load for in-memory TOML content.
func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.Get(env)
}

func (c *Config) applyDefaults() {
	if c.SessionTTL.Duration <= 0 {
		c.SessionTTL.Duration = defaultSessionTTL
	}
	if c.StatsDefaultWeeks <= 0 {
		c.StatsDefaultWeeks = defaultStatsWeeks
	}
	if c.ExerciseCacheSizeMB <= 0 {
		c.ExerciseCacheSizeMB = defaultExerciseCacheMB
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = defaultLoginRatePerMin
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = defaultPrometheusHost
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = defaultPrometheusPort
	}
	if c.PostgresPort == "" {
		c.PostgresPort = defaultPostgresPort
	}
	if c.PostgresUser == "" {
		c.PostgresUser = defaultPostgresUser
	}
	if c.RedisPort == "" {
		c.RedisPort = defaultRedisPort
	}
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.PostgresHost == "" || c.PostgresDBName == "" {
		return errors.New("postgres host and db name must be set")
	}
	if c.RedisHost == "" {
		return errors.New("redis host must be set")
	}
	return nil
}

func (c *Config) SentryServerName() string {
	return defaultSentryServerName + "-" + c.Environment
}
