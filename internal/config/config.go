package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Fixture source names.
const (
	SourceMemory   = "memory"
	SourcePostgres = "postgres"
)

type Config struct {
	Port          string
	FixtureSource string
	DatabaseURL   string
	SeedPath      string
	RedisAddr     string
	ReplayLockTTL time.Duration
	LogLevel      string
	LogFormat     string
	CORSOrigins   []string
	BackendURL    string

	LogInterval    time.Duration
	CardDelay      time.Duration
	RouteDelay     time.Duration
	RevealInterval time.Duration
}

// LoadDotEnv reads .env into the environment when the file exists.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found (using environment variables)")
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:          Get("PORT", "3000"),
		FixtureSource: strings.ToLower(Get("FIXTURE_SOURCE", SourceMemory)),
		DatabaseURL:   Get("DATABASE_URL", ""),
		SeedPath:      Get("SEED_PATH", ""),
		RedisAddr:     Get("REDIS_ADDR", ""),
		LogLevel:      Get("LOG_LEVEL", "info"),
		LogFormat:     Get("LOG_FORMAT", "text"),
		BackendURL:    Get("BACKEND_URL", "http://localhost:3000"),
	}

	for _, o := range strings.Split(Get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"REPLAY_LOCK_TTL", "30s", &cfg.ReplayLockTTL},
		{"LOG_INTERVAL", "1500ms", &cfg.LogInterval},
		{"CARD_DELAY", "1000ms", &cfg.CardDelay},
		{"ROUTE_DELAY", "2000ms", &cfg.RouteDelay},
		{"REVEAL_INTERVAL", "4000ms", &cfg.RevealInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(Get(d.key, d.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("load config: %s: %w", d.key, err)
		}
		if v < 0 {
			return Config{}, fmt.Errorf("load config: %s must not be negative", d.key)
		}
		*d.dst = v
	}

	switch cfg.FixtureSource {
	case SourceMemory:
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("load config: DATABASE_URL is required when FIXTURE_SOURCE=%s", SourcePostgres)
		}
	default:
		return Config{}, fmt.Errorf("load config: unknown FIXTURE_SOURCE %q", cfg.FixtureSource)
	}

	if cfg.ReplayLockTTL == 0 {
		return Config{}, fmt.Errorf("load config: REPLAY_LOCK_TTL must be positive")
	}

	return cfg, nil
}
