package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds environment-driven configuration.
type Config struct {
	Toggl struct {
		APIToken    string
		BaseURL     string        // default: https://www.toggl.com/api/v8
		CreatedWith string        // client identifier sent with started entries
		Timeout     time.Duration // per-request HTTP timeout
	}
	MySQL struct {
		DSN string // e.g., user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
	}
	Sync struct {
		Timezone string // e.g., UTC (default), Europe/Berlin
		Schedule string // cron spec evaluated in Timezone
	}
	HTTP struct {
		Addr string
	}
	Log struct {
		Level  string // debug, info, warn, error
		Format string // text or json
	}
	Bugsnag struct {
		APIKey string
	}
	Env string // development, staging, production
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config

	cfg.Toggl.APIToken = os.Getenv("TOGGL_API_TOKEN")
	if cfg.Toggl.APIToken == "" {
		return cfg, errors.New("TOGGL_API_TOKEN is required")
	}
	cfg.Toggl.BaseURL = getEnv("TOGGL_BASE_URL", "https://www.toggl.com/api/v8")
	cfg.Toggl.CreatedWith = getEnv("TOGGL_CREATED_WITH", "toggl-entries")
	cfg.Toggl.Timeout = 30 * time.Second
	if v := os.Getenv("TOGGL_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("TOGGL_HTTP_TIMEOUT must be a positive duration, got %q", v)
		}
		cfg.Toggl.Timeout = d
	}

	cfg.MySQL.DSN = os.Getenv("MYSQL_DSN")

	cfg.Sync.Timezone = getEnv("SYNC_TZ", "UTC")
	if _, err := time.LoadLocation(cfg.Sync.Timezone); err != nil {
		return cfg, fmt.Errorf("SYNC_TZ: %w", err)
	}
	cfg.Sync.Schedule = getEnv("SYNC_SCHEDULE", "0 0 * * *")

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "text")
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return cfg, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.Log.Format)
	}

	cfg.Bugsnag.APIKey = os.Getenv("BUGSNAG_API_KEY")
	cfg.Env = getEnv("APP_ENV", "development")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
