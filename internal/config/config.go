// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	APIBaseURL      string
	KeysPath        string
	DatabasePath    string
	RefreshInterval time.Duration
	RangeDays       int
	RequestTimeout  time.Duration
}

// Default values
const (
	defaultAPIBaseURL      = "https://twitter.bark.gg"
	defaultRefreshInterval = 60 * time.Second
	defaultRangeDays       = 14
	defaultRequestTimeout  = 30 * time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIBaseURL:      getEnvString("BARK_API_URL", defaultAPIBaseURL),
		KeysPath:        getEnvString("KEYS_PATH", getDefaultKeysPath()),
		DatabasePath:    getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		RefreshInterval: getEnvDuration("USAGE_REFRESH_INTERVAL", defaultRefreshInterval),
		RangeDays:       getEnvInt("USAGE_RANGE_DAYS", defaultRangeDays),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
	}

	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid BARK_API_URL %q: %w", cfg.APIBaseURL, err)
	}

	if cfg.RangeDays < 1 {
		cfg.RangeDays = defaultRangeDays
	}

	// Ensure keys directory exists
	if err := ensureDir(filepath.Dir(cfg.KeysPath)); err != nil {
		return nil, err
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "barkdash", ".env"),
			filepath.Join(home, ".barkdash", ".env"),
		)
	}

	return paths
}

// getDefaultKeysPath returns the default path for the API keys file.
func getDefaultKeysPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "keys.json"
	}
	return filepath.Join(home, ".config", "barkdash", "keys.json")
}

// getDefaultDatabasePath returns the default path for the SQLite snapshot cache.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "snapshots.db"
	}
	return filepath.Join(home, ".config", "barkdash", "snapshots.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
