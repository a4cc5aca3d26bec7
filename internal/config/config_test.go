package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	os.Setenv(key, val)
	defer os.Unsetenv(key)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_ENV_INT"

	tests := []struct {
		name       string
		envVal     string
		defaultVal int
		want       int
	}{
		{"Valid", "30", 14, 30},
		{"Invalid", "abc", 14, 14},
		{"Empty", "", 14, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvInt(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetDefaultPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Skipping test because user home dir cannot be found")
	}

	keysPath := getDefaultKeysPath()
	expectedKeys := filepath.Join(home, ".config", "barkdash", "keys.json")
	if keysPath != expectedKeys {
		t.Errorf("getDefaultKeysPath() = %q, want %q", keysPath, expectedKeys)
	}

	dbPath := getDefaultDatabasePath()
	expectedDB := filepath.Join(home, ".config", "barkdash", "snapshots.db")
	if dbPath != expectedDB {
		t.Errorf("getDefaultDatabasePath() = %q, want %q", dbPath, expectedDB)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("KEYS_PATH", filepath.Join(tmp, "keys.json"))
	os.Setenv("DATABASE_PATH", filepath.Join(tmp, "snapshots.db"))
	defer os.Unsetenv("KEYS_PATH")
	defer os.Unsetenv("DATABASE_PATH")
	os.Unsetenv("BARK_API_URL")
	os.Unsetenv("USAGE_REFRESH_INTERVAL")
	os.Unsetenv("USAGE_RANGE_DAYS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, defaultAPIBaseURL)
	}
	if cfg.RefreshInterval != defaultRefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", cfg.RefreshInterval, defaultRefreshInterval)
	}
	if cfg.RangeDays != defaultRangeDays {
		t.Errorf("RangeDays = %d, want %d", cfg.RangeDays, defaultRangeDays)
	}
}

func TestLoadInvalidBaseURL(t *testing.T) {
	os.Setenv("BARK_API_URL", "not a url")
	defer os.Unsetenv("BARK_API_URL")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on an invalid base URL")
	}
}
