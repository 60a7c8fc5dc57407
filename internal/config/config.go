// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	StoreBackend     string
	DatabasePath     string
	RedisURL         string
	JobsPath         string
	StoreQuota       int
	DigestDelay      time.Duration
	LogLevel         string
	AllowedUsers     []int64
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	backend := strings.ToLower(envOrDefault("STORE_BACKEND", BackendSQLite))
	switch backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want sqlite, redis or memory", backend)
	}

	quota := 5 << 20
	if raw := os.Getenv("STORE_QUOTA_BYTES"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid STORE_QUOTA_BYTES %q", raw)
		}
		quota = v
	}

	delay := 1500 * time.Millisecond
	if raw := os.Getenv("DIGEST_DELAY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid DIGEST_DELAY %q", raw)
		}
		delay = d
	}

	var allowedUsers []int64
	if raw := os.Getenv("ALLOWED_USERS"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			uid, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid user ID %q in ALLOWED_USERS: %w", s, err)
			}
			allowedUsers = append(allowedUsers, uid)
		}
	}

	return &Config{
		TelegramBotToken: token,
		StoreBackend:     backend,
		DatabasePath:     envOrDefault("DATABASE_PATH", "./data/jobtracker.db"),
		RedisURL:         envOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		JobsPath:         envOrDefault("JOBS_PATH", "./data/jobs.json"),
		StoreQuota:       quota,
		DigestDelay:      delay,
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		AllowedUsers:     allowedUsers,
	}, nil
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	return slices.Contains(c.AllowedUsers, userID)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
