package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config carries everything read from the environment at startup.
type Config struct {
	Port        string
	DatabaseURL string
	// RedisAddr switches the challenge store and rate limiter to shared Redis
	// backends when set. Empty means in-process backends.
	RedisAddr string

	// CommentSecret keys the identity hash and challenge answer hash. Startup
	// fails without it.
	CommentSecret string
	SessionSecret string
	AdminPassword string

	RateLimitWindow time.Duration
	RateLimitMax    int
	CaptchaTTL      time.Duration
	GrantTTL        time.Duration
}

var ErrMissingCommentSecret = errors.New("COMMENT_SECRET is not set")

// Load reads configuration from the environment. godotenv is expected to have
// been loaded by the caller already.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=inkwell port=5432 sslmode=disable"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		CommentSecret:   os.Getenv("COMMENT_SECRET"),
		SessionSecret:   getEnv("SESSION_SECRET", "secret_key_change_me"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", time.Hour),
		RateLimitMax:    getInt("RATE_LIMIT_MAX", 5),
		CaptchaTTL:      getDuration("CAPTCHA_TTL", 10*time.Minute),
		GrantTTL:        getDuration("GRANT_TTL", 30*time.Minute),
	}

	if cfg.CommentSecret == "" {
		return nil, ErrMissingCommentSecret
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
