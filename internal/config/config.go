// Package config loads settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/logger"
)

const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Port string

	Store StoreConfig

	CatalogURL      string
	CatalogTimeout  time.Duration
	CatalogCacheTTL time.Duration

	JWTSecret      string
	AccessTokenTTL time.Duration
	PasswordScheme string

	MaxBodyBytes int64
	CORSOrigin   string

	Log logger.Config
}

type StoreConfig struct {
	Backend     string
	DataDir     string
	RedisURL    string
	RedisPrefix string
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getenv("PORT", "8080"),
		Store: StoreConfig{
			Backend:     strings.ToLower(getenv("STORE_BACKEND", BackendFile)),
			DataDir:     getenv("DATA_DIR", "./data"),
			RedisURL:    getenv("REDIS_URL", "redis://localhost:6379/0"),
			RedisPrefix: getenv("REDIS_PREFIX", "seeker:"),
		},
		CatalogURL:      strings.TrimRight(getenv("CATALOG_URL", "https://itunes.apple.com"), "/"),
		CatalogTimeout:  getenvDuration("CATALOG_TIMEOUT", 10*time.Second),
		CatalogCacheTTL: getenvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		JWTSecret:       getenv("JWT_SECRET", ""),
		AccessTokenTTL:  getenvDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		PasswordScheme:  getenv("PASSWORD_SCHEME", "plain"),
		MaxBodyBytes:    int64(getenvInt("MAX_BODY_BYTES", 1<<20)),
		CORSOrigin:      getenv("CORS_ALLOWED_ORIGIN", "*"),
		Log: logger.Config{
			Level:      getenv("LOG_LEVEL", "info"),
			Format:     getenv("LOG_FORMAT", "console"),
			Output:     getenv("LOG_OUTPUT", "stdout"),
			FilePath:   getenv("LOG_FILE_PATH", "logs/seeker.log"),
			MaxSize:    getenvInt("LOG_MAX_SIZE", 100),
			MaxBackups: getenvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getenvInt("LOG_MAX_AGE", 28),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file backend")
		}
	case BackendMemory:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.PasswordScheme {
	case "", "plain", "bcrypt":
	default:
		return fmt.Errorf("unknown PASSWORD_SCHEME %q", c.PasswordScheme)
	}
	if c.CatalogURL == "" {
		return fmt.Errorf("CATALOG_URL is required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	switch c.Log.Output {
	case "", "stdout", "file", "both":
	default:
		return fmt.Errorf("unknown LOG_OUTPUT %q", c.Log.Output)
	}
	return nil
}

// ValidateServe adds the checks that only matter for the HTTP server.
func (c *Config) ValidateServe() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
