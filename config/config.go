// Package config reads the service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string

	SessionTTL     time.Duration
	SessionBackend string
	CookieSecure   bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StoreDriver string
	DatabaseDSN string
	SeedData    bool

	CORSAllowedOrigins []string

	// RateLimitRPS of zero disables the login and contact limiter.
	RateLimitRPS   float64
	RateLimitBurst int

	TrustedProxies []string
}

// Load builds a Config from the environment, failing on missing credentials
// or malformed values.
func Load() (*Config, error) {
	cfg := &Config{
		GinMode:            String("GIN_MODE", "debug"),
		LogLevel:           String("LOG_LEVEL", "info"),
		AdminUsername:      String("ADMIN_USERNAME", ""),
		AdminPassword:      String("ADMIN_PASSWORD", ""),
		AdminPasswordHash:  String("ADMIN_PASSWORD_HASH", ""),
		SessionBackend:     strings.ToLower(String("SESSION_BACKEND", SessionMemory)),
		RedisAddr:          String("REDIS_ADDR", ""),
		RedisPassword:      String("REDIS_PASSWORD", ""),
		StoreDriver:        strings.ToLower(String("STORE_DRIVER", StoreMemory)),
		DatabaseDSN:        String("DATABASE_DSN", "cleaning.db"),
		CORSAllowedOrigins: List("CORS_ALLOWED_ORIGINS"),
		TrustedProxies:     List("TRUSTED_PROXIES"),
	}

	var err error
	if cfg.Port, err = Port("PORT", "3000"); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = Duration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = Bool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.SeedData, err = Bool("SEED_DATA", false); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = Int("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = Float("RATE_LIMIT_RPS", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = Int("RATE_LIMIT_BURST", 5); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME is required")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}

	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StoreMySQL:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of memory, sqlite, mysql (got %q)", c.StoreDriver)
	}

	switch c.SessionBackend {
	case SessionMemory:
	case SessionRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND must be memory or redis (got %q)", c.SessionBackend)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func String(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func Port(key, fallback string) (string, error) {
	v := String(key, fallback)
	p, err := strconv.Atoi(v)
	if err != nil || p < 1 || p > 65535 {
		return "", fmt.Errorf("%s must be a valid TCP port (got %q)", key, v)
	}
	return v, nil
}

func Int(key string, fallback int) (int, error) {
	v := String(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got %q)", key, v)
	}
	return n, nil
}

func Float(key string, fallback float64) (float64, error) {
	v := String(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number (got %q)", key, v)
	}
	return f, nil
}

func Bool(key string, fallback bool) (bool, error) {
	v := String(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean (got %q)", key, v)
	}
	return b, nil
}

func Duration(key string, fallback time.Duration) (time.Duration, error) {
	v := String(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 24h (got %q)", key, v)
	}
	return d, nil
}

// List splits a comma separated variable, dropping empty items.
func List(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
