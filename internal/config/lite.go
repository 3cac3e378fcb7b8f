// Package config provides configuration management for the servers.
// This file contains the lightweight configuration for the MCP server.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LiteConfig is a simplified configuration for standalone operation.
// It requires no config file and uses sensible defaults.
type LiteConfig struct {
	// Cache settings
	CacheMaxItems int           // Maximum items in memory cache
	CacheTTL      time.Duration // Default cache TTL
	RedisURL      string        // Optional shared cache

	// Scoring
	StrictValidation bool

	// Transport settings
	Transport string // Transport type: stdio

	// Logging
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: json, text
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	return &LiteConfig{
		CacheMaxItems:    1000,
		CacheTTL:         time.Hour,
		StrictValidation: true,
		Transport:        "stdio",
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

// LoadLiteConfig loads configuration from environment variables and an
// optional .env file. Falls back to defaults if not set.
func LoadLiteConfig() *LiteConfig {
	_ = godotenv.Load()

	cfg := DefaultLiteConfig()

	if v := os.Getenv("BAMIC_CACHE_MAX_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheMaxItems = n
		}
	}
	if v := os.Getenv("BAMIC_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheTTL = d
		}
	}
	cfg.RedisURL = os.Getenv("BAMIC_REDIS_URL")

	if v := os.Getenv("BAMIC_STRICT_VALIDATION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.StrictValidation = b
		}
	}

	if v := os.Getenv("BAMIC_TRANSPORT"); v != "" {
		cfg.Transport = v
	}

	if v := os.Getenv("BAMIC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BAMIC_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	return cfg
}
