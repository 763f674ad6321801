package config

import (
	"os"
	"time"
)

// ServerConfig is read from the environment by breeze-server
type ServerConfig struct {
	Port          string
	DatabaseURL   string
	RedisURL      string // Optional, enables the quote cache
	QuoteURL      string
	QuoteCacheTTL time.Duration
	LogLevel      string
	MagicLinkEcho bool // Dev only, returns magic link tokens in the response
}

// LoadServer reads the server settings from the environment
func LoadServer() ServerConfig {
	ttl, err := time.ParseDuration(getEnv("QUOTE_CACHE_TTL", "1m"))
	if err != nil {
		ttl = time.Minute
	}
	return ServerConfig{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "postgres://localhost:5432/taskbreeze?sslmode=disable"),
		RedisURL:      os.Getenv("REDIS_URL"),
		QuoteURL:      getEnv("QUOTE_URL", "https://zenquotes.io/api/random"),
		QuoteCacheTTL: ttl,
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		MagicLinkEcho: os.Getenv("MAGIC_LINK_ECHO") == "true",
	}
}
