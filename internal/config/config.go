package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int
	DatabasePath    string
	MediaPath       string // Base path for uploaded recipe images
	JWTSecret       string
	TokenTTL        time.Duration
	CleanupSchedule string // Standard cron expression for the media/event janitor
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttlStr := getEnv("TOKEN_TTL", "24h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:      port,
		DatabasePath:    getEnv("DATABASE_PATH", "./recipes.db"),
		MediaPath:       getEnv("MEDIA_PATH", "./media"),
		JWTSecret:       secret,
		TokenTTL:        ttl,
		CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "0 4 * * *"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
