package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           string
	RedisURL       string
	JWTSecret      string
	AllowedOrigins string
	// AIPacing is the delay between automated AI actions so spectating
	// humans can follow what the AI is doing.
	AIPacing time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:           envOrDefault("PORT", "8012"),
		RedisURL:       envOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:      envOrDefault("JWT_SECRET", "dev-secret-change-me"),
		AllowedOrigins: envOrDefault("ALLOWED_ORIGINS", "*"),
		AIPacing:       time.Duration(envIntOrDefault("AI_PACING_MS", 800)) * time.Millisecond,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
