package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the stresswatch service configuration, loaded from
// environment variables with local-dev defaults.
type Config struct {
	HTTP struct {
		Addr string
	}

	// DBEnabled=false keeps the service usable without Postgres: repositories
	// fall back to in-memory implementations (dev only, data is lost on
	// restart).
	DBEnabled bool
	Database  DatabaseConfig

	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}

	// Inference is the external stress-inference oracle.
	Inference struct {
		URL     string
		Timeout time.Duration
	}

	// Assistant is the external text-generation service behind the chat
	// pass-through.
	Assistant struct {
		URL     string
		Timeout time.Duration
	}

	// Events configures the Redis Stream that successful detections are
	// published to.
	Events struct {
		Stream string
	}

	Log struct {
		Level  string
		Format string
	}
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Load reads configuration from environment variables.
func Load() *Config {
	cfg := &Config{}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "stresswatch")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "true") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Inference.URL = getEnv("INFERENCE_URL", "http://localhost:8000")
	cfg.Inference.Timeout = parseDuration(getEnv("INFERENCE_TIMEOUT", "30s"), 30*time.Second)

	cfg.Assistant.URL = getEnv("ASSISTANT_URL", "http://localhost:8001")
	cfg.Assistant.Timeout = parseDuration(getEnv("ASSISTANT_TIMEOUT", "60s"), 60*time.Second)

	cfg.Events.Stream = getEnv("DETECTION_EVENT_STREAM", "detection:events")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(s); err == nil && v > 0 {
		return v
	}
	return defaultValue
}
