package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	ImportWorkerCount int
	ImportQueueSize   int
	SweepInterval     time.Duration
	SessionIdleFor    time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "flashdeck.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		ImportWorkerCount: envIntOr("IMPORT_WORKER_COUNT", 2),
		ImportQueueSize:   envIntOr("IMPORT_QUEUE_SIZE", 32),
		SweepInterval:     envDurationOr("SWEEP_INTERVAL", time.Minute),
		SessionIdleFor:    envDurationOr("SESSION_IDLE_TIMEOUT", 30*time.Minute),
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.ImportWorkerCount < 1 {
		return fmt.Errorf("IMPORT_WORKER_COUNT must be at least 1")
	}
	if c.ImportQueueSize < 1 {
		return fmt.Errorf("IMPORT_QUEUE_SIZE must be at least 1")
	}
	if c.SweepInterval < time.Second {
		return fmt.Errorf("SWEEP_INTERVAL must be at least 1s")
	}
	if c.SessionIdleFor < time.Minute {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be at least 1m")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
