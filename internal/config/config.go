// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"splitsmart/internal/backend"
)

type Config struct {
	// HTTP Server
	Port string

	// Snapshot backend
	SnapshotBackend string
	BoltDBPath      string
	SQLiteDBPath    string

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Gemini (optional; empty key selects the offline stub)
	GeminiAPIKey string
	GeminiModel  string

	// Worker
	InsightRefreshInterval time.Duration

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		SnapshotBackend: getEnv("SNAPSHOT_BACKEND", "memory"),
		BoltDBPath:      getEnv("BOLT_DB_PATH", "./data/splitsmart.bolt"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/splitsmart.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "splitsmart"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_added"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),

		InsightRefreshInterval: getEnvDuration("INSIGHT_REFRESH_INTERVAL", 15*time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !backend.Type(c.SnapshotBackend).IsValid() {
		errors = append(errors, fmt.Sprintf("invalid snapshot backend '%s': must be one of [memory bolt sqlite]", c.SnapshotBackend))
	}
	if c.SnapshotBackend == string(backend.BoltBackend) && c.BoltDBPath == "" {
		errors = append(errors, "bolt database path cannot be empty when using bolt backend")
	}
	if c.SnapshotBackend == string(backend.SQLiteBackend) && c.SQLiteDBPath == "" {
		errors = append(errors, "sqlite database path cannot be empty when using sqlite backend")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.InsightRefreshInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid insight refresh interval %v: must be at least 1 second", c.InsightRefreshInterval))
	} else if c.InsightRefreshInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid insight refresh interval %v: must be at most 24 hours", c.InsightRefreshInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// BackendConfig maps the settings to the snapshot store factory input.
func (c *Config) BackendConfig() backend.Config {
	return backend.Config{
		Type:         backend.Type(c.SnapshotBackend),
		BoltDBPath:   c.BoltDBPath,
		SQLiteDBPath: c.SQLiteDBPath,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
