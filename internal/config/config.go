// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/joho/godotenv"
)

// Storage backends accepted by DATA_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

type Config struct {
	// HTTP
	Port string

	LogLevel string

	// Persistence
	DataBackend  string
	DataDir      string
	SQLiteDBPath string

	// Active category vocabulary ("personal" or "contractor")
	CategorySet string

	// Coaching model
	GeminiAPIKey      string
	GeminiModel       string
	InsightTimeout    time.Duration
	InsightMaxLines   int
	InsightQueueSize  int
	InsightMaxRetries int
}

// Load reads a .env file when one exists, then the process environment.
// Values already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataBackend:  strings.ToLower(getEnv("DATA_BACKEND", BackendSQLite)),
		DataDir:      getEnv("DATA_DIR", "./data"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/wealthsense.db"),

		CategorySet: getEnv("CATEGORY_SET", domain.PersonalSetName),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		InsightTimeout:    getEnvDuration("INSIGHT_TIMEOUT", 30*time.Second),
		InsightMaxLines:   getEnvInt("INSIGHT_MAX_LINES", 500),
		InsightQueueSize:  getEnvInt("INSIGHT_QUEUE_SIZE", 16),
		InsightMaxRetries: getEnvInt("INSIGHT_MAX_RETRIES", 0),
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLITE_DB_PATH cannot be empty when using the sqlite backend")
		}
	case BackendFile:
		if c.DataDir == "" {
			problems = append(problems, "DATA_DIR cannot be empty when using the file backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v",
			c.DataBackend, []string{BackendSQLite, BackendFile, BackendMemory}))
	}

	if _, err := domain.CategorySetByName(c.CategorySet); err != nil {
		problems = append(problems, err.Error())
	}

	if c.InsightTimeout < time.Second {
		problems = append(problems, fmt.Sprintf("invalid insight timeout %v: must be at least 1 second", c.InsightTimeout))
	}
	if c.InsightMaxLines < 3 {
		problems = append(problems, fmt.Sprintf("invalid insight max lines %d: must be at least 3", c.InsightMaxLines))
	}
	if c.InsightQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid insight queue size %d: must be at least 1", c.InsightQueueSize))
	}
	if c.InsightMaxRetries < 0 {
		problems = append(problems, fmt.Sprintf("invalid insight max retries %d: must not be negative", c.InsightMaxRetries))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Categories resolves the configured vocabulary. Call Validate first.
func (c *Config) Categories() domain.CategorySet {
	set, err := domain.CategorySetByName(c.CategorySet)
	if err != nil {
		return domain.PersonalCategories
	}
	return set
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
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
