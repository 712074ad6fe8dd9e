// Package config provides configuration management for RiftRewind.
package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Response shapes accepted by RESPONSE_SHAPE.
const (
	ShapeEnvelope = "envelope"
	ShapeDirect   = "direct"
)

// Config holds all configuration values for the application.
type Config struct {
	// Riot API
	RiotAPIKey       string
	RiotBaseURL      string // Overrides https://{host}.api.riotgames.com when set
	MatchCount       int
	FetchConcurrency int

	// AI / LLM API
	AIAPIKey    string
	AIAPIURL    string
	AIModel     string
	AIMaxTokens int

	// Storage
	StorageBackend string
	RedisURL       string
	RedisKeyPrefix string
	SQLitePath     string
	DatabaseURL    string

	// Server
	ServerAddr    string
	ResponseShape string

	// Client endpoints
	LookupEndpoint  string
	ProcessEndpoint string
	AskEndpoint     string
	HTTPTimeout     time.Duration

	// Paths
	DataDir string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		// Riot API
		RiotAPIKey:       os.Getenv("RIOT_API_KEY"),
		RiotBaseURL:      strings.TrimRight(os.Getenv("RIOT_BASE_URL"), "/"),
		MatchCount:       getIntEnv("MATCH_COUNT", 10),
		FetchConcurrency: getIntEnv("FETCH_CONCURRENCY", 4),

		// AI / LLM API
		AIAPIKey:    os.Getenv("AI_API_KEY"),
		AIAPIURL:    getEnvOrDefault("AI_API_URL", "https://api.openai.com/v1/chat/completions"),
		AIModel:     getEnvOrDefault("AI_MODEL", "gpt-4o-mini"),
		AIMaxTokens: getIntEnv("AI_MAX_TOKENS", 1000),

		// Storage
		StorageBackend: strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageMemory)),
		RedisURL:       os.Getenv("REDIS_URL"),
		RedisKeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "riftrewind"),
		SQLitePath:     getEnvOrDefault("SQLITE_PATH", "riftrewind.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		// Server
		ServerAddr:    getEnvOrDefault("SERVER_ADDR", ":8080"),
		ResponseShape: strings.ToLower(getEnvOrDefault("RESPONSE_SHAPE", ShapeEnvelope)),

		// Client endpoints
		LookupEndpoint:  os.Getenv("LOOKUP_ENDPOINT"),
		ProcessEndpoint: os.Getenv("PROCESS_ENDPOINT"),
		AskEndpoint:     os.Getenv("ASK_ENDPOINT"),
		HTTPTimeout:     getDurationEnv("HTTP_TIMEOUT", 30*time.Second),

		// Paths
		DataDir: getEnvOrDefault("DATA_DIR", "data"),
	}

	return cfg, nil
}

// Validate checks the values the backend server needs.
// Client endpoints are checked per operation by the gateway instead.
func (c *Config) Validate() error {
	var errs []string

	if c.RiotAPIKey == "" {
		errs = append(errs, "RIOT_API_KEY is missing")
	}

	if c.AIAPIKey == "" {
		errs = append(errs, "AI_API_KEY is missing")
	}

	if c.MatchCount < 1 || c.MatchCount > 100 {
		errs = append(errs, "MATCH_COUNT must be between 1 and 100")
	}

	if c.FetchConcurrency < 1 {
		errs = append(errs, "FETCH_CONCURRENCY must be at least 1")
	}

	switch c.StorageBackend {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, "REDIS_URL is required for the redis storage backend")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres storage backend")
		}
	default:
		errs = append(errs, "STORAGE_BACKEND must be one of memory, redis, sqlite, postgres")
	}

	if c.ResponseShape != ShapeEnvelope && c.ResponseShape != ShapeDirect {
		errs = append(errs, "RESPONSE_SHAPE must be envelope or direct")
	}

	if len(errs) > 0 {
		log.Println("Config errors:")
		for _, e := range errs {
			log.Printf("  - %s", e)
		}
		return errors.New("configuration validation failed")
	}

	return nil
}

// ChampionDataPath returns the full path to champion.json
func (c *Config) ChampionDataPath() string {
	return filepath.Join(c.DataDir, "champion.json")
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}
