// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Sport registry — every sport the pipeline knows how to fetch
// --------------------------------------------------------------------------

type SportConfig struct {
	ID            string
	Name          string
	CurrentSeason int
}

var SportRegistry = map[string]SportConfig{
	"FOOTBALL":   {ID: "FOOTBALL", Name: "Football (Soccer)", CurrentSeason: 2025},
	"BASKETBALL": {ID: "BASKETBALL", Name: "Basketball", CurrentSeason: 2025},
	"RUGBY":      {ID: "RUGBY", Name: "Rugby", CurrentSeason: 2025},
	"DARTS":      {ID: "DARTS", Name: "Darts", CurrentSeason: 2025},
	"TENNIS":     {ID: "TENNIS", Name: "Tennis", CurrentSeason: 2025},
	"ESPORTS":    {ID: "ESPORTS", Name: "Esports", CurrentSeason: 2025},
	"GOLF":       {ID: "GOLF", Name: "Golf", CurrentSeason: 2025},
}

// SportIDs returns all registered sport IDs in stable order.
func SportIDs() []string {
	return []string{"FOOTBALL", "BASKETBALL", "RUGBY", "DARTS", "TENNIS", "ESPORTS", "GOLF"}
}

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	GamesTable = "games"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Inbound rate limiting (API server)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Provider API keys. An empty key marks the provider unavailable —
	// its sports are skipped with a log line, never a crash.
	APISportsKey string
	SportDevsKey string
	RapidAPIKey  string

	// Outbound provider quotas (calls per rolling minute)
	APISportsCallsPerMin int
	SportDevsCallsPerMin int
	GolfAPICallsPerMin   int

	// Outbound HTTP
	HTTPTimeout time.Duration

	// Sweep
	SweepEnabled  bool
	SweepInterval time.Duration
	SweepDays     int
	SweepMajor    bool
	SweepWorkers  int
	SweepPause    time.Duration

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("NEON_DATABASE_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or NEON_DATABASE_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		APISportsKey: envOr("APISPORTS_API_KEY", ""),
		SportDevsKey: envOr("SPORTDEVS_API_KEY", ""),
		RapidAPIKey:  envOr("RAPIDAPI_KEY", ""),

		APISportsCallsPerMin: envInt("APISPORTS_CALLS_PER_MIN", 30),
		SportDevsCallsPerMin: envInt("SPORTDEVS_CALLS_PER_MIN", 60),
		GolfAPICallsPerMin:   envInt("GOLFAPI_CALLS_PER_MIN", 10),

		HTTPTimeout: time.Duration(envInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,

		SweepEnabled:  envBool("SWEEP_ENABLED", false),
		SweepInterval: time.Duration(envInt("SWEEP_INTERVAL_MINUTES", 360)) * time.Minute,
		SweepDays:     envInt("SWEEP_DAYS", 3),
		SweepMajor:    envBool("SWEEP_MAJOR_ONLY", true),
		SweepWorkers:  envInt("SWEEP_WORKERS", 2),
		SweepPause:    time.Duration(envInt("SWEEP_PAUSE_SECONDS", 2)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
