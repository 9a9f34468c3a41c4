package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all runtime configuration, read from the environment.
type AppConfig struct {
	// Port serves the public API; OpsPort serves health and metrics.
	Port    string
	OpsPort string

	// GeoMetBaseURL is the root of the upstream hydrometric API.
	GeoMetBaseURL string

	// HTTPTimeout bounds each outbound upstream call.
	HTTPTimeout time.Duration

	// RealtimeLimit caps the number of 5-minute samples requested per fetch.
	RealtimeLimit int

	// TrackedStations are refreshed in the background on RefreshInterval.
	TrackedStations []string
	RefreshInterval time.Duration

	// In-memory snapshot store retention.
	StoreMaxHistory int           // max snapshots per station (0 = unlimited)
	StoreMaxAge     time.Duration // max snapshot age (0 = unlimited)

	// StationCacheSize bounds the station catalog LRU cache.
	StationCacheSize int

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.OpsPort = getenvDefault("OPS_PORT", "9090")
	cfg.GeoMetBaseURL = getenvDefault("GEOMET_BASE_URL", "https://api.weather.gc.ca")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "15s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.RealtimeLimit = getenvInt("REALTIME_LIMIT", 10000)

	cfg.TrackedStations = splitList(os.Getenv("TRACKED_STATIONS"))

	interval, err := getenvDuration("REFRESH_INTERVAL", "1h")
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 24)

	maxAge, err := getenvDuration("STORE_MAX_AGE", "48h")
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	cfg.StationCacheSize = getenvInt("STATION_CACHE_SIZE", 256)

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")

	return cfg, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
