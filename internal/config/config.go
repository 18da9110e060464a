package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings loaded from env vars.
type Config struct {
	HTTPAddr    string
	Environment string
	LogLevel    string
	LogFormat   string

	// Geocoding providers
	NominatimURL        string
	GeocodeXYZURL       string
	GeocoderUserAgent   string
	GeocoderReferer     string
	GeocoderMinInterval time.Duration
	GeocoderTimeout     time.Duration

	// Postgres (service listing store)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (nearby response cache)
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	NearbyCacheEnabled bool
	NearbyCacheTTL     time.Duration
}

// Load loads configuration from environment variables.
// Optional variables fall back to development defaults; the Nominatim
// User-Agent default is a descriptive identifying string as the upstream
// usage policy requires.
func Load() Config {
	return Config{
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		LogFormat:   envOr("LOG_FORMAT", "json"),

		NominatimURL:        envOr("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		GeocodeXYZURL:       envOr("GEOCODE_XYZ_URL", "https://geocode.xyz"),
		GeocoderUserAgent:   envOr("GEOCODER_USER_AGENT", "ServiceSpot/1.0 (https://servicespot.com; contact@servicespot.com)"),
		GeocoderReferer:     envOr("GEOCODER_REFERER", "https://servicespot.com"),
		GeocoderMinInterval: envDurationOr("GEOCODER_MIN_INTERVAL", time.Second),
		GeocoderTimeout:     envDurationOr("GEOCODER_TIMEOUT", 10*time.Second),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "servicespot"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     envOr("DB_NAME", "servicespot"),
		DBSSLMode:  envOr("DB_SSLMODE", "disable"),

		RedisHost:     envOr("REDIS_HOST", "localhost"),
		RedisPort:     envIntOr("REDIS_PORT", 6379),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envIntOr("REDIS_DB", 0),

		NearbyCacheEnabled: envBoolOr("NEARBY_CACHE_ENABLED", true),
		NearbyCacheTTL:     envDurationOr("NEARBY_CACHE_TTL", 15*time.Minute),
	}
}

// Validate checks that all required configuration is present and valid.
func (c Config) Validate() error {
	if c.GeocoderUserAgent == "" {
		return fmt.Errorf("GEOCODER_USER_AGENT is required by the Nominatim usage policy")
	}
	if c.NominatimURL == "" {
		return fmt.Errorf("NOMINATIM_URL is required")
	}
	if c.GeocodeXYZURL == "" {
		return fmt.Errorf("GEOCODE_XYZ_URL is required")
	}
	if c.GeocoderMinInterval < 0 {
		return fmt.Errorf("GEOCODER_MIN_INTERVAL must not be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
