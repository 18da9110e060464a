package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/servicespot/servicespot/internal/cache"
	"github.com/servicespot/servicespot/internal/config"
	"github.com/servicespot/servicespot/internal/database"
	"github.com/servicespot/servicespot/internal/geocoding"
	"github.com/servicespot/servicespot/internal/httpserver"
	"github.com/servicespot/servicespot/internal/middleware"
	"github.com/servicespot/servicespot/internal/monitoring"
	"github.com/servicespot/servicespot/internal/services"
	"github.com/servicespot/servicespot/internal/telemetry"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := telemetry.NewLogger(&telemetry.LogConfig{
		Level:  telemetry.LogLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	telemetry.SetDefaultLogger(logger)

	// Initialize database connection
	db, err := database.NewConnection(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Redis is optional; without it nearby responses are simply not cached.
	var redisService cache.RedisServiceInterface
	redis, err := cache.NewRedisService(cache.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warnf("Redis unavailable, nearby response caching disabled: %v", err)
	} else {
		redisService = redis
		defer redis.Close()
	}

	// Geocoding provider chain: Nominatim first, geocode.xyz as fallback.
	httpClient := &http.Client{Timeout: cfg.GeocoderTimeout}
	nominatim := geocoding.NewNominatimProvider(geocoding.NominatimConfig{
		BaseURL:     cfg.NominatimURL,
		UserAgent:   cfg.GeocoderUserAgent,
		Referer:     cfg.GeocoderReferer,
		MinInterval: cfg.GeocoderMinInterval,
		HTTPClient:  httpClient,
	})
	geocodeXYZ := geocoding.NewGeocodeXYZProvider(geocoding.GeocodeXYZConfig{
		BaseURL:     cfg.GeocodeXYZURL,
		UserAgent:   cfg.GeocoderUserAgent,
		MinInterval: cfg.GeocoderMinInterval,
		HTTPClient:  httpClient,
	})

	pincodeCache := geocoding.NewPincodeCache()
	resolver := geocoding.NewResolver(pincodeCache, nominatim, geocodeXYZ)

	listingStore := database.NewListingStore(db)
	locationService := services.NewLocationService(resolver, pincodeCache, listingStore)

	healthChecker := monitoring.NewHealthChecker("servicespot-location", "1.0.0")
	healthChecker.RegisterDatabaseCheck("postgres", db.DB)
	healthChecker.RegisterGeocodeCacheCheck("pincode_cache", pincodeCache)
	if redisService != nil {
		healthChecker.RegisterRedisCheck("redis", redisService)
	}

	opts := []httpserver.Option{httpserver.WithHealthChecker(healthChecker)}
	if redisService != nil && cfg.NearbyCacheEnabled {
		responseCache := middleware.NewResponseCache(redisService, middleware.ResponseCacheConfig{
			Enabled: true,
			TTL:     cfg.NearbyCacheTTL,
		})
		opts = append(opts, httpserver.WithResponseCache(responseCache))
	}

	server := httpserver.NewServer(locationService, opts...)

	// Start server in a goroutine
	go func() {
		logger.Infof("Starting location server on %s", cfg.HTTPAddr)
		if err := server.Run(cfg.HTTPAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
