// Package main provides the entrypoint for the GasFinder web server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/gasfinder/gasfinder/internal/auth"
	"github.com/gasfinder/gasfinder/internal/config"
	"github.com/gasfinder/gasfinder/internal/location/ipapi"
	"github.com/gasfinder/gasfinder/internal/provider/resilience"
	"github.com/gasfinder/gasfinder/internal/session"
	"github.com/gasfinder/gasfinder/internal/stations"
	"github.com/gasfinder/gasfinder/internal/stations/gasapi"
	"github.com/gasfinder/gasfinder/internal/telemetry"
	"github.com/gasfinder/gasfinder/internal/web"
	"github.com/gasfinder/gasfinder/internal/web/middleware"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "gasfinder-web"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting GasFinder web server")

	cfg := config.FromEnv()

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Station API client and service
	apiClient := gasapi.NewClient(gasapi.ClientConfig{
		BaseURL: cfg.BackendBaseURL,
		Logger:  log,
	})
	stationService := stations.NewService(stations.ServiceConfig{
		Client:         apiClient,
		Logger:         log,
		NearbyRadiusKm: cfg.NearbyRadiusKm,
	})
	log.Info().
		Str("backend", cfg.BackendBaseURL).
		Msg("station service initialized")

	// Auth
	if cfg.SessionSigningKey == "" {
		log.Warn().Msg("no session signing key configured - tokens will not survive restarts")
	}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: cfg.SessionSigningKey,
	})
	authProvider := auth.NewStubProvider(jwtService, log)
	log.Info().Msg("auth provider initialized")

	// IP geolocation behind a retrying, circuit-breaking HTTP client
	geoHTTP := resilience.NewClient(resilience.DefaultConfig(ipapi.ProviderName))
	resolver := ipapi.NewClient(ipapi.ClientConfig{
		BaseURL:    cfg.GeoIPBaseURL,
		HTTPClient: geoHTTP,
		Logger:     log,
	})

	// Session store with background janitor
	store := session.NewStore(session.StoreConfig{
		Fetcher: stationService,
		TTL:     cfg.SessionTTL,
		Logger:  log,
	})
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	store.StartJanitor(janitorCtx)
	log.Info().
		Dur("ttl", cfg.SessionTTL).
		Msg("session store initialized")

	// Page renderer and handlers
	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}
	handler := web.NewHandler(web.HandlerConfig{
		Sessions:   store,
		Stations:   stationService,
		Auth:       authProvider,
		Resolver:   resolver,
		Renderer:   renderer,
		GeoBreaker: geoHTTP,
		Logger:     log,
	})

	router := web.NewRouter(web.RouterConfig{
		Handler: handler,
		Logger:  log,
		Metrics: metrics,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
