// Package config loads application configuration from the environment.
package config

import (
	"os"
	"time"
)

// Config holds the full application configuration. It is loaded once in main
// and passed explicitly to the components that need it.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Environment is the deployment environment (development, production).
	Environment string

	// BackendBaseURL is the base URL of the GasFinder backend API,
	// without the /api suffix.
	BackendBaseURL string

	// GeoIPBaseURL is the base URL of the IP geolocation service.
	GeoIPBaseURL string

	// SessionSigningKey signs session tokens. Generated fresh on every start
	// when unset, so tokens never outlive the process.
	SessionSigningKey string

	// SessionTTL is how long an idle session is kept before the janitor
	// removes it.
	SessionTTL time.Duration

	// NearbyRadiusKm is the radius sent to the nearby endpoint.
	NearbyRadiusKm float64

	// OTLPEndpoint is the OpenTelemetry collector endpoint.
	OTLPEndpoint string

	// TelemetryEnabled toggles OTLP export. When false, telemetry is a no-op.
	TelemetryEnabled bool
}

// FromEnv loads configuration from environment variables, applying defaults
// for anything unset.
func FromEnv() Config {
	return Config{
		Port:              getEnv("APP_PORT", "8080"),
		Environment:       getEnv("APP_ENV", "development"),
		BackendBaseURL:    getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
		GeoIPBaseURL:      getEnv("GEOIP_BASE_URL", "http://ip-api.com"),
		SessionSigningKey: os.Getenv("SESSION_SIGNING_KEY"),
		SessionTTL:        getDuration("SESSION_TTL", 30*time.Minute),
		NearbyRadiusKm:    25,
		OTLPEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled:  os.Getenv("OTEL_ENABLED") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
