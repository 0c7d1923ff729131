package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	ServerPort      string
	CORSOrigin      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// Store settings
	StoreDriver     string
	ProjectID       string
	CredentialsFile string

	// OpenTelemetry settings
	OTLPEndpoint string
	ServiceName  string
	Environment  string
}

// Load returns configuration from environment variables with sensible defaults.
// Variables from a .env file in the working directory are loaded first and
// never override the real environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", getEnv("PORT", "8080")),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", StoreFirestore)),
		ProjectID:       getEnv("FIREBASE_PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT")),
		CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		ServiceName:     getEnv("OTEL_SERVICE_NAME", "task-tracker"),
		Environment:     getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
