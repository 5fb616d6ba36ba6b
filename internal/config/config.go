package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the CLI and the development service.
type Config struct {
	// ServiceURL is the base URL of the account service.
	ServiceURL string
	// RequestTimeout bounds every account service request.
	RequestTimeout time.Duration
	// ListenAddr is the bind address of the development service.
	ListenAddr string
	// SessionSecret signs the development service's session cookies.
	SessionSecret string
}

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		ServiceURL:     getEnv("ACCOUNT_SERVICE_URL", "http://127.0.0.1:5000"),
		RequestTimeout: getDuration("ACCOUNT_REQUEST_TIMEOUT", 10*time.Second),
		ListenAddr:     getEnv("ACCOUNTD_ADDR", "127.0.0.1:5000"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
	}

	return cfg
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
		log.Printf("Invalid duration in %s (%q), using default %s", key, v, fallback)
		return fallback
	}
	return d
}
