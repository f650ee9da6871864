// Package config reads the server's runtime settings from the environment,
// with an optional .env file for local development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config contains the runtime settings for tgf-handicap-server.
type Config struct {
	// Addr is the listen address for the JSON API.
	Addr string

	// LogLevel is the minimum structured-log level (DEBUG/INFO/WARN/ERROR).
	LogLevel string

	// SessionMaxAge bounds how long a shared scoring-site session is reused.
	SessionMaxAge time.Duration

	// NoBrowser disables the headless-browser fallback, for hosts without a
	// Chrome binary.
	NoBrowser bool
}

// Load reads the environment, after loading .env if one exists.
func Load() Config {
	godotenv.Load()

	return Config{
		Addr:          getEnv("TGF_ADDR", ":8080"),
		LogLevel:      getEnv("TGF_LOG_LEVEL", "INFO"),
		SessionMaxAge: getDuration("TGF_SESSION_MAX_AGE", 5*time.Minute),
		NoBrowser:     os.Getenv("TGF_NO_BROWSER") == "1",
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
