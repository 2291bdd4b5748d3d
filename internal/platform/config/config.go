package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr              string
	DatabaseURL       string
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("APOIA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Empty DatabaseURL means the in-memory stores; handy for local runs.
	databaseURL := os.Getenv("DATABASE_URL")

	return Server{
		Addr:              addr,
		DatabaseURL:       databaseURL,
		ReadHeaderTimeout: durationFromEnv("APOIA_READ_HEADER_TIMEOUT", 5*time.Second),
		WriteTimeout:      durationFromEnv("APOIA_WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout:   durationFromEnv("APOIA_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
