package config

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// Fallback backend used when no environment override is present.
const defaultBaseURL = "https://pharmacy-backend-qrb8.onrender.com"

// Config holds terminal configuration values.
type Config struct {
	BaseURL     string
	DataDir     string
	HTTPTimeout time.Duration
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	base := os.Getenv("PHARMALINK_API_URL")
	if base == "" {
		base = defaultBaseURL
	}

	dataDir := os.Getenv("PHARMALINK_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataDir = filepath.Join(home, ".pharmalink")
	}

	timeout := 15 * time.Second
	if raw := os.Getenv("PHARMALINK_HTTP_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			log.Printf("invalid PHARMALINK_HTTP_TIMEOUT value %q, defaulting to %s", raw, timeout)
		} else {
			timeout = parsed
		}
	}

	return Config{BaseURL: base, DataDir: dataDir, HTTPTimeout: timeout}
}
