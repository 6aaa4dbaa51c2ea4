// Package yahoo provides a client for the Yahoo Finance public API.
package yahoo

import (
	"os"
	"time"
)

// Config holds configuration for the Yahoo Finance API client.
type Config struct {
	BaseURL   string        // Base URL for the API (e.g., "https://query1.finance.yahoo.com")
	UserAgent string        // Yahoo rejects requests without a browser-like User-Agent
	Timeout   time.Duration // HTTP request timeout
}

// LoadConfig loads Yahoo Finance configuration from environment variables.
func LoadConfig() Config {
	baseURL := os.Getenv("YAHOO_BASE_URL")
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	return Config{
		BaseURL:   baseURL,
		UserAgent: "Mozilla/5.0",
		Timeout:   30 * time.Second,
	}
}
