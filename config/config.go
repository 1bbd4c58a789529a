package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	HTTPAddr       string
	AllowedOrigins []string

	// Database configuration
	DatabaseURL string

	// Collection policy
	// ResetAllOnWeekly makes "reset to weekly" apply to every entry of the
	// session instead of only the caller's visible subset.
	ResetAllOnWeekly bool
	// ClampBankTransfer clamps the bank-transfer reallocation down to the
	// available cash total instead of blocking commit when it exceeds it.
	ClampBankTransfer bool

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, reading .env first if present
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		HTTPAddr:    os.Getenv("HTTP_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		ResetAllOnWeekly:  os.Getenv("RESET_ALL_ON_WEEKLY") == "true",
		ClampBankTransfer: os.Getenv("CLAMP_BANK_TRANSFER") == "true",

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.HTTPAddr == "" {
		config.HTTPAddr = ":8080"
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				config.AllowedOrigins = append(config.AllowedOrigins, origin)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
