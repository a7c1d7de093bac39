package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port           string
	Env            string
	AllowedOrigins []string

	// Network selection; URLs default to the selected network's entry
	Network            string
	NetworkID          int
	NetworksConfigPath string
	ExplorerAPIURL     string
	NodeAPIURL         string
	NodeAPIKey         string
	TokenListURL       string

	// Redis configuration (metadata cache)
	RedisURL      string
	RedisPassword string

	// Admin JWT configuration
	AdminJWTSecret string

	// Metadata resolution
	TokenListTTL        time.Duration
	MetadataCacheTTL    time.Duration
	MetadataConcurrency int
	NodeAPIRPS          int
}

// Load loads configuration from environment variables, filling network URLs
// from the networks file (or the built-in networks) when not set explicitly
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		AllowedOrigins:      getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		Network:             getEnv("NETWORK", "mainnet"),
		NetworksConfigPath:  getEnv("NETWORKS_CONFIG_PATH", ""),
		ExplorerAPIURL:      getEnv("EXPLORER_API_URL", ""),
		NodeAPIURL:          getEnv("NODE_API_URL", ""),
		NodeAPIKey:          getEnv("NODE_API_KEY", ""),
		TokenListURL:        getEnv("TOKEN_LIST_URL", ""),
		RedisURL:            getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		AdminJWTSecret:      getEnv("ADMIN_JWT_SECRET", ""),
		TokenListTTL:        getEnvAsDuration("TOKEN_LIST_TTL", 24*time.Hour),
		MetadataCacheTTL:    getEnvAsDuration("METADATA_CACHE_TTL", 6*time.Hour),
		MetadataConcurrency: getEnvAsInt("METADATA_CONCURRENCY", 8),
		NodeAPIRPS:          getEnvAsInt("NODE_API_RPS", 20),
	}

	networks := DefaultNetworks()
	if cfg.NetworksConfigPath != "" {
		loaded, err := LoadNetworksConfig(cfg.NetworksConfigPath)
		if err != nil {
			return nil, err
		}
		networks = loaded
	}

	if err := cfg.applyNetwork(networks); err != nil {
		return nil, err
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyNetwork fills empty URLs from the selected network
func (c *Config) applyNetwork(networks *NetworksConfig) error {
	n, ok := networks.GetNetwork(c.Network)
	if !ok {
		return fmt.Errorf("unknown network %q (known: %s)", c.Network, strings.Join(networks.Names(), ", "))
	}
	c.NetworkID = n.NetworkID
	if c.ExplorerAPIURL == "" {
		c.ExplorerAPIURL = n.ExplorerURL
	}
	if c.NodeAPIURL == "" {
		c.NodeAPIURL = n.NodeURL
	}
	if c.TokenListURL == "" {
		c.TokenListURL = n.TokenListURL
	}
	return nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.ExplorerAPIURL == "" {
		return fmt.Errorf("EXPLORER_API_URL is required")
	}
	if c.NodeAPIURL == "" {
		return fmt.Errorf("NODE_API_URL is required")
	}

	// Admin routes are disabled without a secret outside production
	if c.AdminJWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("ADMIN_JWT_SECRET is required in production")
	}
	if c.AdminJWTSecret != "" && len(c.AdminJWTSecret) < 32 {
		return fmt.Errorf("ADMIN_JWT_SECRET must be at least 32 characters long")
	}

	if c.MetadataConcurrency <= 0 {
		return fmt.Errorf("METADATA_CONCURRENCY must be positive")
	}
	if c.NodeAPIRPS <= 0 {
		return fmt.Errorf("NODE_API_RPS must be positive")
	}

	return nil
}

// AdminEnabled returns true when admin endpoints can authenticate requests
func (c *Config) AdminEnabled() bool {
	return c.AdminJWTSecret != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("6h") with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
