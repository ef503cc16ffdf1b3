// Package config handles loading and validation of service configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Config holds all service configuration.
// Environment determines whether the storefront access token loads from env
// vars (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	ShopID     string

	// Shop-specific configuration (loaded from secrets)
	Storefront StorefrontConfig

	// Cart persistence backend. Optional; in-memory when empty.
	Storage StorageConfig
}

// StorefrontConfig contains shop-specific settings.
// In production, this is loaded from Secret Manager as JSON.
// In development, loaded from individual env vars or CONFIG_FILE.
type StorefrontConfig struct {
	StoreURL    string `json:"store_url"`
	StoreDomain string `json:"store_domain"` // Derived from StoreURL if not set
	AccessToken string `json:"access_token"`
	APIVersion  string `json:"api_version,omitempty"`
	MaxRetries  int    `json:"max_retries,omitempty"`
}

// StorageConfig selects the cart persistence backend. A Redis address takes
// precedence over a file path; with neither set, carts live in memory only.
type StorageConfig struct {
	RedisAddr     string `json:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty"`
	FilePath      string `json:"file_path,omitempty"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) -> ENV vars / Secret Manager.
// Validates all required fields and returns an error if any are missing.
func Load(ctx context.Context) (*Config, error) {
	// If CONFIG_FILE is set, load everything from the JSON file
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Port:        envOrDefault("PORT", "8080"),
		Environment: envOrDefault("ENVIRONMENT", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		GCPProject:  os.Getenv("GCP_PROJECT"),
		ShopID:      os.Getenv("SHOP_ID"),
	}

	// ShopID required in all environments
	if cfg.ShopID == "" {
		return nil, fmt.Errorf("SHOP_ID environment variable required")
	}

	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading shop config: %w", err)
	}

	cfg.loadStorageFromEnv()

	// Derive store domain from URL if not explicitly set
	if cfg.Storefront.StoreDomain == "" && cfg.Storefront.StoreURL != "" {
		cfg.Storefront.StoreDomain = extractDomain(cfg.Storefront.StoreURL)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Port        string           `json:"port"`
		Environment string           `json:"environment"`
		LogLevel    string           `json:"log_level"`
		ShopID      string           `json:"shop_id"`
		Storefront  StorefrontConfig `json:"storefront"`
		Storage     StorageConfig    `json:"storage"`
	}

	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:        withDefault(fileConfig.Port, "8080"),
		Environment: withDefault(fileConfig.Environment, "development"),
		LogLevel:    withDefault(fileConfig.LogLevel, "info"),
		ShopID:      fileConfig.ShopID,
		Storefront:  fileConfig.Storefront,
		Storage:     fileConfig.Storage,
	}

	if cfg.Storefront.StoreDomain == "" && cfg.Storefront.StoreURL != "" {
		cfg.Storefront.StoreDomain = extractDomain(cfg.Storefront.StoreURL)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager fetches shop config from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{shop_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.ShopID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Storefront); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}

	return nil
}

// loadFromEnv reads shop config from individual environment variables.
// Used in development mode for local testing.
func (c *Config) loadFromEnv() error {
	c.Storefront = StorefrontConfig{
		StoreURL:    os.Getenv("SHOP_STORE_URL"),
		StoreDomain: os.Getenv("SHOP_STORE_DOMAIN"),
		AccessToken: os.Getenv("SHOP_STOREFRONT_TOKEN"),
		APIVersion:  os.Getenv("SHOP_API_VERSION"),
	}

	if retries := os.Getenv("SHOP_MAX_RETRIES"); retries != "" {
		n, err := strconv.Atoi(retries)
		if err != nil {
			return fmt.Errorf("parsing SHOP_MAX_RETRIES: %w", err)
		}
		c.Storefront.MaxRetries = n
	}

	return nil
}

// loadStorageFromEnv reads the optional persistence backend settings.
func (c *Config) loadStorageFromEnv() {
	c.Storage.RedisAddr = os.Getenv("REDIS_ADDR")
	c.Storage.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			c.Storage.RedisDB = n
		}
	}
	c.Storage.FilePath = os.Getenv("CART_FILE_PATH")
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.Storefront.StoreDomain == "" {
		return fmt.Errorf("store_domain is required")
	}
	if c.Storefront.AccessToken == "" {
		return fmt.Errorf("access_token is required")
	}
	if c.Storefront.StoreURL != "" {
		if _, err := url.Parse(c.Storefront.StoreURL); err != nil {
			return fmt.Errorf("invalid store_url: %w", err)
		}
	}
	return nil
}

// extractDomain parses the domain from a URL string.
func extractDomain(storeURL string) string {
	u, err := url.Parse(storeURL)
	if err != nil || u.Host == "" {
		// Fallback: strip protocol prefix manually
		domain := strings.TrimPrefix(storeURL, "https://")
		domain = strings.TrimPrefix(domain, "http://")
		return strings.Split(domain, "/")[0]
	}
	return u.Host
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
