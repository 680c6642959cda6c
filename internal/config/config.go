package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Config represents the application configuration, stored as an INI file
// (config.ini). The [api] and [auth] sections are the contract consumed by
// every remote operation; the rest configure local behavior.
type Config struct {
	API    APIConfig    `ini:"api"`
	Auth   AuthConfig   `ini:"auth"`
	Cache  CacheConfig  `ini:"cache"`
	Server ServerConfig `ini:"server"`
	Checks ChecksConfig `ini:"checks"`
}

// APIConfig selects the Snaptic host to talk to
type APIConfig struct {
	Host           string  `ini:"host"`
	Port           int     `ini:"port"`
	UseSSL         bool    `ini:"use_ssl"`
	TimeoutSeconds int     `ini:"timeout_seconds"`
	RateLimitRPS   float64 `ini:"rate_limit_rps"`
}

// AuthConfig holds the account credentials. Either username+password or
// cookie_epass must be set before any remote call.
type AuthConfig struct {
	Username    string `ini:"username"`
	Password    string `ini:"password"`
	Email       string `ini:"email"`
	CookieEpass string `ini:"cookie_epass"`
}

// CacheConfig configures the local note cache
type CacheConfig struct {
	Provider string `ini:"provider"` // sqlite, mongodb
	URI      string `ini:"uri"`
	Database string `ini:"database"`
}

// ServerConfig configures the local REST server
type ServerConfig struct {
	Host       string `ini:"host"`
	Port       int    `ini:"port"`
	CORSOrigin string `ini:"cors_origin"`
}

// ChecksConfig points at the default check suite file
type ChecksConfig struct {
	Suite string `ini:"suite"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Host:           "api.snaptic.com",
			Port:           443,
			UseSSL:         true,
			TimeoutSeconds: 10,
			RateLimitRPS:   5,
		},
		Cache: CacheConfig{
			Provider: "sqlite",
			URI:      "~/.snaptic/cache.db",
			Database: "snaptic",
		},
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       8989,
			CORSOrigin: "*",
		},
	}
}

// Load loads configuration from an INI file
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := file.MapTo(config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves configuration to an INI file
func (c *Config) Save(path string) error {
	file := ini.Empty()
	if err := ini.ReflectFrom(file, c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// The file carries credentials.
	return os.Chmod(path, 0600)
}

// Validate checks that the configuration is usable for remote calls
func (c *Config) Validate() error {
	if c.API.Host == "" {
		return fmt.Errorf("api host is required")
	}
	if !c.HasCredentials() {
		return fmt.Errorf("no username/password combination or cookie authentication provided")
	}
	return nil
}

// HasCredentials reports whether either auth mechanism is configured
func (c *Config) HasCredentials() bool {
	if c.Auth.Username != "" && c.Auth.Password != "" {
		return true
	}
	return c.Auth.CookieEpass != ""
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".snaptic/config.ini"
	}
	return filepath.Join(home, ".snaptic", "config.ini")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
