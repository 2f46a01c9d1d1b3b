package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Origin OriginConfig `yaml:"origin"`
	Store  StoreConfig  `yaml:"store"`
	Seed   SeedConfig   `yaml:"seed"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig contains listener-related configuration
type ServerConfig struct {
	Port int `yaml:"port"`
	// MetricsPort exposes /metrics on a separate listener; 0 disables it
	MetricsPort int `yaml:"metrics_port"`
}

// OriginConfig identifies the upstream server seed assets are fetched from
type OriginConfig struct {
	URL string `yaml:"url"`
}

// StoreConfig selects and configures the cache store backend
type StoreConfig struct {
	Backend string         `yaml:"backend"` // "disk", "memory", "redis" or "dynamodb"
	Version string         `yaml:"version"`
	Disk    DiskConfig     `yaml:"disk"`
	Redis   RedisConfig    `yaml:"redis"`
	Dynamo  DynamoDBConfig `yaml:"dynamodb"`
}

// DiskConfig contains disk store configuration
type DiskConfig struct {
	Folder string `yaml:"folder"`
}

// RedisConfig contains redis store configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DynamoDBConfig contains dynamodb store configuration
type DynamoDBConfig struct {
	Table  string `yaml:"table"`
	Region string `yaml:"region"`
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local
	Endpoint string `yaml:"endpoint"`
}

// SeedConfig describes the assets cached at startup
type SeedConfig struct {
	Paths []string `yaml:"paths"`
	// OnError is "abort" (any failed seed fetch fails startup) or
	// "continue" (failures are logged, remaining paths still seeded)
	OnError string `yaml:"on_error"`
	Timeout string `yaml:"timeout"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	// Set defaults
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Store.Backend == "" {
		config.Store.Backend = "disk"
	}
	if config.Store.Disk.Folder == "" {
		config.Store.Disk.Folder = "./cache"
	}
	if config.Seed.OnError == "" {
		config.Seed.OnError = "abort"
	}
	if config.Seed.Timeout == "" {
		config.Seed.Timeout = "30s"
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}

	return &config, nil
}

// GetSeedTimeout parses and returns the per-asset seed fetch timeout
func (c *Config) GetSeedTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Seed.Timeout)
}

// GetOriginURL parses and returns the origin base URL
func (c *Config) GetOriginURL() (*url.URL, error) {
	return url.Parse(c.Origin.URL)
}

// GetLogLevel parses and returns the logrus level
func (c *Config) GetLogLevel() (logrus.Level, error) {
	return logrus.ParseLevel(c.Log.Level)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.Server.MetricsPort)
	}

	if c.Origin.URL == "" {
		return fmt.Errorf("origin URL is required")
	}
	originURL, err := c.GetOriginURL()
	if err != nil {
		return fmt.Errorf("invalid origin URL: %w", err)
	}
	if !originURL.IsAbs() || originURL.Host == "" {
		return fmt.Errorf("origin URL must be absolute, got: %s", c.Origin.URL)
	}

	switch c.Store.Backend {
	case "disk":
		if c.Store.Disk.Folder == "" {
			return fmt.Errorf("disk store folder is required")
		}
	case "memory":
	case "redis":
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required")
		}
	case "dynamodb":
		if c.Store.Dynamo.Table == "" {
			return fmt.Errorf("dynamodb table is required")
		}
	default:
		return fmt.Errorf("store backend must be 'disk', 'memory', 'redis' or 'dynamodb', got: %s", c.Store.Backend)
	}

	if c.Store.Version == "" {
		return fmt.Errorf("store version tag is required")
	}

	if len(c.Seed.Paths) == 0 {
		return fmt.Errorf("at least one seed path is required")
	}
	for _, p := range c.Seed.Paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("seed path must start with '/', got: %s", p)
		}
	}

	if c.Seed.OnError != "abort" && c.Seed.OnError != "continue" {
		return fmt.Errorf("seed on_error must be 'abort' or 'continue', got: %s", c.Seed.OnError)
	}

	if _, err := c.GetSeedTimeout(); err != nil {
		return fmt.Errorf("invalid seed timeout format: %w", err)
	}

	if _, err := c.GetLogLevel(); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}

// Dump renders the effective configuration as YAML
func (c *Config) Dump() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(data), nil
}
