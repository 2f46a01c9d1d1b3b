package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "test_config.yaml")

	configContent := `
server:
  port: 9999
origin:
  url: "http://localhost:3000"
store:
  backend: "disk"
  version: "real-estate-v1"
  disk:
    folder: "./test_cache"
seed:
  paths: ["/", "/service.js", "/styles.css"]
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	// Test loading the config
	config, err := Load(configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify values
	if config.Server.Port != 9999 {
		t.Errorf("Expected port 9999, got %d", config.Server.Port)
	}

	if config.Store.Version != "real-estate-v1" {
		t.Errorf("Expected version 'real-estate-v1', got '%s'", config.Store.Version)
	}

	if len(config.Seed.Paths) != 3 {
		t.Errorf("Expected 3 seed paths, got %d", len(config.Seed.Paths))
	}

	// Verify defaults
	if config.Seed.OnError != "abort" {
		t.Errorf("Expected default on_error 'abort', got '%s'", config.Seed.OnError)
	}

	if config.Log.Level != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", config.Log.Level)
	}
}

func validConfig() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Origin: OriginConfig{URL: "http://localhost:3000"},
		Store: StoreConfig{
			Backend: "disk",
			Version: "real-estate-v1",
			Disk:    DiskConfig{Folder: "/tmp/cache"},
		},
		Seed: SeedConfig{
			Paths:   []string{"/", "/styles.css"},
			OnError: "abort",
			Timeout: "30s",
		},
		Log: LogConfig{Level: "info"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: true,
		},
		{
			name:    "missing origin",
			mutate:  func(c *Config) { c.Origin.URL = "" },
			wantErr: true,
		},
		{
			name:    "relative origin",
			mutate:  func(c *Config) { c.Origin.URL = "/not/absolute" },
			wantErr: true,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Store.Backend = "tape" },
			wantErr: true,
		},
		{
			name:    "missing version tag",
			mutate:  func(c *Config) { c.Store.Version = "" },
			wantErr: true,
		},
		{
			name:    "empty seed list",
			mutate:  func(c *Config) { c.Seed.Paths = nil },
			wantErr: true,
		},
		{
			name:    "seed path without leading slash",
			mutate:  func(c *Config) { c.Seed.Paths = []string{"styles.css"} },
			wantErr: true,
		},
		{
			name:    "invalid on_error",
			mutate:  func(c *Config) { c.Seed.OnError = "retry" },
			wantErr: true,
		},
		{
			name:    "invalid timeout",
			mutate:  func(c *Config) { c.Seed.Timeout = "soon" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
		{
			name: "redis backend requires addr",
			mutate: func(c *Config) {
				c.Store.Backend = "redis"
				c.Store.Redis.Addr = ""
			},
			wantErr: true,
		},
		{
			name: "dynamodb backend requires table",
			mutate: func(c *Config) {
				c.Store.Backend = "dynamodb"
				c.Store.Dynamo.Table = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetSeedTimeout(t *testing.T) {
	config := Config{
		Seed: SeedConfig{Timeout: "1m30s"},
	}

	timeout, err := config.GetSeedTimeout()
	if err != nil {
		t.Fatalf("GetSeedTimeout() error = %v", err)
	}

	expected := time.Minute + 30*time.Second
	if timeout != expected {
		t.Errorf("GetSeedTimeout() = %v, want %v", timeout, expected)
	}
}

func TestDump(t *testing.T) {
	cfg := validConfig()

	dump, err := cfg.Dump()
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if dump == "" {
		t.Error("Dump() returned empty string")
	}
}
