package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/gong-mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Gong    GongConfig           `toml:"gong"`
	Logging common.LoggingConfig `toml:"logging"`

	// Credentials are read from the environment only, never from config files.
	Credentials Credentials `toml:"-"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// GongConfig contains upstream API settings.
type GongConfig struct {
	BaseURL string `toml:"base_url"`
	// Timeout is a Go duration string. Empty or "0" means no client-side timeout.
	Timeout string `toml:"timeout"`
}

// GetTimeout parses the configured timeout. Invalid values fall back to no timeout.
func (c GongConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)
	config.Credentials = CredentialsFromEnv()

	return config, nil
}

// applyEnvOverrides applies GONG_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if baseURL := os.Getenv("GONG_BASE_URL"); baseURL != "" {
		config.Gong.BaseURL = baseURL
	}
	if timeout := os.Getenv("GONG_HTTP_TIMEOUT"); timeout != "" {
		config.Gong.Timeout = timeout
	}
	if port := os.Getenv("GONG_MCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("GONG_MCP_HOST"); host != "" {
		config.Server.Host = host
	}
	if level := os.Getenv("GONG_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("GONG_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
