package config

import "github.com/bobmcallan/gong-mcp/internal/common"

// DefaultBaseURL is the Gong public API root.
const DefaultBaseURL = "https://api.gong.io"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "Gong API Complete Collection",
			Port: 4243,
			Host: "localhost",
		},
		Gong: GongConfig{
			BaseURL: DefaultBaseURL,
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console"},
			FilePath:   "logs/gong-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
