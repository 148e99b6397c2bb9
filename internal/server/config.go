package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete server configuration
type Config struct {
	Server   ServerSettings  `hcl:"server,block"`
	Sessions []SessionConfig `hcl:"session,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// SessionConfig defines one hosted game session: where its card
// catalogs live and, optionally, a fixed RNG seed for reproducible
// games.
type SessionConfig struct {
	Name         string `hcl:"name,label"`
	PromptDeck   string `hcl:"prompt_deck"`
	ResponseDeck string `hcl:"response_deck"`
	Seed         int64  `hcl:"seed,optional"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Sessions: []SessionConfig{
			{
				Name:         "main",
				PromptDeck:   "prompts.json",
				ResponseDeck: "responses.json",
			},
		},
	}
}

// LoadConfig loads server configuration from an HCL file, falling back
// to defaults when the file does not exist
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if len(c.Sessions) == 0 {
		return fmt.Errorf("at least one session must be configured")
	}

	seen := make(map[string]bool)
	for _, sess := range c.Sessions {
		if seen[sess.Name] {
			return fmt.Errorf("duplicate session name %q", sess.Name)
		}
		seen[sess.Name] = true

		if sess.PromptDeck == "" {
			return fmt.Errorf("session %s: prompt_deck is required", sess.Name)
		}
		if sess.ResponseDeck == "" {
			return fmt.Errorf("session %s: response_deck is required", sess.Name)
		}
	}

	return nil
}

// Addr returns the full listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
