// Package config loads the assocctl settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file inside the config directory.
const FileName = "config.yaml"

// Config holds defaults that command-line flags override.
type Config struct {
	Scope    string `yaml:"scope,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
	RegFile  string `yaml:"reg_file,omitempty"`
	JSON     bool   `yaml:"json,omitempty"`

	// Apps maps ProgID ids to the executables registered for them, so
	// register can be rerun without repeating --exe.
	Apps map[string]App `yaml:"apps,omitempty"`
}

// App is a remembered registration.
type App struct {
	Name string `yaml:"name"`
	Exe  string `yaml:"exe,omitempty"`
	Icon string `yaml:"icon,omitempty"`
}

// DefaultDir returns the assocctl directory under the user config dir.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(base, "assocctl"), nil
}

// Load reads path. A missing file yields an empty Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Remember records app under id.
func (c *Config) Remember(id string, app App) {
	if c.Apps == nil {
		c.Apps = make(map[string]App)
	}
	c.Apps[id] = app
}

// Forget drops id and reports whether it was present.
func (c *Config) Forget(id string) bool {
	if _, ok := c.Apps[id]; !ok {
		return false
	}
	delete(c.Apps, id)
	return true
}
