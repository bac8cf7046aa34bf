package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment overrides, checked after any config file is loaded.
const (
	EnvConfigPath    = "GREPSEARCH_CONFIG"
	EnvWorkspacesDir = "GREPSEARCH_WORKSPACES_DIR"
	EnvAuditDBPath   = "GREPSEARCH_AUDIT_DB"
)

// AuditConfig controls the search audit log
type AuditConfig struct {
	// Enabled turns request auditing on or off
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the audit SQLite database
	DBPath string `yaml:"db_path"`

	// KeepDays is the number of days to keep audit entries
	KeepDays int `yaml:"keep_days"`
}

// Config represents grepsearch server configuration
type Config struct {
	// WorkspacesDir is the root under which all sandbox sessions live
	WorkspacesDir string `yaml:"workspaces_dir"`

	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Audit contains audit log configuration
	Audit AuditConfig `yaml:"audit"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".grepsearch")

	return &Config{
		WorkspacesDir: filepath.Join(base, "workspaces"),
		LogLevel:      "info",
		Audit: AuditConfig{
			Enabled:  true,
			DBPath:   filepath.Join(base, "audit.db"),
			KeepDays: 30,
		},
	}
}

// Load reads configuration from the given yaml file, falling back to
// defaults for anything unset, then applies environment overrides. An empty
// path means defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the config
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvWorkspacesDir); v != "" {
		c.WorkspacesDir = v
	}
	if v := os.Getenv(EnvAuditDBPath); v != "" {
		c.Audit.DBPath = v
	}
}

// Validate checks the config for values the server cannot run with
func (c *Config) Validate() error {
	if c.WorkspacesDir == "" {
		return fmt.Errorf("workspaces_dir must not be empty")
	}
	if c.Audit.Enabled && c.Audit.DBPath == "" {
		return fmt.Errorf("audit.db_path must not be empty when auditing is enabled")
	}
	if c.Audit.KeepDays < 0 {
		return fmt.Errorf("audit.keep_days must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}
