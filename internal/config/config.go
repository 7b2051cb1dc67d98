// Package config loads and saves the handsim TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/handsim/internal/rules"
)

// Config represents the application configuration.
type Config struct {
	// Simulation defaults
	Simulation SimulationConfig `toml:"simulation"`

	// Input and database locations
	Paths PathsConfig `toml:"paths"`

	// REST API configuration
	API APIConfig `toml:"api"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// SimulationConfig contains the defaults for a simulation run.
type SimulationConfig struct {
	Trials       int      `toml:"trials"`        // Number of hands to draw
	Turn         string   `toml:"turn"`          // "first" or "second"
	Seed         uint64   `toml:"seed"`          // 0 = time-based
	Workers      int      `toml:"workers"`       // 0 = number of CPUs
	ChunkSize    int      `toml:"chunk_size"`    // Trials per random stream
	TrackedRoles []string `toml:"tracked_roles"` // Roles reported per hand
}

// PathsConfig contains file locations.
type PathsConfig struct {
	RulesFile  string `toml:"rules_file"`  // Rule configuration text
	DeckFile   string `toml:"deck_file"`   // .ydk or plain card list
	CatalogCSV string `toml:"catalog_csv"` // id,name card list
	CatalogDB  string `toml:"catalog_db"`  // SQLite card catalog
}

// APIConfig contains REST API settings.
type APIConfig struct {
	Port         int    `toml:"port"`
	MaxTrials    int    `toml:"max_trials"`    // Per-request trial cap
	RateInterval string `toml:"rate_interval"` // Min spacing between runs (e.g., "500ms")
	RateBurst    int    `toml:"rate_burst"`
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Trials:    100000,
			Turn:      "first",
			Seed:      0,
			Workers:   0,
			ChunkSize: 4096,
			TrackedRoles: []string{
				string(rules.RoleStarter),
				string(rules.RoleExtender),
				string(rules.RoleHandtrap),
				string(rules.RoleSoftGarnet),
			},
		},
		Paths: PathsConfig{
			RulesFile:  "",
			DeckFile:   "",
			CatalogCSV: "",
			CatalogDB:  "",
		},
		API: APIConfig{
			Port:         8080,
			MaxTrials:    1000000,
			RateInterval: "500ms",
			RateBurst:    4,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Dir returns the handsim data directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".handsim")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return dir, nil
}

// DefaultPath returns the path to the configuration file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from path, or from DefaultPath when path is
// empty. Returns the default config if the file doesn't exist. Keys missing
// from the file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to path, or to DefaultPath when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Simulation.Trials <= 0 {
		return fmt.Errorf("trials must be positive: %d", c.Simulation.Trials)
	}

	if _, err := rules.ParseTurn(c.Simulation.Turn); err != nil {
		return err
	}

	if c.Simulation.Workers < 0 {
		return fmt.Errorf("workers cannot be negative: %d", c.Simulation.Workers)
	}

	if c.Simulation.ChunkSize < 0 {
		return fmt.Errorf("chunk size cannot be negative: %d", c.Simulation.ChunkSize)
	}

	for _, name := range c.Simulation.TrackedRoles {
		if role, _ := rules.ParseRole(name); role == "" {
			return fmt.Errorf("tracked role names cannot be empty")
		}
	}

	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", c.API.Port)
	}

	if c.API.MaxTrials < 0 {
		return fmt.Errorf("max trials cannot be negative: %d", c.API.MaxTrials)
	}

	if _, err := time.ParseDuration(c.API.RateInterval); err != nil {
		return fmt.Errorf("invalid rate interval %q: %w", c.API.RateInterval, err)
	}

	if c.API.RateBurst < 0 {
		return fmt.Errorf("rate burst cannot be negative: %d", c.API.RateBurst)
	}

	return nil
}

// GetTurn returns the configured turn.
func (c *Config) GetTurn() (rules.Turn, error) {
	return rules.ParseTurn(c.Simulation.Turn)
}

// GetTrackedRoles returns the configured tracked roles. Nil means the
// simulator default.
func (c *Config) GetTrackedRoles() []rules.Role {
	if len(c.Simulation.TrackedRoles) == 0 {
		return nil
	}
	roles := make([]rules.Role, len(c.Simulation.TrackedRoles))
	for i, name := range c.Simulation.TrackedRoles {
		roles[i], _ = rules.ParseRole(name)
	}
	return roles
}

// GetRateInterval returns the API rate interval as a duration.
func (c *Config) GetRateInterval() (time.Duration, error) {
	return time.ParseDuration(c.API.RateInterval)
}
