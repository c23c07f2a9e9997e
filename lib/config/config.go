// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for a TicketChain node.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Paths configures directory and file locations.
	Paths PathsConfig `yaml:"paths"`

	// Platform configures the marketplace operator's parameters.
	Platform PlatformConfig `yaml:"platform"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Paths    *PathsConfig    `yaml:"paths,omitempty"`
	Platform *PlatformConfig `yaml:"platform,omitempty"`
	Log      *LogConfig      `yaml:"log,omitempty"`
}

// PathsConfig configures directory and file locations.
type PathsConfig struct {
	// Root is the base directory for TicketChain data.
	Root string `yaml:"root"`

	// Ledger is the SQLite database file holding accounts and the
	// transaction log.
	Ledger string `yaml:"ledger"`

	// Keystore is the directory holding wallet key files.
	Keystore string `yaml:"keystore"`
}

// PlatformConfig configures the marketplace operator's parameters.
type PlatformConfig struct {
	// Treasury is the wallet address receiving the platform's share of
	// every resale, as printed by keygen. Required before any
	// marketplace instruction runs.
	Treasury string `yaml:"treasury"`

	// FaucetAmount is the balance granted per airdrop request.
	// Default: 10000000 (development), 0 (production; faucet disabled).
	FaucetAmount uint64 `yaml:"faucet_amount"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is the minimum level emitted: debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".cache", "ticketchain")

	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			Root:     defaultRoot,
			Ledger:   filepath.Join(defaultRoot, "ledger.db"),
			Keystore: filepath.Join(defaultRoot, "keys"),
		},
		Platform: PlatformConfig{
			FaucetAmount: 10_000_000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the TICKETCHAIN_CONFIG environment
// variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or defaults - if TICKETCHAIN_CONFIG is not
// set, this fails. This ensures deterministic, auditable configuration
// with no hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("TICKETCHAIN_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("TICKETCHAIN_CONFIG environment variable not set; " +
			"set it to the path of your ticketchain.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values. The only expansion performed is
// ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/staging/production sections in the file).
	cfg.applyEnvironmentOverrides()

	// Expand ${HOME} and similar variables in paths for portability.
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: no free currency.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Platform: &PlatformConfig{
					FaucetAmount: 0,
				},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.Root != "" {
			c.Paths.Root = overrides.Paths.Root
		}
		if overrides.Paths.Ledger != "" {
			c.Paths.Ledger = overrides.Paths.Ledger
		}
		if overrides.Paths.Keystore != "" {
			c.Paths.Keystore = overrides.Paths.Keystore
		}
	}

	if overrides.Platform != nil {
		if overrides.Platform.Treasury != "" {
			c.Platform.Treasury = overrides.Platform.Treasury
		}
		// FaucetAmount is unconditional so production can zero it.
		c.Platform.FaucetAmount = overrides.Platform.FaucetAmount
	}

	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"TICKETCHAIN_ROOT": c.Paths.Root,
		"HOME":             os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["TICKETCHAIN_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Paths.Ledger = expandVars(c.Paths.Ledger, vars)
	c.Paths.Keystore = expandVars(c.Paths.Keystore, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// TreasuryAddress parses the configured platform treasury address.
func (c *Config) TreasuryAddress() (address.Address, error) {
	if c.Platform.Treasury == "" {
		return address.Zero, fmt.Errorf("platform.treasury is not configured")
	}
	addr, err := address.Parse(c.Platform.Treasury)
	if err != nil {
		return address.Zero, fmt.Errorf("platform.treasury: %w", err)
	}
	return addr, nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level: %s", c.Log.Level)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Paths.Root == "" {
		errs = append(errs, fmt.Errorf("paths.root is required"))
	}
	if c.Paths.Ledger == "" {
		errs = append(errs, fmt.Errorf("paths.ledger is required"))
	}
	if c.Paths.Keystore == "" {
		errs = append(errs, fmt.Errorf("paths.keystore is required"))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.Platform.Treasury != "" {
		if _, err := c.TreasuryAddress(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
