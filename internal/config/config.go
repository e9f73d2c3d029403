// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for harbor.
//
// Configuration lives in ~/.harbor/config.toml with sensible defaults and
// environment variable overrides. Saves are atomic and keep the file at
// 0600 since the directory also holds the conversation database.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/harbor-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Theme values accepted by the UI.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Config represents the complete harbor configuration.
type Config struct {
	// DefaultModel is the model preselected for new conversations.
	DefaultModel string `toml:"default_model"`

	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Log configuration
	Log LogConfig `toml:"log"`
}

// DatabaseConfig contains conversation store configuration.
type DatabaseConfig struct {
	// Path is the SQLite database location (empty = ~/.harbor/harbor.db)
	Path string `toml:"path"`
	// ListLimit caps how many conversations the sidebar loads.
	ListLimit int `toml:"list_limit"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme is "light", "dark" or "system"
	Theme string `toml:"theme"`
	// TitleMaxRunes caps inline rename input length.
	TitleMaxRunes int `toml:"title_max_runes"`
	// ToastDurationSecs is how long notifications stay on screen.
	ToastDurationSecs int `toml:"toast_duration_secs"`
	// SidebarWidth is the sidebar column width in cells.
	SidebarWidth int `toml:"sidebar_width"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is a zerolog level name: "debug", "info", "warn", "error"
	Level string `toml:"level"`
	// Path is the log file location (empty = ~/.harbor/harbor.log)
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultModel: "",
		Database: DatabaseConfig{
			ListLimit: 200,
		},
		UI: UIConfig{
			Theme:             ThemeSystem,
			TitleMaxRunes:     30,
			ToastDurationSecs: 5,
			SidebarWidth:      32,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// fillDefaults replaces zero values with defaults after a partial file load.
func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.Database.ListLimit <= 0 {
		cfg.Database.ListLimit = def.Database.ListLimit
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = def.UI.Theme
	}
	if cfg.UI.TitleMaxRunes <= 0 {
		cfg.UI.TitleMaxRunes = def.UI.TitleMaxRunes
	}
	if cfg.UI.ToastDurationSecs <= 0 {
		cfg.UI.ToastDurationSecs = def.UI.ToastDurationSecs
	}
	if cfg.UI.SidebarWidth <= 0 {
		cfg.UI.SidebarWidth = def.UI.SidebarWidth
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the harbor configuration directory (~/.harbor).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".harbor"), nil
}

// ConfigPath returns the configuration file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DatabasePath resolves the conversation database location.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "harbor.db"), nil
}

// LogPath resolves the log file location.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "harbor.log"), nil
}

// EnsureConfigDir creates the configuration directory if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	// SECURITY: the directory holds the conversation database, keep it private.
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the configuration file, falling back to defaults when the file
// does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from an explicit path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file is fine, defaults apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		fillDefaults(cfg)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the default location.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes cfg as TOML via an atomic rename.
func SaveToPath(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies HARBOR_* environment variables on top of the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("HARBOR_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
	if v := os.Getenv("HARBOR_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("HARBOR_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("HARBOR_LIST_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Database.ListLimit = n
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.UI.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("invalid theme %q: must be %q, %q or %q",
			c.UI.Theme, ThemeLight, ThemeDark, ThemeSystem)
	}
	if c.Database.ListLimit <= 0 {
		return fmt.Errorf("invalid list_limit %d: must be positive", c.Database.ListLimit)
	}
	if c.UI.TitleMaxRunes <= 0 {
		return fmt.Errorf("invalid title_max_runes %d: must be positive", c.UI.TitleMaxRunes)
	}
	if c.UI.ToastDurationSecs <= 0 {
		return fmt.Errorf("invalid toast_duration_secs %d: must be positive", c.UI.ToastDurationSecs)
	}
	return nil
}
