package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	Backend            string   `json:"backend"`
	NotifyDepth        int      `json:"notifyDepth"`
	ToolbarTitle       string   `json:"toolbarTitle"`
	SnapshotHistory    int      `json:"snapshotHistory"`
	LogLevel           string   `json:"logLevel"`
	CheckConcurrency   int      `json:"checkConcurrency"`
	CheckTimeout       int      `json:"checkTimeout"`
	CullExcludeDomains []string `json:"cullExcludeDomains"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendJSON,
		NotifyDepth:        1,
		ToolbarTitle:       "Toolbar",
		SnapshotHistory:    DefaultSnapshotHistory,
		LogLevel:           "warn",
		CheckConcurrency:   10,
		CheckTimeout:       10,
		CullExcludeDomains: []string{"github.com", "gitlab.com"},
	}
}

// LoadConfig reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if save fails
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.Backend == "" {
		config.Backend = defaults.Backend
	}
	if config.NotifyDepth == 0 {
		config.NotifyDepth = defaults.NotifyDepth
	}
	if config.ToolbarTitle == "" {
		config.ToolbarTitle = defaults.ToolbarTitle
	}
	if config.SnapshotHistory <= 0 {
		config.SnapshotHistory = defaults.SnapshotHistory
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.CheckConcurrency <= 0 {
		config.CheckConcurrency = defaults.CheckConcurrency
	}
	if config.CheckTimeout <= 0 {
		config.CheckTimeout = defaults.CheckTimeout
	}
	if config.CullExcludeDomains == nil {
		config.CullExcludeDomains = defaults.CullExcludeDomains
	}

	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return atomicWriteFile(dir, "config.json.*.tmp", path, data, 0o644)
}

// DefaultConfigFilePath returns the default config path: ~/.config/bmtree/config.json
func DefaultConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}
