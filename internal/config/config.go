package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LFroesch/fex/internal/fileops"
	"github.com/LFroesch/fex/internal/logger"
)

const (
	minNameSearchLimit = 1
	maxNameSearchLimit = 1000000
)

// Config holds all fex configuration
type Config struct {
	StartDir        string   `json:"start_dir"`        // Empty means the current directory
	Bookmarks       []string `json:"bookmarks"`        // Extra sidebar entries after the standard locations
	SidebarExpanded bool     `json:"sidebar_expanded"`
	LocalTimestamps bool     `json:"local_timestamps"` // Show access times in local time instead of UTC
	NameSearchLimit int      `json:"name_search_limit"`
	LogLevel        string   `json:"log_level"`
	MetricsAddr     string   `json:"metrics_addr"` // e.g. "127.0.0.1:9127"; empty disables the endpoint
}

func defaultConfig() *Config {
	return &Config{
		Bookmarks:       []string{},
		SidebarExpanded: true,
		NameSearchLimit: fileops.DefaultNameSearchLimit,
		LogLevel:        "info",
	}
}

// Load reads config from ~/.config/fex/fex-config.json
func Load() *Config {
	configPath, err := GetConfigPath()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		return defaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		cfg := defaultConfig()
		if err := Save(cfg); err != nil {
			logger.Warn("Failed to save default config: %v", err)
		}
		return cfg
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		logger.Warn("Failed to parse config file %s: %v, using defaults", configPath, err)
		return defaultConfig()
	}

	cfg.normalize()
	return cfg
}

// normalize applies defaults and bounds to loaded values.
func (c *Config) normalize() {
	if c.NameSearchLimit == 0 {
		c.NameSearchLimit = fileops.DefaultNameSearchLimit
	} else if c.NameSearchLimit < minNameSearchLimit {
		logger.Warn("NameSearchLimit too low (%d), using minimum of %d", c.NameSearchLimit, minNameSearchLimit)
		c.NameSearchLimit = minNameSearchLimit
	} else if c.NameSearchLimit > maxNameSearchLimit {
		logger.Warn("NameSearchLimit too high (%d), using maximum of %d", c.NameSearchLimit, maxNameSearchLimit)
		c.NameSearchLimit = maxNameSearchLimit
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	var bookmarks []string
	for _, b := range c.Bookmarks {
		if b == "" || contains(bookmarks, b) {
			continue
		}
		bookmarks = append(bookmarks, b)
	}
	if bookmarks == nil {
		bookmarks = []string{}
	}
	c.Bookmarks = bookmarks
}

// Save writes config to ~/.config/fex/fex-config.json
func Save(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		return fmt.Errorf("cannot get home directory: %w", err)
	}
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		logger.Error("Failed to create config directory %s: %v", configDir, err)
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal config: %v", err)
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		logger.Error("Failed to write config file %s: %v", configPath, err)
		return fmt.Errorf("cannot write config file: %w", err)
	}

	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "fex", "fex-config.json"), nil
}
