package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the portal configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	API         APIConfig     `toml:"api"`
	Market      MarketConfig  `toml:"market"`
	News        NewsConfig    `toml:"news"`
	Auth        AuthConfig    `toml:"auth"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// APIConfig points at the remote market-data API.
type APIConfig struct {
	URL string `toml:"url"`
}

// MarketConfig tunes the browse-view refresh cycle and response cache.
type MarketConfig struct {
	RefreshSeconds  int `toml:"refresh_seconds"`
	CacheMaxEntries int `toml:"cache_max_entries"`
}

// RefreshInterval returns the asset refresh interval as a duration.
func (m MarketConfig) RefreshInterval() time.Duration {
	return time.Duration(m.RefreshSeconds) * time.Second
}

// NewsConfig holds the selectable news regions.
type NewsConfig struct {
	DefaultCountry string   `toml:"default_country"`
	Countries      []string `toml:"countries"`
}

// AuthConfig contains session settings.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// IsDevMode returns true when the environment is set to dev.
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
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

	return config, nil
}

// applyEnvOverrides applies FINBOARD_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("FINBOARD_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("FINBOARD_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if apiURL := os.Getenv("FINBOARD_API_URL"); apiURL != "" {
		config.API.URL = apiURL
	}
	if refresh := os.Getenv("FINBOARD_REFRESH_SECONDS"); refresh != "" {
		if r, err := strconv.Atoi(refresh); err == nil && r > 0 {
			config.Market.RefreshSeconds = r
		}
	}
	if secret := os.Getenv("FINBOARD_JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if badgerPath := os.Getenv("FINBOARD_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if level := os.Getenv("FINBOARD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if env := os.Getenv("FINBOARD_ENVIRONMENT"); env != "" {
		config.Environment = env
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
