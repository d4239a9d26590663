// Package config loads and validates the drawbridge configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config is the root configuration for drawbridge.
type Config struct {
	General  GeneralConfig  `json:"general"`
	Server   ServerConfig   `json:"server"`
	Channels ChannelsConfig `json:"channels"`
	Document DocumentConfig `json:"document"`
	History  HistoryConfig  `json:"history"`
	Fetch    FetchConfig    `json:"fetch"`
	Metrics  MetricsConfig  `json:"metrics"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel"` // "debug" | "info" | "warn" | "error"
	LogFile  string `json:"logFile,omitempty"`
}

// ServerConfig configures the WebSocket command channel.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	Path string `json:"path"`
}

type ChannelsConfig struct {
	WebSocket bool `json:"websocket"`
	Stdio     bool `json:"stdio"`
}

// DocumentConfig describes the document opened at startup.
type DocumentConfig struct {
	Name string `json:"name"`
	// Editable controls whether mutating commands are accepted.
	Editable bool `json:"editable"`
	// SnapshotPath, when set, is loaded at startup if it exists.
	SnapshotPath string `json:"snapshotPath,omitempty"`
}

// HistoryConfig configures the SQLite command audit log.
type HistoryConfig struct {
	Enabled       bool   `json:"enabled"`
	DBPath        string `json:"dbPath"`
	RetentionDays int    `json:"retentionDays"`
}

// FetchConfig bounds outbound image fetches.
type FetchConfig struct {
	TimeoutSeconds int `json:"timeoutSeconds"`
}

// MetricsConfig configures the Prometheus-style metrics endpoint.
type MetricsConfig struct {
	Enabled  bool   `json:"enabled"`
	Port     int    `json:"port"`
	Endpoint string `json:"endpoint"`
}

// DefaultConfigDir returns the default config directory (~/.drawbridge).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".drawbridge"
	}
	return filepath.Join(home, ".drawbridge")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.History.DBPath = ExpandPath(cfg.History.DBPath)
	cfg.Document.SnapshotPath = ExpandPath(cfg.Document.SnapshotPath)
	cfg.General.LogFile = ExpandPath(cfg.General.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset
// or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}
	if !strings.HasPrefix(cfg.Server.Path, "/") {
		errs = append(errs, "server.path must start with /")
	}
	if cfg.Metrics.Port < 0 || cfg.Metrics.Port > 65535 {
		errs = append(errs, "metrics.port must be between 0 and 65535")
	}

	if !cfg.Channels.WebSocket && !cfg.Channels.Stdio {
		errs = append(errs, "at least one channel must be enabled")
	}

	if cfg.History.Enabled && cfg.History.DBPath == "" {
		errs = append(errs, "history.dbPath is required when history is enabled")
	}
	if cfg.History.RetentionDays < 1 {
		errs = append(errs, "history.retentionDays must be >= 1")
	}
	if cfg.Fetch.TimeoutSeconds < 1 {
		errs = append(errs, "fetch.timeoutSeconds must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
