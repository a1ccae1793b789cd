// Package config loads storybeat's runtime configuration.
//
// Resolution order for the config file: explicit path (--config flag),
// STORYBEAT_CONFIG, $XDG_CONFIG_HOME/storybeat/config.yaml, then
// ~/.config/storybeat/config.yaml. A missing file is not an error:
// defaults apply. A .env file in the working directory is loaded first
// so its variables can feed the environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvConfigPath = "STORYBEAT_CONFIG"
	EnvDataDir    = "STORYBEAT_DATA_DIR"
	EnvLogLevel   = "STORYBEAT_LOG_LEVEL"
	EnvHTTPAddr   = "STORYBEAT_HTTP_ADDR"
	EnvHistory    = "STORYBEAT_HISTORY"
)

// Config is the root configuration document.
type Config struct {
	Server  ServerConfig  `yaml:"server" validate:"required"`
	Log     LogConfig     `yaml:"log" validate:"required"`
	History HistoryConfig `yaml:"history" validate:"required"`
	Limits  Limits        `yaml:"limits" validate:"required"`
}

// ServerConfig selects the MCP transport.
type ServerConfig struct {
	Transport string `yaml:"transport" validate:"required,oneof=stdio http"`
	HTTPAddr  string `yaml:"http_addr" validate:"required,hostname_port"`
}

// LogConfig controls the structured logger. Logs always go to stderr.
type LogConfig struct {
	Level  string `yaml:"level" validate:"required,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"required,oneof=text json"`
}

// HistoryConfig controls the analysis history database.
type HistoryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	DataDir    string `yaml:"data_dir" validate:"required"`
	MaxResults int    `yaml:"max_results" validate:"required,min=1,max=500"`
}

// Limits bounds request size and throughput at the tool layer. The
// analysis engine itself has no limits.
type Limits struct {
	MaxScenes         int `yaml:"max_scenes" validate:"required,min=1,max=10000"`
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"required,min=1,max=100000"`
	Burst             int `yaml:"burst" validate:"required,min=1,max=1000"`
	BatchWorkers      int `yaml:"batch_workers" validate:"required,min=1,max=64"`
	MaxBatchStories   int `yaml:"max_batch_stories" validate:"required,min=1,max=1000"`
}

// Default returns a configuration that works without any file.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Transport: "stdio",
			HTTPAddr:  "127.0.0.1:8765",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		History: HistoryConfig{
			Enabled:    true,
			DataDir:    defaultDataDir(),
			MaxResults: 20,
		},
		Limits: DefaultLimits(),
	}
}

// DefaultLimits returns the default request limits.
func DefaultLimits() Limits {
	return Limits{
		MaxScenes:         500,
		RequestsPerMinute: 600,
		Burst:             30,
		BatchWorkers:      4,
		MaxBatchStories:   50,
	}
}

// Load reads the config file at path (or the resolved default path when
// path is empty), applies environment overrides and validates.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = Path()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.History.DataDir = expandTilde(cfg.History.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the config file path that Load uses when none is given.
func Path() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "storybeat", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "storybeat", "config.yaml")
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.History.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.Server.HTTPAddr = v
	}
	if v := os.Getenv(EnvHistory); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvHistory, err)
		}
		c.History.Enabled = enabled
	}
	return nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// defaultDataDir follows XDG_DATA_HOME, falling back to ~/.local/share.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "storybeat")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "storybeat")
}

// expandTilde expands a leading ~/ to the user's home directory.
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
