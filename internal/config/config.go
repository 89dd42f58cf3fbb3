// Package config loads bm's settings from a config file, a .env file and
// BM_-prefixed environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	DataDir string        `mapstructure:"data_dir" yaml:"data_dir"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Remote  RemoteConfig  `mapstructure:"remote" yaml:"remote"`
	Favicon FaviconConfig `mapstructure:"favicon" yaml:"favicon"`
	Cull    CullConfig    `mapstructure:"cull" yaml:"cull"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" yaml:"-"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// RemoteConfig locates the file bookmarks are pushed to. The token itself
// is never stored; TokenEnv names the variable holding it.
type RemoteConfig struct {
	APIURL   string `mapstructure:"api_url" yaml:"api_url"`
	Repo     string `mapstructure:"repo" yaml:"repo"`
	Path     string `mapstructure:"path" yaml:"path"`
	Branch   string `mapstructure:"branch" yaml:"branch"`
	TokenEnv string `mapstructure:"token_env" yaml:"token_env"`
}

// FaviconConfig holds the icon service URL templates; %s is replaced by
// the page URL (primary) or host (fallback).
type FaviconConfig struct {
	Primary  string        `mapstructure:"primary" yaml:"primary"`
	Fallback string        `mapstructure:"fallback" yaml:"fallback"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type CullConfig struct {
	Concurrency    int           `mapstructure:"concurrency" yaml:"concurrency"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ExcludeDomains []string      `mapstructure:"exclude_domains" yaml:"exclude_domains"`
}

// DefaultDataDir returns ~/.config/bm.
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "bm"), nil
}

func setDefaults(v *viper.Viper, dataDir string) {
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("storage.backend", BackendJSON)
	v.SetDefault("log.level", "warn")
	v.SetDefault("remote.api_url", "https://api.github.com")
	v.SetDefault("remote.repo", "")
	v.SetDefault("remote.path", "data/bookmarks.json")
	v.SetDefault("remote.branch", "main")
	v.SetDefault("remote.token_env", "GITHUB_TOKEN")
	v.SetDefault("favicon.primary", "https://www.google.com/s2/favicons?sz=32&domain_url=%s")
	v.SetDefault("favicon.fallback", "https://api.faviconkit.com/%s")
	v.SetDefault("favicon.timeout", "5s")
	v.SetDefault("cull.concurrency", 10)
	v.SetDefault("cull.timeout", "10s")
	v.SetDefault("cull.exclude_domains", []string{"github.com", "gitlab.com"})
}

// Load reads configuration. An explicit file must exist; otherwise
// config.{json,yaml,toml} in the default data directory is optional.
// A .env file in the working directory is applied first and never
// overrides variables already set.
func Load(file string) (*Config, error) {
	_ = godotenv.Load()

	dataDir, err := DefaultDataDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, dataDir)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(dataDir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.DataDir = expandHome(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendJSON, BackendSQLite, c.Storage.Backend)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Cull.Concurrency < 1 {
		return fmt.Errorf("cull.concurrency must be at least 1, got %d", c.Cull.Concurrency)
	}
	return nil
}

// JSONPath returns the bookmarks file of the JSON backend.
func (c *Config) JSONPath() string {
	return filepath.Join(c.DataDir, "bookmarks.json")
}

// SQLitePath returns the database file of the SQLite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "bookmarks.db")
}

// LogPath returns the log file used while the TUI owns the terminal.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "bm.log")
}

// FaviconCachePath returns the favicon cache file.
func (c *Config) FaviconCachePath() string {
	return filepath.Join(c.DataDir, "favicons.json")
}

// Token returns the upload credential from the environment.
func (c *Config) Token() string {
	if c.Remote.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.Remote.TokenEnv)
}

// NewLogger builds a logger at the configured level writing to w.
func (c *Config) NewLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// MarshalYAML writes the timeout as a duration string.
func (f FaviconConfig) MarshalYAML() (interface{}, error) {
	return map[string]interface{}{
		"primary":  f.Primary,
		"fallback": f.Fallback,
		"timeout":  f.Timeout.String(),
	}, nil
}

// MarshalYAML writes the timeout as a duration string.
func (c CullConfig) MarshalYAML() (interface{}, error) {
	return map[string]interface{}{
		"concurrency":     c.Concurrency,
		"timeout":         c.Timeout.String(),
		"exclude_domains": c.ExcludeDomains,
	}, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
