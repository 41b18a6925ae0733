// Package config provides configuration management for sidebar with Viper
// integration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nikbrunner/sidebar/internal/dnd"
	"github.com/nikbrunner/sidebar/internal/host"
	"github.com/nikbrunner/sidebar/internal/logging"
	"github.com/nikbrunner/sidebar/internal/undo"
)

const dirPerm = 0755

// EnvPrefix prefixes environment overrides, e.g. SIDEBAR_LOG_LEVEL.
const EnvPrefix = "SIDEBAR"

// Config represents the complete configuration for sidebar.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Drag    DragConfig    `mapstructure:"drag"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Store   StoreConfig   `mapstructure:"store"`
	Undo    UndoConfig    `mapstructure:"undo"`
	Space   SpaceConfig   `mapstructure:"space"`
}

// StorageConfig selects where the space is saved. The extension picks the
// backend: .json or .db.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// DragConfig holds drag-and-drop configuration.
type DragConfig struct {
	AutoExpandDelay time.Duration `mapstructure:"auto_expand_delay"`
}

// RefreshConfig holds the view refresh configuration.
type RefreshConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// StoreConfig bounds calls into the tab and bookmark store.
type StoreConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// UndoConfig holds undo history configuration.
type UndoConfig struct {
	HistorySize int `mapstructure:"history_size"`
}

// SpaceConfig names the active space.
type SpaceConfig struct {
	Name string `mapstructure:"name"`
}

// DefaultDir returns ~/.config/sidebar.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "sidebar"), nil
}

// DefaultPath returns the default config path: ~/.config/sidebar/config.json
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("storage.path", filepath.Join(dir, "space.json"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", filepath.Join(dir, "sidebar.log"))
	v.SetDefault("drag.auto_expand_delay", dnd.DefaultAutoExpandDelay.String())
	v.SetDefault("refresh.debounce", host.DefaultDebounce.String())
	v.SetDefault("store.timeout", host.DefaultTimeout.String())
	v.SetDefault("undo.history_size", undo.DefaultHistorySize)
	v.SetDefault("space.name", "default")
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	dir, err := DefaultDir()
	if err != nil {
		dir = "."
	}
	v := viper.New()
	setDefaults(v, dir)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads the config file at path, or the default path when empty.
// A missing file is created with the defaults. Environment variables with
// the SIDEBAR_ prefix override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config path: %w", err)
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, filepath.Dir(path))

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) && !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config file at %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), dirPerm); err == nil {
			// non-fatal: defaults still apply when the file cannot be written
			_ = v.WriteConfigAs(path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	normalize(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}

func normalize(cfg *Config) {
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		cfg.Log.Format = "json"
	default:
		cfg.Log.Format = "console"
	}
	if cfg.Space.Name == "" {
		cfg.Space.Name = "default"
	}
}

func validate(cfg *Config) error {
	var errs []error
	if cfg.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path must not be empty"))
	}
	if cfg.Drag.AutoExpandDelay < 0 {
		errs = append(errs, fmt.Errorf("drag.auto_expand_delay must not be negative, got %s", cfg.Drag.AutoExpandDelay))
	}
	if cfg.Refresh.Debounce < 0 {
		errs = append(errs, fmt.Errorf("refresh.debounce must not be negative, got %s", cfg.Refresh.Debounce))
	}
	if cfg.Store.Timeout < 0 {
		errs = append(errs, fmt.Errorf("store.timeout must not be negative, got %s", cfg.Store.Timeout))
	}
	if cfg.Undo.HistorySize < 0 {
		errs = append(errs, fmt.Errorf("undo.history_size must not be negative, got %d", cfg.Undo.HistorySize))
	}
	return errors.Join(errs...)
}

// Logging converts the log section for the logging package.
func (c *Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(c.Log.Level)
	lc.Format = c.Log.Format
	return lc
}
