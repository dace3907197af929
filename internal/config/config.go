// Package config loads lintkit.toml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
)

// FileName is the config file looked up in the working directory.
const FileName = "lintkit.toml"

const (
	defaultDB                = "lintkit.db"
	defaultMaxExpansionDepth = 4096
	defaultLogLevel          = "info"
)

// Config mirrors lintkit.toml.
type Config struct {
	DB                string   `toml:"db"`
	ScriptsDir        string   `toml:"scripts_dir"`
	DisabledChecks    []string `toml:"disabled_checks"`
	MaxExpansionDepth int      `toml:"max_expansion_depth"`
	LogLevel          string   `toml:"log_level"`
	Parallel          *bool    `toml:"parallel"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Load reads and validates the config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOptional is Load, except that a missing file yields Default.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.DB) == "" {
		cfg.DB = defaultDB
	}
	if cfg.MaxExpansionDepth == 0 {
		cfg.MaxExpansionDepth = defaultMaxExpansionDepth
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.Parallel == nil {
		on := true
		cfg.Parallel = &on
	}
}

func validate(cfg *Config) error {
	if cfg.MaxExpansionDepth < 0 {
		return fmt.Errorf("max_expansion_depth must be positive, got %d", cfg.MaxExpansionDepth)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	for _, name := range cfg.DisabledChecks {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("disabled_checks must not contain empty names")
		}
		if _, err := glob.Compile(name); err != nil {
			return fmt.Errorf("disabled_checks: invalid pattern %q: %w", name, err)
		}
	}
	return nil
}

// ParseLevel maps log_level values to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", s)
}
