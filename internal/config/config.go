// Package config loads knoldeck settings with the precedence
// defaults < config file < KNOLDECK_* environment < command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	appName   = "knoldeck"
	envPrefix = "KNOLDECK_"
	delim     = "."
)

// Config holds the application configuration.
type Config struct {
	DecksRoot   string    `koanf:"decks_root" validate:"required"`
	CardLimit   int       `koanf:"card_limit" validate:"gte=0"`
	Shuffle     bool      `koanf:"shuffle"`
	AgainFactor float64   `koanf:"again_factor" validate:"gt=0,lte=1"`
	HardFactor  float64   `koanf:"hard_factor" validate:"gt=0,lte=1"`
	Log         LogConfig `koanf:"log"`
}

// LogConfig holds logging configuration. An empty File means stderr for CLI
// commands and no logging at all for the TUI.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn warning error"`
	Format string `koanf:"format" validate:"oneof=text json"`
	File   string `koanf:"file"`
}

// flagKeys maps command-line flag names to config keys. Flags not listed here
// belong to individual commands and never reach the config.
var flagKeys = map[string]string{
	"decks-root":   "decks_root",
	"card-limit":   "card_limit",
	"shuffle":      "shuffle",
	"again-factor": "again_factor",
	"hard-factor":  "hard_factor",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"log-file":     "log.file",
}

var validate = validator.New()

// DefaultPath returns the config file location under XDG_CONFIG_HOME.
func DefaultPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// DefaultDecksRoot returns the managed decks root under XDG_DATA_HOME.
func DefaultDecksRoot() string {
	xdg.Reload()
	return filepath.Join(xdg.DataHome, appName, "decks")
}

func defaults() map[string]any {
	return map[string]any{
		"decks_root":   DefaultDecksRoot(),
		"card_limit":   200,
		"shuffle":      true,
		"again_factor": 0.2,
		"hard_factor":  0.45,
		"log.level":    "info",
		"log.format":   "text",
		"log.file":     "",
	}
}

// RegisterFlags adds the config flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to the config file (default $XDG_CONFIG_HOME/knoldeck/config.yaml)")
	fs.String("decks-root", "", "Directory holding imported decks")
	fs.Int("card-limit", 200, "Maximum cards loaded into one study session, 0 for no limit")
	fs.Bool("shuffle", true, "Shuffle cards when a session starts")
	fs.Float64("again-factor", 0.2, "Share of the remaining queue an Again card is pushed back")
	fs.Float64("hard-factor", 0.45, "Share of the remaining queue a Hard card is pushed back")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("log-format", "text", "Log format (text, json)")
	fs.String("log-file", "", "Write logs to this file")
}

// Load builds the configuration. path names the config file; when empty the
// default location is used if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(delim)

	if err := k.Load(confmap.Provider(defaults(), delim), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadFile(k, path); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, delim, envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, delim, k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.DecksRoot == "" {
		cfg.DecksRoot = DefaultDecksRoot()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFile merges the YAML file at path. An explicit path must exist; the
// default one is optional.
func loadFile(k *koanf.Koanf, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// envKey turns KNOLDECK_LOG_LEVEL into log.level and KNOLDECK_DECKS_ROOT
// into decks_root.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(key, "log_"); ok {
		return "log" + delim + rest
	}
	return key
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
