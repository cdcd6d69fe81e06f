package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bgricker/testdash/internal/output"
	"github.com/bgricker/testdash/internal/runner"
)

// FileName is the config file looked up in the project root.
const FileName = ".testdash.yml"

// Config captures CLI options sourced from config files or flags.
type Config struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env"`

	MaxFailures int    `yaml:"max_failures"`
	Format      string `yaml:"format"`
	Theme       string `yaml:"theme"`
	Verbose     bool   `yaml:"verbose"`
	LogLevel    string `yaml:"log_level"`

	Warn WarnConfig `yaml:"warn"`
}

// WarnConfig controls additional warning behaviour.
type WarnConfig struct {
	Toolchain bool `yaml:"toolchain"`
}

const (
	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"
)

// Default returns the baseline configuration used when no flags or config file specify values.
func Default() Config {
	return Config{
		Command:  runner.DefaultCommand,
		Args:     runner.DefaultArgs(),
		Format:   FormatPretty,
		Theme:    output.ThemeDefault,
		LogLevel: "warn",
		Warn: WarnConfig{
			Toolchain: true,
		},
	}
}

// Load reads .testdash.yml from the project root when present. Missing files are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	// Warn settings default to on, so the file may only turn them off.
	fileCfg := Config{Warn: cfg.Warn}
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg = merge(cfg, fileCfg)
	return cfg, nil
}

func merge(base, override Config) Config {
	out := base

	if override.Command != "" {
		out.Command = override.Command
		out.Args = nil
	}
	if len(override.Args) > 0 {
		out.Args = append([]string{}, override.Args...)
	}
	if len(override.Env) > 0 {
		out.Env = make(map[string]string, len(override.Env))
		for k, v := range override.Env {
			out.Env[k] = v
		}
	}
	if override.MaxFailures != 0 {
		out.MaxFailures = override.MaxFailures
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.Theme != "" {
		out.Theme = override.Theme
	}
	if override.LogLevel != "" {
		out.LogLevel = override.LogLevel
	}
	if override.Verbose {
		out.Verbose = true
	}

	out.Warn = override.Warn

	return out
}

// Validate rejects values no renderer or logger understands.
func (c Config) Validate() error {
	switch c.Format {
	case FormatPretty, FormatJSON:
	default:
		return fmt.Errorf("unsupported format %q", c.Format)
	}
	switch c.Theme {
	case output.ThemeDefault, output.ThemeMono:
	default:
		return fmt.Errorf("unsupported theme %q", c.Theme)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.LogLevel)
	}
	if c.MaxFailures < 0 {
		return fmt.Errorf("max failures must not be negative, got %d", c.MaxFailures)
	}
	if c.Command == "" {
		return errors.New("command must not be empty")
	}
	return nil
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if flags.Command.Set {
		cfg.Command = flags.Command.Value
		cfg.Args = nil
	}
	if len(flags.Args.Values) > 0 {
		cfg.Args = append([]string{}, flags.Args.Values...)
	}
	if flags.MaxFailures.Set {
		cfg.MaxFailures = flags.MaxFailures.Value
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.Theme.Set {
		cfg.Theme = flags.Theme.Value
	}
	if flags.LogLevel.Set {
		cfg.LogLevel = flags.LogLevel.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was set explicitly.
type FlagValues struct {
	Command     StringFlag
	Args        SliceFlag
	MaxFailures IntFlag
	Format      StringFlag
	Theme       StringFlag
	LogLevel    StringFlag
	Verbose     BoolFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// IntFlag represents an int flag and whether it was set.
type IntFlag struct {
	Value int
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
