package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bgricker/testdash/internal/config"
)

// runFlags returns the flags that only apply when a test process is started.
func runFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.String("manifest-dir", "", "cargo project directory (default: nearest Cargo.toml)")
	fs.String("command", "", "test command to run instead of cargo")
	fs.StringArray("arg", nil, "argument passed to the test command (repeatable)")
	return fs
}

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	if flags.Changed("command") {
		v, err := flags.GetString("command")
		if err != nil {
			return values, fmt.Errorf("parse --command: %w", err)
		}
		values.Command = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("arg") {
		v, err := flags.GetStringArray("arg")
		if err != nil {
			return values, fmt.Errorf("parse --arg: %w", err)
		}
		values.Args = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("max-failures") {
		v, err := flags.GetInt("max-failures")
		if err != nil {
			return values, fmt.Errorf("parse --max-failures: %w", err)
		}
		values.MaxFailures = config.IntFlag{Value: v, Set: true}
	}

	if flags.Changed("format") {
		v, err := flags.GetString("format")
		if err != nil {
			return values, fmt.Errorf("parse --format: %w", err)
		}
		values.Format = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("theme") {
		v, err := flags.GetString("theme")
		if err != nil {
			return values, fmt.Errorf("parse --theme: %w", err)
		}
		values.Theme = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("log-level") {
		v, err := flags.GetString("log-level")
		if err != nil {
			return values, fmt.Errorf("parse --log-level: %w", err)
		}
		values.LogLevel = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return values, fmt.Errorf("parse --verbose: %w", err)
		}
		values.Verbose = config.BoolFlag{Value: v, Set: true}
	}

	return values, nil
}
