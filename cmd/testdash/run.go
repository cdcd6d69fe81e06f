package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bgricker/testdash/internal/config"
	"github.com/bgricker/testdash/internal/discovery"
	"github.com/bgricker/testdash/internal/feed"
	"github.com/bgricker/testdash/internal/output"
	"github.com/bgricker/testdash/internal/report"
	"github.com/bgricker/testdash/internal/runner"
	"github.com/bgricker/testdash/internal/version"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the test suite and summarise its results",
		Args:  cobra.NoArgs,
		RunE:  runTests,
	}
	cmd.Flags().AddFlagSet(runFlags())
	return cmd
}

func runTests(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	explicit, err := cmd.Flags().GetString("manifest-dir")
	if err != nil {
		return fmt.Errorf("parse --manifest-dir: %w", err)
	}

	root, err := discovery.ProjectRoot(wd, explicit)
	if err != nil {
		if errors.Is(err, discovery.ErrNoManifest) && explicit == "" {
			return fmt.Errorf("no Cargo.toml found; run inside a cargo project or pass --manifest-dir")
		}
		return err
	}

	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	if cfg.Warn.Toolchain {
		warnToolchain(cmd, cfg, root)
	}

	r := runner.New(runner.Options{
		Dir:     root,
		Command: cfg.Command,
		Args:    cfg.Args,
		Env:     cfg.Env,
		Stderr:  cmd.ErrOrStderr(),
		Verbose: cfg.Verbose,
	})
	log.Debug().Str("command", r.CommandLine()).Str("dir", root).Msg("starting test process")

	// Cancelling on return stops the process if the status screen is quit early.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var result runner.Result
	work := func() error {
		var err error
		result, err = r.Run(ctx)
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Format == config.FormatPretty && !cfg.Verbose && isTTYWriter(out) {
		err = output.RunLive(ctx, out, cfg.Theme, r.CommandLine(), work)
	} else {
		err = work()
	}
	if err != nil {
		log.Error().Err(err).Str("command", r.CommandLine()).Msg("test process did not complete")
		return err
	}
	log.Debug().Int("exit_code", result.ExitCode).Dur("duration", result.Duration).Int("bytes", len(result.Stdout)).Msg("test process exited")

	state, err := feed.Output(feed.Zero(), result.Stdout, feedOptions(log))
	if err != nil {
		log.Error().Err(err).Msg("unable to read test output")
		return err
	}
	if state.Skipped > 0 {
		log.Info().Int("lines", state.Skipped).Msg("skipped lines that are not test events")
	}

	return emit(cmd, cfg, report.New(state, result.Duration), result.Stderr)
}

// warnToolchain warns when cargo cannot produce the JSON event stream.
func warnToolchain(cmd *cobra.Command, cfg config.Config, root string) {
	if filepath.Base(cfg.Command) != runner.DefaultCommand {
		return
	}
	if msg := toolchainWarning(version.DetectCargo(root)); msg != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
	}
}

func toolchainWarning(info version.Info, detectErr error) string {
	if detectErr != nil {
		if version.Missing(detectErr) {
			return "cargo executable not found"
		}
		return fmt.Sprintf("unable to detect cargo version: %v", detectErr)
	}
	if !info.SupportsUnstableOptions() {
		return fmt.Sprintf("cargo %s is on the %s channel; the JSON test format requires nightly (try `cargo +nightly`)", info.Version, info.Channel)
	}
	return ""
}
