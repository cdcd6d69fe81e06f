package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bgricker/testdash/internal/feed"
	"github.com/bgricker/testdash/internal/report"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Summarise a saved libtest JSON stream (stdin when no file or -)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runParse,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := loadConfig(cmd, wd)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open test output: %w", err)
		}
		defer f.Close()
		in = f
	}

	state, err := feed.Reader(feed.Zero(), in, feedOptions(log))
	if err != nil {
		log.Error().Err(err).Msg("unable to read test output")
		return err
	}

	return emit(cmd, cfg, report.New(state, 0), "")
}
