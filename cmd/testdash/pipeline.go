package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bgricker/testdash/internal/config"
	"github.com/bgricker/testdash/internal/event"
	"github.com/bgricker/testdash/internal/feed"
	"github.com/bgricker/testdash/internal/logging"
	"github.com/bgricker/testdash/internal/output"
	"github.com/bgricker/testdash/internal/report"
)

var (
	errTestsFailed = errors.New("one or more tests failed")
	errNoTests     = errors.New("no tests were run")
)

// summaryRows is the number of terminal rows reserved around the failure
// list: the headline, the suite line and the overflow line.
const summaryRows = 3

// maxLoggedLine bounds the display width of a skipped line in the log.
const maxLoggedLine = 120

func loadConfig(cmd *cobra.Command, root string) (config.Config, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, err
	}
	config.ApplyFlags(&cfg, flags)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) (zerolog.Logger, error) {
	w := cmd.ErrOrStderr()
	return logging.New(w, cfg.LogLevel, isTTYWriter(w))
}

// feedOptions logs what the fold skips and the output of failing tests.
func feedOptions(log zerolog.Logger) feed.Options {
	return feed.Options{
		OnSkip: func(lineNo int, line string, err error) {
			log.Debug().Int("line", lineNo).Err(err).Str("text", clipLine(line)).Msg("skipped line")
		},
		OnEvent: func(lineNo int, e event.Event) {
			entry := log.Debug().Int("line", lineNo).Str("event", string(e.Kind()))
			if name, ok := event.TestName(e); ok {
				entry = entry.Str("test", name)
			}
			if failed, ok := e.(event.TestFailed); ok {
				entry = entry.Str("output", failed.Output)
			}
			entry.Msg("decoded event")
		},
	}
}

// clipLine shortens line for logging without splitting a rune.
func clipLine(line string) string {
	return runewidth.Truncate(line, maxLoggedLine, "…")
}

// emit renders rep in the configured format and turns an unsuccessful run
// into an error. diagnostics is shown when no tests ran.
func emit(cmd *cobra.Command, cfg config.Config, rep report.Report, diagnostics string) error {
	out := cmd.OutOrStdout()

	switch cfg.Format {
	case config.FormatPretty:
		tty := isTTYWriter(out)
		width, height := termSize(out)
		if !tty {
			width = 0
		}
		maxFailures := cfg.MaxFailures
		if maxFailures == 0 {
			maxFailures = failureRows(height, tty)
		}

		renderer, err := output.NewPretty(out, output.PrettyOptions{
			Theme:       cfg.Theme,
			Width:       width,
			MaxFailures: maxFailures,
		})
		if err != nil {
			return err
		}
		if err := renderer.Render(rep); err != nil {
			return err
		}
		if rep.Summary.Ran == 0 {
			if err := renderer.RenderDiagnostics(diagnostics); err != nil {
				return err
			}
		}
	case config.FormatJSON:
		if err := output.NewJSON(out).Render(rep); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	return outcome(rep.Summary)
}

func outcome(s report.Summary) error {
	switch {
	case s.Successful:
		return nil
	case s.Ran == 0 && s.Failed == 0:
		return errNoTests
	default:
		return errTestsFailed
	}
}

// failureRows returns how many failing names fit on screen.
func failureRows(height int, tty bool) int {
	if !tty {
		return math.MaxInt
	}
	if rows := height - summaryRows; rows > 0 {
		return rows
	}
	return 1
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}
