// Package feed drives the tally aggregators over a captured test stream.
package feed

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/bgricker/testdash/internal/event"
	"github.com/bgricker/testdash/internal/tally"
)

// ErrInvalidUTF8 is returned when captured output is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("test output is not valid UTF-8")

// State is the fold target for one run.
type State struct {
	Count   tally.RunCount    `json:"count"`
	Suites  tally.SuiteCount  `json:"suites"`
	Failed  tally.FailedTests `json:"failed_tests"`
	Skipped int               `json:"skipped_lines"`
}

// Zero returns the starting state of a run.
func Zero() State {
	return State{}
}

// Options observe the fold without affecting it.
type Options struct {
	// OnEvent is called for every decoded event, in stream order.
	OnEvent func(lineNo int, e event.Event)
	// OnSkip is called for every non-blank line that failed to decode.
	OnSkip func(lineNo int, line string, err error)
}

// Step applies one event to every aggregator.
func Step(s State, e event.Event) State {
	s.Count = s.Count.Update(e)
	s.Failed = s.Failed.Update(e)
	s.Suites = s.Suites.Update(e)
	return s
}

// Lines folds raw lines into s. Lines that do not decode are skipped; blank
// lines are ignored without being counted.
func Lines(s State, lines []string, opts Options) State {
	for i, line := range lines {
		lineNo := i + 1
		ev, err := event.DecodeString(line)
		if err != nil {
			if errors.Is(err, event.ErrBlankLine) {
				continue
			}
			s.Skipped++
			if opts.OnSkip != nil {
				opts.OnSkip(lineNo, line, err)
			}
			continue
		}
		if opts.OnEvent != nil {
			opts.OnEvent(lineNo, ev)
		}
		s = Step(s, ev)
	}
	return s
}

// Output folds a complete capture into s. Output that is not valid UTF-8 is
// rejected as a whole and s is returned unchanged.
func Output(s State, data []byte, opts Options) (State, error) {
	if err := validateUTF8(data); err != nil {
		return s, err
	}
	return Lines(s, SplitLines(string(data)), opts), nil
}

// Reader reads r to EOF and folds the result into s.
func Reader(s State, r io.Reader, opts Options) (State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return s, fmt.Errorf("read test output: %w", err)
	}
	return Output(s, data, opts)
}

// SplitLines splits text on newlines, dropping a trailing carriage return
// from each line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func validateUTF8(data []byte) error {
	if _, _, err := transform.Bytes(encoding.UTF8Validator, data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUTF8, err)
	}
	return nil
}
