// Package report exposes the values handed to display sinks: a summary of
// the run and the ordered list of failing test names.
package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/bgricker/testdash/internal/feed"
)

// Summary is the read-only projection of a finished run.
type Summary struct {
	Ran           int  `json:"ran"`
	Failed        int  `json:"failed"`
	Suites        int  `json:"suites"`
	SuiteFailures int  `json:"suite_failures"`
	SkippedLines  int  `json:"skipped_lines"`
	Successful    bool `json:"successful"`
}

// Summarize projects a fold state.
func Summarize(s feed.State) Summary {
	return Summary{
		Ran:           s.Count.Ran,
		Failed:        s.Count.Failed,
		Suites:        s.Suites.Finished,
		SuiteFailures: s.Suites.Failed,
		SkippedLines:  s.Skipped,
		Successful:    s.Count.WasSuccessful(),
	}
}

// Text renders the one-line summary: "N tests passed" or "F/N tests failed".
func (s Summary) Text() string {
	if s.Failed == 0 {
		return fmt.Sprintf("%d tests passed", s.Ran)
	}
	return fmt.Sprintf("%d/%d tests failed", s.Failed, s.Ran)
}

// Failures returns at most max names from the head of names, in order.
func Failures(names []string, max int) []string {
	if max <= 0 || len(names) == 0 {
		return nil
	}
	if len(names) > max {
		names = names[:max]
	}
	return slices.Clone(names)
}

// Report captures the machine readable output schema.
type Report struct {
	Summary    Summary       `json:"summary"`
	Text       string        `json:"text"`
	Failures   []string      `json:"failures"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	ExitCode   int           `json:"exit_code"`
}

// New builds a Report holding every failing name. d is the wall time of the
// test process, zero when the stream was read from a file.
func New(s feed.State, d time.Duration) Report {
	summary := Summarize(s)
	failures := slices.Clone([]string(s.Failed))
	if failures == nil {
		failures = []string{}
	}
	exitCode := 0
	if !summary.Successful {
		exitCode = 1
	}
	return Report{
		Summary:    summary,
		Text:       summary.Text(),
		Failures:   failures,
		Duration:   d,
		DurationMS: d.Milliseconds(),
		ExitCode:   exitCode,
	}
}
