package feed

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgricker/testdash/internal/event"
	"github.com/bgricker/testdash/internal/tally"
)

const (
	startA = `{ "type": "test", "event": "started", "name": "A" }`
	passA  = `{ "type": "test", "event": "ok", "name": "A" }`
	failA  = `{ "type": "test", "event": "failed", "name": "A", "stdout": "assertion failed" }`
	startB = `{ "type": "test", "event": "started", "name": "B" }`
	failB  = `{ "type": "test", "event": "failed", "name": "B", "stdout": "" }`
)

func TestLinesPassingRun(t *testing.T) {
	s := Lines(Zero(), []string{startA, passA}, Options{})
	assert.Equal(t, tally.RunCount{Ran: 1}, s.Count)
	assert.True(t, s.Count.WasSuccessful())
	assert.Empty(t, s.Failed)
}

func TestLinesFailingRun(t *testing.T) {
	s := Lines(Zero(), []string{startA, failA}, Options{})
	assert.Equal(t, tally.RunCount{Ran: 1, Failed: 1}, s.Count)
	assert.False(t, s.Count.WasSuccessful())
	assert.Equal(t, tally.FailedTests{"A"}, s.Failed)
}

func TestLinesEmptyRun(t *testing.T) {
	s := Lines(Zero(), nil, Options{})
	assert.False(t, s.Count.WasSuccessful())
	assert.Equal(t, Zero(), s)
}

func TestLinesSkipsUnparseableLines(t *testing.T) {
	clean := Lines(Zero(), []string{startA, failA}, Options{})
	noisy := Lines(Zero(), []string{startA, "error: test failed, to rerun pass `--lib`", failA}, Options{})

	assert.Equal(t, clean.Count, noisy.Count)
	assert.Equal(t, clean.Failed, noisy.Failed)
	assert.Equal(t, 1, noisy.Skipped)
}

func TestLinesReportsSkipsAndEvents(t *testing.T) {
	var skipped []int
	var kinds []event.Kind
	opts := Options{
		OnSkip: func(lineNo int, line string, err error) {
			skipped = append(skipped, lineNo)
			assert.Error(t, err)
		},
		OnEvent: func(_ int, e event.Event) {
			kinds = append(kinds, e.Kind())
		},
	}

	s := Lines(Zero(), []string{"", startA, "{", "   ", passA, `{"type":"bench"}`}, opts)

	assert.Equal(t, []int{3, 6}, skipped)
	assert.Equal(t, []event.Kind{event.KindTestStarted, event.KindTestPassed}, kinds)
	assert.Equal(t, 2, s.Skipped)
}

func TestLinesFailureOrderWithDuplicates(t *testing.T) {
	s := Lines(Zero(), []string{startB, failB, startA, failA, startB, failB}, Options{})
	assert.Equal(t, tally.FailedTests{"B", "A", "B"}, s.Failed)
	assert.Equal(t, tally.RunCount{Ran: 3, Failed: 3}, s.Count)
}

func TestLinesContinuesFromState(t *testing.T) {
	first := Lines(Zero(), []string{startA, failA}, Options{})
	second := Lines(first, []string{startB, failB}, Options{})

	assert.Equal(t, tally.FailedTests{"A"}, first.Failed)
	assert.Equal(t, tally.FailedTests{"A", "B"}, second.Failed)
	assert.Equal(t, 2, second.Count.Ran)
}

func TestStepCountsSuites(t *testing.T) {
	s := Step(Zero(), event.SuiteFailed{Counts: event.CommonCounts{Failed: 1}})
	assert.Equal(t, tally.SuiteCount{Finished: 1, Failed: 1}, s.Suites)
	assert.Zero(t, s.Count)
}

func TestOutputHandlesPartialAndCRLFLines(t *testing.T) {
	data := strings.Join([]string{
		`{ "type": "suite", "event": "started", "test_count": 2 }`,
		startA,
		passA,
		startB,
		failB,
		`{ "type": "suite", "event": "failed", "passed": 1, "failed": 1, "allowed_fail": 0, "ignored": 0, "measured": 0, "filtered_out": 0 }`,
		`{ "type": "test", "event": "sta`,
	}, "\r\n")

	s, err := Output(Zero(), []byte(data), Options{})
	require.NoError(t, err)
	assert.Equal(t, tally.RunCount{Ran: 2, Failed: 1}, s.Count)
	assert.Equal(t, tally.FailedTests{"B"}, s.Failed)
	assert.Equal(t, tally.SuiteCount{Finished: 1, Failed: 1}, s.Suites)
	assert.Equal(t, 1, s.Skipped)
}

func TestOutputRejectsInvalidUTF8(t *testing.T) {
	data := []byte(startA + "\n" + passA + "\n\xff\xfe broken\n")

	s, err := Output(Zero(), data, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidUTF8))
	assert.Equal(t, Zero(), s)
}

func TestOutputRejectsMalformedSequences(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "truncated at end", data: "ok\n\xe2\x9c"},
		{name: "surrogate half", data: "\xed\xa0\x80"},
		{name: "overlong slash", data: "\xc0\xaf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Output(Zero(), []byte(tt.data), Options{})
			assert.ErrorIs(t, err, ErrInvalidUTF8)
		})
	}
}

func TestReader(t *testing.T) {
	s, err := Reader(Zero(), strings.NewReader(startA+"\n"+failA+"\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, tally.FailedTests{"A"}, s.Failed)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\r\nb\n"))
	assert.Equal(t, []string{""}, SplitLines(""))
}
