// Package tally folds decoded events into run statistics and the list of
// failing tests. Every Update returns a new value and leaves its receiver
// untouched.
package tally

import "github.com/bgricker/testdash/internal/event"

// RunCount counts tests observed starting and failing. Failed may exceed Ran
// when the stream reports a failure for a test it never announced.
type RunCount struct {
	Ran    int `json:"ran"`
	Failed int `json:"failed"`
}

// Update applies one event.
func (c RunCount) Update(e event.Event) RunCount {
	switch e.(type) {
	case event.TestStarted:
		c.Ran++
	case event.TestFailed:
		c.Failed++
	}
	return c
}

// WasSuccessful reports whether at least one test ran and none failed.
func (c RunCount) WasSuccessful() bool {
	return c.Failed == 0 && c.Ran > 0
}

// SuiteCount counts finished test binaries. It is informational only and
// never contributes to RunCount.
type SuiteCount struct {
	Finished int `json:"finished"`
	Failed   int `json:"failed"`
}

// Update applies one event.
func (s SuiteCount) Update(e event.Event) SuiteCount {
	switch e.(type) {
	case event.SuitePassed:
		s.Finished++
	case event.SuiteFailed:
		s.Finished++
		s.Failed++
	}
	return s
}
