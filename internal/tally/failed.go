package tally

import (
	"slices"

	"github.com/bgricker/testdash/internal/event"
)

// FailedTests lists failing test names in the order their failures were
// observed. A name that fails twice appears twice.
type FailedTests []string

// Update appends the name carried by a TestFailed event. The receiver's
// backing array is never written to.
func (f FailedTests) Update(e event.Event) FailedTests {
	failed, ok := e.(event.TestFailed)
	if !ok {
		return f
	}
	return append(slices.Clip(f), failed.Name)
}
