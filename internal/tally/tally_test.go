package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bgricker/testdash/internal/event"
)

func fold(events ...event.Event) (RunCount, SuiteCount, FailedTests) {
	var (
		count  RunCount
		suites SuiteCount
		failed FailedTests
	)
	for _, e := range events {
		count = count.Update(e)
		suites = suites.Update(e)
		failed = failed.Update(e)
	}
	return count, suites, failed
}

func TestRunCountStartedThenPassed(t *testing.T) {
	count, _, failed := fold(
		event.TestStarted{Name: "A"},
		event.TestPassed{Name: "A"},
	)
	assert.Equal(t, RunCount{Ran: 1, Failed: 0}, count)
	assert.True(t, count.WasSuccessful())
	assert.Empty(t, failed)
}

func TestRunCountStartedThenFailed(t *testing.T) {
	count, _, failed := fold(
		event.TestStarted{Name: "A"},
		event.TestFailed{Name: "A", Output: "boom"},
	)
	assert.Equal(t, RunCount{Ran: 1, Failed: 1}, count)
	assert.False(t, count.WasSuccessful())
	assert.Equal(t, FailedTests{"A"}, failed)
}

func TestEmptyRunIsNotSuccessful(t *testing.T) {
	count, suites, failed := fold()
	assert.False(t, count.WasSuccessful())
	assert.Zero(t, suites)
	assert.Nil(t, failed)
}

func TestSuiteEventsLeaveTestCountsAlone(t *testing.T) {
	count, suites, failed := fold(
		event.SuiteStarted{TestCount: 3},
		event.SuitePassed{Counts: event.CommonCounts{Passed: 1, Ignored: 2}},
		event.SuiteFailed{Counts: event.CommonCounts{Passed: 2, Failed: 1}},
	)
	assert.Zero(t, count)
	assert.Equal(t, SuiteCount{Finished: 2, Failed: 1}, suites)
	assert.Empty(t, failed)
}

func TestFailureWithoutStartIsTolerated(t *testing.T) {
	count, _, failed := fold(event.TestFailed{Name: "ghost"})
	assert.Equal(t, RunCount{Ran: 0, Failed: 1}, count)
	assert.Equal(t, FailedTests{"ghost"}, failed)
}

func TestFailedTestsKeepsOrderAndDuplicates(t *testing.T) {
	_, _, failed := fold(
		event.TestStarted{Name: "b"},
		event.TestFailed{Name: "b"},
		event.TestStarted{Name: "a"},
		event.TestFailed{Name: "a"},
		event.TestStarted{Name: "b"},
		event.TestFailed{Name: "b"},
	)
	assert.Equal(t, FailedTests{"b", "a", "b"}, failed)
}

func TestFailedTestsUpdateDoesNotAlias(t *testing.T) {
	base := make(FailedTests, 1, 8)
	base[0] = "first"

	left := base.Update(event.TestFailed{Name: "left"})
	right := base.Update(event.TestFailed{Name: "right"})

	assert.Equal(t, FailedTests{"first"}, base)
	assert.Equal(t, FailedTests{"first", "left"}, left)
	assert.Equal(t, FailedTests{"first", "right"}, right)
}

func TestRunCountUpdateIsPure(t *testing.T) {
	before := RunCount{Ran: 2, Failed: 1}
	after := before.Update(event.TestStarted{Name: "x"})
	assert.Equal(t, RunCount{Ran: 2, Failed: 1}, before)
	assert.Equal(t, RunCount{Ran: 3, Failed: 1}, after)
}
