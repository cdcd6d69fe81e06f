// Package event decodes the line-delimited JSON records emitted by the
// libtest JSON formatter (`cargo test -- --format json`).
package event

// Kind labels an event variant as "<type>/<event>".
type Kind string

const (
	KindSuiteStarted Kind = "suite/started"
	KindSuitePassed  Kind = "suite/ok"
	KindSuiteFailed  Kind = "suite/failed"
	KindTestStarted  Kind = "test/started"
	KindTestPassed   Kind = "test/ok"
	KindTestFailed   Kind = "test/failed"
)

// Event is one decoded lifecycle record. The set of implementations is closed:
// SuiteStarted, SuitePassed, SuiteFailed, TestStarted, TestPassed, TestFailed.
type Event interface {
	Kind() Kind
	isEvent()
}

// CommonCounts is the snapshot the runner reports when a suite finishes.
type CommonCounts struct {
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	AllowedFail int `json:"allowed_fail"`
	Ignored     int `json:"ignored"`
	Measured    int `json:"measured"`
	FilteredOut int `json:"filtered_out"`
}

// SuiteStarted announces a test binary and the number of tests it will run.
type SuiteStarted struct {
	TestCount int
}

// SuitePassed reports a test binary that finished without failures.
type SuitePassed struct {
	Counts CommonCounts
}

// SuiteFailed reports a test binary that finished with at least one failure.
type SuiteFailed struct {
	Counts CommonCounts
}

// TestStarted reports that a single test began.
type TestStarted struct {
	Name string
}

// TestPassed reports that a single test succeeded.
type TestPassed struct {
	Name string
}

// TestFailed reports that a single test failed. Output holds the captured
// diagnostic text verbatim.
type TestFailed struct {
	Name   string
	Output string
}

func (SuiteStarted) Kind() Kind { return KindSuiteStarted }
func (SuitePassed) Kind() Kind  { return KindSuitePassed }
func (SuiteFailed) Kind() Kind  { return KindSuiteFailed }
func (TestStarted) Kind() Kind  { return KindTestStarted }
func (TestPassed) Kind() Kind   { return KindTestPassed }
func (TestFailed) Kind() Kind   { return KindTestFailed }

func (SuiteStarted) isEvent() {}
func (SuitePassed) isEvent()  {}
func (SuiteFailed) isEvent()  {}
func (TestStarted) isEvent()  {}
func (TestPassed) isEvent()   {}
func (TestFailed) isEvent()   {}

// TestName returns the test name carried by test events.
func TestName(e Event) (string, bool) {
	switch ev := e.(type) {
	case TestStarted:
		return ev.Name, true
	case TestPassed:
		return ev.Name, true
	case TestFailed:
		return ev.Name, true
	default:
		return "", false
	}
}
