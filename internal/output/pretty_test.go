package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgricker/testdash/internal/report"
)

func render(t *testing.T, opts PrettyOptions, r report.Report) string {
	t.Helper()
	buf := &bytes.Buffer{}
	renderer, err := NewPretty(buf, opts)
	require.NoError(t, err)
	require.NoError(t, renderer.Render(r))
	return buf.String()
}

func TestPrettyRenderPassed(t *testing.T) {
	out := render(t, PrettyOptions{Theme: ThemeMono, MaxFailures: 5}, report.Report{
		Summary:  report.Summary{Ran: 12, Suites: 3, Successful: true},
		Duration: 1234 * time.Millisecond,
	})

	assert.Equal(t, "+ 12 tests passed (1.234s)\n  3 suites finished, 0 failed\n", out)
}

func TestPrettyRenderFailedTruncatesList(t *testing.T) {
	out := render(t, PrettyOptions{Theme: ThemeMono, MaxFailures: 2}, report.Report{
		Summary:  report.Summary{Ran: 9, Failed: 4, Suites: 1, SuiteFailures: 1},
		Failures: []string{"tests::d", "tests::a", "tests::c", "tests::a"},
	})

	want := strings.Join([]string{
		"x 4/9 tests failed",
		"  1 suite finished, 1 failed",
		"  x tests::d",
		"  x tests::a",
		"  ... and 2 more",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestPrettyRenderNoTests(t *testing.T) {
	out := render(t, PrettyOptions{Theme: ThemeMono}, report.Report{})
	assert.Equal(t, "! 0 tests passed (no tests were run)\n", out)
}

func TestPrettyRenderFitsWidth(t *testing.T) {
	out := render(t, PrettyOptions{Theme: ThemeMono, MaxFailures: 1, Width: 20}, report.Report{
		Summary:  report.Summary{Ran: 1, Failed: 1},
		Failures: []string{"module::nested::very_long_test_name"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  x module::nested:…", lines[1])
}

func TestPrettyRenderDefaultTheme(t *testing.T) {
	out := render(t, PrettyOptions{MaxFailures: 3}, report.Report{
		Summary:  report.Summary{Ran: 2, Failed: 1},
		Failures: []string{"a"},
	})
	assert.Contains(t, out, "✗ 1/2 tests failed")
	assert.Contains(t, out, "  ✗ a")
}

func TestPrettyRenderDiagnostics(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := NewPretty(buf, PrettyOptions{Theme: ThemeMono})
	require.NoError(t, err)

	require.NoError(t, renderer.RenderDiagnostics("error[E0425]: cannot find value\n  --> src/lib.rs:3:5\n"))
	assert.Equal(t, "  error[E0425]: cannot find value\n    --> src/lib.rs:3:5\n", buf.String())

	buf.Reset()
	require.NoError(t, renderer.RenderDiagnostics("  \n"))
	assert.Empty(t, buf.String())
}

func TestNewPrettyUnknownTheme(t *testing.T) {
	_, err := NewPretty(&bytes.Buffer{}, PrettyOptions{Theme: "neon"})
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", formatDuration(0))
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "2.5s", formatDuration(2500*time.Millisecond))
}
