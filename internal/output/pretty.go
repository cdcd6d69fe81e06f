package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bgricker/testdash/internal/report"
)

// failureIndent prefixes every failing test line.
const failureIndent = "  "

// PrettyOptions configure the pretty renderer.
type PrettyOptions struct {
	Theme string
	// Width truncates lines to the terminal width. Zero disables truncation.
	Width int
	// MaxFailures bounds the number of failing names shown.
	MaxFailures int
}

// PrettyRenderer renders the run summary and failing tests for a human.
type PrettyRenderer struct {
	out   io.Writer
	theme Theme
	opts  PrettyOptions
}

// NewPretty creates a PrettyRenderer writing to out.
func NewPretty(out io.Writer, opts PrettyOptions) (*PrettyRenderer, error) {
	theme, err := NewTheme(opts.Theme, lipgloss.NewRenderer(out))
	if err != nil {
		return nil, err
	}
	return &PrettyRenderer{out: out, theme: theme, opts: opts}, nil
}

// Render writes the summary line followed by the bounded failure list.
func (p *PrettyRenderer) Render(r report.Report) error {
	var buf bytes.Buffer
	t := p.theme
	s := r.Summary

	headline := s.Text()
	if r.Duration > 0 {
		headline = fmt.Sprintf("%s (%s)", headline, formatDuration(r.Duration))
	}
	switch {
	case s.Failed > 0:
		fmt.Fprintln(&buf, t.Error.Render(t.Icons.Fail+" "+t.Bold.Render(headline)))
	case s.Ran == 0:
		fmt.Fprintln(&buf, t.Warning.Render(t.Icons.Warn+" "+headline)+" "+t.Muted.Render("(no tests were run)"))
	default:
		fmt.Fprintln(&buf, t.Success.Render(t.Icons.Pass+" "+t.Bold.Render(headline)))
	}

	if s.Suites > 0 {
		fmt.Fprintln(&buf, t.Muted.Render(fmt.Sprintf("%s%s finished, %d failed", failureIndent, plural(s.Suites, "suite"), s.SuiteFailures)))
	}

	shown := report.Failures(r.Failures, p.opts.MaxFailures)
	for _, name := range shown {
		line := p.fit(failureIndent+t.Icons.Fail+" ", name)
		fmt.Fprintln(&buf, t.Error.Render(line))
	}
	if hidden := len(r.Failures) - len(shown); hidden > 0 {
		fmt.Fprintln(&buf, t.Muted.Render(fmt.Sprintf("%s... and %d more", failureIndent, hidden)))
	}

	_, err := buf.WriteTo(p.out)
	return err
}

// RenderDiagnostics writes captured runner output below the summary, used
// when no tests ran so the operator can see why.
func (p *PrettyRenderer) RenderDiagnostics(text string) error {
	text = indent(text, failureIndent)
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(p.out, p.theme.Muted.Render(text))
	return err
}

// fit truncates name so prefix+name fits the configured width.
func (p *PrettyRenderer) fit(prefix, name string) string {
	if p.opts.Width <= 0 {
		return prefix + name
	}
	room := p.opts.Width - runewidth.StringWidth(prefix)
	if room <= 0 {
		return prefix
	}
	return prefix + runewidth.Truncate(name, room, "…")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func indent(s, pad string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Truncate(time.Millisecond).String()
}
