package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupted is returned by RunLive when the operator quits the status
// screen before the work finished.
var ErrInterrupted = errors.New("interrupted")

// workDoneMsg carries the result of the background work into the model.
type workDoneMsg struct {
	err error
}

// liveModel shows a spinner and the elapsed time while the test process runs.
type liveModel struct {
	spin    spinner.Model
	label   string
	theme   Theme
	started time.Time
	now     func() time.Time
	work    func() error

	done        bool
	interrupted bool
	err         error
}

func newLiveModel(label string, theme Theme, work func() error, now func() time.Time) liveModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	if theme.Name == ThemeMono {
		s.Spinner = spinner.Line
	}
	s.Style = theme.Muted
	return liveModel{
		spin:    s,
		label:   label,
		theme:   theme,
		started: now(),
		now:     now,
		work:    work,
	}
}

func (m liveModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, runWork(m.work))
}

func runWork(work func() error) tea.Cmd {
	return func() tea.Msg {
		return workDoneMsg{err: work()}
	}
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case workDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	default:
		return m, nil
	}
}

func (m liveModel) View() string {
	if m.done || m.interrupted {
		return ""
	}
	elapsed := m.now().Sub(m.started).Truncate(100 * time.Millisecond)
	return fmt.Sprintf("%s %s %s\n", m.spin.View(), m.label, m.theme.Muted.Render("("+elapsed.String()+")"))
}

// RunLive runs work while drawing a status line on out. The status line is
// cleared once work returns; work's error is returned unchanged.
func RunLive(ctx context.Context, out io.Writer, themeName, label string, work func() error) error {
	theme, err := NewTheme(themeName, lipgloss.NewRenderer(out))
	if err != nil {
		return err
	}

	m := newLiveModel(label, theme, work, time.Now)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("status display: %w", err)
	}

	fm, ok := final.(liveModel)
	if !ok {
		return fmt.Errorf("status display: unexpected model %T", final)
	}
	if fm.interrupted {
		return ErrInterrupted
	}
	return fm.err
}
