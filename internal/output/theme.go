package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	// ThemeDefault renders with colors and unicode icons.
	ThemeDefault = "default"
	// ThemeMono renders without colors and with ASCII icons.
	ThemeMono = "mono"
)

// Theme defines styles and icons for the pretty renderer.
type Theme struct {
	Name    string
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   Icons
}

// Icons is the glyph set of a theme.
type Icons struct {
	Pass string
	Fail string
	Warn string
}

// NewTheme builds the named theme on r. Styles built on a renderer whose
// output is not a terminal render as plain text.
func NewTheme(name string, r *lipgloss.Renderer) (Theme, error) {
	switch name {
	case "", ThemeDefault:
		return Theme{
			Name:    ThemeDefault,
			Success: r.NewStyle().Foreground(lipgloss.Color("34")),  // green
			Error:   r.NewStyle().Foreground(lipgloss.Color("196")), // red
			Warning: r.NewStyle().Foreground(lipgloss.Color("214")), // orange
			Muted:   r.NewStyle().Foreground(lipgloss.Color("242")), // gray
			Bold:    r.NewStyle().Bold(true),
			Icons:   Icons{Pass: "✓", Fail: "✗", Warn: "⚠"},
		}, nil
	case ThemeMono:
		return Theme{
			Name:    ThemeMono,
			Success: r.NewStyle(),
			Error:   r.NewStyle(),
			Warning: r.NewStyle(),
			Muted:   r.NewStyle(),
			Bold:    r.NewStyle(),
			Icons:   Icons{Pass: "+", Fail: "x", Warn: "!"},
		}, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
}
