// Package render draws log sheets for the terminal with lipgloss.
package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles used by every renderer in the package.
type Theme struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Muted     lipgloss.Style
	Line      lipgloss.Style
	Connector lipgloss.Style
	Dot       lipgloss.Style
	Total     lipgloss.Style
	Selected  lipgloss.Style
	Error     lipgloss.Style
	Panel     lipgloss.Style
	Border    lipgloss.Border

	plain bool
}

var (
	colorInk    = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#F2F2F2"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#8A94A6", Dark: "#5C6B82"}
	colorLine   = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#64B5F6"}
	colorAccent = lipgloss.Color("#8BC34A")
	colorError  = lipgloss.Color("#E53935")
)

// DefaultTheme returns the coloured theme for standard output.
func DefaultTheme() Theme {
	return themeWith(lipgloss.DefaultRenderer())
}

// ThemeFor returns the coloured theme sized to what w supports; writers
// that are not terminals get no colour.
func ThemeFor(w io.Writer) Theme {
	return themeWith(lipgloss.NewRenderer(w))
}

func themeWith(r *lipgloss.Renderer) Theme {
	return Theme{
		Title:     r.NewStyle().Bold(true).Foreground(colorInk),
		Label:     r.NewStyle().Foreground(colorInk),
		Muted:     r.NewStyle().Foreground(colorMuted),
		Line:      r.NewStyle().Foreground(colorLine).Bold(true),
		Connector: r.NewStyle().Foreground(colorLine),
		Dot:       r.NewStyle().Foreground(colorAccent).Bold(true),
		Total:     r.NewStyle().Foreground(colorInk).Bold(true),
		Selected:  r.NewStyle().Foreground(colorAccent).Bold(true),
		Error:     r.NewStyle().Foreground(colorError),
		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),
		Border: lipgloss.RoundedBorder(),
	}
}

// Plain returns a theme that emits no escape sequences, for pipes, files
// and tests.
func Plain() Theme {
	return Theme{
		Panel:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		Border: lipgloss.NormalBorder(),
		plain:  true,
	}
}

// IsPlain reports whether the theme draws without styling.
func (t Theme) IsPlain() bool {
	return t.plain
}

func (t Theme) paint(style lipgloss.Style, s string) string {
	if t.plain || s == "" {
		return s
	}
	return style.Render(s)
}
