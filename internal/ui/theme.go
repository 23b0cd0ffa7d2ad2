package ui

import (
	"github.com/charmbracelet/lipgloss"

	"sheet-quiz/internal/domain"
)

type palette struct {
	Base    lipgloss.Color
	Surface lipgloss.Color
	Text    lipgloss.Color
	Subtext lipgloss.Color
	Accent  lipgloss.Color
	Green   lipgloss.Color
	Red     lipgloss.Color
	Peach   lipgloss.Color
}

var (
	darkPalette = palette{
		Base:    lipgloss.Color("#1e1e2e"),
		Surface: lipgloss.Color("#45475a"),
		Text:    lipgloss.Color("#cdd6f4"),
		Subtext: lipgloss.Color("#a6adc8"),
		Accent:  lipgloss.Color("#b4befe"),
		Green:   lipgloss.Color("#a6e3a1"),
		Red:     lipgloss.Color("#f38ba8"),
		Peach:   lipgloss.Color("#fab387"),
	}
	lightPalette = palette{
		Base:    lipgloss.Color("#eff1f5"),
		Surface: lipgloss.Color("#bcc0cc"),
		Text:    lipgloss.Color("#4c4f69"),
		Subtext: lipgloss.Color("#6c6f85"),
		Accent:  lipgloss.Color("#7287fd"),
		Green:   lipgloss.Color("#40a02b"),
		Red:     lipgloss.Color("#d20f39"),
		Peach:   lipgloss.Color("#fe640b"),
	}
)

// styles is the rendered look for one theme.
type styles struct {
	App      lipgloss.Style
	Pane     lipgloss.Style
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Cursor   lipgloss.Style
	Correct  lipgloss.Style
	Wrong    lipgloss.Style
	Hot      lipgloss.Style
	ErrorBox lipgloss.Style
}

func stylesFor(theme domain.Theme) styles {
	p := darkPalette
	if theme == domain.ThemeLight {
		p = lightPalette
	}
	return styles{
		App: lipgloss.NewStyle().
			Background(p.Base).
			Foreground(p.Text).
			Padding(1, 2),
		Pane: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Surface).
			Foreground(p.Text).
			Padding(0, 1),
		Title:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(p.Subtext),
		Cursor:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Correct: lipgloss.NewStyle().Foreground(p.Green).Bold(true),
		Wrong:   lipgloss.NewStyle().Foreground(p.Red).Bold(true),
		Hot:     lipgloss.NewStyle().Foreground(p.Peach).Bold(true),
		ErrorBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Red).
			Foreground(p.Red).
			Padding(0, 1),
	}
}
