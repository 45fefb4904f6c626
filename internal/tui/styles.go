package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title    lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	Modal    lipgloss.Style
}

func newStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7")).MarginBottom(1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bb9af7")),
		Done:     lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Strikethrough(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).MarginTop(1),
		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#f7768e")).
			Padding(0, 2),
	}
}
