package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7a3db8"))
	styleButton  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7a3db8"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleBadge   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#7a3db8"))
	styleDelete  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#e53935"))
	styleOption  = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))
	styleChosen  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7a3db8"))
	styleConfirm = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// cardStyle is the pastel background of one platform card.
func cardStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color("#333333"))
}
