package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("39")
	colorMuted  = lipgloss.Color("245")
	colorNotice = lipgloss.Color("214")
	colorOK     = lipgloss.Color("42")
	colorClosed = lipgloss.Color("203")

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	noticeStyle   = lipgloss.NewStyle().Foreground(colorNotice)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	outgoingStyle = lipgloss.NewStyle().Foreground(colorOK)
	avatarStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(colorAccent)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
	activePaneStyle = paneStyle.BorderForeground(colorAccent)
)

func resolutionStyle(r string) lipgloss.Style {
	switch r {
	case "Resolved":
		return lipgloss.NewStyle().Foreground(colorOK)
	case "Closed":
		return lipgloss.NewStyle().Foreground(colorClosed)
	default:
		return mutedStyle
	}
}
