package tui

import "github.com/charmbracelet/lipgloss"

var (
	cyan      = lipgloss.Color("#7dcfff")
	purple    = lipgloss.Color("#bb9af7")
	green     = lipgloss.Color("#9ece6a")
	muted     = lipgloss.Color("#565f89")
	textColor = lipgloss.Color("#c0caf5")

	promptStyle      = lipgloss.NewStyle().Foreground(cyan).Bold(true)
	placeholderStyle = lipgloss.NewStyle().Foreground(muted).Italic(true)
	headerStyle      = lipgloss.NewStyle().Foreground(purple).Bold(true)
	nameStyle        = lipgloss.NewStyle().Foreground(textColor)
	scopeStyle       = lipgloss.NewStyle().Foreground(muted)
	selectedStyle    = lipgloss.NewStyle().Foreground(green).Bold(true)
	emptyStyle       = lipgloss.NewStyle().Foreground(muted).Italic(true)
	helpStyle        = lipgloss.NewStyle().Foreground(muted)
	boxStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
)
