package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary = lipgloss.Color("#bd93f9") // Dracula Purple
	ColorSuccess = lipgloss.Color("#50fa7b") // Dracula Green
	ColorError   = lipgloss.Color("#ff5555") // Dracula Red
	ColorWarning = lipgloss.Color("#ffb86c") // Dracula Orange
	ColorText    = lipgloss.Color("#f8f8f2") // Dracula Foreground
	ColorSubtext = lipgloss.Color("#6272a4") // Dracula Comment
	ColorBorder  = lipgloss.Color("#44475a") // Dracula Selection

	AppStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorText)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	SkippedStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	FailedStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	FilenameStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SummaryStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true).
			MarginTop(1)
)
