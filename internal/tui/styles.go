package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor  = lipgloss.Color("#FF79C6")
	mutedColor   = lipgloss.Color("#6272A4")
	errorColor   = lipgloss.Color("#FF5555")
	primaryColor = lipgloss.Color("#F8F8F2")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginBottom(1)

	CellStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Padding(0, 1)

	SelectedCellStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				MarginTop(1)
)
