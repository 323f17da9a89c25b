package tui

import "github.com/charmbracelet/lipgloss"

var (
	pink  = lipgloss.Color("205")
	white = lipgloss.Color("255")
	grey  = lipgloss.Color("245")
	red   = lipgloss.Color("196")
	green = lipgloss.Color("42")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(pink).MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(pink).
			Padding(1, 4)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(pink).
			Padding(0, 3)

	buttonIdleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pink).
			Padding(0, 3)

	labelStyle = lipgloss.NewStyle().Foreground(white)
	hintStyle  = lipgloss.NewStyle().Foreground(grey)

	toastBase    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	toastSuccess = toastBase.BorderForeground(green)
	toastError   = toastBase.BorderForeground(red)
)
