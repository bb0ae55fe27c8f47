package tui

import "github.com/charmbracelet/lipgloss"

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#88C0D0"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#BF616A"))
	spinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
)
