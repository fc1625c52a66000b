package main

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	primaryColor   = lipgloss.Color("#7D56F4")
	secondaryColor = lipgloss.Color("#00D7FF")
	successColor   = lipgloss.Color("#04B575")
	warningColor   = lipgloss.Color("#FFA500")
	errorColor     = lipgloss.Color("#FF4B4B")
	mutedColor     = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(14)

	extStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)
)

// disableColor strips colors and emphasis but keeps layout.
func disableColor() {
	plain := lipgloss.NewStyle()
	titleStyle = plain
	labelStyle = plain.Width(14)
	extStyle = plain
	successStyle = plain
	warningStyle = plain
	errorStyle = plain
}
