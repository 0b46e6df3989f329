package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Output styles. Lipgloss degrades to plain text when stdout is not a
// colour terminal, so these are safe for piped output.
var (
	styleHeading = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	stylePrompt = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#06B6D4"))

	styleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	styleCitation = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4"))

	styleGood = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1"))

	styleBad = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))

	styleWarn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF"))
)
