// Package style holds the terminal styles shared by commands and the
// interactive prompts.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// lipgloss styles for inline text
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "39"})
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"})
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"})
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "203"})
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "243", Dark: "245"})
)

// pterm styles for block-level prefixes
var (
	StagePrefix = pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	DonePrefix  = pterm.NewStyle(pterm.FgGreen, pterm.Bold)
)

// Title renders a section heading.
func Title(s string) string {
	return TitleStyle.Render(s)
}

// Success renders a confirmation line.
func Success(s string) string {
	return SuccessStyle.Render(s)
}

// Warn renders a non-fatal warning.
func Warn(s string) string {
	return WarnStyle.Render(s)
}

// Error renders a fatal error line.
func Error(s string) string {
	return ErrorStyle.Render(s)
}

// Muted renders secondary detail text.
func Muted(s string) string {
	return MutedStyle.Render(s)
}

// Bold renders emphasized inline text.
func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
