package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/whyisdifficult/jiratui/internal/ui"
)

// RenderStatusBar draws the bottom bar: status text on the left, key
// hints on the right. Failures and advisories get their own color so a
// dropped fetch or an ignored override stands out from routine page
// counts.
func RenderStatusBar(status, hints string, width int) string {
	left := statusTextStyle(status).Render("  " + status)

	help := lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render(hints + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#111827")).
		Width(width).
		Render(left + padding + help)
}

func statusTextStyle(status string) lipgloss.Style {
	lower := strings.ToLower(status)
	switch {
	case strings.Contains(lower, "failed"):
		return lipgloss.NewStyle().Foreground(ui.ColorFailure)
	case strings.Contains(lower, "cannot"),
		strings.Contains(lower, "unable"),
		strings.Contains(lower, "ignored"):
		return lipgloss.NewStyle().Foreground(ui.ColorWarning)
	default:
		return lipgloss.NewStyle().Foreground(ui.ColorMuted)
	}
}
