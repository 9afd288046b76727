package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// themes maps the configurable theme name to the accent colour used for
// focused borders, headers and highlights. Rendering concern only.
var themes = map[string]lipgloss.Color{
	"violet": lipgloss.Color("#7C3AED"),
	"blue":   lipgloss.Color("#3B82F6"),
	"green":  lipgloss.Color("#10B981"),
	"amber":  lipgloss.Color("#F59E0B"),
}

// ApplyTheme switches the accent colour. Unknown names keep the
// default.
func ApplyTheme(name string) {
	color, ok := themes[name]
	if !ok {
		return
	}
	ColorPrimary = color
	StylePaneFocused = StylePaneFocused.BorderForeground(ColorPrimary)
	StyleHeader = StyleHeader.Background(ColorPrimary)
}

// StatusStyle colours a work item status by its display name. Status
// categories are not fetched, so this is a name heuristic.
func StatusStyle(name string) lipgloss.Style {
	switch name {
	case "Done", "Closed", "Resolved":
		return StyleSuccess
	case "In Progress", "In Review":
		return StyleInfo
	case "Blocked":
		return StyleFailure
	default:
		return StyleMuted
	}
}
