package components

import (
	"strings"

	"github.com/theirongolddev/holdcalc/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. flash is shown on the
// right and colored as a warning when warn is set.
func RenderStatusBar(width int, flash string, warn bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	flashStyle := lipgloss.NewStyle().Foreground(t.Savings).Background(t.Surface)
	if warn {
		flashStyle = flashStyle.Foreground(t.Warning)
	}

	left := base.Render(" [?]help  [e]dit  [s]ave  [q]uit")
	right := ""
	if flash != "" {
		right = flashStyle.Render(flash + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return left + base.Render(strings.Repeat(" ", padding)) + right
}
