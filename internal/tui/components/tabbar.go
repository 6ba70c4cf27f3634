package components

import (
	"strings"

	"github.com/theirongolddev/holdcalc/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs. Every key is the lowercased first
// letter of the name.
var Tabs = []Tab{
	{Name: "Chart", Key: 'c'},
	{Name: "Breakdown", Key: 'b'},
	{Name: "History", Key: 'h'},
	{Name: "Settings", Key: 'x'},
}

const tabSeparator = " "

// TabVisualWidth returns the rendered width of one tab.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active
	if active {
		return lipgloss.NewStyle().
			Foreground(t.Accent).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	name := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	pad := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	first := strings.ToLower(tab.Name[:1])
	if rune(first[0]) == tab.Key {
		return pad + key.Render(tab.Name[:1]) + name.Render(tab.Name[1:]) + pad
	}
	// Key not in name, e.g. Settings on x.
	return pad + name.Render(tab.Name) + key.Render("["+string(tab.Key)+"]") + pad
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active
	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	sep := lipgloss.NewStyle().Background(t.Surface).Render(tabSeparator)
	row := strings.Join(parts, sep)

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
