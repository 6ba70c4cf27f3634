// Package theme defines color themes for the holdcalc dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the dashboard.
type Theme struct {
	Name         string
	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and panels
	SurfaceHover lipgloss.Color // selected row
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused card
	TextDim      lipgloss.Color // hints, axes
	TextMuted    lipgloss.Color // labels
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Savings      lipgloss.Color
	Warning      lipgloss.Color

	// Chart tracks
	With    lipgloss.Color
	Without lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Savings:      lipgloss.Color("#879A39"),
	Warning:      lipgloss.Color("#DA702C"),
	With:         lipgloss.Color("#3AA99F"),
	Without:      lipgloss.Color("#D14D41"),
}

// Holding uses the landing page chart colors on a navy background.
var Holding = Theme{
	Name:         "holding",
	Background:   lipgloss.Color("#0B1220"),
	Surface:      lipgloss.Color("#131C2E"),
	SurfaceHover: lipgloss.Color("#1E2A42"),
	Border:       lipgloss.Color("#2A3856"),
	BorderAccent: lipgloss.Color("#5FDED4"),
	TextDim:      lipgloss.Color("#4A5877"),
	TextMuted:    lipgloss.Color("#8A97B5"),
	TextPrimary:  lipgloss.Color("#EEF2FA"),
	Accent:       lipgloss.Color("#5FDED4"),
	AccentBright: lipgloss.Color("#9BEDE6"),
	Savings:      lipgloss.Color("#5FDED4"),
	Warning:      lipgloss.Color("#FFB86B"),
	With:         lipgloss.Color("#5FDED4"),
	Without:      lipgloss.Color("#FF6B6B"),
}

// CatppuccinMocha is a warm pastel theme.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Savings:      lipgloss.Color("#A6E3A1"),
	Warning:      lipgloss.Color("#FAB387"),
	With:         lipgloss.Color("#94E2D5"),
	Without:      lipgloss.Color("#F38BA8"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Savings:      lipgloss.Color("2"),
	Warning:      lipgloss.Color("3"),
	With:         lipgloss.Color("6"),
	Without:      lipgloss.Color("1"),
}

// All available themes.
var All = []Theme{FlexokiDark, Holding, CatppuccinMocha, Terminal}

// Names returns the name of every theme in All.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
