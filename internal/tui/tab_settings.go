package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/config"
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/tui/components"
	"github.com/theirongolddev/holdcalc/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldCarUnit
	settingsFieldHouseUnit
	settingsFieldCashUnit
	settingsFieldAllowNegative
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error

	// save persists the config; replaced in tests.
	save func(config.Config) error
}

func newSettingsState() settingsState {
	return settingsState{save: config.Save}
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) updateSettingsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		return a.settingsStartEdit()
	}
	return a, nil
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.saved = false

	// Booleans and themes cycle instead of taking text.
	switch a.settings.cursor {
	case settingsFieldTheme:
		names := theme.Names()
		next := 0
		for i, n := range names {
			if n == theme.Active.Name {
				next = (i + 1) % len(names)
			}
		}
		a.cfg.Appearance.Theme = names[next]
		theme.SetActive(names[next])
		a.persistSettings()
		return a, nil
	case settingsFieldAllowNegative:
		a.cfg.General.AllowNegative = !a.cfg.General.AllowNegative
		a.persistSettings()
		return a, nil
	}

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldCarUnit:
		ti.SetValue(a.units.Car.String())
	case settingsFieldHouseUnit:
		ti.SetValue(a.units.House.String())
	case settingsFieldCashUnit:
		ti.SetValue(a.units.Cash.String())
	}
	ti.Placeholder = "positive amount, empty for the default"
	ti.Focus()
	a.settings.input = ti
	a.settings.editing = true
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsApplyInput()
		a.settings.editing = false
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsApplyInput stores a unit value. Empty or non-positive input
// restores the default unit value.
func (a *App) settingsApplyInput() {
	val := assets.ParseAmount(a.settings.input.Value())
	units := a.units
	stock := model.DefaultUnitValues()
	if !val.IsPositive() {
		switch a.settings.cursor {
		case settingsFieldCarUnit:
			val = stock.Car
		case settingsFieldHouseUnit:
			val = stock.House
		case settingsFieldCashUnit:
			val = stock.Cash
		}
	}
	switch a.settings.cursor {
	case settingsFieldCarUnit:
		units.Car = val
	case settingsFieldHouseUnit:
		units.House = val
	case settingsFieldCashUnit:
		units.Cash = val
	}

	a.cfg.Units.SetUnitValues(units)
	a.units = a.cfg.Units.UnitValues()
	a.recompute()
	a.persistSettings()
}

func (a *App) persistSettings() {
	a.settings.saveErr = a.settings.save(a.cfg)
	a.settings.saved = a.settings.saveErr == nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover).Bold(true)
	selValueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	innerW := components.CardInnerWidth(cw)

	fields := []struct{ label, value string }{
		{"Theme", theme.Active.Name},
		{"Car unit value", cli.FormatAmount(a.units.Car)},
		{"House unit value", cli.FormatAmount(a.units.House)},
		{"Cash unit value", cli.FormatAmount(a.units.Cash)},
		{"Allow negatives", strconv.FormatBool(a.cfg.General.AllowNegative)},
	}

	var form strings.Builder
	for i, f := range fields {
		label := fmt.Sprintf("%-18s ", f.label+":")
		switch {
		case a.settings.editing && i == a.settings.cursor:
			form.WriteString(selLabelStyle.Render("▸ " + label))
			form.WriteString(a.settings.input.View())
		case i == a.settings.cursor:
			row := selLabelStyle.Render("▸ "+label) + selValueStyle.Render(f.value)
			form.WriteString(row)
			if pad := innerW - lipgloss.Width(row); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceHover).Render(strings.Repeat(" ", pad)))
			}
		default:
			form.WriteString(labelStyle.Render("  " + label))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	switch {
	case a.settings.saveErr != nil:
		form.WriteString("\n")
		form.WriteString(lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface).
			Render("Save failed: " + a.settings.saveErr.Error()))
		form.WriteString("\n")
	case a.settings.saved:
		form.WriteString("\n")
		form.WriteString(lipgloss.NewStyle().Foreground(t.Savings).Background(t.Surface).Render("Saved!"))
		form.WriteString("\n")
	}
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit or toggle  [Esc] cancel"))

	var info strings.Builder
	info.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(config.Path()) + "\n")
	info.WriteString(labelStyle.Render("History file: ") + valueStyle.Render(config.HistoryPath(a.cfg)) + "\n")
	info.WriteString(labelStyle.Render("Themes:       ") + valueStyle.Render(strings.Join(theme.Names(), ", ")))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw, true))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", info.String(), cw, false))
	return b.String()
}
