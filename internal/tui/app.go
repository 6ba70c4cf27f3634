// Package tui provides the interactive Bubble Tea dashboard for holdcalc.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/config"
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/projection"
	"github.com/theirongolddev/holdcalc/internal/store"
	"github.com/theirongolddev/holdcalc/internal/tui/components"
	"github.com/theirongolddev/holdcalc/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// HistoryStore is the subset of the history store the dashboard uses.
type HistoryStore interface {
	Save(ctx context.Context, r model.Record) (model.Record, error)
	List(ctx context.Context, limit int) ([]model.Record, error)
	Delete(ctx context.Context, id string) error
}

type historyLoadedMsg struct {
	records []model.Record
	err     error
}

type recordSavedMsg struct {
	record model.Record
	err    error
}

type recordDeletedMsg struct {
	id  string
	err error
}

const (
	tabChart = iota
	tabBreakdown
	tabHistory
	tabSettings
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5

	historyLimit = 100
	storeTimeout = 5 * time.Second
)

// App is the root Bubble Tea model.
type App struct {
	cfg     config.Config
	history HistoryStore

	// Portfolio: the counters unless an exact amount was typed in.
	units     model.UnitValues
	basket    model.Basket
	custom    *model.Portfolio
	portfolio model.Portfolio
	proj      projection.Projection

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	flash     string
	flashWarn bool

	// Per-tab state
	counter       int // selected item on the chart tab
	breakdownYear int
	hist          historyState
	settings      settingsState

	// Exact amounts form (huh)
	form     *huh.Form
	formVals *amountValues
}

// NewApp builds the dashboard. hist may be nil, which disables saving
// and the history tab.
func NewApp(cfg config.Config, hist HistoryStore) App {
	theme.SetActive(cfg.Appearance.Theme)
	a := App{
		cfg:           cfg,
		history:       hist,
		units:         cfg.Units.UnitValues(),
		breakdownYear: projection.Horizon,
		settings:      newSettingsState(),
	}
	a.recompute()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.history == nil {
		return nil
	}
	return loadHistoryCmd(a.history)
}

// Portfolio returns the portfolio currently projected.
func (a App) Portfolio() model.Portfolio { return a.portfolio }

func (a *App) recompute() {
	if a.custom != nil {
		a.portfolio = *a.custom
	} else {
		a.portfolio = a.basket.Portfolio(a.units)
	}
	a.proj = projection.Explain(a.portfolio)
}

func (a *App) setFlash(msg string, warn bool) {
	a.flash = msg
	a.flashWarn = warn
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width)
		}
		return a, nil

	case historyLoadedMsg:
		if msg.err != nil {
			a.hist.err = msg.err
			return a, nil
		}
		a.hist.err = nil
		a.hist.records = msg.records
		a.hist.clampCursor()
		return a, nil

	case recordSavedMsg:
		if msg.err != nil {
			a.setFlash("save failed: "+msg.err.Error(), true)
			return a, nil
		}
		a.setFlash("saved "+shortID(msg.record.ID), false)
		return a, loadHistoryCmd(a.history)

	case recordDeletedMsg:
		if msg.err != nil {
			a.setFlash("delete failed: "+msg.err.Error(), true)
			return a, nil
		}
		a.setFlash("deleted "+shortID(msg.id), false)
		return a, loadHistoryCmd(a.history)

	case tea.MouseMsg:
		if a.showHelp || a.form != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.showHelp = true
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab + len(components.Tabs) - 1) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "e":
		return a.openForm()
	case "s":
		return a.saveCurrent()
	case "r":
		if a.custom != nil {
			a.custom = nil
			a.recompute()
			a.setFlash("back to counters", false)
		}
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if tab := components.TabIdxByKey(msg.Runes[0]); tab >= 0 {
			a.activeTab = tab
			return a, nil
		}
	}

	switch a.activeTab {
	case tabChart:
		return a.updateChartKey(key)
	case tabBreakdown:
		return a.updateBreakdownKey(key)
	case tabHistory:
		return a.updateHistoryKey(key)
	case tabSettings:
		return a.updateSettingsKey(key)
	}
	return a, nil
}

func (a App) saveCurrent() (tea.Model, tea.Cmd) {
	if a.history == nil {
		a.setFlash("history is unavailable", true)
		return a, nil
	}
	label := ""
	if a.custom == nil {
		label = basketLabel(a.basket)
	}
	return a, saveRecordCmd(a.history, store.NewRecord(label, a.portfolio))
}

func basketLabel(b model.Basket) string {
	var parts []string
	for _, item := range model.Items {
		if q := b.Quantity(item); q > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", q, item))
		}
	}
	return strings.Join(parts, ", ")
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  holdcalc needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if a.form != nil {
		return a.form.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	bindings := []struct{ key, desc string }{
		{"c b h x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Select counter or row"},
		{"+ -", "Add / remove one unit"},
		{"[ ]", "Breakdown year"},
		{"e", "Type exact amounts"},
		{"r", "Back to counters"},
		{"s", "Save projection"},
		{"Enter", "Load record / edit setting"},
		{"d", "Delete record"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	source := "counters"
	if a.custom != nil {
		source = "custom amounts"
	}
	info := pill.Render(" portfolio ") + accent.Render(cli.FormatAmount(a.portfolio.Total())) +
		pill.Render(" │ "+source+" ")
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(info)

	statusBar := components.RenderStatusBar(w, a.flash, a.flashWarn)

	contentH := a.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabChart:
		content = a.renderChartTab(cw)
	case tabBreakdown:
		content = a.renderBreakdownTab(cw)
	case tabHistory:
		content = a.renderHistoryTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

func loadHistoryCmd(h HistoryStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		records, err := h.List(ctx, historyLimit)
		return historyLoadedMsg{records: records, err: err}
	}
}

func saveRecordCmd(h HistoryStore, r model.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		saved, err := h.Save(ctx, r)
		return recordSavedMsg{record: saved, err: err}
	}
}

func deleteRecordCmd(h HistoryStore, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return recordDeletedMsg{id: id, err: h.Delete(ctx, id)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncStr(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}
