package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/projection"
	"github.com/theirongolddev/holdcalc/internal/tui/components"
	"github.com/theirongolddev/holdcalc/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	lineChartHeight = 12
	barChartHeight  = 6
)

func (a App) updateChartKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		a.counter = (a.counter + 1) % len(model.Items)
	case "k", "up":
		a.counter = (a.counter + len(model.Items) - 1) % len(model.Items)
	case "+", "=":
		a.adjust(1)
	case "-", "_":
		a.adjust(-1)
	}
	return a, nil
}

// adjust moves the selected counter. A counter change always returns the
// dashboard to counter-driven amounts.
func (a *App) adjust(delta int) {
	item := model.Items[a.counter]
	if !a.basket.Adjust(item, delta) {
		a.setFlash(item.Label()+" cannot go below zero", true)
		return
	}
	a.custom = nil
	a.setFlash("", false)
	a.recompute()
}

func (a App) renderChartTab(cw int) string {
	t := theme.Active
	total := a.proj.Total()
	savings := a.proj.Savings()

	metrics := []components.Metric{
		{Label: "Portfolio", Value: cli.FormatAmount(a.portfolio.Total())},
		{Label: "Savings by year 10", Value: cli.FormatAmount(savings.At(10)), Color: t.Savings},
		{Label: "Savings by year 20", Value: cli.FormatAmount(savings.Final()), Color: t.Savings,
			Note: "of " + cli.FormatAmount(total.Without.Final()) + " without"},
	}

	halves := components.LayoutRow(cw, 2)
	counters := components.ContentCard("Quantities", a.renderCounters(components.CardInnerWidth(halves[0])), halves[0], true)
	legend := a.renderLegend()
	assumptions := components.ContentCard("Model", legend, halves[1], false)

	labels := projection.YearLabels()
	innerW := components.CardInnerWidth(cw)
	lines := components.LineChart([]components.Line{
		{Name: "without", Values: total.Without.Floats(), Color: t.Without},
		{Name: "with", Values: total.With.Floats(), Color: t.With},
	}, labels, innerW, lineChartHeight)
	bars := components.BarChart(savings.Floats(), labels, t.Savings, innerW, barChartHeight)

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")
	b.WriteString(components.CardRow([]string{counters, assumptions}))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Cumulative cost by year", lines, cw, false))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Savings by year", bars, cw, false))
	return b.String()
}

func (a App) renderCounters(innerW int) string {
	t := theme.Active
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover).Bold(true)

	var b strings.Builder
	for i, item := range model.Items {
		qty := a.basket.Quantity(item)
		value := a.units.Of(item).Mul(decimal.NewFromInt(int64(qty)))
		line := fmt.Sprintf("%-11s [-] %3d [+]  %14s", item.Label(), qty, cli.FormatAmount(value))
		if i == a.counter {
			b.WriteString(selStyle.Render("▸ " + padRight(line, innerW-2)))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	unit := fmt.Sprintf("unit: car %s · house %s · cash %s",
		cli.FormatCompact(a.units.Car.InexactFloat64()),
		cli.FormatCompact(a.units.House.InexactFloat64()),
		cli.FormatCompact(a.units.Cash.InexactFloat64()))
	b.WriteString(mutedStyle.Render(truncStr(unit, innerW)))
	if a.custom != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface).
			Render("custom amounts active, [r] to return"))
	}
	return b.String()
}

func (a App) renderLegend() string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	with := lipgloss.NewStyle().Foreground(t.With).Background(t.Surface)
	without := lipgloss.NewStyle().Foreground(t.Without).Background(t.Surface)

	var b strings.Builder
	b.WriteString(without.Render("● without holding"))
	b.WriteString(muted.Render("  "))
	b.WriteString(with.Render("● with holding"))
	b.WriteString("\n")
	b.WriteString(muted.Render("Direct ownership pays yearly taxes and"))
	b.WriteString("\n")
	b.WriteString(muted.Render("one-time charges at years 10 and 20."))
	b.WriteString("\n")
	b.WriteString(muted.Render("See the breakdown tab for every rate."))
	return b.String()
}

func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
