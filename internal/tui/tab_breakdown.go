package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/projection"
	"github.com/theirongolddev/holdcalc/internal/tui/components"
	"github.com/theirongolddev/holdcalc/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) updateBreakdownKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "[", "j", "down":
		if a.breakdownYear > 0 {
			a.breakdownYear--
		}
	case "]", "k", "up":
		if a.breakdownYear < projection.Horizon {
			a.breakdownYear++
		}
	case "0":
		a.breakdownYear = 0
	case "$", "G":
		a.breakdownYear = projection.Horizon
	}
	return a, nil
}

func (a App) renderBreakdownTab(cw int) string {
	t := theme.Active
	y := a.breakdownYear
	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	savingsStyle := lipgloss.NewStyle().Foreground(t.Savings).Background(t.Surface)
	withStyle := lipgloss.NewStyle().Foreground(t.With).Background(t.Surface)
	withoutStyle := lipgloss.NewStyle().Foreground(t.Without).Background(t.Surface)

	const numW = 14
	nameW := innerW - 4*(numW+1) - 7
	if nameW < 12 {
		nameW = 12
	}

	var table strings.Builder
	table.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s %*s %*s %6s",
		nameW, "Class", numW, "Amount", numW, "Without", numW, "With", numW, "Savings", "Share")))
	table.WriteString("\n")
	table.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	table.WriteString("\n")

	totalSavings := a.proj.Savings().At(y)
	row := func(name string, amount decimal.Decimal, tr projection.Track) {
		saved := tr.Savings().At(y)
		table.WriteString(rowStyle.Render(fmt.Sprintf("%-*s %*s ", nameW, truncStr(name, nameW), numW, cli.FormatAmount(amount))))
		table.WriteString(withoutStyle.Render(fmt.Sprintf("%*s ", numW, cli.FormatAmount(tr.Without.At(y)))))
		table.WriteString(withStyle.Render(fmt.Sprintf("%*s ", numW, cli.FormatAmount(tr.With.At(y)))))
		table.WriteString(savingsStyle.Render(fmt.Sprintf("%*s ", numW, cli.FormatAmount(saved))))
		table.WriteString(mutedStyle.Render(fmt.Sprintf("%6s", cli.FormatShare(saved, totalSavings))))
		table.WriteString("\n")
	}

	amounts := []decimal.Decimal{a.portfolio.Vehicles, a.portfolio.RealEstate, a.portfolio.Cash}
	for i, c := range projection.Classes {
		row(c.Label(), amounts[i], a.proj.Class(c))
	}
	table.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	table.WriteString("\n")
	row("Total", a.portfolio.Total(), a.proj.Total())
	table.WriteString("\n")
	table.WriteString(mutedStyle.Render("[ ] change year  0/G first/last"))

	var rates strings.Builder
	for _, as := range projection.Assumptions() {
		rates.WriteString(mutedStyle.Render(fmt.Sprintf("%-12s %-32s ", as.Class.Label(), as.Name)))
		rates.WriteString(rowStyle.Render(fmt.Sprintf("%7s  ", cli.FormatRate(as.Rate))))
		rates.WriteString(mutedStyle.Render(truncStr(as.Basis, max(innerW-55, 10))))
		rates.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString(components.ContentCard(fmt.Sprintf("Breakdown at year %d", y), table.String(), cw, true))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Assumptions", strings.TrimRight(rates.String(), "\n"), cw, false))
	return b.String()
}
