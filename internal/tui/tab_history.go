package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/tui/components"
	"github.com/theirongolddev/holdcalc/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// historyState tracks the history tab state.
type historyState struct {
	records []model.Record
	cursor  int
	offset  int
	err     error
}

func (h *historyState) clampCursor() {
	if h.cursor >= len(h.records) {
		h.cursor = len(h.records) - 1
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
}

func (h historyState) selected() (model.Record, bool) {
	if h.cursor < 0 || h.cursor >= len(h.records) {
		return model.Record{}, false
	}
	return h.records[h.cursor], true
}

func (a App) updateHistoryKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.hist.cursor < len(a.hist.records)-1 {
			a.hist.cursor++
		}
	case "k", "up":
		if a.hist.cursor > 0 {
			a.hist.cursor--
		}
	case "enter":
		rec, ok := a.hist.selected()
		if !ok {
			return a, nil
		}
		p := rec.Portfolio
		a.custom = &p
		a.recompute()
		a.activeTab = tabChart
		a.setFlash("loaded "+shortID(rec.ID), false)
	case "d":
		rec, ok := a.hist.selected()
		if !ok || a.history == nil {
			return a, nil
		}
		return a, deleteRecordCmd(a.history, rec.ID)
	case "R":
		if a.history != nil {
			return a, loadHistoryCmd(a.history)
		}
	}
	return a, nil
}

func (a App) renderHistoryTab(cw, h int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if a.history == nil {
		return components.ContentCard("History", mutedStyle.Render("History is unavailable: the database could not be opened."), cw, false)
	}
	if a.hist.err != nil {
		warn := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
		return components.ContentCard("History", warn.Render("Loading history failed: "+a.hist.err.Error()), cw, false)
	}
	if len(a.hist.records) == 0 {
		return components.ContentCard("History", mutedStyle.Render("No saved projections yet. Press [s] to save the current one."), cw, false)
	}

	innerW := components.CardInnerWidth(cw)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	const (
		dateW = 16
		numW  = 14
	)
	labelW := innerW - dateW - 3*(numW+1) - 3
	if labelW < 10 {
		labelW = 10
	}

	visible := h - 10 // header, detail card and borders
	if visible < 3 {
		visible = 3
	}
	offset := a.hist.offset
	if a.hist.cursor < offset {
		offset = a.hist.cursor
	}
	if a.hist.cursor >= offset+visible {
		offset = a.hist.cursor - visible + 1
	}

	var list strings.Builder
	list.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s %-*s %*s %*s %*s",
		dateW, "Saved", labelW, "Label", numW, "Portfolio", numW, "Year 10", numW, "Year 20")))
	list.WriteString("\n")
	end := min(offset+visible, len(a.hist.records))
	for i := offset; i < end; i++ {
		r := a.hist.records[i]
		label := r.Label
		if label == "" {
			label = shortID(r.ID)
		}
		line := fmt.Sprintf("%-*s %-*s %*s %*s %*s",
			dateW, r.CreatedAt.Local().Format("2006-01-02 15:04"),
			labelW, truncStr(label, labelW),
			numW, cli.FormatAmount(r.Portfolio.Total()),
			numW, cli.FormatAmount(r.SavingsY10),
			numW, cli.FormatAmount(r.SavingsY20))
		if i == a.hist.cursor {
			list.WriteString(selStyle.Render("▸ " + padRight(line, innerW-2)))
		} else {
			list.WriteString(rowStyle.Render("  " + line))
		}
		list.WriteString("\n")
	}
	list.WriteString(mutedStyle.Render(fmt.Sprintf("%d saved  [Enter] load  [d] delete  [R] reload", len(a.hist.records))))

	var b strings.Builder
	b.WriteString(components.ContentCard("History", list.String(), cw, true))
	if rec, ok := a.hist.selected(); ok {
		spark := make([]float64, len(rec.Savings))
		for i, v := range rec.Savings {
			spark[i] = v.InexactFloat64()
		}
		detail := mutedStyle.Render(fmt.Sprintf("vehicles %s · real estate %s · cash %s  ",
			cli.FormatAmount(rec.Portfolio.Vehicles),
			cli.FormatAmount(rec.Portfolio.RealEstate),
			cli.FormatAmount(rec.Portfolio.Cash))) + cli.RenderSparkline(spark)
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Selected", detail, cw, false))
	}
	return b.String()
}
