package tui

import (
	"errors"
	"strings"

	"github.com/theirongolddev/holdcalc/internal/assets"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// amountValues backs the exact amounts form.
type amountValues struct {
	vehicles   string
	realEstate string
	cash       string
}

func (a App) openForm() (tea.Model, tea.Cmd) {
	vals := &amountValues{
		vehicles:   a.portfolio.Vehicles.String(),
		realEstate: a.portfolio.RealEstate.String(),
		cash:       a.portfolio.Cash.String(),
	}
	a.formVals = vals
	a.form = newAmountsForm(vals, a.cfg.General.AllowNegative)
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width)
	}
	return a, a.form.Init()
}

func newAmountsForm(vals *amountValues, allowNegative bool) *huh.Form {
	check := func(s string) error {
		if allowNegative || strings.TrimSpace(s) == "" {
			return nil
		}
		if assets.ParseAmount(s).IsNegative() {
			return errors.New("amount must not be negative")
		}
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Exact amounts").
				Description("Total value held in each asset class.\nUnparseable input counts as zero."),
			huh.NewInput().
				Title("Vehicles").
				Value(&vals.vehicles).
				Validate(check),
			huh.NewInput().
				Title("Real estate").
				Value(&vals.realEstate).
				Validate(check),
			huh.NewInput().
				Title("Cash").
				Value(&vals.cash).
				Validate(check),
		),
	).WithShowHelp(true)
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.applyAmounts(*a.formVals)
		a.form, a.formVals = nil, nil
		return a, nil
	case huh.StateAborted:
		a.form, a.formVals = nil, nil
		return a, nil
	}
	return a, cmd
}

// applyAmounts replaces the counters with typed amounts. Rejected input
// leaves the current portfolio in place.
func (a *App) applyAmounts(vals amountValues) {
	p := assets.ParsePortfolio(vals.vehicles, vals.realEstate, vals.cash)
	if !a.cfg.General.AllowNegative {
		if violations := assets.Violations(p); len(violations) > 0 {
			a.setFlash(violations[0].Error(), true)
			return
		}
	}
	a.custom = &p
	a.recompute()
	a.setFlash("custom amounts applied", false)
}
