// Package succession estimates what a holding structure saves on
// inheritance inventory, distributed profits and rental income, and how long
// an inventory would take without one.
package succession

import (
	"errors"

	"github.com/theirongolddev/holdcalc/internal/assets"

	"github.com/shopspring/decimal"
)

// Regime is the tax regime of the operating companies.
type Regime string

// Company tax regimes.
const (
	RegimeNone      Regime = ""
	RegimeSimples   Regime = "simples"
	RegimePresumido Regime = "presumido"
	RegimeReal      Regime = "real"
)

// Regimes lists the selectable regimes.
var Regimes = []Regime{RegimeSimples, RegimePresumido, RegimeReal}

// Label returns the display name of the regime.
func (r Regime) Label() string {
	switch r {
	case RegimeSimples:
		return "Simples Nacional"
	case RegimePresumido:
		return "Lucro Presumido"
	case RegimeReal:
		return "Lucro Real"
	default:
		return "-"
	}
}

// Risk grades the chance of a family dispute during an inventory.
type Risk string

// Conflict risk grades.
const (
	RiskNotApplicable Risk = "not_applicable"
	RiskLow           Risk = "low"
	RiskMedium        Risk = "medium"
	RiskHigh          Risk = "high"
)

// Rates applied by Simulate.
var (
	InventoryCostRate   = decimal.RequireFromString("0.08")
	RentalTaxIndividual = decimal.RequireFromString("0.275")
	RentalTaxHolding    = decimal.RequireFromString("0.1133")
	ProfitTaxIndividual = decimal.RequireFromString("0.275")
)

var monthsPerYear = decimal.NewFromInt(12)

// Input describes the estate. A positive company count requires a regime;
// zero companies or zero rent switch those parts off.
type Input struct {
	Properties     int             `json:"properties" yaml:"properties" validate:"gte=0"`
	PropertyValue  decimal.Decimal `json:"property_value" yaml:"property_value" validate:"gte=0"`
	Companies      int             `json:"companies" yaml:"companies" validate:"gte=0"`
	Regime         Regime          `json:"regime" yaml:"regime" validate:"omitempty,oneof=simples presumido real"`
	MonthlyProfit  decimal.Decimal `json:"monthly_profit" yaml:"monthly_profit" validate:"gte=0"`
	MonthlyRent    decimal.Decimal `json:"monthly_rent" yaml:"monthly_rent" validate:"gte=0"`
	Heirs          int             `json:"heirs" yaml:"heirs" validate:"gte=0"`
	AvoidConflicts bool            `json:"avoid_conflicts" yaml:"avoid_conflicts"`
}

// Violations lists every rejected field of in, or nil if it is valid.
func (in Input) Violations() []*assets.InvalidAssetError {
	out := assets.StructViolations(in)
	if in.Companies > 0 && in.Regime == RegimeNone {
		out = append(out, &assets.InvalidAssetError{
			Field:  "regime",
			Value:  "",
			Reason: "required when companies is positive",
		})
	}
	return out
}

// Validate returns nil for a usable input, or a joined error matching
// assets.ErrInvalidAssetValue.
func (in Input) Validate() error {
	violations := in.Violations()
	if len(violations) == 0 {
		return nil
	}
	errs := make([]error, len(violations))
	for i, v := range violations {
		errs[i] = v
	}
	return errors.Join(errs...)
}

// Result holds the estimate. Costs "with" a holding are zero for the
// inventory: the assets already sit in the company.
type Result struct {
	Input Input `json:"input" yaml:"input"`

	InventoryCostWithout decimal.Decimal `json:"inventory_cost_without" yaml:"inventory_cost_without"`
	InventoryCostWith    decimal.Decimal `json:"inventory_cost_with" yaml:"inventory_cost_with"`
	InventorySavings     decimal.Decimal `json:"inventory_savings" yaml:"inventory_savings"`

	AnnualProfit  decimal.Decimal `json:"annual_profit" yaml:"annual_profit"`
	ProfitSavings decimal.Decimal `json:"profit_savings" yaml:"profit_savings"`

	AnnualRent       decimal.Decimal `json:"annual_rent" yaml:"annual_rent"`
	RentalTaxWithout decimal.Decimal `json:"rental_tax_without" yaml:"rental_tax_without"`
	RentalTaxWith    decimal.Decimal `json:"rental_tax_with" yaml:"rental_tax_with"`
	RentalSavings    decimal.Decimal `json:"rental_savings" yaml:"rental_savings"`

	InventoryMonthsWithout int  `json:"inventory_months_without" yaml:"inventory_months_without"`
	InventoryMonthsWith    int  `json:"inventory_months_with" yaml:"inventory_months_with"`
	ConflictRisk           Risk `json:"conflict_risk" yaml:"conflict_risk"`

	TotalSavings decimal.Decimal `json:"total_savings" yaml:"total_savings"`
}

// Simulate estimates the savings for in. It does not validate; callers at
// the boundary run Validate first.
func Simulate(in Input) Result {
	r := Result{
		Input:                in,
		InventoryCostWithout: decimal.Zero,
		InventoryCostWith:    decimal.Zero,
		InventorySavings:     decimal.Zero,
		AnnualProfit:         decimal.Zero,
		ProfitSavings:        decimal.Zero,
		AnnualRent:           decimal.Zero,
		RentalTaxWithout:     decimal.Zero,
		RentalTaxWith:        decimal.Zero,
		RentalSavings:        decimal.Zero,
		ConflictRisk:         RiskNotApplicable,
	}

	hasEstate := in.Properties > 0 && in.PropertyValue.IsPositive()
	if hasEstate {
		r.InventoryCostWithout = in.PropertyValue.Mul(InventoryCostRate)
		r.InventorySavings = r.InventoryCostWithout
	}

	if in.Companies > 0 && in.MonthlyProfit.IsPositive() {
		r.AnnualProfit = in.MonthlyProfit.Mul(monthsPerYear)
		// Simples Nacional already distributes profit tax free.
		if in.Regime == RegimePresumido || in.Regime == RegimeReal {
			r.ProfitSavings = r.AnnualProfit.Mul(ProfitTaxIndividual)
		}
	}

	if in.MonthlyRent.IsPositive() {
		r.AnnualRent = in.MonthlyRent.Mul(monthsPerYear)
		r.RentalTaxWithout = r.AnnualRent.Mul(RentalTaxIndividual)
		r.RentalTaxWith = r.AnnualRent.Mul(RentalTaxHolding)
		r.RentalSavings = r.RentalTaxWithout.Sub(r.RentalTaxWith)
	}

	if in.Heirs > 0 && in.PropertyValue.IsPositive() {
		r.InventoryMonthsWithout, r.ConflictRisk = inventoryOutlook(in.Heirs)
	}

	r.TotalSavings = r.InventorySavings.Add(r.ProfitSavings).Add(r.RentalSavings)
	return r
}

// inventoryOutlook grades a traditional inventory by the number of heirs.
func inventoryOutlook(heirs int) (months int, risk Risk) {
	switch {
	case heirs == 1:
		return 12, RiskLow
	case heirs <= 3:
		return 24, RiskMedium
	default:
		return 36, RiskHigh
	}
}
