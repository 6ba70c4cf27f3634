// Package model defines domain types for holdcalc portfolios and saved projections.
package model

import "github.com/shopspring/decimal"

// Portfolio holds the total monetary value of each asset class.
// Amounts are currency-agnostic; callers keep them consistently scaled.
type Portfolio struct {
	Vehicles   decimal.Decimal `json:"vehicles" yaml:"vehicles" validate:"gte=0"`
	RealEstate decimal.Decimal `json:"real_estate" yaml:"real_estate" validate:"gte=0"`
	Cash       decimal.Decimal `json:"cash" yaml:"cash" validate:"gte=0"`
}

// NewPortfolio builds a portfolio from whole-unit amounts.
func NewPortfolio(vehicles, realEstate, cash int64) Portfolio {
	return Portfolio{
		Vehicles:   decimal.NewFromInt(vehicles),
		RealEstate: decimal.NewFromInt(realEstate),
		Cash:       decimal.NewFromInt(cash),
	}
}

// Total returns the summed value of all asset classes.
func (p Portfolio) Total() decimal.Decimal {
	return p.Vehicles.Add(p.RealEstate).Add(p.Cash)
}

// IsZero reports whether every asset class is zero.
func (p Portfolio) IsZero() bool {
	return p.Vehicles.IsZero() && p.RealEstate.IsZero() && p.Cash.IsZero()
}
