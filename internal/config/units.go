package config

import (
	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/model"

	"github.com/shopspring/decimal"
)

// Formats lists the accepted output formats.
var Formats = []string{"table", "json", "yaml", "csv"}

// ValidFormat reports whether f is one of Formats.
func ValidFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// UnitValues returns the stock unit values with any positive overrides from
// the [units] section applied.
func (u UnitsConfig) UnitValues() model.UnitValues {
	vals := model.DefaultUnitValues()
	vals.Car = override(vals.Car, u.Car)
	vals.House = override(vals.House, u.House)
	vals.Cash = override(vals.Cash, u.Cash)
	return vals
}

func override(base decimal.Decimal, v *float64) decimal.Decimal {
	if v == nil {
		return base
	}
	d := assets.FromFloat(*v)
	if !d.IsPositive() {
		return base
	}
	return d
}

// SetUnitValues stores u as overrides, clearing entries equal to the stock values.
func (u *UnitsConfig) SetUnitValues(vals model.UnitValues) {
	stock := model.DefaultUnitValues()
	u.Car = storeOverride(vals.Car, stock.Car)
	u.House = storeOverride(vals.House, stock.House)
	u.Cash = storeOverride(vals.Cash, stock.Cash)
}

func storeOverride(v, stock decimal.Decimal) *float64 {
	if v.Equal(stock) || !v.IsPositive() {
		return nil
	}
	f := v.InexactFloat64()
	return &f
}
