// Package projection estimates what a holding structure saves over direct
// ownership of vehicles, real estate and cash across a 20-year horizon.
//
// The model is linear in elapsed years by construction: rates multiply the
// year count and do not compound. One-time charges on the direct-ownership
// side fire at year 10 and, independently, again at year 20.
package projection

import (
	"strconv"

	"github.com/theirongolddev/holdcalc/internal/model"

	"github.com/shopspring/decimal"
)

const (
	// Horizon is the last elapsed year projected.
	Horizon = 20
	// Points is the number of samples in a series, years 0 through Horizon.
	Points = Horizon + 1
)

// AssetClass identifies one of the three modelled asset classes.
type AssetClass int

// Asset classes.
const (
	Vehicles AssetClass = iota
	RealEstate
	Cash
	numClasses
)

// Classes lists every asset class in display order.
var Classes = [numClasses]AssetClass{Vehicles, RealEstate, Cash}

func (c AssetClass) String() string {
	switch c {
	case Vehicles:
		return "vehicles"
	case RealEstate:
		return "real_estate"
	case Cash:
		return "cash"
	default:
		return "unknown"
	}
}

// Label returns the display name of the class.
func (c AssetClass) Label() string {
	switch c {
	case Vehicles:
		return "Vehicles"
	case RealEstate:
		return "Real estate"
	case Cash:
		return "Cash"
	default:
		return "?"
	}
}

// MarshalText encodes the class by its identifier.
func (c AssetClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c AssetClass) amount(p model.Portfolio) decimal.Decimal {
	switch c {
	case Vehicles:
		return p.Vehicles
	case RealEstate:
		return p.RealEstate
	case Cash:
		return p.Cash
	default:
		return decimal.Zero
	}
}

// Series holds one value per elapsed year, index 0 through Horizon.
// It is an array, so every assignment is an independent copy.
type Series [Points]decimal.Decimal

// At returns the value at an elapsed year, clamped to the horizon.
func (s Series) At(year int) decimal.Decimal {
	if year < 0 {
		year = 0
	}
	if year > Horizon {
		year = Horizon
	}
	return s[year]
}

// Final returns the value at the horizon.
func (s Series) Final() decimal.Decimal {
	return s[Horizon]
}

// Add returns the element-wise sum of two series.
func (s Series) Add(o Series) Series {
	var out Series
	for y := range out {
		out[y] = s[y].Add(o[y])
	}
	return out
}

// Sub returns the element-wise difference of two series.
func (s Series) Sub(o Series) Series {
	var out Series
	for y := range out {
		out[y] = s[y].Sub(o[y])
	}
	return out
}

// Values returns the series as a fresh slice.
func (s Series) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, Points)
	copy(out, s[:])
	return out
}

// Floats returns the series as float64 values for charting.
func (s Series) Floats() []float64 {
	out := make([]float64, Points)
	for y, v := range s {
		out[y] = v.InexactFloat64()
	}
	return out
}

// YearLabels returns the x-axis labels "0" through "20".
func YearLabels() []string {
	labels := make([]string, Points)
	for y := range labels {
		labels[y] = strconv.Itoa(y)
	}
	return labels
}

// Project returns the cumulative savings of using the structure for each
// elapsed year. It is pure: the result depends only on p.
// Negative amounts are not rejected and yield inverted savings.
func Project(p model.Portfolio) Series {
	var out Series
	for _, c := range Classes {
		amount := c.amount(p)
		r := rateTable[c]
		for y := 0; y < Points; y++ {
			delta := r.without(y).Sub(r.with(y))
			out[y] = out[y].Add(amount.Mul(delta))
		}
	}
	return out
}

// Track pairs the cumulative cost without the structure with the cost
// under it.
type Track struct {
	Without Series
	With    Series
}

// Savings returns the avoided cost, Without minus With.
func (t Track) Savings() Series {
	return t.Without.Sub(t.With)
}

// Projection is the per-class detail behind a savings series.
type Projection struct {
	Portfolio model.Portfolio
	Tracks    [numClasses]Track
}

// Explain computes the cost tracks of every asset class.
func Explain(p model.Portfolio) Projection {
	out := Projection{Portfolio: p}
	for _, c := range Classes {
		amount := c.amount(p)
		r := rateTable[c]
		var t Track
		for y := 0; y < Points; y++ {
			t.Without[y] = amount.Mul(r.without(y))
			t.With[y] = amount.Mul(r.with(y))
		}
		out.Tracks[c] = t
	}
	return out
}

// Class returns the track of one asset class.
func (p Projection) Class(c AssetClass) Track {
	if c < 0 || c >= numClasses {
		return Track{}
	}
	return p.Tracks[c]
}

// Total returns the tracks summed over all classes.
func (p Projection) Total() Track {
	var t Track
	for _, tr := range p.Tracks {
		t.Without = t.Without.Add(tr.Without)
		t.With = t.With.Add(tr.With)
	}
	return t
}

// Savings returns the total savings series; it equals Project(p.Portfolio).
func (p Projection) Savings() Series {
	return p.Total().Savings()
}
