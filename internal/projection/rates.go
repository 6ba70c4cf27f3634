package projection

import "github.com/shopspring/decimal"

// Rates are part of the calculator's contract and are not configurable.
var (
	vehicleHoldingTax    = decimal.RequireFromString("0.025")
	vehicleStructureRate = decimal.RequireFromString("0.01")
	vehicleGainsCharge   = decimal.RequireFromString("0.15")

	propertyTax            = decimal.RequireFromString("0.01")
	propertyStructureRate  = decimal.RequireFromString("0.005")
	propertyGainsCharge    = decimal.RequireFromString("0.15")
	propertyTransferCharge = decimal.RequireFromString("0.08")

	cashReturn       = decimal.RequireFromString("0.05")
	cashTaxDirect    = decimal.RequireFromString("0.20")
	cashTaxStructure = decimal.RequireFromString("0.10")
)

// firstChargeYear is the first elapsed year at which one-time charges apply.
// A second, independent charge fires at Horizon.
const firstChargeYear = 10

// classRates is the rate model of one asset class, expressed as fractions of
// the class value.
type classRates struct {
	direct    decimal.Decimal // per elapsed year, without the structure
	structure decimal.Decimal // per elapsed year, with the structure
	oneTime   decimal.Decimal // per fired charge, without the structure
}

var rateTable = [numClasses]classRates{
	Vehicles: {
		direct:    vehicleHoldingTax,
		structure: vehicleStructureRate,
		oneTime:   vehicleGainsCharge,
	},
	RealEstate: {
		direct:    propertyTax,
		structure: propertyStructureRate,
		oneTime:   propertyGainsCharge.Add(propertyTransferCharge),
	},
	Cash: {
		direct:    cashReturn.Mul(cashTaxDirect),
		structure: cashReturn.Mul(cashTaxStructure),
	},
}

// charges counts the one-time charges fired at year y. The year-10 and
// year-20 conditions are independent, so both count at the horizon.
func charges(y int) int64 {
	var n int64
	if y >= firstChargeYear {
		n++
	}
	if y == Horizon {
		n++
	}
	return n
}

func (r classRates) without(y int) decimal.Decimal {
	return r.direct.Mul(decimal.NewFromInt(int64(y))).
		Add(r.oneTime.Mul(decimal.NewFromInt(charges(y))))
}

func (r classRates) with(y int) decimal.Decimal {
	return r.structure.Mul(decimal.NewFromInt(int64(y)))
}

// Assumption describes one rate of the model for display.
type Assumption struct {
	Class AssetClass      `json:"class" yaml:"class"`
	Name  string          `json:"name" yaml:"name"`
	Rate  decimal.Decimal `json:"rate" yaml:"rate"`
	Basis string          `json:"basis" yaml:"basis"`
}

// Assumptions lists the fixed rates behind every projection.
func Assumptions() []Assumption {
	return []Assumption{
		{Vehicles, "Holding tax", vehicleHoldingTax, "per year, direct ownership"},
		{Vehicles, "Effective rate", vehicleStructureRate, "per year, with structure"},
		{Vehicles, "Capital gains charge", vehicleGainsCharge, "at year 10 and again at year 20, direct ownership"},
		{RealEstate, "Property tax", propertyTax, "per year, direct ownership"},
		{RealEstate, "Effective rate", propertyStructureRate, "per year, with structure"},
		{RealEstate, "Capital gains charge", propertyGainsCharge, "at year 10 and again at year 20, direct ownership"},
		{RealEstate, "Transfer and succession charge", propertyTransferCharge, "at year 10 and again at year 20, direct ownership"},
		{Cash, "Annual return", cashReturn, "per year, both regimes"},
		{Cash, "Tax on return", cashTaxDirect, "share of cumulative return, direct ownership"},
		{Cash, "Tax on return", cashTaxStructure, "share of cumulative return, with structure"},
	}
}
