package model

import "github.com/shopspring/decimal"

// Item identifies one of the countable asset kinds on the quantity counters.
type Item int

// Countable asset kinds.
const (
	ItemCar Item = iota
	ItemHouse
	ItemCash
)

// Items lists every countable item in display order.
var Items = []Item{ItemCar, ItemHouse, ItemCash}

func (i Item) String() string {
	switch i {
	case ItemCar:
		return "car"
	case ItemHouse:
		return "house"
	case ItemCash:
		return "cash"
	default:
		return "unknown"
	}
}

// Label returns the display name of the item.
func (i Item) Label() string {
	switch i {
	case ItemCar:
		return "Cars"
	case ItemHouse:
		return "Houses"
	case ItemCash:
		return "Cash units"
	default:
		return "?"
	}
}

// UnitValues holds the monetary value of one unit of each item.
type UnitValues struct {
	Car   decimal.Decimal
	House decimal.Decimal
	Cash  decimal.Decimal
}

// DefaultUnitValues returns the stock unit values: a car at 100k,
// a house at 1M and a cash unit at 500k.
func DefaultUnitValues() UnitValues {
	return UnitValues{
		Car:   decimal.NewFromInt(100_000),
		House: decimal.NewFromInt(1_000_000),
		Cash:  decimal.NewFromInt(500_000),
	}
}

// Of returns the unit value for an item.
func (u UnitValues) Of(i Item) decimal.Decimal {
	switch i {
	case ItemCar:
		return u.Car
	case ItemHouse:
		return u.House
	case ItemCash:
		return u.Cash
	default:
		return decimal.Zero
	}
}

// Basket counts how many units of each item are held.
// Quantities are never negative.
type Basket struct {
	Cars      int `json:"cars" yaml:"cars"`
	Houses    int `json:"houses" yaml:"houses"`
	CashUnits int `json:"cash_units" yaml:"cash_units"`
}

// Quantity returns the count held for an item.
func (b Basket) Quantity(i Item) int {
	switch i {
	case ItemCar:
		return b.Cars
	case ItemHouse:
		return b.Houses
	case ItemCash:
		return b.CashUnits
	default:
		return 0
	}
}

// Adjust changes the quantity of an item by delta. A change that would make
// the quantity negative is rejected and leaves the basket untouched.
func (b *Basket) Adjust(i Item, delta int) bool {
	next := b.Quantity(i) + delta
	if next < 0 {
		return false
	}
	switch i {
	case ItemCar:
		b.Cars = next
	case ItemHouse:
		b.Houses = next
	case ItemCash:
		b.CashUnits = next
	default:
		return false
	}
	return true
}

// Portfolio values the basket: cars are vehicles, houses are real estate.
func (b Basket) Portfolio(u UnitValues) Portfolio {
	return Portfolio{
		Vehicles:   u.Car.Mul(decimal.NewFromInt(int64(b.Cars))),
		RealEstate: u.House.Mul(decimal.NewFromInt(int64(b.Houses))),
		Cash:       u.Cash.Mul(decimal.NewFromInt(int64(b.CashUnits))),
	}
}
