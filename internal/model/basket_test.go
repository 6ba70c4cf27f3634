package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasket_AdjustRejectsNegative(t *testing.T) {
	var b Basket
	assert.False(t, b.Adjust(ItemCar, -1))
	assert.Equal(t, 0, b.Cars)

	assert.True(t, b.Adjust(ItemHouse, 2))
	assert.True(t, b.Adjust(ItemHouse, -1))
	assert.False(t, b.Adjust(ItemHouse, -2))
	assert.Equal(t, 1, b.Houses)

	assert.False(t, b.Adjust(Item(99), 1))
}

func TestBasket_Portfolio(t *testing.T) {
	b := Basket{Cars: 1, Houses: 1, CashUnits: 1}
	p := b.Portfolio(DefaultUnitValues())
	assert.Equal(t, "100000", p.Vehicles.String())
	assert.Equal(t, "1000000", p.RealEstate.String())
	assert.Equal(t, "500000", p.Cash.String())
	assert.Equal(t, "1600000", p.Total().String())
	assert.True(t, Basket{}.Portfolio(DefaultUnitValues()).IsZero())
}

func TestItem_Names(t *testing.T) {
	tests := []struct {
		item  Item
		str   string
		label string
	}{
		{ItemCar, "car", "Cars"},
		{ItemHouse, "house", "Houses"},
		{ItemCash, "cash", "Cash units"},
		{Item(7), "unknown", "?"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.str, tt.item.String())
		assert.Equal(t, tt.label, tt.item.Label())
	}
}
