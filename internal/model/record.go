package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a saved projection.
type Record struct {
	ID         string            `json:"id" yaml:"id"`
	Label      string            `json:"label,omitempty" yaml:"label,omitempty"`
	CreatedAt  time.Time         `json:"created_at" yaml:"created_at"`
	Portfolio  Portfolio         `json:"portfolio" yaml:"portfolio"`
	SavingsY10 decimal.Decimal   `json:"savings_y10" yaml:"savings_y10"`
	SavingsY20 decimal.Decimal   `json:"savings_y20" yaml:"savings_y20"`
	Savings    []decimal.Decimal `json:"savings" yaml:"savings"`
}
