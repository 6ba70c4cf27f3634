// Package pipeline projects batches of named scenarios concurrently and
// summarizes the results.
package pipeline

import (
	"sort"

	"github.com/theirongolddev/holdcalc/internal/projection"

	"github.com/shopspring/decimal"
)

// Summary holds totals across the accepted outcomes of a batch.
type Summary struct {
	Scenarios  int               `json:"scenarios" yaml:"scenarios"`
	Rejected   int               `json:"rejected" yaml:"rejected"`
	TotalY10   decimal.Decimal   `json:"total_savings_y10" yaml:"total_savings_y10"`
	TotalY20   decimal.Decimal   `json:"total_savings_y20" yaml:"total_savings_y20"`
	MeanY20    decimal.Decimal   `json:"mean_savings_y20" yaml:"mean_savings_y20"`
	Best       string            `json:"best,omitempty" yaml:"best,omitempty"`
	Worst      string            `json:"worst,omitempty" yaml:"worst,omitempty"`
	Cumulative []decimal.Decimal `json:"cumulative" yaml:"cumulative"`
}

// Summarize totals the accepted outcomes. Best and Worst name the scenarios
// with the highest and lowest year-20 savings.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Scenarios: len(outcomes)}
	var cumulative projection.Series
	accepted := 0

	for _, o := range Ranked(outcomes) {
		if o.Err != nil {
			s.Rejected++
			continue
		}
		accepted++
		cumulative = cumulative.Add(o.Savings)
		if s.Best == "" {
			s.Best = o.Scenario.Name
		}
		s.Worst = o.Scenario.Name
	}

	s.TotalY10 = cumulative.At(10)
	s.TotalY20 = cumulative.Final()
	s.MeanY20 = decimal.Zero
	if accepted > 0 {
		s.MeanY20 = s.TotalY20.Div(decimal.NewFromInt(int64(accepted)))
	}
	s.Cumulative = cumulative.Values()
	return s
}

// Ranked returns the outcomes sorted by year-20 savings, highest first.
// Rejected outcomes go last; ties keep input order.
func Ranked(outcomes []Outcome) []Outcome {
	out := make([]Outcome, len(outcomes))
	copy(out, outcomes)
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].Err == nil, out[j].Err == nil
		if ai != aj {
			return ai
		}
		return out[i].Savings.Final().GreaterThan(out[j].Savings.Final())
	})
	return out
}
