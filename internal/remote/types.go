package remote

import (
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/projection"

	"github.com/shopspring/decimal"
)

// Projection is the response of the projection endpoint.
type Projection struct {
	RecordID  string                       `json:"record_id,omitempty"`
	Portfolio model.Portfolio              `json:"portfolio"`
	Years     []int                        `json:"years"`
	Savings   []decimal.Decimal            `json:"savings"`
	With      []decimal.Decimal            `json:"with"`
	Without   []decimal.Decimal            `json:"without"`
	ByClass   map[string][]decimal.Decimal `json:"by_class"`
}

// Report rebuilds a projection report from the server's series. Per-class
// tracks carry savings only.
func (p *Projection) Report() projection.Report {
	r := projection.Report{
		Portfolio: p.Portfolio,
		Savings:   p.Savings,
	}
	for i, y := range p.Years {
		r.Years = append(r.Years, projection.YearRow{
			Year:    y,
			Without: at(p.Without, i),
			With:    at(p.With, i),
			Savings: at(p.Savings, i),
		})
	}
	for _, c := range projection.Classes {
		savings := p.ByClass[c.String()]
		if len(savings) != len(p.Years) {
			savings = make([]decimal.Decimal, len(p.Years))
		}
		r.Classes = append(r.Classes, projection.ClassReport{
			Class:   c,
			Amount:  classAmount(p.Portfolio, c),
			Savings: savings,
		})
	}
	return r
}

func at(s []decimal.Decimal, i int) decimal.Decimal {
	if i < len(s) {
		return s[i]
	}
	return decimal.Zero
}

func classAmount(p model.Portfolio, c projection.AssetClass) decimal.Decimal {
	switch c {
	case projection.Vehicles:
		return p.Vehicles
	case projection.RealEstate:
		return p.RealEstate
	case projection.Cash:
		return p.Cash
	default:
		return decimal.Zero
	}
}

type projectionRequest struct {
	model.Portfolio
	Label string `json:"label,omitempty"`
	Save  bool   `json:"save,omitempty"`
}

// Violation is one rejected field reported by the server.
type Violation struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

type errorResponse struct {
	Error      string      `json:"error"`
	Violations []Violation `json:"violations,omitempty"`
}
