package projection

import (
	"github.com/theirongolddev/holdcalc/internal/model"

	"github.com/shopspring/decimal"
)

// YearRow is one elapsed year of the total tracks.
type YearRow struct {
	Year    int             `json:"year" yaml:"year"`
	Without decimal.Decimal `json:"without" yaml:"without"`
	With    decimal.Decimal `json:"with" yaml:"with"`
	Savings decimal.Decimal `json:"savings" yaml:"savings"`
}

// ClassReport is the full tracks of one asset class.
type ClassReport struct {
	Class   AssetClass        `json:"class" yaml:"class"`
	Amount  decimal.Decimal   `json:"amount" yaml:"amount"`
	Without []decimal.Decimal `json:"without" yaml:"without"`
	With    []decimal.Decimal `json:"with" yaml:"with"`
	Savings []decimal.Decimal `json:"savings" yaml:"savings"`
}

// Report is the serialisable form of a projection.
type Report struct {
	Portfolio model.Portfolio   `json:"portfolio" yaml:"portfolio"`
	Savings   []decimal.Decimal `json:"savings" yaml:"savings"`
	Years     []YearRow         `json:"years" yaml:"years"`
	Classes   []ClassReport     `json:"classes" yaml:"classes"`
}

// NewReport projects p and flattens the result for export.
func NewReport(p model.Portfolio) Report {
	ex := Explain(p)
	total := ex.Total()
	savings := total.Savings()

	rows := make([]YearRow, Points)
	for y := range rows {
		rows[y] = YearRow{
			Year:    y,
			Without: total.Without[y],
			With:    total.With[y],
			Savings: savings[y],
		}
	}

	classes := make([]ClassReport, 0, len(Classes))
	for _, c := range Classes {
		t := ex.Class(c)
		classes = append(classes, ClassReport{
			Class:   c,
			Amount:  c.amount(p),
			Without: t.Without.Values(),
			With:    t.With.Values(),
			Savings: t.Savings().Values(),
		})
	}

	return Report{
		Portfolio: p,
		Savings:   savings.Values(),
		Years:     rows,
		Classes:   classes,
	}
}
