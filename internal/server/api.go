package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/projection"
	"github.com/theirongolddev/holdcalc/internal/succession"

	"github.com/shopspring/decimal"
)

// amount accepts a JSON number, a string or null and coerces it the same
// way the command line does.
type amount decimal.Decimal

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = amount(decimal.Zero)
		return nil
	}
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	*a = amount(assets.ParseAmount(s))
	return nil
}

func (a amount) Decimal() decimal.Decimal { return decimal.Decimal(a) }

type projectionRequest struct {
	Vehicles   amount `json:"vehicles"`
	RealEstate amount `json:"real_estate"`
	Cash       amount `json:"cash"`
	Label      string `json:"label"`
	Save       bool   `json:"save"`
}

type successionRequest struct {
	Properties     int               `json:"properties"`
	PropertyValue  amount            `json:"property_value"`
	Companies      int               `json:"companies"`
	Regime         succession.Regime `json:"regime"`
	MonthlyProfit  amount            `json:"monthly_profit"`
	MonthlyRent    amount            `json:"monthly_rent"`
	Heirs          int               `json:"heirs"`
	AvoidConflicts bool              `json:"avoid_conflicts"`
}

func (r successionRequest) input() succession.Input {
	return succession.Input{
		Properties:     r.Properties,
		PropertyValue:  r.PropertyValue.Decimal(),
		Companies:      r.Companies,
		Regime:         r.Regime,
		MonthlyProfit:  r.MonthlyProfit.Decimal(),
		MonthlyRent:    r.MonthlyRent.Decimal(),
		Heirs:          r.Heirs,
		AvoidConflicts: r.AvoidConflicts,
	}
}

type projectionResponse struct {
	RecordID  string                       `json:"record_id,omitempty"`
	Portfolio model.Portfolio              `json:"portfolio"`
	Years     []int                        `json:"years"`
	Savings   []decimal.Decimal            `json:"savings"`
	With      []decimal.Decimal            `json:"with"`
	Without   []decimal.Decimal            `json:"without"`
	ByClass   map[string][]decimal.Decimal `json:"by_class"`
}

func newProjectionResponse(p model.Portfolio) projectionResponse {
	ex := projection.Explain(p)
	total := ex.Total()

	byClass := make(map[string][]decimal.Decimal, len(projection.Classes))
	for _, c := range projection.Classes {
		byClass[c.String()] = ex.Class(c).Savings().Values()
	}

	return projectionResponse{
		Portfolio: p,
		Years:     years(),
		Savings:   ex.Savings().Values(),
		With:      total.With.Values(),
		Without:   total.Without.Values(),
		ByClass:   byClass,
	}
}

func years() []int {
	out := make([]int, projection.Points)
	for y := range out {
		out[y] = y
	}
	return out
}

type violation struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

type errorResponse struct {
	Error      string      `json:"error"`
	Violations []violation `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, errs []*assets.InvalidAssetError) {
	resp := errorResponse{Error: msg}
	for _, e := range errs {
		resp.Violations = append(resp.Violations, violation{Field: e.Field, Value: e.Value, Reason: e.Reason})
	}
	writeJSON(w, status, resp)
}
