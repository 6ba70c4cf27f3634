// Package assets turns raw user input into portfolio amounts.
//
// Coercion is permissive: anything that does not parse as a finite number
// becomes zero. Validation is a separate, opt-in step used by the command
// line and HTTP boundaries; the projector never sees its errors.
package assets

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/theirongolddev/holdcalc/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalidAssetValue is matched by every validation failure.
var ErrInvalidAssetValue = errors.New("invalid asset value")

// InvalidAssetError reports one rejected portfolio field.
type InvalidAssetError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidAssetError) Error() string {
	return fmt.Sprintf("%s: %s = %s (%s)", ErrInvalidAssetValue, e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidAssetValue.
func (e *InvalidAssetError) Unwrap() error {
	return ErrInvalidAssetValue
}

// Longest prefix first so "R$" is not left as "R".
var currencyPrefixes = []string{"R$", "US$", "$"}

var groupingStripper = strings.NewReplacer("_", "", " ", "", "\u00a0", "")

// Amounts beyond these bounds are coerced to zero. Decimal arithmetic
// rescales operands, so its cost grows with the exponent spread.
const (
	maxAmountExponent = 30
	minAmountExponent = -30
	maxAmountDigits   = 40
)

// ParseAmount coerces raw text to an amount. Empty, malformed, NaN and
// infinite input yields zero, as does anything with more than 40 significant
// digits or an exponent outside ±30. A leading currency symbol and digit
// grouping with underscores or spaces are accepted.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	for _, prefix := range currencyPrefixes {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	s = groupingStripper.Replace(s)
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !inRange(d) {
		return decimal.Zero
	}
	return d
}

func inRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp <= maxAmountExponent && exp >= minAmountExponent && d.NumDigits() <= maxAmountDigits
}

// FromFloat converts a float, mapping NaN and infinities to zero.
func FromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// ParsePortfolio coerces the three raw amounts into a portfolio.
func ParsePortfolio(vehicles, realEstate, cash string) model.Portfolio {
	return model.Portfolio{
		Vehicles:   ParseAmount(vehicles),
		RealEstate: ParseAmount(realEstate),
		Cash:       ParseAmount(cash),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// gte=0 and friends compare the exact sign; a float conversion would
	// round tiny negatives to -0.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.Sign()
		}
		return nil
	}, decimal.Decimal{})

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Violations lists every rejected field of p, or nil if p is valid.
func Violations(p model.Portfolio) []*InvalidAssetError {
	return StructViolations(p)
}

// StructViolations validates any struct carrying validate tags, with
// decimal fields compared by sign. It returns nil when v is valid.
func StructViolations(v interface{}) []*InvalidAssetError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*InvalidAssetError{{Field: "input", Value: "?", Reason: err.Error()}}
	}

	rv := reflect.Indirect(reflect.ValueOf(v))
	out := make([]*InvalidAssetError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &InvalidAssetError{
			Field:  fe.Field(),
			Value:  fieldValue(rv, fe.StructField()),
			Reason: reason(fe),
		})
	}
	return out
}

// Validate returns nil for a portfolio within the projector's domain, or a
// joined error of InvalidAssetErrors.
func Validate(p model.Portfolio) error {
	return joinViolations(Violations(p))
}

// ValidateStruct is Validate for any tagged struct.
func ValidateStruct(v interface{}) error {
	return joinViolations(StructViolations(v))
}

func joinViolations(violations []*InvalidAssetError) error {
	if len(violations) == 0 {
		return nil
	}
	errs := make([]error, len(violations))
	for i, v := range violations {
		errs[i] = v
	}
	return errors.Join(errs...)
}

func fieldValue(rv reflect.Value, structField string) string {
	if rv.Kind() != reflect.Struct {
		return "?"
	}
	f := rv.FieldByName(structField)
	if !f.IsValid() || !f.CanInterface() {
		return "?"
	}
	return fmt.Sprint(f.Interface())
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
