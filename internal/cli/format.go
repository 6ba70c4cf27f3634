// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatAmount formats a monetary amount with comma separators.
// Whole amounts print without cents; e.g. 1234567 -> "1,234,567",
// 1234.5 -> "1,234.50".
func FormatAmount(d decimal.Decimal) string {
	rounded := d.Round(2)
	whole := rounded.Truncate(0)
	frac := rounded.Sub(whole).Abs()

	intPart := whole.IntPart()
	s := FormatNumber(intPart)
	if rounded.IsNegative() && intPart == 0 {
		s = "-" + s
	}
	if frac.IsZero() {
		return s
	}
	cents := frac.Mul(hundred).IntPart()
	return fmt.Sprintf("%s.%02d", s, cents)
}

// FormatCompact formats a value with K/M/B suffixes for tight spaces.
// e.g. 1234 -> "1.2K", 2500000 -> "2.5M", 60000 -> "60K"
func FormatCompact(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}

	var scaled float64
	var suffix string
	switch {
	case abs >= 1e9:
		scaled, suffix = abs/1e9, "B"
	case abs >= 1e6:
		scaled, suffix = abs/1e6, "M"
	case abs >= 1e3:
		scaled, suffix = abs/1e3, "K"
	default:
		return sign + strconv.FormatFloat(abs, 'f', 0, 64)
	}

	if scaled == math.Trunc(scaled) {
		return fmt.Sprintf("%s%.0f%s", sign, scaled, suffix)
	}
	return fmt.Sprintf("%s%.1f%s", sign, scaled, suffix)
}

// FormatRate formats a fraction as a percentage, trimming trailing zeros.
// e.g. 0.025 -> "2.5%", 0.15 -> "15%"
func FormatRate(r decimal.Decimal) string {
	return r.Mul(hundred).String() + "%"
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatShare formats part/whole as a percentage, or "" if whole is zero.
func FormatShare(part, whole decimal.Decimal) string {
	if whole.IsZero() {
		return ""
	}
	return part.Div(whole).Mul(hundred).StringFixed(1) + "%"
}
