// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with comma separators and cents.
// e.g., 1234567.5 -> "$1,234,567.50"
func FormatMoney(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-" + FormatMoney(v.Neg())
	}
	cents := v.StringFixed(2)
	whole, frac, _ := strings.Cut(cents, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "$" + cents
	}
	return "$" + FormatNumber(n) + "." + frac
}

// FormatWhole formats an amount rounded to whole units.
// e.g., 1499.6 -> "$1,500"
func FormatWhole(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-" + FormatWhole(v.Neg())
	}
	return "$" + FormatNumber(v.Round(0).IntPart())
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

// FormatPercent formats a 0-100 value with one decimal.
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// FormatReduction formats a reduction as a negative delta.
func FormatReduction(v decimal.Decimal) string {
	if v.IsZero() {
		return FormatMoney(v)
	}
	return "-" + FormatMoney(v.Abs())
}
