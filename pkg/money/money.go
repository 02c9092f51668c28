// Package money centralizes conversion between human decimal amounts and the
// integer minor units stored everywhere else. Monetary values never exist as
// floats inside the system.
package money

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// ParseMinor converts a human decimal string ("499.00", "499,90") into minor
// units, rounding half-up at the second decimal place. Negative and
// unparsable amounts are rejected with a validation error.
func ParseMinor(raw string) (int64, error) {
	value := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if value == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount is required")
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "amount is not a valid decimal").
			WithDetails(map[string]any{"amount": raw})
	}
	if d.IsNegative() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative").
			WithDetails(map[string]any{"amount": raw})
	}

	// Round half-up at minor-unit precision. Round rounds half away from
	// zero, which matches half-up for the non-negative values allowed here.
	return d.Mul(hundred).Round(0).IntPart(), nil
}

// FormatMinor renders minor units as a decimal string with two places.
func FormatMinor(minor int64) string {
	return decimal.NewFromInt(minor).Div(hundred).StringFixed(2)
}
