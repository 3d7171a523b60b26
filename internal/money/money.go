// Package money handles fixed-point monetary amounts.
//
// Amounts are shopspring/decimal values with at most two fractional digits.
// Allocate implements the rounding policy used by every split: the largest
// remainder method at cent precision, so allocated shares always add up to
// the amount being divided.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
)

// Scale is the number of fractional digits kept for every amount.
const Scale = 2

// Zero is the zero amount.
var Zero = decimal.Zero

// Parse converts a decimal string such as "12.5" or "0.99" into an amount.
// Negative values, more than two fractional digits, exponents and empty
// strings are rejected with models.ErrInvalidInput.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", models.ErrInvalidInput)
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("%w: amount %q must be a plain decimal", models.ErrInvalidInput, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a decimal", models.ErrInvalidInput, s)
	}
	if err := Validate(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// Validate checks that d is non-negative and has at most two fractional digits.
func Validate(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: amount %s is negative", models.ErrInvalidInput, d.String())
	}
	if !d.Equal(d.Truncate(Scale)) {
		return fmt.Errorf("%w: amount %s has more than %d decimal places", models.ErrInvalidInput, d.String(), Scale)
	}
	return nil
}

// Format renders an amount with exactly two fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// Allocate divides amount into n shares at cent precision using the largest
// remainder method. Every share gets amount/n rounded down to the cent, and
// the leftover cents go one each to the first shares. The result sums to
// amount exactly. Allocate returns nil when n <= 0.
func Allocate(amount decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	cents := amount.Round(Scale).Shift(Scale)
	base, rem := cents.QuoRem(decimal.NewFromInt(int64(n)), 0)
	extra := rem.IntPart()

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		c := base
		if int64(i) < extra {
			c = c.Add(decimal.NewFromInt(1))
		}
		shares[i] = c.Shift(-Scale)
	}
	return shares
}

// Sum adds up amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
