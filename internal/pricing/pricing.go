package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is returned when a pricing function receives an
// out-of-range input, such as a discount percentage outside [0, 100].
var ErrInvalidArgument = errors.New("invalid argument")

var (
	hundred = decimal.NewFromInt(100)

	// DefaultTaxRate is the fallback rate the configuration layer uses
	// when no tax rate is set. An explicitly configured zero rate means
	// zero tax.
	DefaultTaxRate = decimal.New(10, -2)
)

// Line describes a line item used for pricing calculation.
type Line struct {
	UnitPrice decimal.Decimal
	Qty       int
}

// Summary aggregates computed pricing components. Every field is rounded to
// cents; each stage rounds before feeding the next one.
type Summary struct {
	Subtotal           decimal.Decimal
	DiscountedSubtotal decimal.Decimal
	Tax                decimal.Decimal
	Total              decimal.Decimal
}

// ApplyDiscount reduces amount by the given percentage and rounds the result
// to cents, half away from zero. The percentage must lie in [0, 100].
func ApplyDiscount(amount, percent decimal.Decimal) (decimal.Decimal, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("discount percent %s outside [0, 100]: %w", percent, ErrInvalidArgument)
	}
	factor := decimal.NewFromInt(1).Sub(percent.Div(hundred))
	return amount.Mul(factor).Round(2), nil
}

// ApplyTax returns amount multiplied by rate, rounded to cents. Negative
// rates are passed through unvalidated.
func ApplyTax(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

// SumLineTotals sums unit price times quantity over all lines, rounding once
// at the end rather than per line. An empty input yields zero.
func SumLineTotals(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return sum.Round(2)
}

// FormatMoney renders an amount as a dollar string with exactly two
// fractional digits.
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// Compute derives the full pricing summary for the given lines under a
// discount percentage and tax rate.
func Compute(lines []Line, discountPercent, taxRate decimal.Decimal) (Summary, error) {
	subtotal := SumLineTotals(lines)
	discounted, err := ApplyDiscount(subtotal, discountPercent)
	if err != nil {
		return Summary{}, err
	}
	tax := ApplyTax(discounted, taxRate)
	return Summary{
		Subtotal:           subtotal,
		DiscountedSubtotal: discounted,
		Tax:                tax,
		Total:              discounted.Add(tax).Round(2),
	}, nil
}
