package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/shopfront/internal/catalog"
	"github.com/noah-isme/shopfront/internal/pricing"
)

// LineItem pairs a product with a quantity. The cart holds at most one line
// per product identifier.
type LineItem struct {
	Product  catalog.Product
	Quantity int
}

// Engine owns a cart's line items and derives monetary totals from them.
// Lines keep the insertion order of their first addition. The discount
// percentage and tax rate are fixed for the engine's lifetime.
//
// Totals are never stored: every read accessor recomputes from the current
// lines through the pricing package. The engine is not safe for concurrent
// use; exclusive ownership is the caller's contract (see Store).
type Engine struct {
	lines           []LineItem
	discountPercent decimal.Decimal
	taxRate         decimal.Decimal
}

// EngineConfig groups Engine construction parameters.
type EngineConfig struct {
	// DiscountPercent must lie in [0, 100]. Zero means no discount.
	DiscountPercent decimal.Decimal
	// TaxRate applied to the discounted subtotal, used verbatim. A zero
	// rate means zero tax; the configuration layer resolves the default.
	TaxRate decimal.Decimal
}

// NewEngine constructs an empty cart engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.DiscountPercent.IsNegative() || cfg.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("discount percent %s outside [0, 100]: %w", cfg.DiscountPercent, pricing.ErrInvalidArgument)
	}
	return &Engine{discountPercent: cfg.DiscountPercent, taxRate: cfg.TaxRate}, nil
}

// AddItem increments the quantity of an existing line for the product, or
// appends a new line with quantity 1. Repeated calls accumulate quantity
// rather than duplicating rows.
func (e *Engine) AddItem(p catalog.Product) {
	for i := range e.lines {
		if e.lines[i].Product.ID == p.ID {
			e.lines[i].Quantity++
			return
		}
	}
	e.lines = append(e.lines, LineItem{Product: p, Quantity: 1})
}

// RemoveItem deletes the line for the given product. Absent lines are a
// no-op, not an error.
func (e *Engine) RemoveItem(productID string) {
	for i := range e.lines {
		if e.lines[i].Product.ID == productID {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line's quantity to exactly qty. A qty of zero or
// below removes the line. When no line exists for the product this is a
// no-op regardless of qty; a product enters the cart only through AddItem.
func (e *Engine) UpdateQuantity(productID string, qty int) {
	if qty <= 0 {
		e.RemoveItem(productID)
		return
	}
	for i := range e.lines {
		if e.lines[i].Product.ID == productID {
			e.lines[i].Quantity = qty
			return
		}
	}
}

// Clear empties all lines. The discount percentage is retained.
func (e *Engine) Clear() {
	e.lines = nil
}

// Items returns a copy of the current lines in insertion order.
func (e *Engine) Items() []LineItem {
	out := make([]LineItem, len(e.lines))
	copy(out, e.lines)
	return out
}

// ItemCount returns the sum of all line quantities.
func (e *Engine) ItemCount() int {
	count := 0
	for _, l := range e.lines {
		count += l.Quantity
	}
	return count
}

// DiscountPercent returns the cart's configured discount percentage.
func (e *Engine) DiscountPercent() decimal.Decimal {
	return e.discountPercent
}

// Subtotal is the pre-discount sum of unit price times quantity.
func (e *Engine) Subtotal() decimal.Decimal {
	return pricing.SumLineTotals(e.pricingLines())
}

// DiscountedSubtotal is the subtotal after the cart's discount.
func (e *Engine) DiscountedSubtotal() decimal.Decimal {
	return e.Totals().DiscountedSubtotal
}

// Tax is the tax on the discounted subtotal.
func (e *Engine) Tax() decimal.Decimal {
	return e.Totals().Tax
}

// Total is the discounted subtotal plus tax.
func (e *Engine) Total() decimal.Decimal {
	return e.Totals().Total
}

// Totals recomputes the full pricing summary from the current lines. The
// discount was validated at construction, so Compute cannot fail here.
func (e *Engine) Totals() pricing.Summary {
	summary, _ := pricing.Compute(e.pricingLines(), e.discountPercent, e.taxRate)
	return summary
}

func (e *Engine) pricingLines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(e.lines))
	for _, l := range e.lines {
		lines = append(lines, pricing.Line{UnitPrice: l.Product.Price, Qty: l.Quantity})
	}
	return lines
}
