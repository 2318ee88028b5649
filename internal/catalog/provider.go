package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the requested product does not exist upstream.
var ErrNotFound = errors.New("product not found")

// ErrFetch indicates the catalog source could not be reached or answered
// with a non-success response.
var ErrFetch = errors.New("catalog fetch failed")

// Product is a catalog record. Products are immutable once fetched; the
// cart only ever reads them.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

// Provider supplies product records. Implementations must be safe for
// concurrent use.
type Provider interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
}
