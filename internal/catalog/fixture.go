package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Fixture is an in-memory provider used by tests and the demo catalog
// server. The product set is fixed at construction.
type Fixture struct {
	products []Product
	index    map[string]Product
}

// NewFixture constructs a fixture provider over the given products.
func NewFixture(products ...Product) *Fixture {
	index := make(map[string]Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return &Fixture{products: products, index: index}
}

// List returns all fixture products in declaration order.
func (f *Fixture) List(_ context.Context) ([]Product, error) {
	out := make([]Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

// Get returns the product with the given identifier.
func (f *Fixture) Get(_ context.Context, id string) (Product, error) {
	p, ok := f.index[id]
	if !ok {
		return Product{}, fmt.Errorf("product %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// DefaultProducts returns the seed catalog used when no upstream is
// configured.
func DefaultProducts() []Product {
	return []Product{
		{ID: "p-1001", Name: "Wireless Headphones", Price: decimal.New(7999, -2), Image: "/img/headphones.png"},
		{ID: "p-1002", Name: "Mechanical Keyboard", Price: decimal.New(12950, -2), Image: "/img/keyboard.png"},
		{ID: "p-1003", Name: "USB-C Hub", Price: decimal.New(4500, -2), Image: "/img/hub.png"},
		{ID: "p-1004", Name: "Laptop Stand", Price: decimal.New(3299, -2), Image: "/img/stand.png"},
		{ID: "p-1005", Name: "Webcam", Price: decimal.New(8000, -2), Image: "/img/webcam.png"},
		{ID: "p-1006", Name: "Desk Mat", Price: decimal.New(1890, -2), Image: "/img/deskmat.png"},
	}
}
