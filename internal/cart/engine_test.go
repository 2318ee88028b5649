package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/shopfront/internal/catalog"
	"github.com/noah-isme/shopfront/internal/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func product(id, price string) catalog.Product {
	return catalog.Product{ID: id, Name: "product " + id, Price: dec(price)}
}

func newTestEngine(t *testing.T, discount string) *Engine {
	t.Helper()
	engine, err := NewEngine(EngineConfig{DiscountPercent: dec(discount)})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestNewEngineRejectsInvalidDiscount(t *testing.T) {
	for _, discount := range []string{"-1", "100.5"} {
		_, err := NewEngine(EngineConfig{DiscountPercent: dec(discount)})
		if !errors.Is(err, pricing.ErrInvalidArgument) {
			t.Fatalf("discount %s: expected ErrInvalidArgument, got %v", discount, err)
		}
	}
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	engine := newTestEngine(t, "0")
	engine.AddItem(product("p-1", "10"))
	engine.AddItem(product("p-1", "10"))
	engine.AddItem(product("p-2", "5.5"))

	items := engine.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].Product.ID != "p-1" || items[0].Quantity != 2 {
		t.Fatalf("expected p-1 with quantity 2, got %s qty %d", items[0].Product.ID, items[0].Quantity)
	}
	if engine.ItemCount() != 3 {
		t.Fatalf("expected item count 3, got %d", engine.ItemCount())
	}
}

func TestRemoveItemIgnoresUnknownProduct(t *testing.T) {
	engine := newTestEngine(t, "0")
	engine.AddItem(product("p-1", "10"))
	engine.RemoveItem("p-404")
	if engine.ItemCount() != 1 {
		t.Fatalf("expected cart untouched, got item count %d", engine.ItemCount())
	}
	engine.RemoveItem("p-1")
	if engine.ItemCount() != 0 {
		t.Fatalf("expected empty cart, got item count %d", engine.ItemCount())
	}
}

func TestUpdateQuantity(t *testing.T) {
	engine := newTestEngine(t, "0")
	engine.AddItem(product("p-1", "10"))

	engine.UpdateQuantity("p-1", 5)
	if items := engine.Items(); items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}

	// Unknown products are never created through a quantity update.
	engine.UpdateQuantity("p-404", 3)
	if len(engine.Items()) != 1 {
		t.Fatalf("expected update on missing line to be a no-op")
	}

	engine.UpdateQuantity("p-1", 0)
	if len(engine.Items()) != 0 {
		t.Fatalf("expected zero quantity to remove the line")
	}
}

func TestUpdateQuantityNegativeRemoves(t *testing.T) {
	engine := newTestEngine(t, "0")
	engine.AddItem(product("p-1", "10"))
	engine.UpdateQuantity("p-1", -2)
	if len(engine.Items()) != 0 {
		t.Fatalf("expected negative quantity to remove the line")
	}
}

func TestClearRetainsDiscount(t *testing.T) {
	engine := newTestEngine(t, "15")
	engine.AddItem(product("p-1", "10"))
	engine.Clear()
	engine.Clear()
	if engine.ItemCount() != 0 {
		t.Fatalf("expected empty cart after clear")
	}
	if !engine.DiscountPercent().Equal(dec("15")) {
		t.Fatalf("expected discount to survive clear, got %s", engine.DiscountPercent())
	}
	if !engine.Total().IsZero() {
		t.Fatalf("expected zero total for empty cart, got %s", engine.Total())
	}
}

func TestTotalsPipeline(t *testing.T) {
	engine, err := NewEngine(EngineConfig{DiscountPercent: dec("10"), TaxRate: dec("0.10")})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.AddItem(product("p-1", "20"))
	engine.UpdateQuantity("p-1", 2)
	engine.AddItem(product("p-2", "40"))

	if !engine.Subtotal().Equal(dec("80")) {
		t.Fatalf("expected subtotal 80, got %s", engine.Subtotal())
	}
	if !engine.DiscountedSubtotal().Equal(dec("72")) {
		t.Fatalf("expected discounted subtotal 72, got %s", engine.DiscountedSubtotal())
	}
	if !engine.Tax().Equal(dec("7.2")) {
		t.Fatalf("expected tax 7.2, got %s", engine.Tax())
	}
	if !engine.Total().Equal(dec("79.2")) {
		t.Fatalf("expected total 79.2, got %s", engine.Total())
	}
}

func TestExplicitZeroTaxRate(t *testing.T) {
	engine, err := NewEngine(EngineConfig{TaxRate: dec("0")})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.AddItem(product("p-1", "100"))
	if !engine.Tax().IsZero() {
		t.Fatalf("expected a zero rate to mean zero tax, got %s", engine.Tax())
	}
	if !engine.Total().Equal(dec("100")) {
		t.Fatalf("expected total 100, got %s", engine.Total())
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	engine := newTestEngine(t, "0")
	engine.AddItem(product("p-1", "10"))
	items := engine.Items()
	items[0].Quantity = 99
	if engine.Items()[0].Quantity != 1 {
		t.Fatalf("mutating the returned slice must not touch the engine")
	}
}
