package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shopfront/internal/catalog"
)

func newTestHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	store := &Store{
		DiscountPercent: decimal.NewFromInt(10),
		TaxRate:         decimal.New(10, -2),
	}
	h := &Handler{
		Store:    store,
		Provider: catalog.NewFixture(catalog.DefaultProducts()...),
		Validate: validator.New(),
	}
	r := chi.NewRouter()
	r.Get("/cart", h.Get)
	r.Post("/cart/items", h.AddItem)
	r.Put("/cart/items/{productId}", h.UpdateQuantity)
	r.Delete("/cart/items/{productId}", h.RemoveItem)
	r.Delete("/cart", h.Clear)
	return h, r
}

type cartEnvelope struct {
	Data cartView `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, target, body string, cookie *http.Cookie) (*httptest.ResponseRecorder, cartEnvelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var envelope cartEnvelope
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	}
	return rr, envelope
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == DefaultCookieName {
			return c
		}
	}
	t.Fatal("expected a session cookie")
	return nil
}

func TestGetMintsSessionCookie(t *testing.T) {
	_, router := newTestHandler(t)

	rr, view := doJSON(t, router, http.MethodGet, "/cart", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	cookie := sessionCookie(t, rr)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, 0, view.Data.ItemCount)
	require.Equal(t, "0.00", view.Data.Totals.Total)
}

func TestAddItemFlow(t *testing.T) {
	_, router := newTestHandler(t)

	rr, _ := doJSON(t, router, http.MethodGet, "/cart", "", nil)
	cookie := sessionCookie(t, rr)

	rr, view := doJSON(t, router, http.MethodPost, "/cart/items", `{"productId":"p-1001"}`, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, view.Data.ItemCount)
	require.Len(t, view.Data.Items, 1)
	require.Equal(t, "p-1001", view.Data.Items[0].ProductID)

	rr, view = doJSON(t, router, http.MethodPost, "/cart/items", `{"productId":"p-1001"}`, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, view.Data.Items, 1)
	require.Equal(t, 2, view.Data.Items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	_, router := newTestHandler(t)

	rr, _ := doJSON(t, router, http.MethodPost, "/cart/items", `{"productId":"p-404"}`, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "NOT_FOUND")
}

func TestAddItemValidation(t *testing.T) {
	_, router := newTestHandler(t)

	rr, _ := doJSON(t, router, http.MethodPost, "/cart/items", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = doJSON(t, router, http.MethodPost, "/cart/items", `not-json`, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateQuantityEndpoint(t *testing.T) {
	_, router := newTestHandler(t)

	rr, _ := doJSON(t, router, http.MethodPost, "/cart/items", `{"productId":"p-1001"}`, nil)
	cookie := sessionCookie(t, rr)

	rr, view := doJSON(t, router, http.MethodPut, "/cart/items/p-1001", `{"quantity":3}`, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 3, view.Data.Items[0].Quantity)

	// Quantity updates never create lines for products not in the cart.
	rr, view = doJSON(t, router, http.MethodPut, "/cart/items/p-1002", `{"quantity":5}`, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, view.Data.Items, 1)

	rr, view = doJSON(t, router, http.MethodPut, "/cart/items/p-1001", `{"quantity":0}`, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, view.Data.Items)
}

func TestUpdateQuantityRequiresBody(t *testing.T) {
	_, router := newTestHandler(t)

	rr, _ := doJSON(t, router, http.MethodPut, "/cart/items/p-1001", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRemoveAndClearEndpoints(t *testing.T) {
	_, router := newTestHandler(t)

	rr, _ := doJSON(t, router, http.MethodPost, "/cart/items", `{"productId":"p-1001"}`, nil)
	cookie := sessionCookie(t, rr)
	_, _ = doJSON(t, router, http.MethodPost, "/cart/items", `{"productId":"p-1002"}`, cookie)

	rr, view := doJSON(t, router, http.MethodDelete, "/cart/items/p-1001", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, view.Data.Items, 1)

	// Removing an absent line is a silent no-op.
	rr, view = doJSON(t, router, http.MethodDelete, "/cart/items/p-404", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, view.Data.Items, 1)

	rr, view = doJSON(t, router, http.MethodDelete, "/cart", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, view.Data.Items)
	require.Equal(t, "10", view.Data.DiscountPercent)
}

func TestCartTotalsView(t *testing.T) {
	_, router := newTestHandler(t)

	// p-1001 is 79.99; one unit under a 10% discount and 10% tax.
	rr, view := doJSON(t, router, http.MethodPost, "/cart/items", `{"productId":"p-1001"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "79.99", view.Data.Totals.Subtotal)
	require.Equal(t, "71.99", view.Data.Totals.DiscountedSubtotal)
	require.Equal(t, "7.20", view.Data.Totals.Tax)
	require.Equal(t, "79.19", view.Data.Totals.Total)
	require.Equal(t, "$79.99", view.Data.Totals.Display.Subtotal)
	require.Equal(t, "$79.19", view.Data.Totals.Display.Total)
}
