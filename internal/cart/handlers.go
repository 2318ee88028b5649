package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/shopfront/internal/catalog"
	"github.com/noah-isme/shopfront/internal/common"
	"github.com/noah-isme/shopfront/internal/obs"
	"github.com/noah-isme/shopfront/internal/pricing"
)

// DefaultCookieName identifies the cart session cookie.
const DefaultCookieName = "shopfront_cart"

// Handler wires the cart store to HTTP. It holds no business state: it
// reads snapshots from the engine and forwards intents verbatim.
type Handler struct {
	Store        *Store
	Provider     catalog.Provider
	Validate     *validator.Validate
	CookieName   string
	CookieTTL    time.Duration
	CookieSecure bool
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type lineView struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

type totalsView struct {
	Subtotal           string `json:"subtotal"`
	DiscountedSubtotal string `json:"discountedSubtotal"`
	Tax                string `json:"tax"`
	Total              string `json:"total"`
	Display            struct {
		Subtotal string `json:"subtotal"`
		Total    string `json:"total"`
	} `json:"display"`
}

type cartView struct {
	Items           []lineView `json:"items"`
	ItemCount       int        `json:"itemCount"`
	DiscountPercent string     `json:"discountPercent"`
	Totals          totalsView `json:"totals"`
}

// Get returns the cart snapshot with derived totals.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	h.renderCart(w, sid)
}

// AddItem resolves the product through the catalog provider and adds it to
// the cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	var payload addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productId is required", nil)
		return
	}
	product, err := h.Provider.Get(r.Context(), payload.ProductID)
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	if err := h.Store.Do(sid, func(e *Engine) { e.AddItem(product) }); err != nil {
		h.writeStoreError(w, err)
		return
	}
	countOp("add")
	h.renderCart(w, sid)
}

// UpdateQuantity sets a line's quantity. Zero or below removes the line;
// an unknown product is a no-op, matching the engine contract.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "productId")
	var payload updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "quantity is required", nil)
		return
	}
	if err := h.Store.Do(sid, func(e *Engine) { e.UpdateQuantity(productID, *payload.Quantity) }); err != nil {
		h.writeStoreError(w, err)
		return
	}
	countOp("set_quantity")
	h.renderCart(w, sid)
}

// RemoveItem deletes a line. Absent lines are a silent no-op.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "productId")
	if err := h.Store.Do(sid, func(e *Engine) { e.RemoveItem(productID) }); err != nil {
		h.writeStoreError(w, err)
		return
	}
	countOp("remove")
	h.renderCart(w, sid)
}

// Clear empties the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := h.Store.Do(sid, func(e *Engine) { e.Clear() }); err != nil {
		h.writeStoreError(w, err)
		return
	}
	countOp("clear")
	h.renderCart(w, sid)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := h.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	requested := ""
	if cookie, err := r.Cookie(name); err == nil {
		requested = cookie.Value
	}
	sid, err := h.Store.Ensure(requested)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to open cart session", nil)
		return "", false
	}
	if sid != requested {
		ttl := h.CookieTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    sid,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			Secure:   h.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sid, true
}

func (h *Handler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func (h *Handler) renderCart(w http.ResponseWriter, sid string) {
	var view cartView
	err := h.Store.Do(sid, func(e *Engine) {
		view = buildView(e)
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

func buildView(e *Engine) cartView {
	items := e.Items()
	lines := make([]lineView, 0, len(items))
	for _, item := range items {
		lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		lines = append(lines, lineView{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Image:     item.Product.Image,
			UnitPrice: item.Product.Price.StringFixed(2),
			Quantity:  item.Quantity,
			LineTotal: lineTotal.StringFixed(2),
		})
	}
	summary := e.Totals()
	totals := totalsView{
		Subtotal:           summary.Subtotal.StringFixed(2),
		DiscountedSubtotal: summary.DiscountedSubtotal.StringFixed(2),
		Tax:                summary.Tax.StringFixed(2),
		Total:              summary.Total.StringFixed(2),
	}
	totals.Display.Subtotal = pricing.FormatMoney(summary.Subtotal)
	totals.Display.Total = pricing.FormatMoney(summary.Total)
	return cartView{
		Items:           lines,
		ItemCount:       e.ItemCount(),
		DiscountPercent: e.DiscountPercent().String(),
		Totals:          totals,
	}
}

func (h *Handler) writeProviderError(w http.ResponseWriter, err error) {
	common.WriteError(w, providerAppError(err))
}

func providerAppError(err error) *common.AppError {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return common.NewAppError("NOT_FOUND", err.Error(), http.StatusNotFound, err)
	case errors.Is(err, catalog.ErrFetch):
		return common.NewAppError("UPSTREAM_UNAVAILABLE", "catalog source unavailable", http.StatusBadGateway, err)
	default:
		return common.NewAppError("INTERNAL", "unable to resolve product", http.StatusInternalServerError, err)
	}
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNoSession) {
		common.WriteError(w, common.NewAppError("NOT_FOUND", "cart session not found", http.StatusNotFound, err))
		return
	}
	common.WriteError(w, common.NewAppError("INTERNAL", "cart operation failed", http.StatusInternalServerError, err))
}

func countOp(op string) {
	if obs.CartOpsTotal != nil {
		obs.CartOpsTotal.WithLabelValues(op).Inc()
	}
}
