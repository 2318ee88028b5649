package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/shopfront/internal/common"
)

// Handler wires the catalog service to HTTP.
type Handler struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// Products returns the product list together with the loader status. The
// response always carries a status and an "error message or null" field so
// the client never sees a raw failure.
func (h *Handler) Products(w http.ResponseWriter, _ *http.Request) {
	snap := h.Service.Products()
	var errMsg *string
	if snap.Err != "" {
		errMsg = &snap.Err
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": snap.Products,
		"meta": map[string]any{
			"status": snap.State,
			"error":  errMsg,
		},
	})
}

// ProductDetail returns a single product by identifier.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.Service.Product(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": product})
}

// Status reports the loader state for dashboards and probes.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	snap := h.Service.Products()
	var errMsg *string
	if snap.Err != "" {
		errMsg = &snap.Err
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"status":   snap.State,
			"error":    errMsg,
			"products": len(snap.Products),
		},
	})
}

// Reload re-activates the catalog loader.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	h.Service.Reload(r.Context())
	common.JSON(w, http.StatusAccepted, map[string]any{
		"data": map[string]any{"status": StateLoading},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	common.WriteError(w, appError(err))
}

func appError(err error) *common.AppError {
	switch {
	case errors.Is(err, ErrNotFound):
		return common.NewAppError("NOT_FOUND", err.Error(), http.StatusNotFound, err)
	case errors.Is(err, ErrFetch):
		return common.NewAppError("UPSTREAM_UNAVAILABLE", "catalog source unavailable", http.StatusBadGateway, err)
	default:
		return common.NewAppError("INTERNAL", "unable to load product", http.StatusInternalServerError, err)
	}
}
