package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/dessert-shop/internal/common"
)

// Handler exposes order lookup over HTTP.
type Handler struct {
	Store *Store
}

// Get handles GET /api/v1/orders/{number}. Clients poll it to observe the
// pending-to-confirmed transition.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order store not configured", nil)
		return
	}
	number := chi.URLParam(r, "number")
	o, err := h.Store.Get(r.Context(), number)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load order", nil)
		return
	}
	common.JSONData(w, http.StatusOK, o)
}
