package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noah-isme/dessert-shop/internal/common"
)

// Handler wires checkout to HTTP.
type Handler struct {
	Svc *Service
}

// Create handles POST /api/v1/checkout.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	out, err := h.Svc.PlaceOrder(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			common.JSONError(w, http.StatusConflict, "CART_EMPTY", "cart has no items to check out", nil)
		case errors.Is(err, ErrInvalidInput):
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		default:
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to place order", nil)
		}
		return
	}
	common.JSONData(w, http.StatusCreated, out)
}
