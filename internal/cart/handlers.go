package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/dessert-shop/internal/catalog"
	"github.com/noah-isme/dessert-shop/internal/common"
	"github.com/noah-isme/dessert-shop/internal/pricing"
)

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc      *Service
	Currency string
}

// Create mints a cart identifier. Carts materialize in the store on first
// write, so this never touches Redis.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	common.JSONData(w, http.StatusCreated, map[string]any{"cartId": uuid.NewString()})
}

// Get returns cart contents and the recomputed order summary. The delivery
// option for the summary preview comes from the ?delivery query parameter and
// defaults to standard.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	h.render(w, r, chi.URLParam(r, "id"))
}

// AddItem adds or increments a line by product id.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID := chi.URLParam(r, "id")
	var payload struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.ProductID = strings.TrimSpace(payload.ProductID)
	if payload.ProductID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productId is required", nil)
		return
	}
	if _, err := h.Svc.AddItem(r.Context(), cartID, payload.ProductID, payload.Qty); err != nil {
		h.writeError(w, err)
		return
	}
	h.render(w, r, cartID)
}

// UpdateItem adjusts the quantity of the line at the given index. The action
// is "increase" or "decrease"; out-of-range indexes and decrements at the
// quantity floor leave the cart unchanged.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item index", nil)
		return
	}
	var payload struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	switch strings.ToLower(strings.TrimSpace(payload.Action)) {
	case "increase":
		_, err = h.Svc.IncrementAt(r.Context(), cartID, index)
	case "decrease":
		_, err = h.Svc.DecrementAt(r.Context(), cartID, index)
	default:
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "action must be increase or decrease", nil)
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.render(w, r, cartID)
}

// RemoveItem deletes the line at the given index.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item index", nil)
		return
	}
	if _, err := h.Svc.RemoveAt(r.Context(), cartID, index); err != nil {
		h.writeError(w, err)
		return
	}
	h.render(w, r, cartID)
}

// Clear empties the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID := chi.URLParam(r, "id")
	if err := h.Svc.Clear(r.Context(), cartID); err != nil {
		h.writeError(w, err)
		return
	}
	h.render(w, r, cartID)
}

// ApplyPromo applies a promo code to the cart.
func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID := chi.URLParam(r, "id")
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if _, err := h.Svc.ApplyPromo(r.Context(), cartID, payload.Code); err != nil {
		h.writeError(w, err)
		return
	}
	h.render(w, r, cartID)
}

// RemovePromo removes the applied promo code from the cart.
func (h *Handler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	cartID := chi.URLParam(r, "id")
	if err := h.Svc.RemovePromo(r.Context(), cartID); err != nil {
		h.writeError(w, err)
		return
	}
	h.render(w, r, cartID)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, cartID string) {
	opt, err := pricing.ParseDeliveryOption(r.URL.Query().Get("delivery"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid delivery option", nil)
		return
	}
	items, summary, code, err := h.Svc.Summary(r.Context(), cartID, opt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var promoField *string
	if code != "" {
		promoField = &code
	}
	common.JSONData(w, http.StatusOK, map[string]any{
		"id":       cartID,
		"items":    items,
		"promo":    promoField,
		"delivery": opt,
		"pricing": map[string]any{
			"subtotal": summary.Subtotal,
			"shipping": summary.Shipping,
			"discount": summary.Discount,
			"total":    summary.Total,
		},
		"currency": h.Currency,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		code := appErr.Code
		if code == "" {
			code = "BAD_REQUEST"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case errors.Is(err, ErrInvalidCode):
		common.JSONError(w, http.StatusBadRequest, "INVALID_PROMO_CODE", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, catalog.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
