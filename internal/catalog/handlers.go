package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/dessert-shop/internal/common"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	Service *Service
}

// Products handles GET /api/v1/products with filters and sorting.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	products := h.Service.List(ParseListParams(r.URL.Query()))
	common.JSONData(w, http.StatusOK, products)
}

// ProductDetail handles GET /api/v1/products/{id}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	product, err := h.Service.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load product", nil)
		return
	}
	common.JSONData(w, http.StatusOK, product)
}
