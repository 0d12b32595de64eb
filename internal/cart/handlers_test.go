package cart_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/dessert-shop/internal/cart"
)

func newTestRouter(t *testing.T) (*chi.Mux, *cart.Service) {
	t.Helper()
	svc := newTestService(t)
	handler := &cart.Handler{Svc: svc, Currency: "RUB"}

	r := chi.NewRouter()
	r.Route("/api/v1/carts", func(c chi.Router) {
		c.Post("/", handler.Create)
		c.Get("/{id}", handler.Get)
		c.Post("/{id}/items", handler.AddItem)
		c.Patch("/{id}/items/{index}", handler.UpdateItem)
		c.Delete("/{id}/items/{index}", handler.RemoveItem)
		c.Delete("/{id}/items", handler.Clear)
		c.Post("/{id}/promo-code", handler.ApplyPromo)
		c.Delete("/{id}/promo-code", handler.RemovePromo)
	})
	return r, svc
}

type cartEnvelope struct {
	Data struct {
		ID    string `json:"id"`
		Items []struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
		Promo   *string `json:"promo"`
		Pricing struct {
			Subtotal int64 `json:"subtotal"`
			Shipping int64 `json:"shipping"`
			Discount int64 `json:"discount"`
			Total    int64 `json:"total"`
		} `json:"pricing"`
		Currency string `json:"currency"`
	} `json:"data"`
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, cartEnvelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	var env cartEnvelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func TestCreateCartMintsID(t *testing.T) {
	r, _ := newTestRouter(t)
	rr, _ := doJSON(t, r, http.MethodPost, "/api/v1/carts/", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data struct {
			CartID string `json:"cartId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.CartID == "" {
		t.Fatal("expected cart id")
	}
}

func TestAddItemAndGet(t *testing.T) {
	r, _ := newTestRouter(t)

	rr, env := doJSON(t, r, http.MethodPost, "/api/v1/carts/c1/items", `{"productId":"tiramisu","qty":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if len(env.Data.Items) != 1 || env.Data.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", env.Data.Items)
	}
	if env.Data.Pricing.Subtotal != 20000 || env.Data.Pricing.Shipping != 0 {
		t.Fatalf("unexpected pricing %+v", env.Data.Pricing)
	}
	if env.Data.Currency != "RUB" {
		t.Fatalf("unexpected currency %q", env.Data.Currency)
	}

	rr, env = doJSON(t, r, http.MethodGet, "/api/v1/carts/c1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if env.Data.Pricing.Total != 20000 {
		t.Fatalf("unexpected total %d", env.Data.Pricing.Total)
	}
}

func TestAddItemUnknownProductHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	rr, _ := doJSON(t, r, http.MethodPost, "/api/v1/carts/c1/items", `{"productId":"nope"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestUpdateItemActions(t *testing.T) {
	r, _ := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/v1/carts/c1/items", `{"productId":"macarons","qty":1}`)

	rr, env := doJSON(t, r, http.MethodPatch, "/api/v1/carts/c1/items/0", `{"action":"increase"}`)
	if rr.Code != http.StatusOK || env.Data.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d (status %d)", env.Data.Items[0].Quantity, rr.Code)
	}

	rr, env = doJSON(t, r, http.MethodPatch, "/api/v1/carts/c1/items/0", `{"action":"decrease"}`)
	if rr.Code != http.StatusOK || env.Data.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", env.Data.Items[0].Quantity)
	}

	// Quantity floor: decreasing at 1 leaves the line untouched.
	rr, env = doJSON(t, r, http.MethodPatch, "/api/v1/carts/c1/items/0", `{"action":"decrease"}`)
	if rr.Code != http.StatusOK || env.Data.Items[0].Quantity != 1 {
		t.Fatalf("expected floor at 1, got %d", env.Data.Items[0].Quantity)
	}

	// Out-of-range index is a silent no-op, not an error.
	rr, env = doJSON(t, r, http.MethodPatch, "/api/v1/carts/c1/items/99", `{"action":"increase"}`)
	if rr.Code != http.StatusOK || len(env.Data.Items) != 1 {
		t.Fatalf("expected unchanged cart, got status %d items %+v", rr.Code, env.Data.Items)
	}

	rr, _ = doJSON(t, r, http.MethodPatch, "/api/v1/carts/c1/items/0", `{"action":"drop"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", rr.Code)
	}

	rr, _ = doJSON(t, r, http.MethodPatch, "/api/v1/carts/c1/items/abc", `{"action":"increase"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric index, got %d", rr.Code)
	}
}

func TestRemoveItemAndClear(t *testing.T) {
	r, _ := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/v1/carts/c1/items", `{"productId":"tiramisu"}`)
	doJSON(t, r, http.MethodPost, "/api/v1/carts/c1/items", `{"productId":"macarons"}`)

	rr, env := doJSON(t, r, http.MethodDelete, "/api/v1/carts/c1/items/0", "")
	if rr.Code != http.StatusOK || len(env.Data.Items) != 1 {
		t.Fatalf("expected one item left, got %+v", env.Data.Items)
	}
	if env.Data.Items[0].ID != "macarons" {
		t.Fatalf("removed wrong line: %+v", env.Data.Items)
	}

	rr, env = doJSON(t, r, http.MethodDelete, "/api/v1/carts/c1/items", "")
	if rr.Code != http.StatusOK || len(env.Data.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", env.Data.Items)
	}
}

func TestPromoEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/v1/carts/c1/items", `{"productId":"tiramisu"}`)

	rr, env := doJSON(t, r, http.MethodPost, "/api/v1/carts/c1/promo-code", `{"code":"sweet20"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if env.Data.Promo == nil || *env.Data.Promo != "SWEET20" {
		t.Fatalf("unexpected promo %+v", env.Data.Promo)
	}
	if env.Data.Pricing.Discount != 2000 {
		t.Fatalf("unexpected discount %d", env.Data.Pricing.Discount)
	}

	rr, _ = doJSON(t, r, http.MethodPost, "/api/v1/carts/c1/promo-code", `{"code":"BOGUS"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid code, got %d", rr.Code)
	}

	// Failed application leaves the previous code in place.
	rr, env = doJSON(t, r, http.MethodGet, "/api/v1/carts/c1", "")
	if env.Data.Promo == nil || *env.Data.Promo != "SWEET20" {
		t.Fatalf("expected SWEET20 to survive, got %+v", env.Data.Promo)
	}

	rr, env = doJSON(t, r, http.MethodDelete, "/api/v1/carts/c1/promo-code", "")
	if rr.Code != http.StatusOK || env.Data.Promo != nil {
		t.Fatalf("expected promo removed, got %+v", env.Data.Promo)
	}
}

func TestInvalidDeliveryOption(t *testing.T) {
	r, _ := newTestRouter(t)
	rr, _ := doJSON(t, r, http.MethodGet, "/api/v1/carts/c1?delivery=teleport", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestDeliveryOptionAffectsShipping(t *testing.T) {
	r, _ := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/v1/carts/c1/items", `{"productId":"tiramisu","qty":2}`)

	// Subtotal 20000 qualifies for free standard shipping, but express keeps
	// its flat fee.
	rr, env := doJSON(t, r, http.MethodGet, "/api/v1/carts/c1?delivery=express", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if env.Data.Pricing.Shipping != 3000 || env.Data.Pricing.Total != 23000 {
		t.Fatalf("unexpected pricing %+v", env.Data.Pricing)
	}
}
