package catalog

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/noah-isme/dessert-shop/internal/pricing"
)

// ErrNotFound indicates the requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product describes a single catalog entry. The catalog is read-only at
// runtime; carts copy name, price, and image at add time.
type Product struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Price         pricing.Money `json:"price"`
	Image         string        `json:"image,omitempty"`
	Collection    string        `json:"collection"`
	PriceCategory string        `json:"priceCategory"`
}

// ListParams captures listing filters and ordering.
type ListParams struct {
	Collection    string
	PriceCategory string
	Sort          string
}

// Service serves the static product catalog.
type Service struct {
	products []Product
	byID     map[string]Product
}

// NewService indexes the provided products. Duplicate ids keep the first entry.
func NewService(products []Product) *Service {
	byID := make(map[string]Product, len(products))
	kept := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if _, exists := byID[p.ID]; exists {
			continue
		}
		byID[p.ID] = p
		kept = append(kept, p)
	}
	return &Service{products: kept, byID: byID}
}

// Get returns the product with the given id.
func (s *Service) Get(id string) (Product, error) {
	if s == nil {
		return Product{}, ErrNotFound
	}
	p, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

// List returns products matching the filters, ordered per params.Sort:
// "name" (default), "price-asc", or "price-desc".
func (s *Service) List(params ListParams) []Product {
	if s == nil {
		return nil
	}
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if params.Collection != "" && !strings.EqualFold(p.Collection, params.Collection) {
			continue
		}
		if params.PriceCategory != "" && !strings.EqualFold(p.PriceCategory, params.PriceCategory) {
			continue
		}
		out = append(out, p)
	}
	switch params.Sort {
	case "price-asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "price-desc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out
}

// ParseListParams extracts listing parameters from a URL query.
func ParseListParams(q url.Values) ListParams {
	return ListParams{
		Collection:    strings.TrimSpace(q.Get("collection")),
		PriceCategory: strings.TrimSpace(q.Get("price")),
		Sort:          strings.TrimSpace(q.Get("sort")),
	}
}
