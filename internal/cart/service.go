package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/dessert-shop/internal/catalog"
	"github.com/noah-isme/dessert-shop/internal/obs"
	"github.com/noah-isme/dessert-shop/internal/pricing"
	"github.com/noah-isme/dessert-shop/internal/promo"
)

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidCode indicates an empty or unknown promo code. The persisted promo
// state is left untouched when it is returned.
var ErrInvalidCode = errors.New("invalid promo code")

// Service encapsulates cart mutations and summary computation. Mutations
// follow a read-modify-write cycle against the Store; only mutations that
// actually change the sequence persist it.
type Service struct {
	Store   *Store
	Catalog *catalog.Service
	Promos  *promo.Registry
	Rates   pricing.Rates
	Logger  zerolog.Logger
	Metrics *obs.DomainMetrics
}

// AddItem adds a product to the cart or increments an existing line by qty.
// Name, price, and image are copied from the catalog at add time.
func (s *Service) AddItem(ctx context.Context, cartID, productID string, qty int) ([]Item, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("cart service not configured")
	}
	if qty <= 0 {
		qty = 1
	}
	product, err := s.Catalog.Get(productID)
	if err != nil {
		return nil, err
	}
	items, err := s.Store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].ID == product.ID {
			items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		items = append(items, Item{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Quantity: qty,
			Image:    product.Image,
		})
	}
	if err := s.Store.Save(ctx, cartID, items); err != nil {
		return nil, err
	}
	s.Metrics.MutatedCart(obs.OpAdd)
	return items, nil
}

// IncrementAt raises the quantity of the line at index by one. Out-of-range
// indexes are a silent no-op.
func (s *Service) IncrementAt(ctx context.Context, cartID string, index int) ([]Item, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("cart service not configured")
	}
	items, err := s.Store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		s.Logger.Debug().Str("cart_id", cartID).Int("index", index).Msg("increment index out of range")
		return items, nil
	}
	items[index].Quantity++
	if err := s.Store.Save(ctx, cartID, items); err != nil {
		return nil, err
	}
	s.Metrics.MutatedCart(obs.OpIncrease)
	return items, nil
}

// DecrementAt lowers the quantity of the line at index by one. The quantity
// floor is 1: decrementing at 1 is a no-op, never an implicit removal.
func (s *Service) DecrementAt(ctx context.Context, cartID string, index int) ([]Item, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("cart service not configured")
	}
	items, err := s.Store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		s.Logger.Debug().Str("cart_id", cartID).Int("index", index).Msg("decrement index out of range")
		return items, nil
	}
	if items[index].Quantity <= 1 {
		return items, nil
	}
	items[index].Quantity--
	if err := s.Store.Save(ctx, cartID, items); err != nil {
		return nil, err
	}
	s.Metrics.MutatedCart(obs.OpDecrease)
	return items, nil
}

// RemoveAt deletes the line at index. Out-of-range indexes are a silent no-op.
func (s *Service) RemoveAt(ctx context.Context, cartID string, index int) ([]Item, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("cart service not configured")
	}
	items, err := s.Store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		s.Logger.Debug().Str("cart_id", cartID).Int("index", index).Msg("remove index out of range")
		return items, nil
	}
	items = append(items[:index], items[index+1:]...)
	if err := s.Store.Save(ctx, cartID, items); err != nil {
		return nil, err
	}
	s.Metrics.MutatedCart(obs.OpRemove)
	return items, nil
}

// Clear empties the cart and its promo state.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	if s == nil || s.Store == nil {
		return errors.New("cart service not configured")
	}
	if err := s.Store.Clear(ctx, cartID); err != nil {
		return err
	}
	s.Metrics.MutatedCart(obs.OpClear)
	return nil
}

// ApplyPromo validates and persists a promo code for the cart. Invalid codes
// leave the persisted state unchanged.
func (s *Service) ApplyPromo(ctx context.Context, cartID, code string) (promo.Rule, error) {
	if s == nil || s.Store == nil {
		return promo.Rule{}, errors.New("cart service not configured")
	}
	rule, err := s.Promos.Resolve(code)
	if err != nil {
		s.Metrics.PromoApplication(obs.PromoRejected)
		return promo.Rule{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	if err := s.Store.SetAppliedPromo(ctx, cartID, rule.Code); err != nil {
		return promo.Rule{}, err
	}
	s.Metrics.PromoApplication(obs.PromoAccepted)
	return rule, nil
}

// RemovePromo clears the applied promo code.
func (s *Service) RemovePromo(ctx context.Context, cartID string) error {
	if s == nil || s.Store == nil {
		return errors.New("cart service not configured")
	}
	return s.Store.ClearPromo(ctx, cartID)
}

// Summary loads the cart and recomputes its order summary for the given
// delivery option. The summary is derived state, recomputed on every call. A
// persisted code that no longer resolves contributes no discount.
func (s *Service) Summary(ctx context.Context, cartID string, opt pricing.DeliveryOption) ([]Item, pricing.Summary, string, error) {
	if s == nil || s.Store == nil {
		return nil, pricing.Summary{}, "", errors.New("cart service not configured")
	}
	items, err := s.Store.Load(ctx, cartID)
	if err != nil {
		return nil, pricing.Summary{}, "", err
	}
	code, err := s.Store.AppliedPromo(ctx, cartID)
	if err != nil {
		return nil, pricing.Summary{}, "", err
	}
	pricingItems := make([]pricing.Item, 0, len(items))
	var subtotal pricing.Money
	for _, it := range items {
		pricingItems = append(pricingItems, pricing.Item{Qty: it.Quantity, UnitPrice: it.Price})
		subtotal += pricing.Money(it.Quantity) * it.Price
	}
	var discount pricing.Money
	if code != "" {
		if rule, err := s.Promos.Resolve(code); err == nil {
			discount = promo.Discount(subtotal, rule)
		} else {
			s.Logger.Warn().Str("cart_id", cartID).Str("code", code).Msg("applied promo code no longer resolves")
			code = ""
		}
	}
	summary := pricing.Compute(pricingItems, opt, discount, s.Rates)
	return items, summary, code, nil
}
