package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/dessert-shop/internal/pricing"
	"github.com/noah-isme/dessert-shop/internal/promo"
)

// Item is a single cart line. Ids are unique within a cart; quantity never
// drops below 1 except by explicit removal of the whole line.
type Item struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Price    pricing.Money `json:"price"`
	Quantity int           `json:"quantity"`
	Image    string        `json:"image,omitempty"`
}

const (
	itemsKeyPrefix = "dessertCart:"
	promoKeyPrefix = "appliedPromoCode:"
)

// Store persists cart state in Redis under two logical keys per cart: the
// JSON-encoded line items and the applied promo code. There is no partial
// update; callers read the full sequence, mutate a copy, and write it back.
type Store struct {
	R      *redis.Client
	TTL    time.Duration
	Logger zerolog.Logger
}

func (s *Store) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

// Load returns the cart line items. A missing or malformed value yields an
// empty cart; parse failures are never propagated to callers.
func (s *Store) Load(ctx context.Context, cartID string) ([]Item, error) {
	if s == nil || s.R == nil {
		return nil, errors.New("cart store not configured")
	}
	data, err := s.R.Get(ctx, itemsKeyPrefix+cartID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Item{}, nil
		}
		return nil, err
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		s.Logger.Warn().Str("cart_id", cartID).Err(err).Msg("malformed cart payload, treating as empty")
		return []Item{}, nil
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Save replaces the persisted sequence and refreshes the cart TTL.
func (s *Store) Save(ctx context.Context, cartID string, items []Item) error {
	if s == nil || s.R == nil {
		return errors.New("cart store not configured")
	}
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.R.Set(ctx, itemsKeyPrefix+cartID, data, s.ttl()).Err()
}

// AppliedPromo returns the normalized promo code applied to the cart, or the
// empty string when none is set.
func (s *Store) AppliedPromo(ctx context.Context, cartID string) (string, error) {
	if s == nil || s.R == nil {
		return "", errors.New("cart store not configured")
	}
	code, err := s.R.Get(ctx, promoKeyPrefix+cartID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return promo.Normalize(code), nil
}

// SetAppliedPromo persists the active promo code for the cart.
func (s *Store) SetAppliedPromo(ctx context.Context, cartID, code string) error {
	if s == nil || s.R == nil {
		return errors.New("cart store not configured")
	}
	return s.R.Set(ctx, promoKeyPrefix+cartID, promo.Normalize(code), s.ttl()).Err()
}

// ClearPromo removes the applied promo code.
func (s *Store) ClearPromo(ctx context.Context, cartID string) error {
	if s == nil || s.R == nil {
		return errors.New("cart store not configured")
	}
	return s.R.Del(ctx, promoKeyPrefix+cartID).Err()
}

// Clear removes the cart and its promo state. Called exactly once per order,
// after the order is confirmed.
func (s *Store) Clear(ctx context.Context, cartID string) error {
	if s == nil || s.R == nil {
		return errors.New("cart store not configured")
	}
	return s.R.Del(ctx, itemsKeyPrefix+cartID, promoKeyPrefix+cartID).Err()
}
