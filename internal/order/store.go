package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/dessert-shop/internal/cart"
	"github.com/noah-isme/dessert-shop/internal/pricing"
)

// ErrNotFound indicates the requested order could not be located.
var ErrNotFound = errors.New("order not found")

// Status tracks the order lifecycle. Orders start pending and are confirmed
// by the background worker.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
)

// Contact identifies the person receiving the order.
type Contact struct {
	FullName string `json:"fullName" validate:"required,min=2"`
	Phone    string `json:"phone" validate:"required,min=5"`
	Email    string `json:"email" validate:"required,email"`
}

// Address is the delivery destination.
type Address struct {
	Province    string `json:"province" validate:"required"`
	City        string `json:"city" validate:"required"`
	AddressLine string `json:"addressLine" validate:"required"`
	PostalCode  string `json:"postalCode" validate:"required"`
	AddressType string `json:"addressType" validate:"omitempty,oneof=home office other"`
}

// Order is the persisted order document.
type Order struct {
	Number        string          `json:"number"`
	Status        Status          `json:"status"`
	CartID        string          `json:"cartId"`
	Items         []cart.Item     `json:"items"`
	Pricing       pricing.Summary `json:"pricing"`
	Currency      string          `json:"currency"`
	Contact       Contact         `json:"contact"`
	Address       Address         `json:"address"`
	Delivery      string          `json:"delivery"`
	PaymentMethod string          `json:"paymentMethod"`
	PromoCode     string          `json:"promoCode,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	ConfirmedAt   *time.Time      `json:"confirmedAt,omitempty"`
	// CartCleared records that the originating cart was wiped after
	// confirmation, so retries know whether that step still needs to run.
	CartCleared bool `json:"cartCleared,omitempty"`
}

const keyPrefix = "order:"

// Store persists order documents in Redis keyed by order number.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func (s *Store) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 30 * 24 * time.Hour
	}
	return s.TTL
}

// Save writes the order document, replacing any prior state.
func (s *Store) Save(ctx context.Context, o Order) error {
	if s == nil || s.R == nil {
		return errors.New("order store not configured")
	}
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return s.R.Set(ctx, keyPrefix+o.Number, data, s.ttl()).Err()
}

// Get loads the order with the given number.
func (s *Store) Get(ctx context.Context, number string) (Order, error) {
	if s == nil || s.R == nil {
		return Order{}, errors.New("order store not configured")
	}
	data, err := s.R.Get(ctx, keyPrefix+number).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	var o Order
	if err := json.Unmarshal(data, &o); err != nil {
		return Order{}, err
	}
	return o, nil
}
