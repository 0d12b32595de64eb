package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/dessert-shop/internal/cart"
	"github.com/noah-isme/dessert-shop/internal/obs"
	"github.com/noah-isme/dessert-shop/internal/order"
	"github.com/noah-isme/dessert-shop/internal/pricing"
	"github.com/noah-isme/dessert-shop/internal/queue"
)

// ErrEmptyCart blocks checkout when the cart holds no line items.
var ErrEmptyCart = errors.New("cart is empty")

// ErrInvalidInput is returned for payloads that fail validation.
var ErrInvalidInput = errors.New("invalid checkout input")

// Input is the checkout form payload.
type Input struct {
	CartID        string        `json:"cartId" validate:"required"`
	Contact       order.Contact `json:"contact" validate:"required"`
	Address       order.Address `json:"address" validate:"required"`
	Delivery      string        `json:"delivery"`
	PaymentMethod string        `json:"paymentMethod" validate:"required,oneof=card cash-on-delivery wallet"`
	Notes         string        `json:"notes" validate:"max=500"`
}

// Output acknowledges a placed order.
type Output struct {
	OrderNumber string       `json:"orderNumber"`
	Status      order.Status `json:"status"`
	Total       int64        `json:"total"`
}

// TaskEnqueuer schedules the post-checkout confirmation work.
type TaskEnqueuer interface {
	EnqueueConfirm(ctx context.Context, p queue.ConfirmPayload) error
}

// Service places orders. An order is persisted as PENDING and handed to the
// background worker; the cart survives until the worker confirms the order.
type Service struct {
	Carts    *cart.Service
	Orders   *order.Store
	Tasks    TaskEnqueuer
	Validate *validator.Validate
	Currency string
	Metrics  *obs.DomainMetrics
	Now      func() time.Time
	// IntN returns a random int in [0, n); overridable for tests.
	IntN func(n int) int
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) intN(n int) int {
	if s != nil && s.IntN != nil {
		return s.IntN(n)
	}
	return rand.Intn(n)
}

// PlaceOrder validates the input, snapshots the cart into an order, and
// schedules its confirmation.
func (s *Service) PlaceOrder(ctx context.Context, in Input) (Output, error) {
	if s == nil || s.Carts == nil || s.Orders == nil || s.Tasks == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	if err := s.validate(in); err != nil {
		return Output{}, err
	}
	opt, err := pricing.ParseDeliveryOption(in.Delivery)
	if err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	items, summary, promoCode, err := s.Carts.Summary(ctx, in.CartID, opt)
	if err != nil {
		return Output{}, err
	}
	if len(items) == 0 {
		return Output{}, ErrEmptyCart
	}

	now := s.now()
	o := order.Order{
		Number:        s.orderNumber(now),
		Status:        order.StatusPending,
		CartID:        in.CartID,
		Items:         items,
		Pricing:       summary,
		Currency:      s.Currency,
		Contact:       in.Contact,
		Address:       in.Address,
		Delivery:      string(opt),
		PaymentMethod: in.PaymentMethod,
		PromoCode:     promoCode,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
	}
	if err := s.Orders.Save(ctx, o); err != nil {
		return Output{}, err
	}
	if err := s.Tasks.EnqueueConfirm(ctx, queue.ConfirmPayload{OrderNumber: o.Number, CartID: in.CartID}); err != nil {
		return Output{}, fmt.Errorf("enqueue confirmation: %w", err)
	}
	s.Metrics.OrderPlaced()
	return Output{OrderNumber: o.Number, Status: o.Status, Total: summary.Total}, nil
}

func (s *Service) validate(in Input) error {
	v := s.Validate
	if v == nil {
		v = validator.New()
	}
	if err := v.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				details[fe.Namespace()] = fe.Tag()
			}
			return fmt.Errorf("%w: %v", ErrInvalidInput, details)
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// orderNumber produces a date-prefixed number, e.g. 202601154821.
func (s *Service) orderNumber(now time.Time) string {
	return fmt.Sprintf("%s%04d", now.Format("20060102"), s.intN(10000))
}
