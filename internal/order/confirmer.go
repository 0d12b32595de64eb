package order

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/dessert-shop/internal/cart"
	"github.com/noah-isme/dessert-shop/internal/obs"
)

// Confirmer finalizes pending orders. The cart and its promo state are
// cleared only after the confirmed order has been persisted; the CartCleared
// marker on the order keeps a crash between the two steps recoverable
// without losing the order or wiping a cart id that has since been reused.
type Confirmer struct {
	Orders  *Store
	Carts   *cart.Store
	Now     func() time.Time
	Logger  zerolog.Logger
	Metrics *obs.DomainMetrics
}

func (c *Confirmer) now() time.Time {
	if c != nil && c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Confirm transitions the order to CONFIRMED and clears the originating
// cart. Each step is recorded on the order document, so a retry resumes
// where the previous attempt stopped: a fully processed order is a no-op,
// and a confirmed order whose cart wipe failed gets the wipe replayed
// without touching the confirmation timestamp.
func (c *Confirmer) Confirm(ctx context.Context, number, cartID string) error {
	if c == nil || c.Orders == nil || c.Carts == nil {
		return errors.New("order confirmer not configured")
	}
	o, err := c.Orders.Get(ctx, number)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.Logger.Error().Str("order", number).Msg("confirmation for unknown order dropped")
			return nil
		}
		return err
	}
	if o.Status == StatusConfirmed && o.CartCleared {
		return nil
	}
	if o.Status != StatusConfirmed {
		confirmedAt := c.now()
		o.Status = StatusConfirmed
		o.ConfirmedAt = &confirmedAt
		if err := c.Orders.Save(ctx, o); err != nil {
			return err
		}
		c.Metrics.OrderConfirmed()
	}
	if err := c.Carts.Clear(ctx, cartID); err != nil {
		return err
	}
	o.CartCleared = true
	if err := c.Orders.Save(ctx, o); err != nil {
		return err
	}
	c.Logger.Info().Str("order", number).Str("cart_id", cartID).Msg("order confirmed")
	return nil
}
