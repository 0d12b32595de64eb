package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dessert-shop/internal/cart"
	"github.com/noah-isme/dessert-shop/internal/obs"
	"github.com/noah-isme/dessert-shop/internal/order"
)

func newTestConfirmer(t *testing.T) (*order.Confirmer, *order.Store, *cart.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	orders := &order.Store{R: client}
	carts := &cart.Store{R: client, Logger: zerolog.Nop()}
	confirmer := &order.Confirmer{
		Orders:  orders,
		Carts:   carts,
		Now:     func() time.Time { return time.Date(2026, 1, 15, 12, 5, 0, 0, time.UTC) },
		Logger:  zerolog.Nop(),
		Metrics: obs.NewDomainMetrics("dessert", prometheus.NewRegistry()),
	}
	return confirmer, orders, carts
}

func TestConfirmMarksOrderAndClearsCart(t *testing.T) {
	confirmer, orders, carts := newTestConfirmer(t)
	ctx := context.Background()

	require.NoError(t, carts.Save(ctx, "c1", []cart.Item{{ID: "tiramisu", Price: 10000, Quantity: 1}}))
	require.NoError(t, carts.SetAppliedPromo(ctx, "c1", "SWEET20"))
	require.NoError(t, orders.Save(ctx, sampleOrder("n1")))

	require.NoError(t, confirmer.Confirm(ctx, "n1", "c1"))

	got, err := orders.Get(ctx, "n1")
	require.NoError(t, err)
	require.Equal(t, order.StatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)
	require.True(t, got.CartCleared)

	items, err := carts.Load(ctx, "c1")
	require.NoError(t, err)
	require.Empty(t, items)
	code, err := carts.AppliedPromo(ctx, "c1")
	require.NoError(t, err)
	require.Empty(t, code)
}

func TestConfirmIsIdempotent(t *testing.T) {
	confirmer, orders, carts := newTestConfirmer(t)
	ctx := context.Background()

	require.NoError(t, orders.Save(ctx, sampleOrder("n1")))
	require.NoError(t, confirmer.Confirm(ctx, "n1", "c1"))

	first, err := orders.Get(ctx, "n1")
	require.NoError(t, err)

	// A new cart appearing between retries must survive the replay.
	require.NoError(t, carts.Save(ctx, "c1", []cart.Item{{ID: "brownie", Price: 4500, Quantity: 1}}))
	require.NoError(t, confirmer.Confirm(ctx, "n1", "c1"))

	second, err := orders.Get(ctx, "n1")
	require.NoError(t, err)
	require.Equal(t, first.ConfirmedAt, second.ConfirmedAt)

	items, err := carts.Load(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.Equal(t, float64(1), testutil.ToFloat64(confirmer.Metrics.OrdersConfirmed))
}

func TestConfirmResumesCartWipeOnRetry(t *testing.T) {
	confirmer, orders, carts := newTestConfirmer(t)
	ctx := context.Background()

	// An earlier attempt persisted the confirmation but died before the
	// cart wipe.
	confirmedAt := time.Date(2026, 1, 15, 12, 1, 0, 0, time.UTC)
	o := sampleOrder("n1")
	o.Status = order.StatusConfirmed
	o.ConfirmedAt = &confirmedAt
	require.NoError(t, orders.Save(ctx, o))
	require.NoError(t, carts.Save(ctx, "c1", []cart.Item{{ID: "tiramisu", Price: 10000, Quantity: 1}}))

	require.NoError(t, confirmer.Confirm(ctx, "n1", "c1"))

	got, err := orders.Get(ctx, "n1")
	require.NoError(t, err)
	require.True(t, got.CartCleared)
	require.Equal(t, &confirmedAt, got.ConfirmedAt)

	items, err := carts.Load(ctx, "c1")
	require.NoError(t, err)
	require.Empty(t, items)

	// Resuming the wipe is not a second confirmation.
	require.Equal(t, float64(0), testutil.ToFloat64(confirmer.Metrics.OrdersConfirmed))
}

func TestConfirmUnknownOrderIsDropped(t *testing.T) {
	confirmer, _, _ := newTestConfirmer(t)
	require.NoError(t, confirmer.Confirm(context.Background(), "missing", "c1"))
}
