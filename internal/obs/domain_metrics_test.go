package obs_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/noah-isme/dessert-shop/internal/obs"
)

func TestDomainMetricsObservations(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewDomainMetrics("dessert", registry)

	metrics.MutatedCart(obs.OpAdd)
	metrics.MutatedCart(obs.OpAdd)
	metrics.MutatedCart(obs.OpRemove)
	metrics.PromoApplication(obs.PromoAccepted)
	metrics.PromoApplication(obs.PromoRejected)
	metrics.OrderPlaced()
	metrics.OrderConfirmed()

	if got := testutil.ToFloat64(metrics.CartMutations.WithLabelValues(obs.OpAdd)); got != 2 {
		t.Fatalf("expected 2 add mutations, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.CartMutations.WithLabelValues(obs.OpRemove)); got != 1 {
		t.Fatalf("expected 1 remove mutation, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.PromoApplications.WithLabelValues(obs.PromoAccepted)); got != 1 {
		t.Fatalf("expected 1 accepted promo, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.OrdersPlaced); got != 1 {
		t.Fatalf("expected 1 placed order, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.OrdersConfirmed); got != 1 {
		t.Fatalf("expected 1 confirmed order, got %v", got)
	}
}

func TestDomainMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *obs.DomainMetrics
	metrics.MutatedCart(obs.OpClear)
	metrics.PromoApplication(obs.PromoRejected)
	metrics.OrderPlaced()
	metrics.OrderConfirmed()
}

func TestNewDomainMetricsReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := obs.NewDomainMetrics("dessert", registry)
	second := obs.NewDomainMetrics("dessert", registry)

	first.MutatedCart(obs.OpAdd)
	second.MutatedCart(obs.OpAdd)

	if got := testutil.ToFloat64(first.CartMutations.WithLabelValues(obs.OpAdd)); got != 2 {
		t.Fatalf("expected shared collector with 2 observations, got %v", got)
	}
}
