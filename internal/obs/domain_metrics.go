package obs

import "github.com/prometheus/client_golang/prometheus"

// Cart mutation label values.
const (
	OpAdd      = "add"
	OpIncrease = "increase"
	OpDecrease = "decrease"
	OpRemove   = "remove"
	OpClear    = "clear"
)

// Promo application outcomes.
const (
	PromoAccepted = "accepted"
	PromoRejected = "rejected"
)

// DomainMetrics groups collectors for storefront events: cart activity,
// promo code usage, and the order pipeline.
type DomainMetrics struct {
	CartMutations     *prometheus.CounterVec
	PromoApplications *prometheus.CounterVec
	OrdersPlaced      prometheus.Counter
	OrdersConfirmed   prometheus.Counter
}

// NewDomainMetrics registers and returns the storefront collectors.
func NewDomainMetrics(namespace string, reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &DomainMetrics{
		CartMutations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of persisted cart mutations by operation.",
		}, []string{"op"})),
		PromoApplications: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_applications_total",
			Help:      "Count of promo code applications by outcome.",
		}, []string{"result"})),
		OrdersPlaced: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Total number of orders accepted at checkout.",
		})),
		OrdersConfirmed: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_confirmed_total",
			Help:      "Total number of orders confirmed by the worker.",
		})),
	}
}

// The observation helpers below are nil-safe so services can treat the
// metrics reference as optional.

// MutatedCart records a persisted cart mutation.
func (m *DomainMetrics) MutatedCart(op string) {
	if m == nil || m.CartMutations == nil {
		return
	}
	m.CartMutations.WithLabelValues(op).Inc()
}

// PromoApplication records a promo code application outcome.
func (m *DomainMetrics) PromoApplication(result string) {
	if m == nil || m.PromoApplications == nil {
		return
	}
	m.PromoApplications.WithLabelValues(result).Inc()
}

// OrderPlaced records an order accepted at checkout.
func (m *DomainMetrics) OrderPlaced() {
	if m == nil || m.OrdersPlaced == nil {
		return
	}
	m.OrdersPlaced.Inc()
}

// OrderConfirmed records a pending-to-confirmed transition.
func (m *DomainMetrics) OrderConfirmed() {
	if m == nil || m.OrdersConfirmed == nil {
		return
	}
	m.OrdersConfirmed.Inc()
}
