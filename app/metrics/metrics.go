package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Callback results.
const (
	CallbackPaid      = "paid"
	CallbackFailed    = "failed"
	CallbackDuplicate = "duplicate"
	CallbackRejected  = "rejected"
	CallbackMalformed = "malformed"
)

var (
	callbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_callbacks_total",
		Help:      "Bank payment callbacks by result.",
	}, []string{"result"})

	ordersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders created from carts.",
	})

	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_notifications_total",
		Help:      "Order confirmation deliveries by result.",
	}, []string{"result"})

	bankRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bank_api_requests_total",
		Help:      "Direct bank API calls by result.",
	}, []string{"result"})
)

func ObserveCallback(result string) {
	callbacksTotal.WithLabelValues(result).Inc()
}

func ObserveOrderCreated() {
	ordersCreatedTotal.Inc()
}

func ObserveNotification(sent bool) {
	if sent {
		notificationsTotal.WithLabelValues("sent").Inc()
		return
	}
	notificationsTotal.WithLabelValues("failed").Inc()
}

func ObserveBankRequest(result string) {
	bankRequestsTotal.WithLabelValues(result).Inc()
}
