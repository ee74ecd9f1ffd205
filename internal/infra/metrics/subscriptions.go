package metrics

import (
	"subscription-tracker/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		validationsTotal,
		subscriptionsCreatedTotal,
		subscriptionsExpiredOnCreateTotal,
		subscriptionsTotal,
	)
}

var (
	validationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_validations_total",
			Help: "Subscription validations by result and failure kind.",
		},
		[]string{"result", "kind"}, // result: 'ok' | 'rejected'
	)

	subscriptionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_created_total",
			Help: "Total number of subscriptions persisted.",
		},
	)

	subscriptionsExpiredOnCreateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_on_create_total",
			Help: "Subscriptions marked expired on save because their derived renewal date had passed.",
		},
	)

	subscriptionsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "subscriptions_total",
			Help: "Current number of subscriptions by status.",
		},
		[]string{"status"}, // 'active', 'cancelled', 'expired'
	)
)

func IncValidation(result, kind string) {
	validationsTotal.WithLabelValues(norm(result), norm(kind)).Inc()
}

// IncSubscriptionsCreated counts a saved subscription; expiryInferred marks
// one whose status was set to expired from its derived renewal date.
func IncSubscriptionsCreated(expiryInferred bool) {
	subscriptionsCreatedTotal.Inc()
	if expiryInferred {
		subscriptionsExpiredOnCreateTotal.Inc()
	}
}

func SetSubscriptionsTotal(counts map[model.SubscriptionStatus]int) {
	for _, status := range model.Statuses {
		subscriptionsTotal.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}
