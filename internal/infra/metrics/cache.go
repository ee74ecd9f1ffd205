package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(subscriptionCacheRequestsTotal) }

var subscriptionCacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "Redis lookups in front of the subscription store, by outcome.",
	},
	[]string{"cache", "result"}, // cache="subscription", result="hit"|"miss"
)

// IncCacheRequest counts one lookup against the named cache.
func IncCacheRequest(cacheName, result string) {
	subscriptionCacheRequestsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}
