package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(dbPoolConns) }

var dbPoolConns = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "db_pool_stats",
		Help: "Connections held by the subscriptions Postgres pool, by state.",
	},
	[]string{"state"}, // total|idle|in_use
)

// SetDBPoolStats publishes a pgxpool.Stat snapshot.
func SetDBPoolStats(total, idle, inUse int32) {
	for state, n := range map[string]int32{"total": total, "idle": idle, "in_use": inUse} {
		dbPoolConns.WithLabelValues(state).Set(float64(n))
	}
}
