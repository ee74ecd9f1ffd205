package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(batchJobsProcessedTotal) }

var batchJobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "batch_validation_jobs_total",
		Help: "Total number of records processed by batch validation, labeled by status.",
	},
	[]string{"status"}, // 'valid', 'invalid', 'cancelled'
)

func IncBatchJob(status string) {
	batchJobsProcessedTotal.WithLabelValues(norm(status)).Inc()
}
