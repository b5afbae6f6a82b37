package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the ingestion and workflow-starter paths
var (
	ReviewsSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_submitted_total",
			Help: "Total number of review submissions accepted",
		},
	)

	ReviewsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_rejected_total",
			Help: "Total number of review submissions rejected by validation",
		},
	)

	ReviewEventsPublishedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "review_events_published_total",
			Help: "Total number of PutReview events published to the bus",
		},
	)

	ReviewEventsConsumedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "review_events_consumed_total",
			Help: "Total number of PutReview events consumed from the bus",
		},
	)

	WorkflowsStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "review_workflows_started_total",
			Help: "Total number of review workflows started",
		},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

// Register registers all metrics with the default registry.
func Register() {
	prometheus.MustRegister(
		ReviewsSubmittedTotal,
		ReviewsRejectedTotal,
		ReviewEventsPublishedTotal,
		ReviewEventsConsumedTotal,
		WorkflowsStartedTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
