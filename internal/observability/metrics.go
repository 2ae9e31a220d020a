package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	AICallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "ai_calls_total",
		Help:      "Gateway calls by response mode and error code.",
	}, []string{"mode", "error"})

	AICallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portal",
		Name:      "ai_call_duration_seconds",
		Help:      "Gateway call latency.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 25, 45},
	}, []string{"search"})

	FallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "fallbacks_total",
		Help:      "Locally computed answers served instead of live ones.",
	}, []string{"component", "error"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		AICallsTotal,
		AICallDuration,
		FallbacksTotal,
		HTTPRequestsTotal,
	)
}

// MetricsHandler serves the service registry in the Prometheus text format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
