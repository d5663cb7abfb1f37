package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_tailor"

// Registry holds every collector exported at /metrics
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// HTTPRequests counts served requests by method, route pattern and status code
	HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by method and route pattern
	HTTPDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LLMRequests counts LLM calls by operation and outcome (ok|error|empty)
	LLMRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_requests_total",
		Help:      "LLM completion requests.",
	}, []string{"operation", "outcome"})

	// LLMDuration observes LLM latency by operation
	LLMDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_request_duration_seconds",
		Help:      "LLM completion latency.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"operation"})

	// DocumentsGenerated counts rendered documents by kind (resume|cover_letter) and format (pdf|docx)
	DocumentsGenerated = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_generated_total",
		Help:      "Generated documents.",
	}, []string{"kind", "format"})

	// RateLimitHits counts rejected requests by endpoint
	RateLimitHits = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_hits_total",
		Help:      "Requests rejected by the rate limiter.",
	}, []string{"endpoint"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// MetricsHandler serves the registry in the Prometheus exposition format
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
