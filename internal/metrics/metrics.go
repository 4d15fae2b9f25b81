package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SolveRuns counts solver runs by outcome (ok, invalid, cancelled, error)
	SolveRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "loadplan_solve_runs_total", Help: "Solver runs by outcome."},
		[]string{"outcome"},
	)
	// SolveDuration records wall time of a full solve in seconds
	SolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "loadplan_solve_duration_seconds", Help: "Solve duration in seconds.", Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}},
	)
	SolveGenerations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "loadplan_generations_total", Help: "Generations evolved across all solves."},
	)
	// PlanCost observes the total route cost of completed plans
	PlanCost = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "loadplan_plan_cost", Help: "Total route cost of completed plans.", Buckets: prometheus.ExponentialBuckets(10, 2, 14)},
	)
	PlanRoutes = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "loadplan_plan_routes", Help: "Routes per completed plan.", Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 55}},
	)
	// OverflowRoutes counts single-load routes emitted over the time budget
	OverflowRoutes = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "loadplan_overflow_routes_total", Help: "Single-load routes exceeding the route time budget."},
	)

	// WebhookDeliveries counts webhook delivery outcomes by event type and status
	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "webhook_deliveries_total", Help: "Webhook deliveries by event type and status."},
		[]string{"event_type", "status"},
	)
	// WebhookLatency tracks webhook delivery latencies in milliseconds
	WebhookLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "webhook_delivery_latency_ms", Help: "Webhook delivery latency in ms.", Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000}},
		[]string{"event_type", "status"},
	)
)

// RegisterDefault registers collectors to Registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests, HTTPDuration)
		Registry.MustRegister(SolveRuns, SolveDuration, SolveGenerations, PlanCost, PlanRoutes, OverflowRoutes)
		Registry.MustRegister(WebhookDeliveries, WebhookLatency)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
