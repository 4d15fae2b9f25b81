package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loadplan/internal/metrics"
)

// Routes registers every endpoint on a fresh mux wrapped in authentication
// and request logging.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/loads", s.LoadsHandler)
	mux.HandleFunc("/v1/solve", s.rateLimit(s.SolveHandler))
	mux.HandleFunc("/v1/solver/config", s.SolverConfigHandler)

	mux.HandleFunc("/v1/plans", s.PlansHandler)
	mux.HandleFunc("/v1/plans/ws", s.PlanWSHandler)
	mux.HandleFunc("/v1/plans/", s.PlanByIDHandler) // includes /events/stream

	mux.HandleFunc("/v1/subscriptions", s.SubscriptionsHandler)
	mux.HandleFunc("/v1/subscriptions/", s.SubscriptionByIDHandler)
	mux.HandleFunc("/v1/admin/webhook-deliveries", s.WebhookDeliveriesHandler)
	mux.HandleFunc("/v1/admin/webhook-deliveries/", s.WebhookDeliveryRetryHandler)

	mux.HandleFunc("/healthz", s.HealthHandler)
	mux.HandleFunc("/readyz", s.ReadyHandler)
	mux.HandleFunc("/debug", s.DebugJSON)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(s.authenticate(mux))
}
