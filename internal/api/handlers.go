package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"loadplan/internal/model"
	"loadplan/internal/opt"
)

// LoadsHandler handles POST/GET /v1/loads
func (s *Server) LoadsHandler(w http.ResponseWriter, r *http.Request) {
	p := s.getPrincipal(r)
	switch r.Method {
	case http.MethodPost:
		if !p.CanPlan() {
			writeProblem(w, http.StatusForbidden, "Forbidden", "dispatcher or admin required", r.URL.Path)
			return
		}
		var req model.LoadsImport
		if err := decodeJSON(r, &req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		// validates ids and coordinates of the batch itself
		if _, err := opt.NewCatalog(req.Loads); err != nil {
			writeError(w, r, "Import loads failed", err)
			return
		}
		created, skipped, err := s.Store.CreateLoads(r.Context(), p.Tenant, req.Loads)
		if err != nil {
			writeError(w, r, "Import loads failed", err)
			return
		}
		writeJSON(w, http.StatusAccepted, model.LoadsImportResult{Created: created, Skipped: skipped})
	case http.MethodGet:
		items, next, err := s.Store.ListLoads(r.Context(), p.Tenant, r.URL.Query().Get("cursor"), queryLimit(r, 100))
		if err != nil {
			writeError(w, r, "List loads failed", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SolveHandler handles POST /v1/solve
func (s *Server) SolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.CanPlan() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "dispatcher or admin required", r.URL.Path)
		return
	}
	var req model.SolveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateSolveRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid solve request", err.Error(), r.URL.Path)
		return
	}
	cfg, cat, err := s.prepareSolve(r.Context(), p.Tenant, req)
	if err != nil {
		writeError(w, r, "Solve failed", err)
		return
	}

	if req.Async {
		plan, err := s.startAsync(r.Context(), p.Tenant, req.PlanDate, cfg, cat)
		if err != nil {
			writeError(w, r, "Solve failed", err)
			return
		}
		w.Header().Set("Location", "/v1/plans/"+plan.ID)
		writeJSON(w, http.StatusAccepted, plan)
		return
	}

	ctx, cancel := s.solveContext(r.Context())
	defer cancel()
	plan, err := s.runSolve(ctx, uuid.NewString(), p.Tenant, req.PlanDate, cfg, cat)
	if errors.Is(err, context.DeadlineExceeded) {
		writeProblem(w, http.StatusGatewayTimeout, "Solve timed out", err.Error(), r.URL.Path)
		return
	}
	if err != nil {
		writeError(w, r, "Solve failed", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// PlansHandler handles GET /v1/plans
func (s *Server) PlansHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	q := r.URL.Query()
	items, next, err := s.Store.ListPlans(r.Context(), p.Tenant, q.Get("planDate"), q.Get("cursor"), queryLimit(r, 50))
	if err != nil {
		writeError(w, r, "List plans failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// PlanByIDHandler handles GET /v1/plans/{id} and GET /v1/plans/{id}/events/stream
func (s *Server) PlanByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/plans/"), "/")
	parts := strings.Split(rest, "/")
	if parts[0] == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := parts[0]
	switch {
	case len(parts) == 1:
		p := s.getPrincipal(r)
		plan, err := s.Store.GetPlan(r.Context(), p.Tenant, id)
		if err != nil {
			writeError(w, r, "Get plan failed", err)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	case len(parts) == 3 && parts[1] == "events" && parts[2] == "stream":
		s.planEventsSSE(w, r, id)
	default:
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
	}
}

// SolverConfigHandler handles GET/PUT /v1/solver/config. PUT takes a partial
// object that is merged onto the tenant's current settings.
func (s *Server) SolverConfigHandler(w http.ResponseWriter, r *http.Request) {
	p := s.getPrincipal(r)
	switch r.Method {
	case http.MethodGet:
		cfg, err := s.tenantConfig(r.Context(), p.Tenant)
		if err != nil {
			writeError(w, r, "Get solver config failed", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"config": cfg})
	case http.MethodPut:
		if !p.IsAdmin() {
			writeProblem(w, http.StatusForbidden, "Forbidden", "admin required", r.URL.Path)
			return
		}
		var body struct {
			Config json.RawMessage `json:"config"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if len(body.Config) == 0 || string(body.Config) == "null" {
			writeProblem(w, http.StatusBadRequest, "Missing config", "", r.URL.Path)
			return
		}
		base, err := s.tenantConfig(r.Context(), p.Tenant)
		if err != nil {
			writeError(w, r, "Get solver config failed", err)
			return
		}
		cfg, err := mergeConfig(base, body.Config)
		if err == nil {
			err = s.checkLimits(cfg)
		}
		if err != nil {
			writeError(w, r, "Invalid configuration", err)
			return
		}
		if err := s.Store.SaveSolverConfig(r.Context(), p.Tenant, cfg); err != nil {
			writeError(w, r, "Save failed", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"config": cfg})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SubscriptionsHandler handles POST/GET /v1/subscriptions
func (s *Server) SubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	p := s.getPrincipal(r)
	if !p.IsAdmin() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin required", r.URL.Path)
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req model.SubscriptionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		req.TenantID = p.Tenant
		if err := validateSubscriptionRequest(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid subscription", err.Error(), r.URL.Path)
			return
		}
		sub, err := s.Store.CreateSubscription(r.Context(), req)
		if err != nil {
			writeError(w, r, "Create subscription failed", err)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	case http.MethodGet:
		items, next, err := s.Store.ListSubscriptions(r.Context(), p.Tenant, r.URL.Query().Get("cursor"), queryLimit(r, 100))
		if err != nil {
			writeError(w, r, "List subscriptions failed", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SubscriptionByIDHandler handles DELETE /v1/subscriptions/{id}
func (s *Server) SubscriptionByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.IsAdmin() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin required", r.URL.Path)
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/subscriptions/"), "/")
	if err := s.Store.DeleteSubscription(r.Context(), p.Tenant, id); err != nil {
		writeError(w, r, "Delete subscription failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WebhookDeliveriesHandler handles GET /v1/admin/webhook-deliveries
func (s *Server) WebhookDeliveriesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.IsAdmin() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin required", r.URL.Path)
		return
	}
	items, err := s.Store.ListWebhookDeliveries(r.Context(), p.Tenant, r.URL.Query().Get("status"), queryLimit(r, 100))
	if err != nil {
		writeError(w, r, "List deliveries failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// WebhookDeliveryRetryHandler handles POST /v1/admin/webhook-deliveries/{id}/retry
func (s *Server) WebhookDeliveryRetryHandler(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/retry") {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.IsAdmin() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin required", r.URL.Path)
		return
	}
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/admin/webhook-deliveries/"), "/retry")
	if err := s.Store.RetryWebhookDelivery(r.Context(), p.Tenant, id); err != nil {
		writeError(w, r, "Retry delivery failed", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"accepted": 1})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Not Ready", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
