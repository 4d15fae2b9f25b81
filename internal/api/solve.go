package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"loadplan/internal/metrics"
	"loadplan/internal/model"
	"loadplan/internal/opt"
	"loadplan/internal/platform/obs"
	"loadplan/internal/store"
	"loadplan/internal/webhooks"
)

// tenantConfig returns the tenant's saved solver defaults, or the server
// defaults when the tenant has none.
func (s *Server) tenantConfig(ctx context.Context, tenant string) (opt.Config, error) {
	cfg, err := s.Store.GetSolverConfig(ctx, tenant)
	if errors.Is(err, store.ErrNotFound) {
		return s.Solver, nil
	}
	return cfg, err
}

// mergeConfig applies a partial JSON object onto base and validates the result.
func mergeConfig(base opt.Config, override json.RawMessage) (opt.Config, error) {
	cfg := base
	if len(override) > 0 && string(override) != "null" {
		if err := json.Unmarshal(override, &cfg); err != nil {
			return opt.Config{}, fmt.Errorf("config: %v: %w", err, opt.ErrInvalidConfiguration)
		}
	}
	if err := cfg.Validate(); err != nil {
		return opt.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// checkLimits enforces the server's caps on population and generation counts.
func (s *Server) checkLimits(cfg opt.Config) error {
	if s.Cfg.MaxPopulation > 0 && cfg.PopulationSize > s.Cfg.MaxPopulation {
		return fmt.Errorf("populationSize %d exceeds server limit %d: %w", cfg.PopulationSize, s.Cfg.MaxPopulation, opt.ErrInvalidConfiguration)
	}
	if s.Cfg.MaxGenerations > 0 && cfg.Generations > s.Cfg.MaxGenerations {
		return fmt.Errorf("generations %d exceeds server limit %d: %w", cfg.Generations, s.Cfg.MaxGenerations, opt.ErrInvalidConfiguration)
	}
	return nil
}

// prepareSolve resolves the configuration and the catalog for a request.
func (s *Server) prepareSolve(ctx context.Context, tenant string, req model.SolveRequest) (opt.Config, *opt.Catalog, error) {
	base, err := s.tenantConfig(ctx, tenant)
	if err != nil {
		return opt.Config{}, nil, err
	}
	cfg, err := mergeConfig(base, req.Config)
	if err != nil {
		return opt.Config{}, nil, err
	}
	if err := s.checkLimits(cfg); err != nil {
		return opt.Config{}, nil, err
	}
	// pin the seed so the stored plan can be reproduced
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	loads := req.Loads
	if len(loads) == 0 {
		loads, err = s.Store.AllLoads(ctx, tenant)
		if err != nil {
			return opt.Config{}, nil, err
		}
	}
	cat, err := opt.NewCatalog(loads)
	if err != nil {
		return opt.Config{}, nil, err
	}
	return cfg, cat, nil
}

// runSolve runs the engine for one plan, publishing progress to the broker,
// then persists the plan and notifies subscribers. A failed run is persisted
// with status failed.
func (s *Server) runSolve(ctx context.Context, planID, tenant, planDate string, cfg opt.Config, cat *opt.Catalog) (plan model.Plan, err error) {
	ctx = obs.WithPlanID(ctx, planID)
	defer obs.Time(ctx, "solve")(&err)
	start := time.Now()

	eng, err := opt.New(cfg, opt.NewRand(cfg.Seed))
	if err != nil {
		return model.Plan{}, err
	}
	every := max(cfg.SnapshotEvery, 1)
	eng.Observe(func(st opt.GenerationStats) {
		metrics.SolveGenerations.Inc()
		if st.Generation%every != 0 && st.Generation != cfg.Generations {
			return
		}
		s.Broker.Publish(planID, Event{Type: EventPlanGeneration, Data: map[string]any{
			"planId":      planID,
			"generation":  st.Generation,
			"generations": cfg.Generations,
			"best":        st.Best,
			"mean":        st.Mean,
			"worst":       st.Worst,
		}})
	})

	sol, m, err := eng.Solve(ctx, cat)
	metrics.SolveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SolveRuns.WithLabelValues(solveOutcome(err)).Inc()
		s.failPlan(planID, tenant, planDate, cfg, err)
		return model.Plan{}, err
	}

	plan = model.NewPlan(planID, tenant, planDate, cfg, sol, m)
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Store.SavePlan(saveCtx, plan); err != nil {
		metrics.SolveRuns.WithLabelValues("error").Inc()
		return model.Plan{}, fmt.Errorf("save plan: %w", err)
	}
	metrics.SolveRuns.WithLabelValues("ok").Inc()
	metrics.PlanCost.Observe(plan.TotalCost)
	metrics.PlanRoutes.Observe(float64(len(plan.Routes)))
	metrics.OverflowRoutes.Add(float64(plan.Metrics.OverflowCount))

	summary := planSummary(plan)
	s.Broker.Publish(planID, Event{Type: EventPlanCompleted, Data: summary})
	s.Pub.Emit(saveCtx, tenant, webhooks.EventPlanCompleted, summary)
	return plan, nil
}

func (s *Server) failPlan(planID, tenant, planDate string, cfg opt.Config, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := model.Plan{ID: planID, TenantID: tenant, PlanDate: planDate, Status: model.PlanFailed, Routes: []model.PlanRoute{}, Config: cfg, Error: cause.Error(), CreatedAt: time.Now().UTC()}
	if old, err := s.Store.GetPlan(ctx, tenant, planID); err == nil {
		p.CreatedAt = old.CreatedAt
	}
	if err := s.Store.SavePlan(ctx, p); err != nil {
		log.Printf("plan_id=%s save failed plan err=%v", planID, err)
	}
	s.Broker.Publish(planID, Event{Type: EventPlanFailed, Data: map[string]any{"planId": planID, "error": cause.Error()}})
}

// startAsync records a running plan and solves it in the background.
func (s *Server) startAsync(ctx context.Context, tenant, planDate string, cfg opt.Config, cat *opt.Catalog) (model.Plan, error) {
	p := model.Plan{ID: uuid.NewString(), TenantID: tenant, PlanDate: planDate, Status: model.PlanRunning, Routes: []model.PlanRoute{}, Config: cfg, CreatedAt: time.Now().UTC()}
	if err := s.Store.SavePlan(ctx, p); err != nil {
		return model.Plan{}, err
	}
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		runCtx, cancel := s.solveContext(s.bgCtx)
		defer cancel()
		_, _ = s.runSolve(runCtx, p.ID, tenant, planDate, cfg, cat)
	}()
	return p, nil
}

func (s *Server) solveContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.Cfg.SolveTimeout > 0 {
		return context.WithTimeout(parent, s.Cfg.SolveTimeout)
	}
	return context.WithCancel(parent)
}

func solveOutcome(err error) string {
	switch {
	case errors.Is(err, opt.ErrInvalidInput), errors.Is(err, opt.ErrInvalidConfiguration), errors.Is(err, opt.ErrArithmeticDegenerate):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "error"
}

func planSummary(p model.Plan) map[string]any {
	routes := make([][]int, len(p.Routes))
	for i, r := range p.Routes {
		routes[i] = r.LoadIDs
	}
	return map[string]any{
		"planId":        p.ID,
		"planDate":      p.PlanDate,
		"status":        p.Status,
		"routes":        routes,
		"totalCost":     p.TotalCost,
		"overflowCount": p.Metrics.OverflowCount,
	}
}
