package model

import (
	"encoding/json"
	"time"

	"loadplan/internal/opt"
)

// LoadsImport is the body of POST /v1/loads.
type LoadsImport struct {
	Loads []opt.Load `json:"loads"`
}

type LoadsImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// SolveRequest is the body of POST /v1/solve. When Loads is empty the tenant's
// stored loads are planned. Config holds partial overrides of the tenant's
// solver defaults, for example {"generations": 200}.
type SolveRequest struct {
	PlanDate string          `json:"planDate,omitempty"`
	Loads    []opt.Load      `json:"loads,omitempty"`
	Config   json.RawMessage `json:"config,omitempty"`
	// Async returns 202 with the plan id at once and solves in the background;
	// progress is streamed on the plan's event stream.
	Async bool `json:"async,omitempty"`
}

// Plan is a persisted solve result.
type Plan struct {
	ID        string      `json:"planId"`
	TenantID  string      `json:"tenantId"`
	PlanDate  string      `json:"planDate,omitempty"`
	Status    string      `json:"status"`
	Routes    []PlanRoute `json:"routes"`
	TotalCost float64     `json:"totalCost"`
	// OrderCost is the cost of the best order driven as one continuous route.
	OrderCost float64     `json:"orderCost"`
	Metrics   PlanMetrics `json:"metrics"`
	Config    opt.Config  `json:"config"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// IsTerminal reports whether the plan will not change any more.
func (p Plan) IsTerminal() bool { return p.Status == PlanCompleted || p.Status == PlanFailed }

type PlanRoute struct {
	Seq      int     `json:"seq"`
	LoadIDs  []int   `json:"loadIds"`
	Cost     float64 `json:"cost"`
	Overflow bool    `json:"overflow,omitempty"`
}

type PlanMetrics struct {
	Generations   int            `json:"generations"`
	Evaluations   int            `json:"evaluations"`
	Improvements  int            `json:"improvements"`
	InitialCost   float64        `json:"initialCost"`
	BestCost      float64        `json:"bestCost"`
	DurationMs    int64          `json:"durationMs"`
	OverflowCount int            `json:"overflowCount"`
	Snapshots     []opt.Snapshot `json:"snapshots,omitempty"`
}

// Plan statuses.
const (
	PlanRunning   = "running"
	PlanCompleted = "completed"
	PlanFailed    = "failed"
)

// NewPlan converts a solver result into its stored form.
func NewPlan(id, tenantID, planDate string, cfg opt.Config, sol opt.Solution, m opt.Metrics) Plan {
	routes := make([]PlanRoute, len(sol.Routes))
	for i, r := range sol.Routes {
		routes[i] = PlanRoute{Seq: i + 1, LoadIDs: r.IDs(), Cost: r.Cost, Overflow: r.Overflow(cfg.MaxRouteTime)}
	}
	return Plan{
		ID:        id,
		TenantID:  tenantID,
		PlanDate:  planDate,
		Status:    PlanCompleted,
		Routes:    routes,
		TotalCost: sol.TotalRouteCost(),
		OrderCost: sol.Cost,
		Metrics: PlanMetrics{
			Generations:   m.Generations,
			Evaluations:   m.Evaluations,
			Improvements:  m.Improvements,
			InitialCost:   m.InitialCost,
			BestCost:      m.BestCost,
			DurationMs:    m.Duration.Milliseconds(),
			OverflowCount: sol.OverflowCount(cfg.MaxRouteTime),
			Snapshots:     m.Snapshots,
		},
		Config:    cfg,
		CreatedAt: time.Now().UTC(),
	}
}

type SubscriptionRequest struct {
	TenantID string   `json:"tenantId"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	Secret   string   `json:"secret"`
}

type Subscription struct {
	ID       string   `json:"id"`
	TenantID string   `json:"tenantId"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	Secret   string   `json:"secret,omitempty"`
}
