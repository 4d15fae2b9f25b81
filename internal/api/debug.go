package api

import (
	"net/http"
	"time"

	"loadplan/internal/buildinfo"
)

func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{
		"build":  buildinfo.Info(),
		"time":   time.Now().UTC().Format(time.RFC3339),
		"solver": s.Solver,
		"config": map[string]any{
			"PORT":                 s.Cfg.Port,
			"RATE_RPS":             s.Cfg.RateRPS,
			"RATE_BURST":           s.Cfg.RateBurst,
			"SOLVE_TIMEOUT":        s.Cfg.SolveTimeout.String(),
			"WEBHOOK_MAX_ATTEMPTS": s.Cfg.WebhookMaxAttempts,
			"MAX_POPULATION":       s.Cfg.MaxPopulation,
			"MAX_GENERATIONS":      s.Cfg.MaxGenerations,
			"HAS_DATABASE_URL":     s.Cfg.DatabaseURL != "",
			"HAS_REDIS_URL":        s.Cfg.RedisURL != "",
			"AUTH_MODE":            s.Auth.Mode,
		},
	}
	writeJSON(w, http.StatusOK, info)
}
