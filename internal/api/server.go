package api

import (
	"context"
	"log"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"loadplan/internal/auth"
	"loadplan/internal/config"
	"loadplan/internal/opt"
	"loadplan/internal/store"
	"loadplan/internal/webhooks"
)

type Server struct {
	Store  store.Store
	Pub    *webhooks.Publisher
	Broker EventBroker
	Auth   *auth.Verifier
	// Solver holds the process-wide defaults that tenant config and request
	// overrides are applied on top of.
	Solver opt.Config
	Cfg    config.Server

	limiter *rate.Limiter
	closers []func() error
	bg      sync.WaitGroup // background solves

	// bgCtx parents background solves; Close cancels it.
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// NewServer wires the store and broker from cfg. If DatabaseURL is empty it
// uses the in-memory store; if RedisURL is empty, the in-process broker.
func NewServer(ctx context.Context, cfg config.Server, solver opt.Config) (*Server, error) {
	var st store.Store
	var closers []func() error
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		st = store.NewMemory()
	} else {
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		st = pg
		closers = append(closers, pg.Close)
	}
	var broker EventBroker = NewBroker()
	if cfg.RedisURL != "" {
		rb, err := NewRedisBroker(cfg.RedisURL)
		if err != nil {
			log.Printf("redis broker unavailable, using in-process broker: %v", err)
		} else {
			broker = rb
			closers = append(closers, rb.Close)
		}
	}
	s := New(st, broker, cfg, solver)
	s.Auth = auth.NewVerifierFromEnv()
	s.closers = closers
	return s, nil
}

// New assembles a Server from already built dependencies. Callers are
// trusted through gateway headers until Auth is replaced.
func New(st store.Store, broker EventBroker, cfg config.Server, solver opt.Config) *Server {
	s := &Server{
		Store:  st,
		Pub:    webhooks.NewPublisher(st),
		Broker: broker,
		Auth:   &auth.Verifier{Mode: "headers", DefaultTenant: "t_demo", DefaultRole: "admin"},
		Solver: solver,
		Cfg:    cfg,
	}
	s.bgCtx, s.bgCancel = context.WithCancel(context.Background())
	if cfg.RateRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), max(cfg.RateBurst, 1))
	}
	return s
}

// NewWebhookWorker creates a background worker for webhook deliveries.
func (s *Server) NewWebhookWorker() *webhooks.Worker {
	return webhooks.NewWorker(s.Store, s.Cfg.WebhookMaxAttempts)
}

// Wait blocks until background solves have finished.
func (s *Server) Wait() { s.bg.Wait() }

// Close cancels background solves, waits for them to record their outcome and
// releases the store and broker connections.
func (s *Server) Close() error {
	s.bgCancel()
	s.Wait()
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
