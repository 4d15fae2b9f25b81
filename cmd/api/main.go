package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"loadplan/internal/api"
	"loadplan/internal/buildinfo"
	"loadplan/internal/config"
	"loadplan/internal/metrics"
)

func main() {
	config.LoadDotenv()
	cfg := config.ServerFromEnv()
	solver, err := config.Solver("")
	if err != nil {
		log.Fatalf("solver config: %v", err)
	}
	metrics.RegisterDefault()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srvDeps, err := api.NewServer(ctx, cfg, solver)
	if err != nil {
		log.Fatalf("init server: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srvDeps.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Start webhook worker
	go srvDeps.NewWebhookWorker().Run(ctx)

	go func() {
		log.Printf("API listening on %s version=%s", srv.Addr, buildinfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown err=%v", err)
	}
	if err := srvDeps.Close(); err != nil {
		log.Printf("close err=%v", err)
	}
}
