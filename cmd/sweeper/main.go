// Package main is the entry point for the workfloor sweeper.
// The sweeper periodically re-evaluates delay, deadline and
// low-performance alert conditions against the database.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"workfloor/internal/config"
	"workfloor/internal/core"
	"workfloor/internal/logger"
	"workfloor/internal/observability"
	"workfloor/internal/store/postgres"
	"workfloor/internal/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogger := logger.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer store.Close()

	// Tracing
	shutdownTracer, err := observability.InitTracer(ctx, "workfloor-sweeper", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	// Metrics
	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			log.Printf("Failed to shutdown metrics: %v", err)
		}
	}()

	// Dedicated metrics server.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)
		log.Println("Sweeper metrics listening on :7071")
		if err := http.ListenAndServe(":7071", mux); err != nil {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	emitter := core.NewEmitter(store, core.EmitterConfig{
		DeadlineWindow:      cfg.DeadlineWindow,
		EfficiencyThreshold: cfg.EfficiencyThreshold,
		EfficiencyLookback:  cfg.EfficiencyLookback,
	})

	sw := sweeper.New(store, emitter, sweeper.Config{
		Interval:           cfg.SweepInterval,
		EfficiencyLookback: cfg.EfficiencyLookback,
	}, slogger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Printf("Sweeper started with interval %s", cfg.SweepInterval)
		if err := sw.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("Sweeper stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down sweeper...")
	cancel()
	<-done
}
