// Package server wires the HTTP API for workfloor.
package server

import (
	"context"
	"net/http"
	"time"

	"workfloor/internal/server/handlers"
	"workfloor/internal/server/middleware"
)

// Config carries server-level knobs.
type Config struct {
	Addr           string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server is the HTTP server for the workfloor API.
type Server struct {
	httpServer *http.Server
}

// New creates a new API server.
func New(cfg Config, core handlers.Core, db handlers.Pinger, metricsHandler http.Handler) *Server {
	h := handlers.New(core, db)

	authed := func(fn http.HandlerFunc) http.Handler {
		var handler http.Handler = fn
		handler = middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)(handler)
		handler = middleware.Actor(handler)
		return middleware.RequestID(handler)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	mux.Handle("POST /operations", authed(h.CreateOperation))
	mux.Handle("GET /operations", authed(h.ListOperations))
	mux.Handle("DELETE /operations/{id}", authed(h.DeactivateOperation))

	mux.Handle("POST /job-orders", authed(h.CreateJobOrder))
	mux.Handle("GET /job-orders", authed(h.ListJobOrders))
	mux.Handle("GET /job-orders/{id}", authed(h.GetJobOrder))
	mux.Handle("POST /job-orders/{id}/correct", authed(h.CorrectJobOrder))
	mux.Handle("GET /job-orders/{id}/tasks", authed(h.ListJobOrderTasks))

	mux.Handle("POST /tasks", authed(h.CreateTask))
	mux.Handle("GET /tasks/{id}", authed(h.GetTask))
	mux.Handle("PUT /tasks/{id}", authed(h.UpdateTask))
	mux.Handle("POST /tasks/{id}/assign", authed(h.AssignTask))
	mux.Handle("POST /tasks/{id}/start", authed(h.StartTask))
	mux.Handle("POST /tasks/{id}/submit", authed(h.SubmitTask))
	mux.Handle("POST /tasks/{id}/approve", authed(h.ApproveTask))
	mux.Handle("POST /tasks/{id}/reject", authed(h.RejectTask))

	mux.Handle("GET /alerts", authed(h.ListAlerts))
	mux.Handle("POST /alerts/{id}/read", authed(h.MarkAlertRead))
	mux.Handle("POST /alerts/{id}/resolve", authed(h.ResolveAlert))

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutDownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.Shutdown(shutDownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
