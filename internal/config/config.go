// Package config handles environment variable loading for ports, database strings, etc.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the application.
type Config struct {
	// Database connection string
	DatabaseURL string

	// HTTP server port for the API server
	HTTPPort int

	// How often the sweeper re-evaluates active job orders
	SweepInterval time.Duration

	// How far ahead of the due date deadline alerts fire
	DeadlineWindow time.Duration

	// Efficiency ratio below which a technician gets flagged
	EfficiencyThreshold float64

	// How far back technician efficiency is measured
	EfficiencyLookback time.Duration

	// Per-actor request rate limit
	RateLimitRPS   float64
	RateLimitBurst int

	// OTLP gRPC endpoint for traces (empty disables tracing export)
	OTLPEndpoint string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	dbUrl := os.Getenv("DATABASE_URL")
	if dbUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	portStr := os.Getenv("PORT")
	port := 7070 // Default
	if portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		port = p
	}

	sweepInterval, err := durationEnv("SWEEP_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	deadlineWindow, err := durationEnv("DEADLINE_WINDOW", 72*time.Hour)
	if err != nil {
		return nil, err
	}

	efficiencyLookback, err := durationEnv("EFFICIENCY_LOOKBACK", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	threshold := 0.85 // Default
	if s := os.Getenv("EFFICIENCY_THRESHOLD"); s != "" {
		t, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid EFFICIENCY_THRESHOLD: %w", err)
		}
		threshold = t
	}

	rps := 10.0 // Default
	if s := os.Getenv("RATE_LIMIT_RPS"); s != "" {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
		}
		rps = r
	}

	burst := 20 // Default
	if s := os.Getenv("RATE_LIMIT_BURST"); s != "" {
		b, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
		}
		burst = b
	}

	return &Config{
		DatabaseURL:         dbUrl,
		HTTPPort:            port,
		SweepInterval:       sweepInterval,
		DeadlineWindow:      deadlineWindow,
		EfficiencyThreshold: threshold,
		EfficiencyLookback:  efficiencyLookback,
		RateLimitRPS:        rps,
		RateLimitBurst:      burst,
		OTLPEndpoint:        os.Getenv("OTLP_ENDPOINT"),
	}, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}
