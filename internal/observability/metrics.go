package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMetrics initializes the OpenTelemetry metrics provider with a Prometheus exporter.
// It returns the HTTP handler for the /metrics endpoint and a shutdown function.
// The shutdown function should be called on application exit for graceful cleanup.
func InitMetrics() (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)

	return promhttp.Handler(), provider.Shutdown, nil
}

// RegisterUnresolvedAlertsGauge registers an observable gauge for the number
// of unresolved alerts. The count callback runs only on scrape; errors from
// it are swallowed so a flaky database cannot break the metrics endpoint.
func RegisterUnresolvedAlertsGauge(count func(context.Context) (int64, error)) error {
	meter := otel.Meter("workfloor")
	_, err := meter.Int64ObservableGauge("workfloor.alerts.unresolved",
		metric.WithDescription("Current number of unresolved alerts"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			n, err := count(ctx)
			if err != nil {
				return nil
			}
			obs.Observe(n)
			return nil
		}),
	)
	return err
}
