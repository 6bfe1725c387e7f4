package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	api "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config holds instrumentation configuration.
type Config struct {
	// Enabled determines whether metrics are collected at all.
	Enabled bool

	// ServiceName identifies the service in the emitted resource attributes.
	ServiceName string

	// ServiceVersion is the build version.
	ServiceVersion string
}

// Recorder collects per-run pipeline metrics. A batch process cannot be
// scraped, so the metrics are flushed through the stdout exporter on
// Shutdown, where the invoking scheduler picks them up with the logs.
// A disabled recorder is a safe no-op.
type Recorder struct {
	provider    *sdkmetric.MeterProvider
	candidates  api.Int64Counter
	runDuration api.Float64Histogram
	enabled     bool
}

// NewRecorder creates a recorder that emits metrics to stdout at shutdown.
func NewRecorder(cfg Config) (*Recorder, error) {
	if !cfg.Enabled {
		return &Recorder{}, nil
	}

	exporter, err := stdoutmetric.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
	}

	return newRecorder(cfg, sdkmetric.NewPeriodicReader(exporter))
}

// newRecorder wires the meter provider around the given reader. Split out so
// tests can substitute a manual reader.
func newRecorder(cfg Config, reader sdkmetric.Reader) (*Recorder, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	meter := provider.Meter(cfg.ServiceName)

	candidates, err := meter.Int64Counter("racuni.candidates",
		api.WithDescription("Invoice candidates by final status"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create candidates counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("racuni.run.duration",
		api.WithDescription("Pipeline run duration"),
		api.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run duration histogram: %w", err)
	}

	return &Recorder{
		provider:    provider,
		candidates:  candidates,
		runDuration: runDuration,
		enabled:     true,
	}, nil
}

// Enabled reports whether the recorder actually collects metrics.
func (r *Recorder) Enabled() bool {
	return r != nil && r.enabled
}

// RecordCandidate counts one candidate with its final status
// (processed, already_done, no_attachment, failed).
func (r *Recorder) RecordCandidate(ctx context.Context, status string) {
	if !r.Enabled() {
		return
	}
	r.candidates.Add(ctx, 1, api.WithAttributes(attribute.String("status", status)))
}

// RecordRun records the duration and terminal health of a run.
func (r *Recorder) RecordRun(ctx context.Context, d time.Duration, fatal bool) {
	if !r.Enabled() {
		return
	}
	r.runDuration.Record(ctx, d.Seconds(), api.WithAttributes(attribute.Bool("fatal", fatal)))
}

// Shutdown flushes pending metrics. Safe on a disabled recorder.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.Enabled() || r.provider == nil {
		return nil
	}
	return r.provider.Shutdown(ctx)
}
