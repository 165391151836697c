package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/authkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for local development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricRegisterTotal = "authkit.register.total"
	MetricLoginTotal    = "authkit.login.total"
	MetricGuardTotal    = "authkit.guard.total"
	MetricStageDuration = "authkit.stage.duration"
)

// AuthMetrics holds the pipeline instruments. A nil *AuthMetrics is valid
// and records nothing.
type AuthMetrics struct {
	registerTotal metric.Int64Counter
	loginTotal    metric.Int64Counter
	guardTotal    metric.Int64Counter
	stageDuration metric.Float64Histogram
}

// NewAuthMetrics creates the instruments on meter.
func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	registerTotal, err := meter.Int64Counter(MetricRegisterTotal,
		metric.WithDescription("Registration attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRegisterTotal, err)
	}

	loginTotal, err := meter.Int64Counter(MetricLoginTotal,
		metric.WithDescription("Login attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricLoginTotal, err)
	}

	guardTotal, err := meter.Int64Counter(MetricGuardTotal,
		metric.WithDescription("Guarded requests by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricGuardTotal, err)
	}

	stageDuration, err := meter.Float64Histogram(MetricStageDuration,
		metric.WithDescription("Duration of pipeline stages in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricStageDuration, err)
	}

	return &AuthMetrics{
		registerTotal: registerTotal,
		loginTotal:    loginTotal,
		guardTotal:    guardTotal,
		stageDuration: stageDuration,
	}, nil
}

// RecordRegister counts a finished registration.
func (m *AuthMetrics) RecordRegister(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.registerTotal.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
}

// RecordLogin counts a finished login.
func (m *AuthMetrics) RecordLogin(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.loginTotal.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
}

// RecordGuard counts a guarded request.
func (m *AuthMetrics) RecordGuard(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.guardTotal.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
}

// RecordStage records how long a stage ran.
func (m *AuthMetrics) RecordStage(ctx context.Context, chain, stage, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(string(AttrChain), chain),
		attribute.String(string(AttrStage), stage),
		attribute.String(string(AttrOutcome), outcome),
	))
}
