package observability

import (
	"fmt"
	"time"
)

// Config selects which telemetry exporters run. An empty endpoint keeps the
// global no-op providers in place; instruments still work but export nothing.
type Config struct {
	// Endpoint is the OTLP HTTP host:port, e.g. "localhost:4318".
	Endpoint string `mapstructure:"endpoint"`
	// Insecure disables TLS to the collector.
	Insecure bool `mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio in [0, 1].
	SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability: sample_rate must be within [0, 1], got %v", c.SampleRate)
	}
	if c.Interval < 0 {
		return fmt.Errorf("observability: interval must not be negative")
	}
	return nil
}

// Enabled reports whether exporters should be started.
func (c *Config) Enabled() bool { return c.Endpoint != "" }

// TracerConfig derives the tracer settings for a service.
func (c *Config) TracerConfig(service, version, environment string) TracerConfig {
	return TracerConfig{
		ServiceName:    service,
		ServiceVersion: version,
		Environment:    environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		SampleRate:     c.SampleRate,
	}
}

// MeterConfig derives the meter settings for a service.
func (c *Config) MeterConfig(service, version, environment string) MeterConfig {
	return MeterConfig{
		ServiceName:    service,
		ServiceVersion: version,
		Environment:    environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		Interval:       c.Interval,
	}
}
