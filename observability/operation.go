package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one pipeline stage: a child span plus a duration sample.
type Operation struct {
	Chain string
	Stage string

	start   time.Time
	span    trace.Span
	metrics *AuthMetrics
}

// StartOperation opens a span named "<chain>.<stage>". metrics may be nil.
func StartOperation(ctx context.Context, metrics *AuthMetrics, chain, stage string) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, chain+"."+stage, trace.WithAttributes(
		AttrChain.String(chain),
		AttrStage.String(stage),
	))
	return ctx, &Operation{
		Chain:   chain,
		Stage:   stage,
		start:   time.Now(),
		span:    span,
		metrics: metrics,
	}
}

// End closes the span and records the stage duration under outcome.
func (op *Operation) End(ctx context.Context, outcome string, err error) {
	if err != nil {
		SetSpanError(trace.ContextWithSpan(ctx, op.span), err)
	}
	op.span.SetAttributes(AttrOutcome.String(outcome))
	op.span.End()
	op.metrics.RecordStage(ctx, op.Chain, op.Stage, outcome, op.Duration())
}

// Duration returns the time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.start)
}
