// Package observability wires OpenTelemetry tracing and metrics for the
// authentication pipeline and reports service health.
//
// Exporters are optional. When no endpoint is configured the global no-op
// providers stay installed and every instrument is a cheap no-op:
//
//	if cfg.Enabled() {
//		tp, err := observability.InitTracer(ctx, cfg.TracerConfig("authkit", version, env))
//		defer tp.Shutdown(ctx)
//	}
//	metrics, err := observability.NewAuthMetrics(observability.Meter(observability.TracerName))
//
// Pipeline stages wrap their work in an Operation:
//
//	ctx, op := observability.StartOperation(ctx, metrics, "register", "hash")
//	defer op.End(ctx, "ok", nil)
package observability
