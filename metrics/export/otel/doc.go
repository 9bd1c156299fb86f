// Package otel binds goToken Manager metrics to OpenTelemetry instruments.
//
// [NewOTelExporter] registers an Int64ObservableCounter per counter and an
// Int64ObservableGauge per histogram bucket. A single callback reads
// MetricsSnapshot on each collection cycle.
//
// [NewOTelExporterForSources] exports the managers of several subject types
// through the same instruments; each observation carries a gotoken.source
// attribute naming its manager.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate manager state.
package otel
