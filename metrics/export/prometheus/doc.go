// Package prometheus renders goToken Manager metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts any [MetricsSource], usually a
// *goToken.Manager, and exposes an [http.Handler] for a /metrics route. Counter
// names are prefixed gotoken_*_total; the single histogram is
// gotoken_verify_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate manager state.
package prometheus
