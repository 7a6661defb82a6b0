// Package metric provides Prometheus metrics for ledgermesh.
//
// Metrics live in a private registry (not the global default) so several
// dispatchers can coexist in one process, which tests rely on:
//
//   - prometheus.go: dispatch counters, duration histogram, /metrics handler
//   - collector.go: build information collector
//
// Metrics are exposed at /metrics when the start command is given a
// metrics address.
package metric
