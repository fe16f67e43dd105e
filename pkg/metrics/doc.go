// Package metrics exposes Prometheus metrics for reconciliations, runs,
// and status checks. Served by "bosun status --serve".
package metrics
