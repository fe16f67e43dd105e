package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Reconciliation metrics
	ReconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bosun_reconcile_total",
			Help: "Total reconciliations by resource kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	ReconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bosun_reconcile_duration_seconds",
			Help:    "Time spent reconciling a single resource",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// Run metrics
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bosun_runs_total",
			Help: "Total provisioning and hardening runs by mode and result",
		},
		[]string{"mode", "result"},
	)

	// Status metrics
	ChecksFailing = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bosun_status_checks_failing",
			Help: "Number of failing checks in the most recent status report",
		},
	)
)

// Register registers all bosun metrics with the default registry.
// Call once at startup.
func Register() {
	prometheus.MustRegister(
		ReconcileTotal,
		ReconcileDuration,
		RunsTotal,
		ChecksFailing,
	)
}

// ObserveReconcile records the outcome and duration of one reconciliation.
func ObserveReconcile(kind, outcome string, d time.Duration) {
	ReconcileTotal.WithLabelValues(kind, outcome).Inc()
	ReconcileDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveRun records the result of a whole run.
func ObserveRun(mode string, succeeded bool) {
	result := "success"
	if !succeeded {
		result = "failure"
	}
	RunsTotal.WithLabelValues(mode, result).Inc()
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
