package status

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hullhq/bosun/pkg/log"
	"github.com/hullhq/bosun/pkg/metrics"
	"github.com/hullhq/bosun/pkg/types"
)

// Serve exposes the health report over HTTP: /healthz returns the report as
// JSON (503 when any check fails), /metrics serves Prometheus metrics. The
// report is re-generated per request; every request stays read-only.
func Serve(ctx context.Context, addr string, reporter *Reporter, plan types.Plan) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		report, err := reporter.Report(req.Context(), plan)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeReport(w, report)
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger := log.WithComponent("status")
	logger.Info().Str("addr", addr).Msg("serving health report")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func writeReport(w http.ResponseWriter, report *types.StatusReport) {
	w.Header().Set("Content-Type", "application/json")
	if !report.Healthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(report)
}
