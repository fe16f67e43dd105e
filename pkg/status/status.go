package status

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hullhq/bosun/pkg/health"
	"github.com/hullhq/bosun/pkg/log"
	"github.com/hullhq/bosun/pkg/metrics"
	"github.com/hullhq/bosun/pkg/provision"
	"github.com/hullhq/bosun/pkg/types"
)

// portCheckTimeout bounds each published-port reachability dial. A stack
// that cannot accept within this is reported as failing, not waited on.
const portCheckTimeout = 3 * time.Second

// RunHistory supplies the most recent journaled run for the report.
type RunHistory interface {
	LastRun() (*types.RunRecord, error)
}

// Reporter produces the read-only health report. It only ever calls the
// Probe primitive; status mode performs zero mutating calls against the
// external systems.
type Reporter struct {
	prims   provision.Primitives
	logsDir string
	history RunHistory

	// newChecker builds the reachability checker for one published port.
	// Tests substitute it to avoid real dials.
	newChecker func(addr string) health.Checker
}

// NewReporter creates a reporter over the given primitives. logsDir is
// where container log files are looked up for keyword scanning; it may be
// empty to skip log scans.
func NewReporter(prims provision.Primitives, logsDir string) *Reporter {
	return &Reporter{
		prims:   prims,
		logsDir: logsDir,
		newChecker: func(addr string) health.Checker {
			return health.NewTCPChecker(addr).WithTimeout(portCheckTimeout)
		},
	}
}

// WithHistory attaches the run journal so the report carries the last run.
func (r *Reporter) WithHistory(h RunHistory) *Reporter {
	r.history = h
	return r
}

// Report probes every resource in the plan and runs the auxiliary service
// checks. Findings are collected, never acted upon.
func (r *Reporter) Report(ctx context.Context, plan types.Plan) (*types.StatusReport, error) {
	report := &types.StatusReport{GeneratedAt: time.Now().UTC()}

	for _, res := range plan.Resources {
		prim, ok := r.prims[res.Kind]
		if !ok {
			return nil, fmt.Errorf("no primitives registered for resource kind %s", res.Kind)
		}

		check := types.CheckResult{Kind: res.Kind, Name: res.Name}
		observed, err := prim.Probe(ctx, res)
		switch {
		case err != nil:
			check.Detail = "probe failed: " + err.Error()
		case observed == types.StatePresentRunning:
			check.Passing = true
			check.Detail = "present"
		default:
			check.Detail = string(observed)
		}
		report.Checks = append(report.Checks, check)

		if res.Kind == types.KindContainer {
			report.Checks = append(report.Checks, r.containerChecks(ctx, res)...)
		}
	}

	failing := 0
	for _, c := range report.Checks {
		if !c.Passing {
			failing++
		}
	}
	metrics.ChecksFailing.Set(float64(failing))

	if r.history != nil {
		last, err := r.history.LastRun()
		if err != nil {
			logger := log.WithComponent("status")
			logger.Warn().Err(err).Msg("cannot read run history")
		} else {
			report.LastRun = last
		}
	}

	return report, nil
}

// containerChecks runs the auxiliary per-container checks: TCP reachability
// of published ports and a keyword scan over the recent log file.
func (r *Reporter) containerChecks(ctx context.Context, res types.ManagedResource) []types.CheckResult {
	var checks []types.CheckResult

	for _, p := range res.Container.Ports {
		addr := net.JoinHostPort("127.0.0.1", fmt.Sprintf("%d", p.HostPort))
		checker := r.newChecker(addr)
		result := checker.Check(ctx)
		checks = append(checks, types.CheckResult{
			Kind:    res.Kind,
			Name:    fmt.Sprintf("%s port %d (%s)", res.Name, p.HostPort, checker.Type()),
			Passing: result.Healthy,
			Detail:  result.Message,
		})
	}

	if r.logsDir == "" {
		return checks
	}

	logPath := filepath.Join(r.logsDir, res.Name+".log")
	f, err := os.Open(logPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger := log.WithComponent("status")
			logger.Warn().Err(err).Str("path", logPath).Msg("cannot read log file")
		}
		// No log file is not a finding.
		return checks
	}
	defer f.Close()

	hits, err := ScanForErrors(f)
	check := types.CheckResult{Kind: res.Kind, Name: res.Name + " logs"}
	switch {
	case err != nil:
		check.Detail = "log scan failed: " + err.Error()
	case len(hits) == 0:
		check.Passing = true
		check.Detail = "no error keywords in recent logs"
	default:
		check.Detail = fmt.Sprintf("%d lines with error keywords, first: %s", len(hits), hits[0])
	}
	checks = append(checks, check)

	return checks
}
