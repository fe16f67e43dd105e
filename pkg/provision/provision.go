package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hullhq/bosun/pkg/journal"
	"github.com/hullhq/bosun/pkg/log"
	"github.com/hullhq/bosun/pkg/metrics"
	"github.com/hullhq/bosun/pkg/reconciler"
	"github.com/hullhq/bosun/pkg/types"
)

// Primitives maps each resource kind to its reconciler primitives. The run
// fails fast on a kind with no registered primitives.
type Primitives map[types.ResourceKind]reconciler.Primitives

// Runner executes one provisioning or hardening run: a strictly sequential
// walk over the plan, aborting on the first failed reconciliation. Resources
// already brought up stay up; there is no rollback.
type Runner struct {
	prims   Primitives
	journal *journal.Journal // nil disables run history
	mode    types.RunMode
}

// NewRunner creates a runner for the given mode. The journal may be nil.
func NewRunner(mode types.RunMode, prims Primitives, j *journal.Journal) *Runner {
	return &Runner{prims: prims, journal: j, mode: mode}
}

// Run reconciles every resource in the plan in order. It returns the run
// record and, when a reconciliation failed, an error naming the failing
// stage. The record is journaled either way.
func (r *Runner) Run(ctx context.Context, plan types.Plan) (*types.RunRecord, error) {
	logger := log.WithComponent(string(r.mode))
	record := &types.RunRecord{
		ID:        uuid.New().String(),
		Mode:      r.mode,
		StartedAt: time.Now().UTC(),
	}

	var runErr error
	for _, res := range plan.Resources {
		prim, ok := r.prims[res.Kind]
		if !ok {
			runErr = fmt.Errorf("no primitives registered for resource kind %s", res.Kind)
			record.FailedStage = stageName(res)
			break
		}

		outcome := reconciler.Reconcile(ctx, res, prim)
		record.Outcomes = append(record.Outcomes, types.RunOutcome{
			Kind:   res.Kind,
			Name:   res.Name,
			Action: outcome.Action,
			Reason: outcome.Reason,
		})

		if outcome.Failed() {
			runErr = fmt.Errorf("stage %s failed: %s", stageName(res), outcome.Reason)
			record.FailedStage = stageName(res)
			break
		}
	}

	record.FinishedAt = time.Now().UTC()
	record.Succeeded = runErr == nil
	metrics.ObserveRun(string(r.mode), record.Succeeded)

	if r.journal != nil {
		// History is best-effort; a journal problem never fails the run.
		if err := r.journal.Record(record); err != nil {
			logger.Warn().Err(err).Msg("failed to journal run record")
		}
	}

	if runErr != nil {
		return record, runErr
	}

	logger.Info().
		Str("run_id", record.ID).
		Int("resources", len(record.Outcomes)).
		Msg("run complete")
	return record, nil
}

func stageName(res types.ManagedResource) string {
	return string(res.Kind) + "/" + res.Name
}
