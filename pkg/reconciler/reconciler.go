package reconciler

import (
	"context"
	"time"

	"github.com/hullhq/bosun/pkg/log"
	"github.com/hullhq/bosun/pkg/metrics"
	"github.com/hullhq/bosun/pkg/types"
)

// Primitives supplies the kind-specific probe and corrective actions for one
// resource kind. Probe must match the resource name exactly and must never
// mutate external state. Create and Start apply the declared spec; neither
// is expected to roll back on failure.
type Primitives interface {
	// Probe queries the external system for the resource and classifies
	// what it finds. Kinds that model file artifacts collapse to two
	// states: StateAbsent and StatePresentRunning.
	Probe(ctx context.Context, res types.ManagedResource) (types.ObservedState, error)

	// Create materializes the resource from its desired spec.
	Create(ctx context.Context, res types.ManagedResource) error

	// Start brings an existing stopped resource up without recreating it.
	Start(ctx context.Context, res types.ManagedResource) error
}

// Reconcile brings one managed resource to its desired state, applying at
// most one corrective action:
//
//	absent          -> Create  -> Created
//	present stopped -> Start   -> StartedExisting
//	present running -> nothing -> AlreadySatisfied
//
// Any probe or action error yields a Failed outcome carrying the error text;
// the resource is left in whatever state the external system produced.
// Reconcile never mutates res.
func Reconcile(ctx context.Context, res types.ManagedResource, prim Primitives) types.Outcome {
	logger := log.WithResource(string(res.Kind), res.Name)
	started := time.Now()

	outcome := reconcile(ctx, res, prim)
	outcome.Duration = time.Since(started)

	metrics.ObserveReconcile(string(res.Kind), string(outcome.Action), outcome.Duration)

	switch outcome.Action {
	case types.ActionCreated:
		logger.Info().Msg("created")
	case types.ActionStartedExisting:
		logger.Info().Msg("started existing")
	case types.ActionAlreadySatisfied:
		logger.Debug().Msg("already satisfied")
	case types.ActionFailed:
		logger.Error().Str("reason", outcome.Reason).Msg("reconciliation failed")
	}

	return outcome
}

func reconcile(ctx context.Context, res types.ManagedResource, prim Primitives) types.Outcome {
	observed, err := prim.Probe(ctx, res)
	if err != nil {
		return failed(res, observed, "probe failed: "+err.Error())
	}

	switch observed {
	case types.StatePresentRunning:
		return outcome(res, types.ActionAlreadySatisfied, observed)

	case types.StatePresentStopped:
		if err := prim.Start(ctx, res); err != nil {
			return failed(res, observed, "start failed: "+err.Error())
		}
		return outcome(res, types.ActionStartedExisting, observed)

	case types.StateAbsent:
		if err := prim.Create(ctx, res); err != nil {
			return failed(res, observed, "create failed: "+err.Error())
		}
		return outcome(res, types.ActionCreated, observed)

	default:
		return failed(res, observed, "unknown observed state: "+string(observed))
	}
}

func outcome(res types.ManagedResource, action types.Action, observed types.ObservedState) types.Outcome {
	return types.Outcome{Resource: res, Action: action, Observed: observed}
}

func failed(res types.ManagedResource, observed types.ObservedState, reason string) types.Outcome {
	return types.Outcome{
		Resource: res,
		Action:   types.ActionFailed,
		Observed: observed,
		Reason:   reason,
	}
}
