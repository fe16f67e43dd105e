/*
Package reconciler implements idempotent resource reconciliation, the core
primitive behind bosun's provisioning and hardening runs.

For each managed resource the reconciler probes current state, classifies it,
and applies the minimal corrective action through kind-specific primitives
supplied by the caller:

	Probe -> Absent          -> Create -> Created
	Probe -> PresentStopped  -> Start  -> StartedExisting
	Probe -> PresentRunning  -> no-op  -> AlreadySatisfied

Running Reconcile twice over the same satisfied resource performs zero
actions the second time; this idempotence is what makes a whole provisioning
run safely re-runnable.

Deliberate limitations, preserved from the behavior this tool replaces:

  - No drift detection. A resource that exists but no longer matches its
    desired spec is treated as satisfied.
  - No rollback. A partially applied action (a container created but unable
    to start) is surfaced as Failed and left in place.

All state detection is isolated behind the Probe primitive, so replacing a
text-parsing probe with a structured API query never touches the reconciler.
*/
package reconciler
