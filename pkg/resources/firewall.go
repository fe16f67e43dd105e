package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/hullhq/bosun/pkg/types"
)

// Firewall implements the reconciler primitives for ufw rules.
//
// State mapping:
//
//	rule missing                      -> Absent
//	rule added but firewall inactive  -> PresentStopped
//	rule active                       -> PresentRunning
//
// ufw has no structured query interface, so Probe parses `ufw status` and
// `ufw show added` output. The parsing is anchored to the exact rule token:
// a probe for "80/tcp" never matches a line for "8080/tcp".
type Firewall struct {
	run Runner
}

// sshRule is always allowed before the firewall is first enabled, so that
// enabling it over a remote session cannot lock the operator out.
const sshRule = "OpenSSH"

// NewFirewall creates firewall primitives using the given command runner.
func NewFirewall(run Runner) *Firewall {
	return &Firewall{run: run}
}

// Probe classifies the state of one ufw rule.
func (f *Firewall) Probe(ctx context.Context, res types.ManagedResource) (types.ObservedState, error) {
	if res.Firewall == nil {
		return types.StateAbsent, fmt.Errorf("resource %s has no firewall spec", res.Name)
	}
	rule := res.Firewall.Rule

	status, err := f.run.Run(ctx, "ufw", "status")
	if err != nil {
		return types.StateAbsent, fmt.Errorf("failed to query ufw status: %w", err)
	}

	if strings.Contains(status, "Status: inactive") {
		added, err := f.run.Run(ctx, "ufw", "show", "added")
		if err != nil {
			return types.StateAbsent, fmt.Errorf("failed to query added ufw rules: %w", err)
		}
		if ruleAdded(added, rule) {
			return types.StatePresentStopped, nil
		}
		return types.StateAbsent, nil
	}

	if ruleActive(status, rule) {
		return types.StatePresentRunning, nil
	}
	return types.StateAbsent, nil
}

// Create adds the rule and enables the firewall if it is not yet active.
func (f *Firewall) Create(ctx context.Context, res types.ManagedResource) error {
	rule := res.Firewall.Rule

	if _, err := f.run.Run(ctx, "ufw", "allow", rule); err != nil {
		return fmt.Errorf("failed to add rule %s: %w", rule, err)
	}

	status, err := f.run.Run(ctx, "ufw", "status")
	if err != nil {
		return fmt.Errorf("failed to query ufw status: %w", err)
	}
	if strings.Contains(status, "Status: inactive") {
		return f.enable(ctx)
	}
	return nil
}

// Start enables the firewall so an already-added rule takes effect.
func (f *Firewall) Start(ctx context.Context, res types.ManagedResource) error {
	return f.enable(ctx)
}

// enable turns the firewall on, allowing SSH first. `ufw allow` is
// idempotent, so an already-present rule is a no-op.
func (f *Firewall) enable(ctx context.Context) error {
	if _, err := f.run.Run(ctx, "ufw", "allow", sshRule); err != nil {
		return fmt.Errorf("failed to add rule %s: %w", sshRule, err)
	}
	if _, err := f.run.Run(ctx, "ufw", "--force", "enable"); err != nil {
		return fmt.Errorf("failed to enable firewall: %w", err)
	}
	return nil
}

// ruleActive reports whether an active `ufw status` listing contains the
// exact rule. Rule lines look like:
//
//	80/tcp                     ALLOW       Anywhere
//	OpenSSH                    ALLOW       Anywhere
func ruleActive(status, rule string) bool {
	for _, line := range strings.Split(status, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == rule && fields[1] == "ALLOW" {
			return true
		}
	}
	return false
}

// ruleAdded reports whether `ufw show added` output contains the exact rule.
// Added lines look like:
//
//	ufw allow 80/tcp
//	ufw allow OpenSSH
func ruleAdded(added, rule string) bool {
	for _, line := range strings.Split(added, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) >= 3 && fields[0] == "ufw" && fields[1] == "allow" && fields[2] == rule {
			return true
		}
	}
	return false
}
