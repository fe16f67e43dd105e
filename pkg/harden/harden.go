package harden

import (
	"context"
	"fmt"

	"github.com/hullhq/bosun/pkg/journal"
	"github.com/hullhq/bosun/pkg/log"
	"github.com/hullhq/bosun/pkg/provision"
	"github.com/hullhq/bosun/pkg/resources"
	"github.com/hullhq/bosun/pkg/types"
)

// SSHDropInPath is the sshd configuration fragment bosun manages. Writing a
// drop-in instead of editing sshd_config keeps the hardening reversible.
const SSHDropInPath = "/etc/ssh/sshd_config.d/90-bosun.conf"

const sshDropInContent = `# Managed by bosun harden. Remove to restore distribution defaults.
PermitRootLogin no
PasswordAuthentication no
PubkeyAuthentication yes
`

// Options are the explicit hardening inputs. Username and key are
// parameters, not prompts, so hardening is scriptable and testable.
type Options struct {
	Username      string
	AuthorizedKey string
}

// Validate checks the options before any mutation.
func (o Options) Validate() error {
	if o.Username == "" {
		return fmt.Errorf("username is required")
	}
	if o.AuthorizedKey == "" {
		return fmt.Errorf("an SSH public key is required: hardening disables password logins")
	}
	return nil
}

// BuildPlan resolves hardening options into the ordered resource plan:
// operator account first (lockout safety: the key must be in place before
// password logins are disabled), then the sshd lockdown, then the firewall.
func BuildPlan(opts Options) types.Plan {
	return types.Plan{Resources: []types.ManagedResource{
		{
			Kind: types.KindOsAccount,
			Name: opts.Username,
			Account: &types.AccountSpec{
				Username:      opts.Username,
				AuthorizedKey: opts.AuthorizedKey,
				Sudo:          true,
			},
		},
		{
			Kind: types.KindConfigFile,
			Name: "sshd-lockdown",
			File: &types.FileSpec{
				Path:    SSHDropInPath,
				Content: []byte(sshDropInContent),
			},
		},
		{
			Kind:     types.KindFirewallRule,
			Name:     "OpenSSH",
			Firewall: &types.FirewallSpec{Rule: "OpenSSH"},
		},
	}}
}

// Hardener executes first-run server hardening through the reconciler.
type Hardener struct {
	prims   provision.Primitives
	exec    resources.Runner
	journal *journal.Journal
}

// New creates a hardener. The journal may be nil.
func New(prims provision.Primitives, exec resources.Runner, j *journal.Journal) *Hardener {
	return &Hardener{prims: prims, exec: exec, journal: j}
}

// Run reconciles the hardening plan and reloads sshd when the lockdown
// drop-in was freshly written. An account that already exists is left
// untouched and logged as a warning.
func (h *Hardener) Run(ctx context.Context, opts Options) (*types.RunRecord, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	plan := BuildPlan(opts)
	runner := provision.NewRunner(types.RunModeHarden, h.prims, h.journal)

	record, err := runner.Run(ctx, plan)
	if err != nil {
		return record, err
	}

	logger := log.WithComponent("harden")
	sshdFresh := false
	for _, o := range record.Outcomes {
		switch {
		case o.Kind == types.KindOsAccount && o.Action == types.ActionAlreadySatisfied:
			logger.Warn().Str("user", opts.Username).Msg("account already exists; left untouched")
		case o.Name == "sshd-lockdown" && o.Action == types.ActionCreated:
			sshdFresh = true
		}
	}

	if sshdFresh {
		if _, err := h.exec.Run(ctx, "systemctl", "reload", "ssh"); err != nil {
			return record, fmt.Errorf("sshd lockdown written but reload failed: %w", err)
		}
		logger.Info().Msg("sshd reloaded with lockdown configuration")
	}

	return record, nil
}
