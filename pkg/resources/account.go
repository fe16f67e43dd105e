package resources

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"golang.org/x/crypto/ssh"

	"github.com/hullhq/bosun/pkg/types"
)

// LookupUser resolves a username to an account. Defaults to user.Lookup;
// tests substitute a fake.
type LookupUser func(username string) (*user.User, error)

// Account implements the reconciler primitives for OS user accounts.
//
// Probing uses the structured user database lookup rather than parsing
// getent output. Accounts have no stopped state, so the model collapses to
// present/absent; an existing account is never modified.
type Account struct {
	run    Runner
	lookup LookupUser
}

// NewAccount creates account primitives using the given command runner.
func NewAccount(run Runner) *Account {
	return &Account{run: run, lookup: user.Lookup}
}

// WithLookup overrides the user database lookup. For tests.
func (a *Account) WithLookup(lookup LookupUser) *Account {
	a.lookup = lookup
	return a
}

// Probe reports whether the account exists.
func (a *Account) Probe(_ context.Context, res types.ManagedResource) (types.ObservedState, error) {
	if res.Account == nil {
		return types.StateAbsent, fmt.Errorf("resource %s has no account spec", res.Name)
	}

	if _, err := a.lookup(res.Account.Username); err != nil {
		if _, ok := err.(user.UnknownUserError); ok {
			return types.StateAbsent, nil
		}
		return types.StateAbsent, fmt.Errorf("failed to look up user %s: %w", res.Account.Username, err)
	}
	return types.StatePresentRunning, nil
}

// Create materializes the account: validates the public key, creates the
// user, optionally grants sudo, and installs the key into authorized_keys
// with owner-only permissions.
func (a *Account) Create(ctx context.Context, res types.ManagedResource) error {
	spec := res.Account
	if spec == nil {
		return fmt.Errorf("resource %s has no account spec", res.Name)
	}

	// Validate before any mutation so a bad key never leaves a keyless user.
	if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(spec.AuthorizedKey)); err != nil {
		return fmt.Errorf("invalid SSH public key for %s: %w", spec.Username, err)
	}

	if _, err := a.run.Run(ctx, "useradd", "--create-home", "--shell", "/bin/bash", spec.Username); err != nil {
		return fmt.Errorf("failed to create user %s: %w", spec.Username, err)
	}

	if spec.Sudo {
		if _, err := a.run.Run(ctx, "usermod", "-aG", "sudo", spec.Username); err != nil {
			return fmt.Errorf("failed to grant sudo to %s: %w", spec.Username, err)
		}
	}

	if err := a.installKey(ctx, spec); err != nil {
		return err
	}
	return nil
}

// Start is not applicable to accounts.
func (a *Account) Start(_ context.Context, res types.ManagedResource) error {
	return fmt.Errorf("account %s cannot be started", res.Name)
}

func (a *Account) installKey(ctx context.Context, spec *types.AccountSpec) error {
	u, err := a.lookup(spec.Username)
	if err != nil {
		return fmt.Errorf("failed to look up created user %s: %w", spec.Username, err)
	}

	sshDir := filepath.Join(u.HomeDir, ".ssh")
	if err := os.MkdirAll(sshDir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", sshDir, err)
	}

	keyPath := filepath.Join(sshDir, "authorized_keys")
	if err := os.WriteFile(keyPath, []byte(spec.AuthorizedKey+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", keyPath, err)
	}

	owner := spec.Username + ":" + spec.Username
	if _, err := a.run.Run(ctx, "chown", "-R", owner, sshDir); err != nil {
		return fmt.Errorf("failed to set ownership on %s: %w", sshDir, err)
	}
	return nil
}
