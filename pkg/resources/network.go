package resources

import (
	"context"
	"fmt"
	"os"

	"github.com/hullhq/bosun/pkg/types"
)

// Network implements the reconciler primitives for host-side stack plumbing:
// the data directories bind-mounted into the containers. Directories are
// file artifacts, so the state model collapses to present/absent.
type Network struct{}

// NewNetwork creates network primitives.
func NewNetwork() *Network {
	return &Network{}
}

// Probe reports present only when every declared data directory exists.
// A partially created set is treated as absent; Create converges it because
// directory creation is itself idempotent.
func (n *Network) Probe(_ context.Context, res types.ManagedResource) (types.ObservedState, error) {
	if res.Network == nil {
		return types.StateAbsent, fmt.Errorf("resource %s has no network spec", res.Name)
	}

	for _, dir := range res.Network.DataDirs {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return types.StateAbsent, nil
			}
			return types.StateAbsent, fmt.Errorf("failed to stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			return types.StateAbsent, fmt.Errorf("%s exists but is not a directory", dir)
		}
	}
	return types.StatePresentRunning, nil
}

// Create makes every declared data directory.
func (n *Network) Create(_ context.Context, res types.ManagedResource) error {
	for _, dir := range res.Network.DataDirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	return nil
}

// Start is not applicable to data directories.
func (n *Network) Start(_ context.Context, res types.ManagedResource) error {
	return fmt.Errorf("network resource %s cannot be started", res.Name)
}
