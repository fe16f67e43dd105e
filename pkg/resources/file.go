package resources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hullhq/bosun/pkg/types"
)

// File implements the reconciler primitives for config-file artifacts.
//
// File artifacts have two states: absent (default content is written) and
// present (left untouched, even when the desired content has since changed).
// Never updating an existing file is a documented limitation carried over
// from the behavior this tool replaces.
type File struct{}

// NewFile creates file-artifact primitives.
func NewFile() *File {
	return &File{}
}

// Probe reports whether the file exists. Present files map to
// StatePresentRunning; the stopped state does not apply to files.
func (f *File) Probe(_ context.Context, res types.ManagedResource) (types.ObservedState, error) {
	if res.File == nil {
		return types.StateAbsent, fmt.Errorf("resource %s has no file spec", res.Name)
	}

	if _, err := os.Stat(res.File.Path); err != nil {
		if os.IsNotExist(err) {
			return types.StateAbsent, nil
		}
		return types.StateAbsent, fmt.Errorf("failed to stat %s: %w", res.File.Path, err)
	}
	return types.StatePresentRunning, nil
}

// Create writes the default content. Sensitive files get owner-only
// permissions.
func (f *File) Create(_ context.Context, res types.ManagedResource) error {
	spec := res.File
	if spec == nil {
		return fmt.Errorf("resource %s has no file spec", res.Name)
	}

	if err := os.MkdirAll(filepath.Dir(spec.Path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", spec.Path, err)
	}

	mode := os.FileMode(0644)
	if spec.Sensitive {
		mode = 0600
	}

	if err := os.WriteFile(spec.Path, spec.Content, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", spec.Path, err)
	}
	return nil
}

// Start is not applicable to file artifacts; Probe never reports a file as
// stopped, so this is unreachable through the reconciler.
func (f *File) Start(_ context.Context, res types.ManagedResource) error {
	return fmt.Errorf("file artifact %s cannot be started", res.Name)
}
