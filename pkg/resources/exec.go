package resources

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner executes a system administration command and returns its combined
// output. The firewall and account primitives shell out through this
// interface so tests can record and fake invocations.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes the command and returns combined stdout/stderr. A nonzero
// exit is an error carrying the captured output.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%s failed: %w (output: %s)", name, err, string(output))
	}
	return string(output), nil
}
