package resources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hullhq/bosun/pkg/types"
)

// stackDocument is the compose-style service-definition file layout.
type stackDocument struct {
	Services map[string]types.StackService `yaml:"services"`
	Volumes  map[string]struct{}           `yaml:"volumes,omitempty"`
}

// Stack implements the reconciler primitives for the compose-stack kind: a
// generated service-definition file consumed by external orchestration
// tooling. Like all file artifacts it is written once and never updated.
type Stack struct{}

// NewStack creates compose-stack primitives.
func NewStack() *Stack {
	return &Stack{}
}

// Probe reports whether the stack file exists.
func (s *Stack) Probe(_ context.Context, res types.ManagedResource) (types.ObservedState, error) {
	if res.Stack == nil {
		return types.StateAbsent, fmt.Errorf("resource %s has no stack spec", res.Name)
	}

	if _, err := os.Stat(res.Stack.Path); err != nil {
		if os.IsNotExist(err) {
			return types.StateAbsent, nil
		}
		return types.StateAbsent, fmt.Errorf("failed to stat %s: %w", res.Stack.Path, err)
	}
	return types.StatePresentRunning, nil
}

// Create renders the service-definition YAML and writes it.
func (s *Stack) Create(_ context.Context, res types.ManagedResource) error {
	spec := res.Stack
	if spec == nil {
		return fmt.Errorf("resource %s has no stack spec", res.Name)
	}

	doc := stackDocument{Services: spec.Services}
	if len(spec.Volumes) > 0 {
		doc.Volumes = make(map[string]struct{}, len(spec.Volumes))
		for _, v := range spec.Volumes {
			doc.Volumes[v] = struct{}{}
		}
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to render stack file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(spec.Path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", spec.Path, err)
	}
	if err := os.WriteFile(spec.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", spec.Path, err)
	}
	return nil
}

// Start is not applicable to the generated stack file.
func (s *Stack) Start(_ context.Context, res types.ManagedResource) error {
	return fmt.Errorf("stack file %s cannot be started", res.Name)
}
