package resources

import (
	"context"
	"fmt"

	"github.com/hullhq/bosun/pkg/types"
)

// ContainerRuntime is the structured container backend. Satisfied by
// runtime.ContainerdRuntime; tests substitute a fake.
type ContainerRuntime interface {
	Probe(ctx context.Context, name string) (types.ObservedState, error)
	Create(ctx context.Context, name string, spec *types.ContainerSpec) error
	Start(ctx context.Context, name string) error
}

// Container implements the reconciler primitives for the container kind.
type Container struct {
	rt ContainerRuntime
}

// NewContainer creates container primitives backed by rt.
func NewContainer(rt ContainerRuntime) *Container {
	return &Container{rt: rt}
}

// Probe queries the runtime for a container with exactly the resource name.
func (c *Container) Probe(ctx context.Context, res types.ManagedResource) (types.ObservedState, error) {
	return c.rt.Probe(ctx, res.Name)
}

// Create pulls, creates, and starts the container from its desired spec.
func (c *Container) Create(ctx context.Context, res types.ManagedResource) error {
	if res.Container == nil {
		return fmt.Errorf("resource %s has no container spec", res.Name)
	}
	return c.rt.Create(ctx, res.Name, res.Container)
}

// Start starts the existing stopped container without recreating it.
func (c *Container) Start(ctx context.Context, res types.ManagedResource) error {
	return c.rt.Start(ctx, res.Name)
}
