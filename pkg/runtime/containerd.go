package runtime

import (
	"context"
	"fmt"

	"github.com/containerd/containerd"
	"github.com/containerd/containerd/cio"
	"github.com/containerd/containerd/namespaces"
	"github.com/containerd/containerd/oci"
	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/hullhq/bosun/pkg/security"
	"github.com/hullhq/bosun/pkg/types"
)

const (
	// DefaultNamespace is the containerd namespace for bosun
	DefaultNamespace = "bosun"

	// DefaultSocketPath is the default containerd socket
	DefaultSocketPath = "/run/containerd/containerd.sock"
)

// containerLister is the slice of the containerd client Probe queries.
// The real client satisfies it; tests substitute a fake.
type containerLister interface {
	Containers(ctx context.Context, filters ...string) ([]containerd.Container, error)
}

// ContainerdRuntime implements the container probe/create/start primitives
// using the containerd client API. State detection is a structured query
// against containerd, never a parse of CLI output.
type ContainerdRuntime struct {
	client    *containerd.Client
	lister    containerLister
	namespace string
}

// NewContainerdRuntime creates a new containerd runtime client
func NewContainerdRuntime(socketPath string) (*ContainerdRuntime, error) {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	client, err := containerd.New(socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to containerd: %w", err)
	}

	return &ContainerdRuntime{
		client:    client,
		lister:    client,
		namespace: DefaultNamespace,
	}, nil
}

// Close closes the containerd client connection
func (r *ContainerdRuntime) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Probe reports the observed state of the container with exactly the given
// name. The name is matched against full container IDs, never prefixes:
// a probe for "odoo" must not observe "my-odoo" or "odoo2".
func (r *ContainerdRuntime) Probe(ctx context.Context, name string) (types.ObservedState, error) {
	ctx = namespaces.WithNamespace(ctx, r.namespace)

	containers, err := r.lister.Containers(ctx, fmt.Sprintf("id==%q", name))
	if err != nil {
		return types.StateAbsent, fmt.Errorf("failed to list containers: %w", err)
	}

	var found containerd.Container
	for _, c := range containers {
		if c.ID() == name {
			found = c
			break
		}
	}
	if found == nil {
		return types.StateAbsent, nil
	}

	task, err := found.Task(ctx, nil)
	if err != nil {
		// Container exists but has no task: created or previously stopped.
		return types.StatePresentStopped, nil
	}

	status, err := task.Status(ctx)
	if err != nil {
		return types.StateAbsent, fmt.Errorf("failed to get task status for %s: %w", name, err)
	}

	switch status.Status {
	case containerd.Running, containerd.Paused, containerd.Pausing:
		return types.StatePresentRunning, nil
	default:
		return types.StatePresentStopped, nil
	}
}

// Create pulls the image if needed, creates the container, and starts it.
// A container that is created but fails to start is left as-is and the
// error is surfaced; there is no compensating deletion.
func (r *ContainerdRuntime) Create(ctx context.Context, name string, spec *types.ContainerSpec) error {
	ctx = namespaces.WithNamespace(ctx, r.namespace)

	image, err := r.ensureImage(ctx, spec.Image)
	if err != nil {
		return err
	}

	opts := []oci.SpecOpts{
		oci.WithImageConfig(image),
		oci.WithEnv(spec.Env),
		// Single-host stack: containers share the host network so published
		// ports need no NAT plumbing. Exposure is controlled by the firewall.
		oci.WithHostNamespace(specs.NetworkNamespace),
		oci.WithHostHostsFile,
		oci.WithHostResolvconf,
	}

	if len(spec.Mounts) > 0 {
		mounts := make([]specs.Mount, 0, len(spec.Mounts))
		for _, m := range spec.Mounts {
			options := []string{"rbind"}
			if m.ReadOnly {
				options = append(options, "ro")
			} else {
				options = append(options, "rw")
			}
			mounts = append(mounts, specs.Mount{
				Source:      m.Source,
				Destination: m.Destination,
				Type:        "bind",
				Options:     options,
			})
		}
		opts = append(opts, oci.WithMounts(mounts))
	}

	container, err := r.client.NewContainer(
		ctx,
		name,
		containerd.WithImage(image),
		containerd.WithNewSnapshot(security.StableID(name), image),
		containerd.WithNewSpec(opts...),
	)
	if err != nil {
		return fmt.Errorf("failed to create container %s: %w", name, err)
	}

	if err := r.startTask(ctx, container); err != nil {
		return fmt.Errorf("container %s created but failed to start: %w", name, err)
	}

	return nil
}

// Start starts an existing stopped container. The spec is not re-applied
// and the container is not recreated.
func (r *ContainerdRuntime) Start(ctx context.Context, name string) error {
	ctx = namespaces.WithNamespace(ctx, r.namespace)

	container, err := r.client.LoadContainer(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to load container %s: %w", name, err)
	}

	// A stopped container may still own an exited task; it must be deleted
	// before a new one can be created.
	if task, terr := container.Task(ctx, nil); terr == nil {
		status, serr := task.Status(ctx)
		if serr == nil && status.Status == containerd.Running {
			return nil
		}
		if _, derr := task.Delete(ctx); derr != nil {
			return fmt.Errorf("failed to delete exited task for %s: %w", name, derr)
		}
	}

	if err := r.startTask(ctx, container); err != nil {
		return fmt.Errorf("failed to start container %s: %w", name, err)
	}

	return nil
}

// startTask creates and starts the running instance of a container.
func (r *ContainerdRuntime) startTask(ctx context.Context, container containerd.Container) error {
	task, err := container.NewTask(ctx, cio.NullIO)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := task.Start(ctx); err != nil {
		return fmt.Errorf("failed to start task: %w", err)
	}

	return nil
}

// ensureImage returns the image, pulling it when not present locally.
func (r *ContainerdRuntime) ensureImage(ctx context.Context, ref string) (containerd.Image, error) {
	image, err := r.client.GetImage(ctx, ref)
	if err == nil {
		return image, nil
	}

	image, err = r.client.Pull(ctx, ref, containerd.WithPullUnpack)
	if err != nil {
		return nil, fmt.Errorf("failed to pull image %s: %w", ref, err)
	}

	return image, nil
}
