package types

import (
	"time"
)

// ResourceKind identifies the class of externally-managed resource.
type ResourceKind string

const (
	KindContainer    ResourceKind = "container"
	KindComposeStack ResourceKind = "compose-stack"
	KindConfigFile   ResourceKind = "config-file"
	KindNetwork      ResourceKind = "network"
	KindFirewallRule ResourceKind = "firewall-rule"
	KindOsAccount    ResourceKind = "os-account"
)

// ObservedState is the result of probing the external system for a resource.
type ObservedState string

const (
	StateAbsent         ObservedState = "absent"
	StatePresentStopped ObservedState = "present-stopped"
	StatePresentRunning ObservedState = "present-running"
)

// Action is the corrective action a reconciliation applied.
type Action string

const (
	ActionCreated          Action = "created"
	ActionStartedExisting  Action = "started-existing"
	ActionAlreadySatisfied Action = "already-satisfied"
	ActionFailed           Action = "failed"
)

// Outcome is the result record returned from one reconciliation call.
// It replaces process-wide status flags: the caller decides what to do
// with a failure instead of reading ambient state.
type Outcome struct {
	Resource ManagedResource
	Action   Action
	Observed ObservedState
	Reason   string // populated when Action == ActionFailed
	Duration time.Duration
}

// Failed reports whether the reconciliation ended in failure.
func (o Outcome) Failed() bool {
	return o.Action == ActionFailed
}

// ManagedResource identifies one externally-managed thing and carries the
// opaque parameters needed to create it. Exactly one of the kind-specific
// spec fields is set, matching Kind.
type ManagedResource struct {
	Kind ResourceKind
	Name string

	Container *ContainerSpec
	Stack     *StackSpec
	File      *FileSpec
	Network   *NetworkSpec
	Firewall  *FirewallSpec
	Account   *AccountSpec
}

// ContainerSpec declares a container to run under containerd.
type ContainerSpec struct {
	Image  string
	Env    []string
	Mounts []BindMount
	Ports  []PortMapping
}

// BindMount maps a host path into a container.
type BindMount struct {
	Source      string
	Destination string
	ReadOnly    bool
}

// PortMapping publishes a container port on the host.
type PortMapping struct {
	HostPort      int
	ContainerPort int
	Protocol      string // "tcp" or "udp", defaults to tcp
}

// StackSpec declares a compose-style service-definition file describing the
// whole stack. The file is consumed by external tooling; bosun only ensures
// it exists.
type StackSpec struct {
	Path     string
	Services map[string]StackService
	Volumes  []string
}

// StackService is one service entry in the generated stack file.
type StackService struct {
	Image     string            `yaml:"image"`
	Restart   string            `yaml:"restart,omitempty"`
	Env       map[string]string `yaml:"environment,omitempty"`
	Ports     []string          `yaml:"ports,omitempty"`
	Volumes   []string          `yaml:"volumes,omitempty"`
	DependsOn []string          `yaml:"depends_on,omitempty"`
}

// FileSpec declares a config-file artifact. Content is written only when the
// file is absent; an existing file is never updated.
type FileSpec struct {
	Path      string
	Content   []byte
	Sensitive bool // owner-only permissions when true
}

// NetworkSpec declares the host data directories backing the stack.
// Containers share the host network namespace, so there is no port
// forwarding to declare; exposure is the firewall rule's concern.
type NetworkSpec struct {
	DataDirs []string
}

// FirewallSpec declares one ufw rule.
type FirewallSpec struct {
	Rule string // e.g. "OpenSSH", "80/tcp"
}

// AccountSpec declares an OS user account with SSH key access.
type AccountSpec struct {
	Username      string
	AuthorizedKey string // OpenSSH authorized_keys line
	Sudo          bool
}

// Plan is the ordered set of resources one provisioning run manages.
// Order matters: the run is strictly sequential and aborts on first failure.
type Plan struct {
	Resources []ManagedResource
}

// RunMode distinguishes journal entries by the command that produced them.
type RunMode string

const (
	RunModeProvision RunMode = "provision"
	RunModeHarden    RunMode = "harden"
)

// RunRecord is the persisted result of one provisioning or hardening run.
type RunRecord struct {
	ID          string       `json:"id"`
	Mode        RunMode      `json:"mode"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Succeeded   bool         `json:"succeeded"`
	FailedStage string       `json:"failed_stage,omitempty"`
	Outcomes    []RunOutcome `json:"outcomes"`
}

// RunOutcome is the journal form of an Outcome.
type RunOutcome struct {
	Kind   ResourceKind `json:"kind"`
	Name   string       `json:"name"`
	Action Action       `json:"action"`
	Reason string       `json:"reason,omitempty"`
}

// CheckResult is one entry in a status-mode report.
type CheckResult struct {
	Kind    ResourceKind
	Name    string
	Passing bool
	Detail  string
}

// StatusReport is the full read-only health report produced by status mode.
// LastRun is the most recent journaled run, nil when no run was recorded.
type StatusReport struct {
	GeneratedAt time.Time
	Checks      []CheckResult
	LastRun     *RunRecord
}

// Healthy reports whether every check passed.
func (r *StatusReport) Healthy() bool {
	for _, c := range r.Checks {
		if !c.Passing {
			return false
		}
	}
	return true
}
