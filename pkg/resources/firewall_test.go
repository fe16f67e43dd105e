package resources

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hullhq/bosun/pkg/types"
)

// fakeRunner returns canned output per command line and records every
// invocation.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	key := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func (f *fakeRunner) called(key string) bool {
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func firewallResource(rule string) types.ManagedResource {
	return types.ManagedResource{
		Kind:     types.KindFirewallRule,
		Name:     rule,
		Firewall: &types.FirewallSpec{Rule: rule},
	}
}

const activeStatus = `Status: active

To                         Action      From
--                         ------      ----
OpenSSH                    ALLOW       Anywhere
80/tcp                     ALLOW       Anywhere
8080/tcp                   ALLOW       Anywhere
`

func TestFirewall_Probe(t *testing.T) {
	tests := []struct {
		name    string
		rule    string
		outputs map[string]string
		want    types.ObservedState
	}{
		{
			name:    "active rule",
			rule:    "80/tcp",
			outputs: map[string]string{"ufw status": activeStatus},
			want:    types.StatePresentRunning,
		},
		{
			name:    "missing rule on active firewall",
			rule:    "443/tcp",
			outputs: map[string]string{"ufw status": activeStatus},
			want:    types.StateAbsent,
		},
		{
			name: "exact match does not catch prefix",
			rule: "8/tcp",
			// 80/tcp and 8080/tcp are listed; 8/tcp is not.
			outputs: map[string]string{"ufw status": activeStatus},
			want:    types.StateAbsent,
		},
		{
			name: "added rule on inactive firewall",
			rule: "80/tcp",
			outputs: map[string]string{
				"ufw status":     "Status: inactive\n",
				"ufw show added": "Added user rules (see 'ufw status' for running firewall):\nufw allow 80/tcp\n",
			},
			want: types.StatePresentStopped,
		},
		{
			name: "nothing added on inactive firewall",
			rule: "80/tcp",
			outputs: map[string]string{
				"ufw status":     "Status: inactive\n",
				"ufw show added": "Added user rules (see 'ufw status' for running firewall):\n",
			},
			want: types.StateAbsent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &fakeRunner{outputs: tt.outputs}
			got, err := NewFirewall(run).Probe(context.Background(), firewallResource(tt.rule))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirewall_ProbeFailure(t *testing.T) {
	run := &fakeRunner{errs: map[string]error{"ufw status": fmt.Errorf("ufw not installed")}}
	_, err := NewFirewall(run).Probe(context.Background(), firewallResource("80/tcp"))
	assert.Error(t, err)
}

func TestFirewall_CreateEnablesInactiveFirewall(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"ufw allow 80/tcp": "Rules updated\n",
		"ufw status":       "Status: inactive\n",
	}}

	require.NoError(t, NewFirewall(run).Create(context.Background(), firewallResource("80/tcp")))

	assert.True(t, run.called("ufw allow 80/tcp"))
	assert.True(t, run.called("ufw --force enable"))
}

func TestFirewall_EnableAllowsSSHFirst(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"ufw allow 8069/tcp": "Rules updated\n",
		"ufw status":         "Status: inactive\n",
	}}

	require.NoError(t, NewFirewall(run).Create(context.Background(), firewallResource("8069/tcp")))

	// Enabling on a host that was never hardened must not cut off the
	// operator's SSH session: the SSH allow comes before the enable.
	sshAt, enableAt := -1, -1
	for i, c := range run.calls {
		switch c {
		case "ufw allow OpenSSH":
			sshAt = i
		case "ufw --force enable":
			enableAt = i
		}
	}
	require.NotEqual(t, -1, sshAt, "SSH rule was never allowed")
	require.NotEqual(t, -1, enableAt, "firewall was never enabled")
	assert.Less(t, sshAt, enableAt)
}

func TestFirewall_CreateSkipsEnableWhenActive(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"ufw allow 443/tcp": "Rule added\n",
		"ufw status":        activeStatus,
	}}

	require.NoError(t, NewFirewall(run).Create(context.Background(), firewallResource("443/tcp")))

	assert.False(t, run.called("ufw --force enable"))
}

func TestFirewall_Start(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{}}
	require.NoError(t, NewFirewall(run).Start(context.Background(), firewallResource("80/tcp")))
	assert.Equal(t, []string{"ufw allow OpenSSH", "ufw --force enable"}, run.calls)
}
