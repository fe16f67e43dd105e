package resources

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/hullhq/bosun/pkg/types"
)

func testAuthorizedKey(t *testing.T) string {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
}

func accountResource(username, key string, sudo bool) types.ManagedResource {
	return types.ManagedResource{
		Kind: types.KindOsAccount,
		Name: username,
		Account: &types.AccountSpec{
			Username:      username,
			AuthorizedKey: key,
			Sudo:          sudo,
		},
	}
}

func lookupIn(home string, known ...string) LookupUser {
	return func(username string) (*user.User, error) {
		for _, k := range known {
			if username == k {
				return &user.User{Username: username, HomeDir: home}, nil
			}
		}
		return nil, user.UnknownUserError(username)
	}
}

func TestAccount_ProbeAbsent(t *testing.T) {
	acct := NewAccount(&fakeRunner{}).WithLookup(lookupIn("", "deploy"))

	got, err := acct.Probe(context.Background(), accountResource("operator", "", false))
	require.NoError(t, err)
	assert.Equal(t, types.StateAbsent, got)
}

func TestAccount_ProbePresent(t *testing.T) {
	acct := NewAccount(&fakeRunner{}).WithLookup(lookupIn("/home/deploy", "deploy"))

	got, err := acct.Probe(context.Background(), accountResource("deploy", "", false))
	require.NoError(t, err)
	assert.Equal(t, types.StatePresentRunning, got)
}

func TestAccount_CreateInstallsKey(t *testing.T) {
	home := t.TempDir()
	key := testAuthorizedKey(t)
	run := &fakeRunner{outputs: map[string]string{}}
	acct := NewAccount(run).WithLookup(lookupIn(home, "deploy"))

	err := acct.Create(context.Background(), accountResource("deploy", key, true))
	require.NoError(t, err)

	assert.True(t, run.called("useradd --create-home --shell /bin/bash deploy"))
	assert.True(t, run.called("usermod -aG sudo deploy"))
	assert.True(t, run.called("chown -R deploy:deploy "+filepath.Join(home, ".ssh")))

	keyPath := filepath.Join(home, ".ssh", "authorized_keys")
	data, err := os.ReadFile(keyPath)
	require.NoError(t, err)
	assert.Equal(t, key+"\n", string(data))

	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Join(home, ".ssh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestAccount_CreateWithoutSudo(t *testing.T) {
	home := t.TempDir()
	run := &fakeRunner{outputs: map[string]string{}}
	acct := NewAccount(run).WithLookup(lookupIn(home, "deploy"))

	err := acct.Create(context.Background(), accountResource("deploy", testAuthorizedKey(t), false))
	require.NoError(t, err)

	assert.False(t, run.called("usermod -aG sudo deploy"))
}

func TestAccount_CreateRejectsInvalidKeyBeforeMutation(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{}}
	acct := NewAccount(run).WithLookup(lookupIn(t.TempDir(), "deploy"))

	err := acct.Create(context.Background(), accountResource("deploy", "not an ssh key", false))
	require.Error(t, err)
	assert.Empty(t, run.calls, "no command may run before key validation passes")
}

func TestAccount_StartNotApplicable(t *testing.T) {
	acct := NewAccount(&fakeRunner{})
	assert.Error(t, acct.Start(context.Background(), accountResource("deploy", "", false)))
}
