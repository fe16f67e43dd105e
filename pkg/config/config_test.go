package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_GeneratesOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bosun.conf")

	cfg, created, err := Load(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, cfg.DBPassword)
	assert.NotEmpty(t, cfg.AdminPassword)
	assert.NotEqual(t, cfg.DBPassword, cfg.AdminPassword)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm(),
			"generated credential file must be owner-only")
	}
}

func TestLoad_DoesNotRegenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bosun.conf")

	first, created, err := Load(path)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := Load(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.DBPassword, second.DBPassword)
	assert.Equal(t, first.AdminPassword, second.AdminPassword)
	assert.Equal(t, first.StackName, second.StackName)
}

func TestLoad_PreservesEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bosun.conf")
	content := "STACK_NAME=erp\nWEB_PORT=8080\nDB_PASSWORD=kept-as-is\nADMIN_PASSWORD=master-kept\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, created, err := Load(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "erp", cfg.StackName)
	assert.Equal(t, 8080, cfg.WebPort)
	assert.Equal(t, "kept-as-is", cfg.DBPassword)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data), "existing config file must not be rewritten")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage line", "STACK_NAME=ok\nnot a key value\n"},
		{"bad port", "WEB_PORT=eighty\n"},
		{"port out of range", "WEB_PORT=70000\nDB_PASSWORD=x\nADMIN_PASSWORD=y\n"},
		{"empty stack name", "STACK_NAME=\nDB_PASSWORD=x\nADMIN_PASSWORD=y\n"},
		{"missing db password", "STACK_NAME=ok\nADMIN_PASSWORD=y\n"},
		{"missing admin password", "STACK_NAME=ok\nDB_PASSWORD=x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

// A file an operator stripped of its credentials must be rejected outright.
// Silently regenerating a credential would give every load a different
// password while the containers keep the original.
func TestParse_NeverInventsCredentials(t *testing.T) {
	content := "STACK_NAME=erp\nDB_PASSWORD=kept\n"
	_, err := parse([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")

	full := "STACK_NAME=erp\nDB_PASSWORD=kept\nADMIN_PASSWORD=master\n"
	first, err := parse([]byte(full))
	require.NoError(t, err)
	second, err := parse([]byte(full))
	require.NoError(t, err)
	assert.Equal(t, first.AdminPassword, second.AdminPassword)
	assert.Equal(t, "master", first.AdminPassword)
}

func TestParse_IgnoresCommentsAndUnknownKeys(t *testing.T) {
	content := "# header\n\nUNKNOWN_KEY=whatever\nDB_USER=acme\nDB_PASSWORD=x\nADMIN_PASSWORD=y\n"
	cfg, err := parse([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.DBUser)
}

func TestContainerNames(t *testing.T) {
	cfg := &Config{StackName: "odoo"}
	assert.Equal(t, "odoo-web", cfg.WebContainerName())
	assert.Equal(t, "odoo-db", cfg.DBContainerName())
}
