package resources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hullhq/bosun/pkg/reconciler"
	"github.com/hullhq/bosun/pkg/types"
)

func fileResource(path string, content string, sensitive bool) types.ManagedResource {
	return types.ManagedResource{
		Kind: types.KindConfigFile,
		Name: filepath.Base(path),
		File: &types.FileSpec{
			Path:      path,
			Content:   []byte(content),
			Sensitive: sensitive,
		},
	}
}

func TestFile_CreatedWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app", "odoo.conf")
	res := fileResource(path, "[options]\n", false)

	got := reconciler.Reconcile(context.Background(), res, NewFile())

	require.Equal(t, types.ActionCreated, got.Action)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[options]\n", string(data))
}

func TestFile_NeverOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odoo.conf")
	require.NoError(t, os.WriteFile(path, []byte("operator edits\n"), 0644))

	res := fileResource(path, "generated default\n", false)
	got := reconciler.Reconcile(context.Background(), res, NewFile())

	assert.Equal(t, types.ActionAlreadySatisfied, got.Action)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "operator edits\n", string(data),
		"existing file must be left untouched even when desired content differs")
}

func TestFile_SensitivePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.env")
	res := fileResource(path, "DB_PASSWORD=secret\n", true)

	got := reconciler.Reconcile(context.Background(), res, NewFile())
	require.Equal(t, types.ActionCreated, got.Action)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(),
		"sensitive file must be owner-only")
}

func TestFile_NonSensitivePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack.yml")
	res := fileResource(path, "services: {}\n", false)

	require.NoError(t, NewFile().Create(context.Background(), res))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestFile_StartNotApplicable(t *testing.T) {
	res := fileResource(filepath.Join(t.TempDir(), "x"), "", false)
	assert.Error(t, NewFile().Start(context.Background(), res))
}

func TestFile_MissingSpec(t *testing.T) {
	res := types.ManagedResource{Kind: types.KindConfigFile, Name: "broken"}
	_, err := NewFile().Probe(context.Background(), res)
	assert.Error(t, err)
}
