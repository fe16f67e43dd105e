package resources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hullhq/bosun/pkg/types"
)

func stackResource(path string) types.ManagedResource {
	return types.ManagedResource{
		Kind: types.KindComposeStack,
		Name: "odoo",
		Stack: &types.StackSpec{
			Path: path,
			Services: map[string]types.StackService{
				"web": {
					Image:     "docker.io/library/odoo:17.0",
					Restart:   "unless-stopped",
					Ports:     []string{"8069:8069"},
					DependsOn: []string{"db"},
				},
				"db": {
					Image:   "docker.io/library/postgres:16",
					Restart: "unless-stopped",
					Env:     map[string]string{"POSTGRES_DB": "odoo"},
				},
			},
			Volumes: []string{"web-data", "db-data"},
		},
	}
}

func TestStack_CreateRendersServices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack.yml")
	require.NoError(t, NewStack().Create(context.Background(), stackResource(path)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Services map[string]types.StackService `yaml:"services"`
		Volumes  map[string]struct{}           `yaml:"volumes"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))

	require.Len(t, doc.Services, 2)
	assert.Contains(t, doc.Services, "web")
	assert.Contains(t, doc.Services, "db")
	assert.Equal(t, []string{"db"}, doc.Services["web"].DependsOn)
	assert.Contains(t, doc.Volumes, "db-data")
}

func TestStack_ProbeStates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack.yml")
	res := stackResource(path)
	s := NewStack()

	got, err := s.Probe(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, types.StateAbsent, got)

	require.NoError(t, s.Create(context.Background(), res))

	got, err = s.Probe(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, types.StatePresentRunning, got)
}

func TestStack_StartNotApplicable(t *testing.T) {
	assert.Error(t, NewStack().Start(context.Background(), stackResource("/nonexistent")))
}
