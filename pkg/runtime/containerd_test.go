package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/containerd/containerd"
	"github.com/containerd/containerd/cio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hullhq/bosun/pkg/types"
)

// fakeContainer carries only an ID and no task; every other Container
// method is unreachable from Probe.
type fakeContainer struct {
	containerd.Container
	id string
}

func (f fakeContainer) ID() string { return f.id }

func (f fakeContainer) Task(context.Context, cio.Attach) (containerd.Task, error) {
	return nil, errors.New("no running task")
}

// fakeLister returns every seeded container regardless of the filter
// expression, the way a loose backend could. Probe must narrow the result
// to the exact ID itself.
type fakeLister struct {
	ids []string
}

func (f *fakeLister) Containers(_ context.Context, _ ...string) ([]containerd.Container, error) {
	out := make([]containerd.Container, 0, len(f.ids))
	for _, id := range f.ids {
		out = append(out, fakeContainer{id: id})
	}
	return out, nil
}

func TestProbe_MatchesExactNameOnly(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		res  string
		want types.ObservedState
	}{
		{
			name: "similar names are not the resource",
			ids:  []string{"odoo2", "my-odoo", "odoo-web"},
			res:  "odoo",
			want: types.StateAbsent,
		},
		{
			name: "exact id without task is stopped",
			ids:  []string{"odoo2", "odoo"},
			res:  "odoo",
			want: types.StatePresentStopped,
		},
		{
			name: "no containers at all",
			ids:  nil,
			res:  "odoo",
			want: types.StateAbsent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &ContainerdRuntime{
				lister:    &fakeLister{ids: tt.ids},
				namespace: DefaultNamespace,
			}
			got, err := rt.Probe(context.Background(), tt.res)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
