package manifest

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestAddSnapshot(t *testing.T) {
	ttt := []struct {
		name     string
		versions []string
		current  string
		previous string
		order    []string
	}{
		{name: "empty"},
		{name: "single", versions: []string{"1.0.0"}, current: "1.0.0", order: []string{"1.0.0"}},
		{
			name:     "ascending",
			versions: []string{"1.0.0", "1.1.0", "2.0.0"},
			current:  "2.0.0",
			previous: "1.1.0",
			order:    []string{"1.0.0", "1.1.0", "2.0.0"},
		},
		{
			name:     "out of order",
			versions: []string{"1.10.0", "1.2.0", "1.9.0"},
			current:  "1.10.0",
			previous: "1.9.0",
			order:    []string{"1.2.0", "1.9.0", "1.10.0"},
		},
		{
			name:     "prerelease sorts first",
			versions: []string{"1.0.0", "1.0.0-rc.1"},
			current:  "1.0.0",
			previous: "1.0.0-rc.1",
			order:    []string{"1.0.0-rc.1", "1.0.0"},
		},
		{
			name:     "replace same version",
			versions: []string{"1.0.0", "1.1.0", "1.0.0"},
			current:  "1.1.0",
			previous: "1.0.0",
			order:    []string{"1.0.0", "1.1.0"},
		},
		{
			name:     "replace equal version",
			versions: []string{"1.0", "1.1.0", "1.0.0"},
			current:  "1.1.0",
			previous: "1.0.0",
			order:    []string{"1.0.0", "1.1.0"},
		},
		{
			name:     "short form replaces full",
			versions: []string{"2.0.0", "v2"},
			current:  "v2",
			order:    []string{"v2"},
		},
	}

	for _, tt := range ttt {
		t.Run(tt.name, func(t *testing.T) {
			var m Manifest
			for _, v := range tt.versions {
				require.NoError(t, m.AddSnapshot(Snapshot{Name: "api", Version: v}))
			}
			require.Equal(t, tt.current, m.CurrentVersion)
			require.Equal(t, tt.previous, m.PreviousVersion)

			var order []string
			for _, s := range m.Snapshots {
				order = append(order, s.Version)
			}
			require.Empty(t, cmp.Diff(tt.order, order))
		})
	}
}

func TestAddSnapshotInvalidVersion(t *testing.T) {
	var m Manifest
	err := m.AddSnapshot(Snapshot{Name: "api", Version: "latest"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidVersion))
	require.Empty(t, m.Snapshots)
}

func TestLoadSave(t *testing.T) {
	fs := afero.NewMemMapFs()

	m, err := Load(fs, "/gen/manifest.yaml")
	require.NoError(t, err)
	require.Empty(t, m.Snapshots)

	require.NoError(t, m.AddSnapshot(Snapshot{
		Name:    "api",
		Version: "0.2.0",
		Target:  "java",
		Dir:     "/gen/0.2.0",
		Files:   []string{"com/example/Shape.java"},
	}))
	require.NoError(t, m.AddSnapshot(Snapshot{Name: "api", Version: "0.1.0", Target: "java", Dir: "/gen/0.1.0"}))
	require.NoError(t, m.Save(fs, "/gen/manifest.yaml"))

	loaded, err := Load(fs, "/gen/manifest.yaml")
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(m, loaded))

	s, ok := loaded.Snapshot("0.2.0")
	require.True(t, ok)
	require.Equal(t, []string{"com/example/Shape.java"}, s.Files)

	s, ok = loaded.Snapshot("0.2")
	require.True(t, ok)
	require.Equal(t, "0.2.0", s.Version)

	_, ok = loaded.Snapshot("9.9.9")
	require.False(t, ok)
	_, ok = loaded.Snapshot("latest")
	require.False(t, ok)
}

func TestLoadRejectsBadVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/m.yaml", []byte("snapshots:\n  - name: api\n    version: nope\n"), 0o644))

	_, err := Load(fs, "/m.yaml")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidVersion))
}

func TestSelect(t *testing.T) {
	var m Manifest
	for _, v := range []string{"0.9.0", "1.0.0", "1.4.2", "2.0.0"} {
		require.NoError(t, m.AddSnapshot(Snapshot{Name: "api", Version: v}))
	}

	got, err := m.Select(">= 1.0, < 2")
	require.NoError(t, err)
	var versions []string
	for _, s := range got {
		versions = append(versions, s.Version)
	}
	require.Equal(t, []string{"1.0.0", "1.4.2"}, versions)

	_, err = m.Select("not a constraint")
	require.Error(t, err)
}
