package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/rdcgen/pkg/manifest"
	"github.com/cmmoran/rdcgen/pkg/options"
)

// fakeGen writes files (name -> content) under opts.OutDir.
func fakeGen(files map[string]string) GenerateFunc {
	return func(fs afero.Fs, opts *options.Options) ([]string, error) {
		var paths []string
		for name, content := range files {
			p := filepath.Join(opts.OutDir, name)
			if err := fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return nil, err
			}
			if err := afero.WriteFile(fs, p, []byte(content), 0o644); err != nil {
				return nil, err
			}
			paths = append(paths, p)
		}
		return paths, nil
	}
}

func testOpts() *options.Options {
	return options.NewOptions().Apply(options.WithOutDir("/gen"), options.WithTarget("go"))
}

func TestRecord(t *testing.T) {
	fs := afero.NewMemMapFs()

	s, err := record(fs, testOpts(), "api", "1.0.0", fakeGen(map[string]string{
		"shape_gen.go": "package gen\n",
		"point_gen.go": "package gen\n",
	}))
	require.NoError(t, err)
	require.Equal(t, manifest.Snapshot{
		Name:    "api",
		Version: "1.0.0",
		Target:  "go",
		Dir:     "/gen/1.0.0",
		Files:   []string{"point_gen.go", "shape_gen.go"},
	}, s)

	ok, err := afero.Exists(fs, "/gen/1.0.0/shape_gen.go")
	require.NoError(t, err)
	require.True(t, ok)

	m, err := List(fs, "/gen/manifest.yaml")
	require.NoError(t, err)
	require.Equal(t, "1.0.0", m.CurrentVersion)
	require.Empty(t, m.PreviousVersion)
	require.Len(t, m.Snapshots, 1)
}

func TestRecordPackageName(t *testing.T) {
	var pkg string
	gen := func(fs afero.Fs, opts *options.Options) ([]string, error) {
		pkg = opts.Package
		return nil, nil
	}
	_, err := record(afero.NewMemMapFs(), testOpts(), "api", "0.1.0", gen)
	require.NoError(t, err)
	require.Equal(t, "gen", pkg)
}

func TestRecordInvalidVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := record(fs, testOpts(), "api", "next", fakeGen(nil))
	require.True(t, errors.Is(err, manifest.ErrInvalidVersion))

	ok, err := afero.Exists(fs, "/gen/manifest.yaml")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRecordReplacesOldFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := record(fs, testOpts(), "api", "1.0.0", fakeGen(map[string]string{"old_gen.go": "x"}))
	require.NoError(t, err)
	_, err = record(fs, testOpts(), "api", "1.0.0", fakeGen(map[string]string{"new_gen.go": "y"}))
	require.NoError(t, err)

	ok, err := afero.Exists(fs, "/gen/1.0.0/old_gen.go")
	require.NoError(t, err)
	require.False(t, ok)

	m, err := List(fs, "/gen/manifest.yaml")
	require.NoError(t, err)
	require.Len(t, m.Snapshots, 1)
	require.Equal(t, []string{"new_gen.go"}, m.Snapshots[0].Files)
}

func TestRecordReplacesEqualVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := record(fs, testOpts(), "api", "1.0", fakeGen(map[string]string{"old_gen.go": "x"}))
	require.NoError(t, err)
	s, err := record(fs, testOpts(), "api", "1.0.0", fakeGen(map[string]string{"new_gen.go": "y"}))
	require.NoError(t, err)
	require.Equal(t, "/gen/1.0.0", s.Dir)

	ok, err := afero.DirExists(fs, "/gen/1.0")
	require.NoError(t, err)
	require.False(t, ok)

	m, err := List(fs, "/gen/manifest.yaml")
	require.NoError(t, err)
	require.Len(t, m.Snapshots, 1)
	require.Equal(t, "1.0.0", m.CurrentVersion)
	require.Empty(t, m.PreviousVersion)
}

func TestDiffCurrentWithPrevious(ttt *testing.T) {
	tests := []struct {
		name     string
		previous map[string]string
		current  map[string]string
		contains []string
		excludes []string
	}{
		{
			name:     "identical",
			previous: map[string]string{"a_gen.go": "package gen\n"},
			current:  map[string]string{"a_gen.go": "package gen\n"},
		},
		{
			name:     "changed file",
			previous: map[string]string{"a_gen.go": "type A struct{}\n", "b_gen.go": "same\n"},
			current:  map[string]string{"a_gen.go": "type A struct{ X int }\n", "b_gen.go": "same\n"},
			contains: []string{"--- 1.0.0/a_gen.go", "+++ 1.1.0/a_gen.go", "type A struct{ X int }"},
			excludes: []string{"b_gen.go"},
		},
		{
			name:     "added and removed",
			previous: map[string]string{"old_gen.go": "old\n"},
			current:  map[string]string{"new_gen.go": "new\n"},
			contains: []string{"+++ 1.1.0/new_gen.go", "+++ 1.1.0/old_gen.go", "new", "old"},
		},
	}

	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			// recorded out of order: current is the highest version
			_, err := record(fs, testOpts(), "api", "1.1.0", fakeGen(tt.current))
			require.NoError(t, err)
			_, err = record(fs, testOpts(), "api", "1.0.0", fakeGen(tt.previous))
			require.NoError(t, err)

			diff, err := DiffCurrentWithPrevious(fs, "/gen/manifest.yaml")
			require.NoError(t, err)
			if len(tt.contains) == 0 {
				require.Empty(t, diff)
			}
			for _, s := range tt.contains {
				require.Contains(t, diff, s)
			}
			for _, s := range tt.excludes {
				require.NotContains(t, diff, s)
			}
		})
	}
}

func TestDiffNeedsTwoSnapshots(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := DiffCurrentWithPrevious(fs, "/gen/manifest.yaml")
	require.True(t, errors.Is(err, ErrNoPrevious))

	_, err = record(fs, testOpts(), "api", "1.0.0", fakeGen(map[string]string{"a_gen.go": "a"}))
	require.NoError(t, err)
	_, err = DiffCurrentWithPrevious(fs, "/gen/manifest.yaml")
	require.True(t, errors.Is(err, ErrNoPrevious))
}
