package generate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"api", "api/v1", ".git/objects", "gen/model", "testdata", "_examples", "vendor/x"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "api", "types.go"), []byte("package api\n"), 0o644))

	dirs, err := watchDirs(root, filepath.Join(root, "gen"))
	require.NoError(t, err)
	require.Equal(t, []string{root, filepath.Join(root, "api"), filepath.Join(root, "api", "v1")}, dirs)

	dirs, err = watchDirs(filepath.Join(root, "api", "types.go"), "")
	require.NoError(t, err)
	require.Empty(t, dirs)

	_, err = watchDirs(filepath.Join(root, "missing"), "")
	require.Error(t, err)
}

func TestRelevant(ttt *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write go", fsnotify.Event{Name: "a/types.go", Op: fsnotify.Write}, true},
		{"create go", fsnotify.Event{Name: "a/new.go", Op: fsnotify.Create}, true},
		{"remove go", fsnotify.Event{Name: "a/old.go", Op: fsnotify.Remove}, true},
		{"chmod go", fsnotify.Event{Name: "a/types.go", Op: fsnotify.Chmod}, false},
		{"write other", fsnotify.Event{Name: "a/README.md", Op: fsnotify.Write}, false},
		{"editor swap", fsnotify.Event{Name: "a/.types.go.swp", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, relevant(tt.ev))
		})
	}
}
