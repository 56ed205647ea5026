package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/rdcgen/pkg/manifest"
)

func TestParseLevel(ttt *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "trace", want: LevelTrace},
		{in: "TRACE", want: LevelTrace},
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "debug+1", want: slog.LevelDebug + 1},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		ttt.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	require.True(t, names["generate"])
	require.True(t, names["snapshot"])

	gen := NewGenerateCommand()
	for flag := range optionKeys {
		require.NotNil(t, gen.Flags().Lookup(flag), flag)
	}
	require.NotNil(t, gen.Flags().Lookup("watch"))
}

func TestSnapshotTable(t *testing.T) {
	var m manifest.Manifest
	require.NoError(t, m.AddSnapshot(manifest.Snapshot{Name: "api", Version: "1.0.0", Target: "java", Dir: "/gen/1.0.0", Files: []string{"A.java"}}))
	require.NoError(t, m.AddSnapshot(manifest.Snapshot{Name: "api", Version: "1.1.0", Target: "java", Dir: "/gen/1.1.0"}))
	require.NoError(t, m.AddSnapshot(manifest.Snapshot{Name: "api", Version: "0.9.0", Target: "go", Dir: "/gen/0.9.0"}))

	data := snapshotTable(&m, m.Snapshots)
	require.Len(t, data, 4)
	require.Equal(t, []string{"0.9.0", "api", "go", "0", "/gen/0.9.0", ""}, data[1])
	require.Equal(t, []string{"1.0.0", "api", "java", "1", "/gen/1.0.0", "previous"}, data[2])
	require.Equal(t, "current", data[3][5])
}
