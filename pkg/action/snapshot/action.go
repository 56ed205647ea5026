package snapshot

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/cmmoran/rdcgen/pkg/action/generate"
	"github.com/cmmoran/rdcgen/pkg/manifest"
	"github.com/cmmoran/rdcgen/pkg/options"
)

var ErrNoPrevious = errors.New("no current/previous snapshots recorded")

// GenerateFunc writes the sources for opts and returns their paths.
type GenerateFunc func(fs afero.Fs, opts *options.Options) ([]string, error)

// Record generates the sources for opts into <OutDir>/<version> and records
// the snapshot in opts.Manifest.
func Record(fs afero.Fs, opts *options.Options, name, version string) (manifest.Snapshot, error) {
	return record(fs, opts, name, version, generate.Generate)
}

func record(fs afero.Fs, opts *options.Options, name, version string, gen GenerateFunc) (manifest.Snapshot, error) {
	if _, err := manifest.ParseVersion(version); err != nil {
		return manifest.Snapshot{}, err
	}
	if err := opts.Normalize(); err != nil {
		return manifest.Snapshot{}, err
	}

	m, err := manifest.Load(fs, opts.Manifest)
	if err != nil {
		return manifest.Snapshot{}, err
	}

	dir := filepath.Join(opts.OutDir, version)
	stale := []string{dir}
	// an equal version spelled differently, e.g. 1.0 for 1.0.0
	if prev, ok := m.Snapshot(version); ok && prev.Dir != "" && prev.Dir != dir {
		stale = append(stale, prev.Dir)
	}
	for _, d := range stale {
		if err := fs.RemoveAll(d); err != nil {
			return manifest.Snapshot{}, errors.Wrapf(err, "snapshot: clear %s", d)
		}
	}
	// a go package keeps the name it would have had in OutDir
	paths, err := gen(fs, opts.Apply(options.WithOutDir(dir)))
	if err != nil {
		return manifest.Snapshot{}, err
	}

	s := manifest.Snapshot{Name: name, Version: version, Target: opts.Target, Dir: dir}
	for _, p := range paths {
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return manifest.Snapshot{}, errors.Wrapf(err, "snapshot: %s", p)
		}
		s.Files = append(s.Files, filepath.ToSlash(rel))
	}
	slices.Sort(s.Files)

	if err := m.AddSnapshot(s); err != nil {
		return manifest.Snapshot{}, err
	}
	if err := m.Save(fs, opts.Manifest); err != nil {
		return manifest.Snapshot{}, err
	}

	slog.Info("recorded snapshot", "name", name, "version", version, "files", len(s.Files), "manifest", opts.Manifest)
	return s, nil
}

// List returns all snapshots recorded in the manifest.
func List(fs afero.Fs, manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(fs, manifestPath)
}

// DiffCurrentWithPrevious loads the manifest and returns a diff of every file
// of the previous and current snapshots, in file name order. Files present on
// only one side diff against the empty string. An empty result means the two
// snapshots are identical.
func DiffCurrentWithPrevious(fs afero.Fs, manifestPath string) (string, error) {
	m, err := manifest.Load(fs, manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", ErrNoPrevious
	}
	current, _ := m.Snapshot(m.CurrentVersion)
	previous, _ := m.Snapshot(m.PreviousVersion)

	files := slices.Concat(previous.Files, current.Files)
	slices.Sort(files)
	files = slices.Compact(files)

	var b strings.Builder
	for _, f := range files {
		before, err := read(fs, previous, f)
		if err != nil {
			return "", err
		}
		after, err := read(fs, current, f)
		if err != nil {
			return "", err
		}
		if d := cmp.Diff(before, after); d != "" {
			b.WriteString("--- " + previous.Version + "/" + f + "\n")
			b.WriteString("+++ " + current.Version + "/" + f + "\n")
			b.WriteString(d)
		}
	}

	return b.String(), nil
}

func read(fs afero.Fs, s manifest.Snapshot, file string) (string, error) {
	if !slices.Contains(s.Files, file) {
		return "", nil
	}
	data, err := afero.ReadFile(fs, filepath.Join(s.Dir, filepath.FromSlash(file)))
	if err != nil {
		return "", errors.Wrapf(err, "read snapshot %s", s.Version)
	}
	return string(data), nil
}
