package generate

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/cmmoran/rdcgen/pkg/options"
)

// DefaultDebounce groups the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Watch generates once, then regenerates whenever a .go file below
// opts.InDir changes, until ctx is done. Generation errors are logged and
// watching continues.
func Watch(ctx context.Context, afs afero.Fs, opts *options.Options, debounce time.Duration) error {
	if err := opts.Normalize(); err != nil {
		return err
	}
	run := func() {
		if _, err := Generate(afs, opts.Apply()); err != nil {
			slog.Error("generation failed", "error", err)
		}
	}
	run()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "generate: create watcher")
	}
	defer w.Close()

	dirs, err := watchDirs(opts.InDir, opts.OutDir)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return errors.Wrapf(err, "generate: watch %s", d)
		}
	}
	slog.Info("watching for changes", "in_dir", opts.InDir, "directories", len(dirs))

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if dirs, err := watchDirs(ev.Name, opts.OutDir); err == nil {
					for _, d := range dirs {
						_ = w.Add(d)
					}
				}
			}
			if relevant(ev) {
				slog.Debug("source changed", "file", ev.Name, "op", ev.Op.String())
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		case <-timer.C:
			run()
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !strings.HasSuffix(ev.Name, ".go") {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// watchDirs lists root and its subdirectories, skipping skip, hidden
// directories, testdata and vendor. root need not be a directory.
func watchDirs(root, skip string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path == skip || (path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor")) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "generate: list %s", root)
	}
	return dirs, nil
}
