package golang

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// Write stores files under dir and returns the written paths.
func Write(fs afero.Fs, dir string, files []File) ([]string, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "go: create %s", dir)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := afero.WriteFile(fs, path, []byte(f.Code), 0o644); err != nil {
			return nil, errors.Wrapf(err, "go: write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
