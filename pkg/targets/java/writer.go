package java

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// Write lays classes out as dir/<package segments>/<Name>.java, each file
// starting with its package clause. It returns the written paths.
func Write(fs afero.Fs, dir, pkg string, classes []Class) ([]string, error) {
	target := dir
	if pkg != "" {
		target = filepath.Join(append([]string{dir}, strings.Split(pkg, ".")...)...)
	}
	if err := fs.MkdirAll(target, 0o755); err != nil {
		return nil, errors.Wrapf(err, "java: create %s", target)
	}

	paths := make([]string, 0, len(classes))
	for _, c := range classes {
		var b strings.Builder
		if pkg != "" {
			b.WriteString("package " + pkg + ";\n\n")
		}
		b.WriteString(c.Code)

		path := filepath.Join(target, c.Name+".java")
		if err := afero.WriteFile(fs, path, []byte(b.String()), 0o644); err != nil {
			return nil, errors.Wrapf(err, "java: write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
