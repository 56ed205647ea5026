// Package verify compiles generated sources inside throwaway projects and
// runs them, feeding JSON on stdin and returning what the program prints.
// It backs the round-trip tests of the targets and needs the target
// toolchain (gradle, go) on PATH.
package verify

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/afero"
)

var (
	ErrToolMissing   = errors.New("build tool not found")
	ErrCommandFailed = errors.New("command failed")
)

const stageRoot = string(filepath.Separator)

// builds serializes toolchain invocations across tests and projects.
var builds sync.Mutex

// Project is a set of files staged in memory plus the command that builds
// and runs them.
type Project struct {
	Command string
	// Keep leaves the project directory in place after Run.
	Keep bool

	stage afero.Fs
}

// New returns an empty project run by command, a shell-style command line.
func New(command string) *Project {
	return &Project{Command: command, stage: afero.NewMemMapFs()}
}

// AddFile stages a file at the slash-separated path rel.
func (p *Project) AddFile(rel, content string) error {
	path := staged(rel)
	if err := p.stage.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "verify: stage %s", rel)
	}
	return errors.Wrapf(afero.WriteFile(p.stage, path, []byte(content), 0o644), "verify: stage %s", rel)
}

// Files lists the staged files in slash form, sorted.
func (p *Project) Files() ([]string, error) {
	var files []string
	err := afero.Walk(p.stage, stageRoot, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, filepath.ToSlash(strings.TrimPrefix(path, stageRoot)))
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// Run writes the project into a fresh directory under the system temp dir,
// runs its command there with input on stdin and returns stdout. Only one
// project runs at a time.
func (p *Project) Run(ctx context.Context, input string) (string, error) {
	args, err := shellquote.Split(p.Command)
	if err != nil {
		return "", errors.Wrapf(err, "verify: parse command %q", p.Command)
	}
	if len(args) == 0 {
		return "", errors.Newf("verify: empty command")
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		return "", errors.Mark(errors.Wrapf(err, "verify: %s", args[0]), ErrToolMissing)
	}

	slog.Debug("waiting for build lock", "command", p.Command)
	builds.Lock()
	defer builds.Unlock()

	dir := filepath.Join(os.TempDir(), "rdcgen", uuid.New().String())
	if err := p.materialize(afero.NewOsFs(), dir); err != nil {
		return "", err
	}
	if !p.Keep {
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				slog.Warn("cleaning up project", "dir", dir, "error", err)
			}
		}()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running project", "dir", dir, "command", p.Command)
	if err := cmd.Run(); err != nil {
		return stdout.String(), errors.Mark(
			errors.WithDetail(errors.Wrapf(err, "verify: %s", p.Command), stderr.String()),
			ErrCommandFailed,
		)
	}
	return stdout.String(), nil
}

// materialize copies the staged files below dir on dst.
func (p *Project) materialize(dst afero.Fs, dir string) error {
	out := afero.NewBasePathFs(dst, dir)
	if err := dst.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "verify: create %s", dir)
	}
	files, err := p.Files()
	if err != nil {
		return errors.Wrap(err, "verify: list staged files")
	}
	for _, rel := range files {
		path := filepath.FromSlash(rel)
		data, err := afero.ReadFile(p.stage, staged(rel))
		if err != nil {
			return errors.Wrapf(err, "verify: read %s", rel)
		}
		if err := out.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrapf(err, "verify: create %s", filepath.Dir(rel))
		}
		if err := afero.WriteFile(out, path, data, 0o644); err != nil {
			return errors.Wrapf(err, "verify: write %s", rel)
		}
	}
	return nil
}

func staged(rel string) string {
	return filepath.Join(stageRoot, filepath.FromSlash(rel))
}
