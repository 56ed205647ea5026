package generate

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/cmmoran/rdcgen/internal/parser"
	"github.com/cmmoran/rdcgen/pkg/ir"
	"github.com/cmmoran/rdcgen/pkg/model"
	"github.com/cmmoran/rdcgen/pkg/options"
	"github.com/cmmoran/rdcgen/pkg/targets/golang"
	"github.com/cmmoran/rdcgen/pkg/targets/java"
)

// Generate reads the Go package tree at opts.InDir, collects its root types
// and writes the target sources under opts.OutDir. It returns the written
// paths. Sources are read from disk; fs only receives the output.
func Generate(fs afero.Fs, opts *options.Options) ([]string, error) {
	p, err := parser.NewWithOpts(opts)
	if err != nil {
		return nil, err
	}
	if err = p.Parse(); err != nil {
		return nil, err
	}
	roots, err := p.Roots()
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, errors.WithHint(
			errors.Newf("generate: no root types in %s", p.Opts.InDir),
			"declare an exported struct, enum or union, or pass --type",
		)
	}

	return Render(fs, &p.Opts, roots...)
}

// Render builds the IR for opts.Target from roots and writes the generated
// sources. opts must already be normalized.
func Render(fs afero.Fs, opts *options.Options, roots ...*model.HostType) ([]string, error) {
	var (
		paths []string
		err   error
	)
	switch opts.Target {
	case options.TargetJava:
		r := collect(java.Target{}, roots)
		var classes []java.Class
		if classes, err = java.Generate(r); err != nil {
			return nil, err
		}
		paths, err = java.Write(fs, opts.OutDir, opts.Package, classes)
	case options.TargetGo:
		r := collect(golang.Target{}, roots)
		var files []golang.File
		if files, err = golang.Generate(r, opts.Package); err != nil {
			return nil, err
		}
		paths, err = golang.Write(fs, opts.OutDir, files)
	default:
		return nil, errors.Mark(errors.Newf("generate: unknown target %q", opts.Target), options.ErrInvalidOptions)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("generated sources",
		"target", opts.Target,
		"package", opts.Package,
		"roots", len(roots),
		"files", len(paths),
		"out_dir", opts.OutDir,
	)
	return paths, nil
}

func collect(target ir.Target, roots []*model.HostType) *ir.IntermediateRepresentation {
	r := ir.New(target)
	for _, h := range roots {
		r.Add(h)
	}
	slog.Debug("collected types", "target", target.Name(), "entities", r.Len())
	return r
}
