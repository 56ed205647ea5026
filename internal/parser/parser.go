package parser

import (
	"cmp"
	"go/token"
	"go/types"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"github.com/cmmoran/rdcgen/pkg/model"
	"github.com/cmmoran/rdcgen/pkg/options"
	"github.com/cmmoran/rdcgen/pkg/source"
)

// ErrTypeNotFound is returned when a root type expression names no type in
// the loaded packages.
var ErrTypeNotFound = errors.New("type not found")

// Parser loads a Go package tree and extracts host types from its
// declarations.
type Parser struct {
	Opts options.Options

	fset    *token.FileSet
	modDir  string
	modPath string

	// root is the package at Opts.InDir; byPath indexes it, every package
	// below it and all of their dependencies.
	root   *packages.Package
	roots  []*packages.Package
	byPath map[string]*packages.Package

	builder *Builder
}

// New creates a parser with opts applied over the defaults.
func New(opts ...options.Option) (*Parser, error) {
	return NewWithOpts(options.NewOptions().Apply(opts...))
}

func NewWithOpts(opts *options.Options) (*Parser, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}

	p := &Parser{
		Opts:   *opts,
		fset:   token.NewFileSet(),
		byPath: make(map[string]*packages.Package),
	}
	p.builder = NewBuilder(p)
	return p, nil
}

// Parse loads every package below Opts.InDir with full type information.
func (p *Parser) Parse() error {
	var err error
	if p.modDir, err = p.findGoModDir(); err != nil {
		return err
	}
	if p.modPath, err = modulePath(p.modDir); err != nil {
		return err
	}

	p.roots, err = packages.Load(&packages.Config{
		Mode: packages.LoadImports | packages.LoadAllSyntax,
		Dir:  p.Opts.InDir,
		Fset: p.fset,
	}, "./...")
	if err != nil {
		return errors.Wrapf(err, "parser: load %s", p.Opts.InDir)
	}
	for _, pkg := range p.roots {
		if len(pkg.Errors) > 0 {
			return errors.Newf("parser: %s: %s", pkg.PkgPath, pkg.Errors[0])
		}
	}
	packages.Visit(p.roots, nil, func(pkg *packages.Package) {
		p.byPath[pkg.PkgPath] = pkg
	})

	rootPath, err := p.importPath(p.Opts.InDir)
	if err != nil {
		return err
	}
	p.root = p.byPath[rootPath]
	if p.root == nil && len(p.roots) > 0 {
		p.root = p.roots[0]
	}

	slog.Debug("parsed packages",
		slog.String("module", p.modPath),
		slog.Int("roots", len(p.roots)),
		slog.Int("packages", len(p.byPath)),
	)
	return nil
}

// Lookup resolves a type expression and extracts its host type. Accepted
// forms:
//
//	Name                      a type of the package at InDir
//	Name[int32, Other]        an instantiation; arguments resolve in the type's package
//	pkg.Name                  pkg is an import path, a package name below InDir,
//	./sub.Name                or a directory relative to InDir
func (p *Parser) Lookup(expr string) (*model.HostType, error) {
	t, err := p.resolve(expr)
	if err != nil {
		return nil, err
	}
	h, err := p.builder.Build(t)
	if err != nil {
		return nil, errors.Wrapf(err, "parser: %s", expr)
	}
	slog.Debug("resolved type", slog.String("expr", expr), slog.String("identity", h.Identity()))
	return h, nil
}

// Roots extracts the root types of a generation request: Opts.Types when
// set, otherwise every exported, non-generic struct, enum and union of the
// package at InDir that is not itself a union variant.
func (p *Parser) Roots() ([]*model.HostType, error) {
	if len(p.Opts.Types) > 0 {
		out := make([]*model.HostType, 0, len(p.Opts.Types))
		for _, expr := range p.Opts.Types {
			h, err := p.Lookup(expr)
			if err != nil {
				return nil, err
			}
			out = append(out, h)
		}
		return out, nil
	}

	if p.root == nil {
		return nil, errors.Wrapf(ErrTypeNotFound, "parser: no package in %s", p.Opts.InDir)
	}
	candidates, variants := p.declarations(p.root.Types)
	var out []*model.HostType
	for _, named := range candidates {
		if _, ok := variants[named.Obj()]; ok {
			continue
		}
		h, err := p.builder.Build(named)
		if errors.Is(err, source.ErrUnsupportedType) {
			slog.Debug("skipping root", slog.String("type", named.Obj().Name()), slog.Any("error", err))
			continue
		}
		if err != nil {
			return nil, err
		}
		if h.Kind.Named() {
			out = append(out, h)
		}
	}
	return out, nil
}

// declarations returns the exported non-generic named types of pkg in
// declaration order, and the set of types that are variants of a union
// declared in pkg.
func (p *Parser) declarations(pkg *types.Package) ([]*types.Named, map[*types.TypeName]struct{}) {
	var named []*types.Named
	variants := make(map[*types.TypeName]struct{})
	for _, tn := range typeNames(pkg) {
		n, ok := tn.Type().(*types.Named)
		if !ok || !tn.Exported() || n.TypeParams().Len() > 0 {
			continue
		}
		named = append(named, n)
		if _, ok := n.Underlying().(*types.Interface); ok {
			for _, v := range variantsOf(n) {
				variants[v.Obj()] = struct{}{}
				variants[v.Origin().Obj()] = struct{}{}
			}
		}
	}
	return named, variants
}

func (p *Parser) resolve(expr string) (types.Type, error) {
	expr = strings.TrimSpace(expr)
	base, args := expr, ""
	if i := strings.IndexByte(expr, '['); i >= 0 {
		base, args = expr[:i], expr[i:]
	}

	pkg := p.root
	if dot := strings.LastIndexByte(base, '.'); dot >= 0 {
		qual := base[:dot]
		base = base[dot+1:]
		if pkg = p.packageFor(qual); pkg == nil {
			return nil, errors.Wrapf(ErrTypeNotFound, "parser: no package %q for %s", qual, expr)
		}
	}
	if pkg == nil || pkg.Types == nil {
		return nil, errors.Wrapf(ErrTypeNotFound, "parser: no package loaded for %s", expr)
	}

	tn, ok := pkg.Types.Scope().Lookup(base).(*types.TypeName)
	if !ok {
		return nil, errors.Wrapf(ErrTypeNotFound, "parser: %s in %s", base, pkg.PkgPath)
	}
	if n, ok := tn.Type().(*types.Named); ok && n.TypeParams().Len() > 0 && args == "" {
		return nil, errors.WithHint(
			errors.Wrapf(source.ErrUnsupportedType, "parser: generic type %s", expr),
			"instantiate it, e.g. "+base+"[int32]",
		)
	}
	if args == "" {
		return tn.Type(), nil
	}

	tv, err := types.Eval(p.fset, pkg.Types, token.NoPos, base+args)
	if err != nil {
		return nil, errors.Wrapf(err, "parser: evaluate %s", expr)
	}
	if !tv.IsType() {
		return nil, errors.Wrapf(ErrTypeNotFound, "parser: %s is not a type", expr)
	}
	return tv.Type, nil
}

func (p *Parser) packageFor(qual string) *packages.Package {
	if strings.HasPrefix(qual, ".") {
		path, err := p.importPath(filepath.Join(p.Opts.InDir, qual))
		if err != nil {
			return nil
		}
		return p.byPath[path]
	}
	if pkg, ok := p.byPath[qual]; ok {
		return pkg
	}
	byName := slices.SortedFunc(slices.Values(p.roots), func(a, b *packages.Package) int {
		return cmp.Compare(a.PkgPath, b.PkgPath)
	})
	for _, pkg := range byName {
		if pkg.Name == qual {
			return pkg
		}
	}
	return nil
}

// importPath maps a directory inside the main module to its import path.
func (p *Parser) importPath(dir string) (string, error) {
	rel, err := filepath.Rel(p.modDir, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errors.Newf("parser: %s is outside module %s", dir, p.modPath)
	}
	if rel == "." {
		return p.modPath, nil
	}
	return p.modPath + "/" + filepath.ToSlash(rel), nil
}

// findGoModDir walks up from InDir until it finds go.mod.
func (p *Parser) findGoModDir() (string, error) {
	from := p.Opts.InDir
	for {
		if _, err := os.Stat(filepath.Join(from, "go.mod")); err == nil {
			return from, nil
		}
		parent := filepath.Dir(from)
		if parent == from {
			return "", errors.Newf("parser: no go.mod found above %s", p.Opts.InDir)
		}
		from = parent
	}
}

func modulePath(modDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(modDir, "go.mod"))
	if err != nil {
		return "", errors.Wrap(err, "parser: read go.mod")
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", errors.Newf("parser: %s/go.mod has no module directive", modDir)
	}
	return path, nil
}

// typeNames returns the type declarations of pkg in source order.
func typeNames(pkg *types.Package) []*types.TypeName {
	scope := pkg.Scope()
	var out []*types.TypeName
	for _, n := range scope.Names() {
		if tn, ok := scope.Lookup(n).(*types.TypeName); ok && !tn.IsAlias() {
			out = append(out, tn)
		}
	}
	slices.SortFunc(out, func(a, b *types.TypeName) int { return cmp.Compare(a.Pos(), b.Pos()) })
	return out
}
