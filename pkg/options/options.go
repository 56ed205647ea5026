package options

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	TargetJava = "java"
	TargetGo   = "go"
)

// Targets lists the supported target languages.
var Targets = []string{TargetJava, TargetGo}

var ErrInvalidOptions = errors.New("invalid options")

// Options control extraction and generation.
//
// InDir    – directory of the Go package tree to read
// OutDir   – directory generated sources are written under
// Target   – target language, java or go
// Package  – Java package (dotted) or Go package name of the generated code
// Types    – root type expressions; empty means every root type of InDir
// Manifest – snapshot manifest file
type Options struct {
	InDir    string   `json:"in_dir,omitempty" yaml:"in_dir,omitempty" toml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	OutDir   string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	Target   string   `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty" mapstructure:"target,omitempty"`
	Package  string   `json:"package,omitempty" yaml:"package,omitempty" toml:"package,omitempty" mapstructure:"package,omitempty"`
	Types    []string `json:"types,omitempty" yaml:"types,omitempty" toml:"types,omitempty" mapstructure:"types,omitempty"`
	Manifest string   `json:"manifest,omitempty" yaml:"manifest,omitempty" toml:"manifest,omitempty" mapstructure:"manifest,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		InDir:  ".",
		OutDir: "gen",
		Target: TargetJava,
	}
}

// Normalize fills defaults, makes directories absolute and validates the
// target and package name.
func (o *Options) Normalize() error {
	if o.InDir == "" {
		o.InDir = "."
	}
	if o.OutDir == "" {
		o.OutDir = "gen"
	}
	var err error
	if o.InDir, err = filepath.Abs(o.InDir); err != nil {
		return errors.Wrap(err, "options: in_dir")
	}
	if o.OutDir, err = filepath.Abs(o.OutDir); err != nil {
		return errors.Wrap(err, "options: out_dir")
	}
	if o.Manifest == "" {
		o.Manifest = filepath.Join(o.OutDir, "manifest.yaml")
	}

	o.Target = strings.ToLower(strings.TrimSpace(o.Target))
	if o.Target == "" {
		o.Target = TargetJava
	}
	if !slices.Contains(Targets, o.Target) {
		return errors.Mark(errors.Newf("options: unknown target %q, want one of %v", o.Target, Targets), ErrInvalidOptions)
	}
	if o.Target == TargetGo && o.Package == "" {
		o.Package = filepath.Base(o.OutDir)
	}
	if strings.ContainsAny(o.Package, " /\\-") {
		return errors.Mark(errors.Newf("options: invalid package %q", o.Package), ErrInvalidOptions)
	}

	types := o.Types[:0]
	for _, t := range o.Types {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	o.Types = types
	return nil
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInDir(d string) Option    { return func(o *Options) { o.InDir = d } }
func WithOutDir(d string) Option   { return func(o *Options) { o.OutDir = d } }
func WithTarget(t string) Option   { return func(o *Options) { o.Target = t } }
func WithPackage(p string) Option  { return func(o *Options) { o.Package = p } }
func WithManifest(m string) Option { return func(o *Options) { o.Manifest = m } }
func WithTypes(exprs ...string) Option {
	return func(o *Options) {
		for _, e := range exprs {
			o.Types = append(o.Types, strings.TrimSpace(e))
		}
	}
}

// Apply returns a copy of o with opts applied.
func (o Options) Apply(opts ...Option) *Options {
	o.Types = slices.Clone(o.Types)
	for _, fn := range opts {
		fn(&o)
	}
	return &o
}
