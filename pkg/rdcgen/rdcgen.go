// Package rdcgen is the library entry point: it collects Go types into an
// IR for one target and renders that target's sources.
//
//	reg := rdc.NewRegistry()
//	_ = rdc.Union[Shape](reg, ShapeCircle{}, ShapeSquare{}, ShapeNone{})
//	classes, err := rdcgen.Java(reg, reflect.TypeFor[Shape]())
package rdcgen

import (
	"reflect"

	"github.com/cmmoran/rdcgen/pkg/ir"
	"github.com/cmmoran/rdcgen/pkg/rdc"
	"github.com/cmmoran/rdcgen/pkg/source"
	"github.com/cmmoran/rdcgen/pkg/targets/golang"
	"github.com/cmmoran/rdcgen/pkg/targets/java"
)

// Add registers T and every type it depends on.
func Add[T any](r *ir.IntermediateRepresentation, registry *rdc.Registry) error {
	return AddType(r, registry, reflect.TypeFor[T]())
}

// AddType registers the given types and every type they depend on.
func AddType(r *ir.IntermediateRepresentation, registry *rdc.Registry, types ...reflect.Type) error {
	x := source.NewReflector(registry)
	for _, t := range types {
		h, err := x.HostType(t)
		if err != nil {
			return err
		}
		r.Add(h)
	}
	return nil
}

// Java builds an IR for the Java target from the root types and renders it.
func Java(registry *rdc.Registry, types ...reflect.Type) ([]java.Class, error) {
	r := ir.New(java.Target{})
	if err := AddType(r, registry, types...); err != nil {
		return nil, err
	}
	return java.Generate(r)
}

// Go builds an IR for the Go target from the root types and renders it into
// package pkg.
func Go(registry *rdc.Registry, pkg string, types ...reflect.Type) ([]golang.File, error) {
	r := ir.New(golang.Target{})
	if err := AddType(r, registry, types...); err != nil {
		return nil, err
	}
	return golang.Generate(r, pkg)
}
