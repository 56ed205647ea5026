// Package java renders an IR into Java classes that (de)serialize with
// Jackson using the externally tagged union encoding.
package java

import (
	"github.com/cmmoran/rdcgen/pkg/ir"
)

// Class is one generated Java compilation unit, without its package clause.
type Class struct {
	Name string
	Code string
}

// Generate renders structs, then enums, then data enums. It returns no
// classes when any of them fails.
func Generate(r *ir.IntermediateRepresentation) ([]Class, error) {
	if _, ok := r.Target().(Target); !ok {
		return nil, ir.GenerationErrorf("java: representation was resolved for target %q", r.Target().Name())
	}
	if err := r.CheckNames(); err != nil {
		return nil, err
	}

	classes := make([]Class, 0, r.Len())
	for _, s := range r.Structs() {
		code, err := render("struct", newStructView(s))
		if err != nil {
			return nil, ir.WrapGeneration(err, "java: render class %s", s.SelfType)
		}
		classes = append(classes, Class{Name: string(s.SelfType), Code: code})
	}
	for _, e := range r.Enums() {
		code, err := render("enum", newEnumView(e))
		if err != nil {
			return nil, ir.WrapGeneration(err, "java: render enum %s", e.SelfType)
		}
		classes = append(classes, Class{Name: string(e.SelfType), Code: code})
	}
	for _, d := range r.DataEnums() {
		if d.Style != ir.StyleExternal {
			return nil, ir.GenerationErrorf("java: %s: unsupported tagging style %s", d.SelfType, d.Style)
		}
		view, err := newDataEnumView(d)
		if err != nil {
			return nil, err
		}
		code, err := render("dataenum", view)
		if err != nil {
			return nil, ir.WrapGeneration(err, "java: render class %s", d.SelfType)
		}
		classes = append(classes, Class{Name: string(d.SelfType), Code: code})
	}
	return classes, nil
}
