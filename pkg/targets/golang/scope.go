package golang

import (
	"github.com/cmmoran/rdcgen/pkg/ir"
)

// checkScope fails when two generated files would declare the same
// package-level identifier, e.g. the holder TestEnumOther of union TestEnum
// and a struct generated from the host type TestEnumOther.
func checkScope(r *ir.IntermediateRepresentation) error {
	owners := make(map[string]ir.CustomType)
	declare := func(owner ir.CustomType, ids ...string) error {
		for _, id := range ids {
			if prev, ok := owners[id]; ok {
				return ir.GenerationErrorf("go: %s and %s both declare %s", prev, owner, id)
			}
			owners[id] = owner
		}
		return nil
	}

	for _, s := range r.Structs() {
		self := string(s.SelfType)
		if err := declare(s.SelfType, self, "New"+self); err != nil {
			return err
		}
	}
	for _, e := range r.Enums() {
		self := string(e.SelfType)
		if err := declare(e.SelfType, self, self+"Values"); err != nil {
			return err
		}
		for _, v := range e.Variants {
			if err := declare(e.SelfType, self+v.Name.PascalCase()); err != nil {
				return err
			}
		}
	}
	for _, in := range r.DataEnums() {
		d := newDataEnum(in)
		ids := []string{d.self, d.kind}
		if d.hasTuple() {
			ids = append(ids, d.parse)
		}
		for _, v := range d.Variants {
			ids = append(ids, d.constant(v), d.factory(v))
			if ov, ok := v.(ir.ObjectVariant); ok {
				ids = append(ids, d.holder(ov))
			}
		}
		if err := declare(d.SelfType, ids...); err != nil {
			return err
		}
	}
	return nil
}
