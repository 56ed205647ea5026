package parser

import (
	"cmp"
	"go/constant"
	"go/types"
	"reflect"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/rdcgen/pkg/model"
	"github.com/cmmoran/rdcgen/pkg/rdc"
	"github.com/cmmoran/rdcgen/pkg/source"
)

var rdcPkgPath = reflect.TypeFor[rdc.Tuple]().PkgPath()

// enumMembers returns the package-level constants of type t in declaration
// order, named without the type-name prefix.
func enumMembers(t *types.Named) []*model.HostMember {
	scope := t.Obj().Pkg().Scope()
	var consts []*types.Const
	for _, n := range scope.Names() {
		c, ok := scope.Lookup(n).(*types.Const)
		if ok && types.Identical(c.Type(), t) && c.Val().Kind() == constant.String {
			consts = append(consts, c)
		}
	}
	slices.SortFunc(consts, func(a, b *types.Const) int { return cmp.Compare(a.Pos(), b.Pos()) })

	out := make([]*model.HostMember, 0, len(consts))
	for _, c := range consts {
		out = append(out, &model.HostMember{
			Name: model.TrimOwnerPrefix(t.Obj().Name(), c.Name()),
			Tag:  constant.StringVal(c.Val()),
		})
	}
	return out
}

// variantsOf returns the named types declared next to union that implement
// it, in declaration order. Generic candidates are instantiated with the
// union's type arguments.
func variantsOf(union *types.Named) []*types.Named {
	iface, ok := union.Underlying().(*types.Interface)
	if !ok || iface.NumMethods() == 0 {
		return nil
	}
	args := make([]types.Type, 0, union.TypeArgs().Len())
	for i := 0; i < union.TypeArgs().Len(); i++ {
		args = append(args, union.TypeArgs().At(i))
	}

	var out []*types.Named
	for _, tn := range typeNames(union.Obj().Pkg()) {
		n, ok := tn.Type().(*types.Named)
		if !ok || tn == union.Origin().Obj() {
			continue
		}
		if _, ok := n.Underlying().(*types.Interface); ok {
			continue
		}
		if n.TypeParams().Len() != len(args) {
			continue
		}
		if len(args) > 0 {
			inst, err := types.Instantiate(nil, n, args, true)
			if err != nil {
				continue
			}
			n = inst.(*types.Named)
		}
		if types.Implements(n, iface) {
			out = append(out, n)
		}
	}
	return out
}

func (b *Builder) union(t *types.Named, iface *types.Interface) (*model.HostType, error) {
	variants := variantsOf(t)
	if len(variants) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(source.ErrUnsupportedType, "parser: interface %s has no variants", t),
			"declare a marker method and the variant types in the interface's package",
		)
	}
	h, err := b.shell(t, model.KindDataEnum)
	if err != nil {
		return nil, err
	}
	b.byKey[types.TypeString(t, nil)] = h

	for _, v := range variants {
		hv, err := b.variant(t, v)
		if err != nil {
			return nil, errors.Wrapf(err, "parser: union %s", t)
		}
		h.Variants = append(h.Variants, hv)
	}
	return h, nil
}

// variant lays out one union variant the way rdc.LayoutVariant does for
// registered Go values.
func (b *Builder) variant(union, t *types.Named) (*model.HostVariant, error) {
	name := model.TrimOwnerPrefix(union.Obj().Name(), t.Obj().Name())
	v := &model.HostVariant{Name: name, Tag: name}

	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		slot, err := b.Build(t.Underlying())
		if err != nil {
			return nil, errors.Wrapf(err, "variant %s", t.Obj().Name())
		}
		v.Shape = model.ShapeTuple
		v.Slots = []*model.HostType{slot}
		return v, nil
	}

	var (
		tuple  bool
		fields []*model.HostField
	)
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))
		if f.Embedded() {
			marker := markerOf(f.Type())
			if marker == "" {
				return nil, errors.Newf("variant %s: embedded field %s is not supported", t.Obj().Name(), f.Name())
			}
			if rt := model.RDCTag(tag); rt != "" {
				v.Tag = rt
			}
			tuple = tuple || marker == "Tuple"
			continue
		}
		field, err := b.field(f, tag)
		if err != nil {
			return nil, errors.Wrapf(err, "variant %s", t.Obj().Name())
		}
		if field != nil {
			fields = append(fields, field)
		}
	}

	switch {
	case tuple && len(fields) == 0:
		return nil, errors.Newf("tuple variant %s has no slots", t.Obj().Name())
	case tuple:
		v.Shape = model.ShapeTuple
		for _, f := range fields {
			v.Slots = append(v.Slots, f.Type)
		}
	case len(fields) == 0:
		v.Shape = model.ShapeUnit
	default:
		v.Shape = model.ShapeObject
		v.Fields = fields
	}
	return v, nil
}

// markerOf names the rdc marker t is, or returns "".
func markerOf(t types.Type) string {
	n, ok := t.(*types.Named)
	if !ok || n.Obj().Pkg() == nil || n.Obj().Pkg().Path() != rdcPkgPath {
		return ""
	}
	switch n.Obj().Name() {
	case "Tuple", "Variant":
		return n.Obj().Name()
	}
	return ""
}
