package parser

import (
	"go/types"
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/rdcgen/pkg/model"
	"github.com/cmmoran/rdcgen/pkg/source"
)

// Builder converts go/types types into host types with the conventions of
// the reflection extractor, so both paths yield the same IR.
type Builder struct {
	parser *Parser

	// byKey memoizes named types by their instantiated type string. Entries
	// are stored before fields and variants are walked, so cyclic graphs
	// terminate.
	byKey map[string]*model.HostType
}

func NewBuilder(parser *Parser) *Builder {
	return &Builder{
		parser: parser,
		byKey:  make(map[string]*model.HostType),
	}
}

var basicKinds = map[types.BasicKind]model.Primitive{
	types.Bool:    model.Bool,
	types.Int8:    model.Int8,
	types.Int16:   model.Int16,
	types.Int32:   model.Int32,
	types.Int64:   model.Int64,
	types.Int:     model.Int64,
	types.Float32: model.Float32,
	types.Float64: model.Float64,
	types.String:  model.String,
}

// Build returns the host type of t.
func (b *Builder) Build(t types.Type) (*model.HostType, error) {
	switch t := t.(type) {
	case *types.Alias:
		return b.Build(types.Unalias(t))
	case *types.Basic:
		if p, ok := basicKinds[t.Kind()]; ok {
			return model.PrimitiveOf(p), nil
		}
	case *types.Pointer:
		elem, err := b.Build(t.Elem())
		if err != nil {
			return nil, err
		}
		return model.OptionalOf(elem), nil
	case *types.Slice:
		elem, err := b.Build(t.Elem())
		if err != nil {
			return nil, err
		}
		return model.ListOf(elem), nil
	case *types.Array:
		elem, err := b.Build(t.Elem())
		if err != nil {
			return nil, err
		}
		return model.ListOf(elem), nil
	case *types.Map:
		key, err := b.Build(t.Key())
		if err != nil {
			return nil, err
		}
		elem, err := b.Build(t.Elem())
		if err != nil {
			return nil, err
		}
		return model.MapOf(key, elem), nil
	case *types.Named:
		return b.named(t)
	}
	return nil, errors.Wrapf(source.ErrUnsupportedType, "parser: %s", t)
}

func (b *Builder) named(t *types.Named) (*model.HostType, error) {
	key := types.TypeString(t, nil)
	if h, ok := b.byKey[key]; ok {
		return h, nil
	}
	if t.Obj().Pkg() == nil {
		return nil, errors.Wrapf(source.ErrUnsupportedType, "parser: predeclared %s", t)
	}
	if t.TypeParams().Len() > 0 && t.TypeArgs().Len() == 0 {
		return nil, errors.Wrapf(source.ErrUnsupportedType, "parser: uninstantiated %s", t)
	}

	switch u := t.Underlying().(type) {
	case *types.Struct:
		h, err := b.shell(t, model.KindStruct)
		if err != nil {
			return nil, err
		}
		b.byKey[key] = h
		if h.Fields, err = b.fields(t, u); err != nil {
			return nil, err
		}
		return h, nil
	case *types.Interface:
		return b.union(t, u)
	case *types.Basic:
		if u.Kind() == types.String {
			if members := enumMembers(t); len(members) > 0 {
				h, err := b.shell(t, model.KindEnum)
				if err != nil {
					return nil, err
				}
				h.Members = members
				b.byKey[key] = h
				return h, nil
			}
		}
	}
	// named slices, maps and primitives stand for their underlying type
	return b.Build(t.Underlying())
}

// shell starts the host type of a named type with its identity.
func (b *Builder) shell(t *types.Named, kind model.Kind) (*model.HostType, error) {
	h := &model.HostType{Name: t.Obj().Name(), PkgPath: t.Obj().Pkg().Path(), Kind: kind}
	for i := 0; i < t.TypeArgs().Len(); i++ {
		arg, err := b.Build(t.TypeArgs().At(i))
		if err != nil {
			return nil, errors.Wrapf(err, "type argument of %s", t)
		}
		h.TypeArgs = append(h.TypeArgs, arg)
	}
	return h, nil
}

// fields walks a plain struct: exported fields in order, json:"-" skipped,
// embedded fields rejected.
func (b *Builder) fields(owner *types.Named, st *types.Struct) ([]*model.HostField, error) {
	out := make([]*model.HostField, 0, st.NumFields())
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			return nil, errors.WithHint(
				errors.Newf("parser: %s: embedded field %s is not supported", owner, f.Name()),
				"declare the field with a name",
			)
		}
		field, err := b.field(f, reflect.StructTag(st.Tag(i)))
		if err != nil {
			return nil, errors.Wrapf(err, "%s", owner)
		}
		if field != nil {
			out = append(out, field)
		}
	}
	return out, nil
}

// field returns nil for fields that are not on the wire.
func (b *Builder) field(f *types.Var, tag reflect.StructTag) (*model.HostField, error) {
	if !f.Exported() {
		return nil, nil
	}
	wire, skip := model.JSONName(f.Name(), tag)
	if skip {
		return nil, nil
	}
	ft, err := b.Build(f.Type())
	if err != nil {
		return nil, errors.Wrapf(err, "field %s", f.Name())
	}
	return &model.HostField{Name: f.Name(), Tag: wire, Type: ft}, nil
}
