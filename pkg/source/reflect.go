// Package source extracts host types from Go values by reflection.
package source

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/rdcgen/pkg/model"
	"github.com/cmmoran/rdcgen/pkg/rdc"
)

// ErrUnsupportedType is returned for Go types with no wire representation:
// unsigned and complex numbers, channels, funcs, anonymous structs and
// interfaces that are not registered unions.
var ErrUnsupportedType = errors.New("unsupported type")

var enumeratedType = reflect.TypeFor[rdc.Enumerated]()

// Reflector converts reflect.Types into host types. Named types are memoized
// before their fields are walked, so cyclic graphs terminate and shared
// types are converted once.
type Reflector struct {
	registry *rdc.Registry
	memo     map[reflect.Type]*model.HostType
}

func NewReflector(registry *rdc.Registry) *Reflector {
	if registry == nil {
		registry = rdc.NewRegistry()
	}
	return &Reflector{
		registry: registry,
		memo:     make(map[reflect.Type]*model.HostType),
	}
}

func (x *Reflector) HostType(t reflect.Type) (*model.HostType, error) {
	if t == nil {
		return nil, errors.Wrap(ErrUnsupportedType, "source: nil type")
	}
	if h, ok := x.memo[t]; ok {
		return h, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem, err := x.HostType(t.Elem())
		if err != nil {
			return nil, err
		}
		return model.OptionalOf(elem), nil
	case reflect.Slice, reflect.Array:
		elem, err := x.HostType(t.Elem())
		if err != nil {
			return nil, err
		}
		return model.ListOf(elem), nil
	case reflect.Map:
		key, err := x.HostType(t.Key())
		if err != nil {
			return nil, err
		}
		elem, err := x.HostType(t.Elem())
		if err != nil {
			return nil, err
		}
		return model.MapOf(key, elem), nil
	case reflect.Struct:
		return x.structType(t)
	case reflect.Interface:
		return x.unionType(t)
	case reflect.String:
		if t.Name() != "" && t.Implements(enumeratedType) {
			return x.enumType(t)
		}
	}

	if p, ok := primitiveKinds[t.Kind()]; ok {
		return model.PrimitiveOf(p), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedType, "source: %s", t)
}

var primitiveKinds = map[reflect.Kind]model.Primitive{
	reflect.Bool:    model.Bool,
	reflect.Int8:    model.Int8,
	reflect.Int16:   model.Int16,
	reflect.Int32:   model.Int32,
	reflect.Int64:   model.Int64,
	reflect.Int:     model.Int64,
	reflect.Float32: model.Float32,
	reflect.Float64: model.Float64,
	reflect.String:  model.String,
}

// named starts a host type for a named Go type. Generic arguments come from
// the reflected name, since reflect does not expose them.
func (x *Reflector) named(t reflect.Type, kind model.Kind) (*model.HostType, error) {
	if t.Name() == "" {
		return nil, errors.Wrapf(ErrUnsupportedType, "source: anonymous %s", t)
	}
	base, args := splitGeneric(t.Name())
	h := &model.HostType{Name: base, PkgPath: t.PkgPath(), Kind: kind}
	var index map[string]reflect.Type
	resolve := func(s string) (*model.HostType, error) {
		if index == nil {
			index = make(map[string]reflect.Type)
			x.indexNamed(t, index, make(map[reflect.Type]bool))
		}
		rt, ok := index[s]
		if !ok || rt.Kind() == reflect.Struct || rt.Kind() == reflect.Interface || rt.Implements(enumeratedType) {
			return nil, nil
		}
		return x.HostType(rt)
	}
	// memoized before the arguments, which may lead back to t
	x.memo[t] = h
	for _, a := range args {
		at, err := parseTypeArg(a, resolve)
		if err != nil {
			delete(x.memo, t)
			return nil, errors.Wrapf(err, "source: type argument of %s", t)
		}
		h.TypeArgs = append(h.TypeArgs, at)
	}
	return h, nil
}

// indexNamed records the named types reachable from t by the text reflect
// prints for them in a type argument list. Arguments that no field or
// variant mentions cannot be found this way.
func (x *Reflector) indexNamed(t reflect.Type, index map[string]reflect.Type, seen map[reflect.Type]bool) {
	if seen[t] {
		return
	}
	seen[t] = true
	if t.Name() != "" && t.PkgPath() != "" {
		index[t.PkgPath()+"."+t.Name()] = t
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		x.indexNamed(t.Elem(), index, seen)
	case reflect.Map:
		x.indexNamed(t.Key(), index, seen)
		x.indexNamed(t.Elem(), index, seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			x.indexNamed(t.Field(i).Type, index, seen)
		}
	case reflect.Interface:
		layouts, _ := x.registry.Variants(t)
		for _, lay := range layouts {
			x.indexNamed(lay.Type, index, seen)
		}
	}
}

func (x *Reflector) structType(t reflect.Type) (*model.HostType, error) {
	h, err := x.named(t, model.KindStruct)
	if err != nil {
		return nil, err
	}
	x.memo[t] = h

	layout, err := rdc.StructLayout(t)
	if err != nil {
		return nil, err
	}
	h.Fields, err = x.fields(layout)
	if err != nil {
		return nil, errors.Wrapf(err, "source: %s", t)
	}
	return h, nil
}

func (x *Reflector) enumType(t reflect.Type) (*model.HostType, error) {
	h, err := x.named(t, model.KindEnum)
	if err != nil {
		return nil, err
	}
	x.memo[t] = h

	members := reflect.Zero(t).Interface().(rdc.Enumerated).EnumMembers()
	for _, m := range members {
		h.Members = append(h.Members, &model.HostMember{Name: m.Name, Tag: m.Tag})
	}
	return h, nil
}

func (x *Reflector) unionType(t reflect.Type) (*model.HostType, error) {
	layouts, ok := x.registry.Variants(t)
	if !ok {
		return nil, errors.WithHint(
			errors.Wrapf(ErrUnsupportedType, "source: interface %s", t),
			"register its variants with rdc.Union",
		)
	}
	h, err := x.named(t, model.KindDataEnum)
	if err != nil {
		return nil, err
	}
	x.memo[t] = h

	for _, lay := range layouts {
		v := &model.HostVariant{Name: lay.Name, Tag: lay.Tag, Shape: lay.Shape}
		switch lay.Shape {
		case model.ShapeObject:
			if v.Fields, err = x.fields(lay.Fields); err != nil {
				return nil, errors.Wrapf(err, "source: variant %s", lay.Type)
			}
		case model.ShapeTuple:
			for _, s := range lay.Slots {
				st, err := x.HostType(s.Type)
				if err != nil {
					return nil, errors.Wrapf(err, "source: variant %s", lay.Type)
				}
				v.Slots = append(v.Slots, st)
			}
		}
		h.Variants = append(h.Variants, v)
	}
	return h, nil
}

func (x *Reflector) fields(layout []rdc.FieldLayout) ([]*model.HostField, error) {
	out := make([]*model.HostField, 0, len(layout))
	for _, f := range layout {
		ft, err := x.HostType(f.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name)
		}
		out = append(out, &model.HostField{Name: f.Name, Tag: f.Tag, Type: ft})
	}
	return out, nil
}
