package rdc

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/rdcgen/pkg/model"
)

var (
	tupleType   = reflect.TypeFor[Tuple]()
	variantType = reflect.TypeFor[Variant]()
)

// FieldLayout locates one payload value inside a Go value.
type FieldLayout struct {
	Name  string // Go field name
	Tag   string // wire name
	Index int    // struct field index; -1 is the variant value itself
	Type  reflect.Type
}

// VariantLayout is the wire description of one union variant.
type VariantLayout struct {
	Type   reflect.Type
	Name   string
	Tag    string
	Shape  model.Shape
	Fields []FieldLayout // ShapeObject
	Slots  []FieldLayout // ShapeTuple
}

// StructLayout returns the wire fields of a plain struct in declaration order.
func StructLayout(t reflect.Type) ([]FieldLayout, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.Newf("rdc: %s is not a struct", t)
	}
	var out []FieldLayout
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			return nil, errors.WithHint(
				errors.Newf("rdc: %s: embedded field %s is not supported", t, f.Name),
				"declare the field with a name",
			)
		}
		if !f.IsExported() {
			continue
		}
		wire, skip := model.JSONName(f.Name, f.Tag)
		if skip {
			continue
		}
		out = append(out, FieldLayout{Name: f.Name, Tag: wire, Index: i, Type: f.Type})
	}
	return out, nil
}

// LayoutVariant describes variant type t of the union interface iface.
//
// A struct without data fields is a unit variant, a struct with data fields is
// an object variant unless it embeds Tuple, and any named non-struct type is an
// arity-1 tuple over its underlying type.
func LayoutVariant(iface, t reflect.Type) (*VariantLayout, error) {
	lay := &VariantLayout{Type: t, Name: model.TrimOwnerPrefix(iface.Name(), t.Name())}
	lay.Tag = lay.Name
	if t.Name() == "" {
		return nil, errors.Newf("rdc: union %s: variant %s must be a named type", iface, t)
	}

	if t.Kind() != reflect.Struct {
		lay.Shape = model.ShapeTuple
		lay.Slots = []FieldLayout{{Name: "Value", Tag: lay.Tag, Index: -1, Type: Underlying(t)}}
		return lay, nil
	}

	var (
		tuple  bool
		fields []FieldLayout
	)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && (f.Type == tupleType || f.Type == variantType) {
			if tag := model.RDCTag(f.Tag); tag != "" {
				lay.Tag = tag
			}
			tuple = tuple || f.Type == tupleType
			continue
		}
		if f.Anonymous {
			return nil, errors.Newf("rdc: variant %s: embedded field %s is not supported", t, f.Name)
		}
		if !f.IsExported() {
			continue
		}
		wire, skip := model.JSONName(f.Name, f.Tag)
		if skip {
			continue
		}
		fields = append(fields, FieldLayout{Name: f.Name, Tag: wire, Index: i, Type: f.Type})
	}

	switch {
	case tuple && len(fields) == 0:
		return nil, errors.Newf("rdc: tuple variant %s has no slots", t)
	case tuple:
		lay.Shape = model.ShapeTuple
		lay.Slots = fields
	case len(fields) == 0:
		lay.Shape = model.ShapeUnit
	default:
		lay.Shape = model.ShapeObject
		lay.Fields = fields
	}
	return lay, nil
}

var builtinTypes = map[reflect.Kind]reflect.Type{
	reflect.Bool:    reflect.TypeFor[bool](),
	reflect.Int:     reflect.TypeFor[int](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Float32: reflect.TypeFor[float32](),
	reflect.Float64: reflect.TypeFor[float64](),
	reflect.String:  reflect.TypeFor[string](),
}

// Underlying returns the unnamed type t is declared over.
func Underlying(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Slice:
		return reflect.SliceOf(t.Elem())
	case reflect.Array:
		return reflect.ArrayOf(t.Len(), t.Elem())
	case reflect.Map:
		return reflect.MapOf(t.Key(), t.Elem())
	case reflect.Pointer:
		return reflect.PointerTo(t.Elem())
	}
	if u, ok := builtinTypes[t.Kind()]; ok {
		return u
	}
	return t
}
