// Package rdc is the host-side runtime for generated data-transfer types:
// marker types that describe tagged unions, and a per-request Registry whose
// JSON codec speaks the externally tagged wire format.
//
// A union is an interface with an unexported marker method. Each variant is a
// type implementing it:
//
//	type Shape interface{ isShape() }
//
//	type ShapeUnit struct{}                                  // "Unit"
//	type ShapeCsv string                                     // {"Csv":"..."}
//	type ShapeXml struct { rdc.Tuple `rdc:"XML"`; W float64; H int32 } // {"XML":[w,h]}
//	type ShapeOther struct { Name string `json:"name"` }     // {"Other":{"name":"..."}}
package rdc

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Tuple marks a struct variant whose fields are positional payload slots.
// An `rdc:"TAG"` struct tag on the embedded marker renames the variant.
type Tuple struct{}

// Variant carries an `rdc:"TAG"` rename for unit and object variants.
type Variant struct{}

type EnumMember struct {
	Name string
	Tag  string
}

// Enumerated is implemented by named string types that are plain enums.
// Members are reported in declaration order.
type Enumerated interface {
	EnumMembers() []EnumMember
}

// Registry records the unions known to one generation or codec request.
// Register every union before sharing a Registry between goroutines.
type Registry struct {
	unions map[reflect.Type]*union
	order  []reflect.Type
}

type union struct {
	iface     reflect.Type
	variants  []*VariantLayout
	byType    map[reflect.Type]*VariantLayout
	marshal   *json.Marshalers
	unmarshal *json.Unmarshalers
}

func NewRegistry() *Registry {
	return &Registry{unions: make(map[reflect.Type]*union)}
}

// Union registers the variants of the interface type T in declaration order.
// Registering T again replaces its variants.
func Union[T any](r *Registry, variants ...T) error {
	iface := reflect.TypeFor[T]()
	if iface.Kind() != reflect.Interface {
		return errors.Newf("rdc: union %s must be an interface type", iface)
	}
	if iface.NumMethod() == 0 {
		return errors.WithHint(
			errors.Newf("rdc: union %s has an empty method set", iface),
			"give the union interface an unexported marker method",
		)
	}
	if len(variants) == 0 {
		return errors.Newf("rdc: union %s has no variants", iface)
	}

	u := &union{iface: iface, byType: make(map[reflect.Type]*VariantLayout, len(variants))}
	tags := make(map[string]reflect.Type, len(variants))
	for _, v := range variants {
		vt := reflect.TypeOf(v)
		if vt == nil {
			return errors.Newf("rdc: union %s: nil variant", iface)
		}
		if _, dup := u.byType[vt]; dup {
			return errors.Newf("rdc: union %s: variant %s registered twice", iface, vt)
		}
		lay, err := LayoutVariant(iface, vt)
		if err != nil {
			return err
		}
		if prev, dup := tags[lay.Tag]; dup {
			return errors.Newf("rdc: union %s: variants %s and %s share tag %q", iface, prev, vt, lay.Tag)
		}
		tags[lay.Tag] = vt
		u.variants = append(u.variants, lay)
		u.byType[vt] = lay
	}

	u.marshal = json.MarshalToFunc(func(enc *jsontext.Encoder, v T) error {
		return r.encodeUnion(enc, u, reflect.ValueOf(v))
	})
	u.unmarshal = json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *T) error {
		rv, err := r.decodeUnion(dec, u)
		if err != nil {
			return err
		}
		if !rv.IsValid() {
			var zero T
			*v = zero
			return nil
		}
		*v = rv.Interface().(T)
		return nil
	})

	if _, ok := r.unions[iface]; !ok {
		r.order = append(r.order, iface)
	}
	r.unions[iface] = u
	return nil
}

// Unions returns the registered union interfaces in registration order.
func (r *Registry) Unions() []reflect.Type {
	return append([]reflect.Type(nil), r.order...)
}

// Variants returns the variant layouts of a registered union.
func (r *Registry) Variants(iface reflect.Type) ([]*VariantLayout, bool) {
	u, ok := r.unions[iface]
	if !ok {
		return nil, false
	}
	return u.variants, true
}

// Options returns the json options carrying every registered union codec.
func (r *Registry) Options() []json.Options {
	ms := make([]*json.Marshalers, 0, len(r.order))
	us := make([]*json.Unmarshalers, 0, len(r.order))
	for _, t := range r.order {
		u := r.unions[t]
		ms = append(ms, u.marshal)
		us = append(us, u.unmarshal)
	}
	return []json.Options{
		json.WithMarshalers(json.JoinMarshalers(ms...)),
		json.WithUnmarshalers(json.JoinUnmarshalers(us...)),
	}
}

// Marshal encodes v. Pass a pointer when v is held in a union-typed variable.
func (r *Registry) Marshal(v any, opts ...json.Options) ([]byte, error) {
	return json.Marshal(v, append(r.Options(), opts...)...)
}

func (r *Registry) Unmarshal(data []byte, v any, opts ...json.Options) error {
	return json.Unmarshal(data, v, append(r.Options(), opts...)...)
}
