package rdc

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/cmmoran/rdcgen/pkg/model"
)

// ErrCannotDeserialize is matched by every DecodeError.
var ErrCannotDeserialize = errors.New("cannot deserialize")

// DecodeError reports input that matches no variant of a union, or a tuple
// payload whose length differs from the declared arity.
type DecodeError struct {
	TypeName string
	Reason   string
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("cannot deserialize as `%s`", e.TypeName)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return ErrCannotDeserialize
}

func (u *union) decodeError(format string, args ...any) error {
	return &DecodeError{TypeName: u.iface.Name(), Reason: fmt.Sprintf(format, args...)}
}

// variantOf finds the layout for a dynamic value; values stored behind a
// pointer resolve to the pointed-to variant.
func (u *union) variantOf(rv reflect.Value) (*VariantLayout, reflect.Value, bool) {
	if lay, ok := u.byType[rv.Type()]; ok {
		return lay, rv, true
	}
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if lay, ok := u.byType[rv.Type().Elem()]; ok {
			return lay, rv.Elem(), true
		}
	}
	return nil, rv, false
}

func (r *Registry) encodeUnion(enc *jsontext.Encoder, u *union, rv reflect.Value) error {
	if !rv.IsValid() {
		return enc.WriteToken(jsontext.Null)
	}
	lay, rv, ok := u.variantOf(rv)
	if !ok {
		return errors.Newf("rdc: %s is not a registered variant of %s", rv.Type(), u.iface)
	}

	if lay.Shape == model.ShapeUnit {
		return enc.WriteToken(jsontext.String(lay.Tag))
	}

	// copy so fields are addressable; nested unions are reached through
	// pointers to their declared interface type
	v := reflect.New(lay.Type).Elem()
	v.Set(rv)

	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.String(lay.Tag)); err != nil {
		return err
	}

	switch lay.Shape {
	case model.ShapeObject:
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, f := range lay.Fields {
			if err := enc.WriteToken(jsontext.String(f.Tag)); err != nil {
				return err
			}
			if err := r.encodeSlot(enc, v, f); err != nil {
				return err
			}
		}
		if err := enc.WriteToken(jsontext.EndObject); err != nil {
			return err
		}
	case model.ShapeTuple:
		if len(lay.Slots) == 1 {
			if err := r.encodeSlot(enc, v, lay.Slots[0]); err != nil {
				return err
			}
			break
		}
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, s := range lay.Slots {
			if err := r.encodeSlot(enc, v, s); err != nil {
				return err
			}
		}
		if err := enc.WriteToken(jsontext.EndArray); err != nil {
			return err
		}
	}

	return enc.WriteToken(jsontext.EndObject)
}

func (r *Registry) encodeSlot(enc *jsontext.Encoder, v reflect.Value, f FieldLayout) error {
	var ptr any
	if f.Index < 0 {
		p := reflect.New(f.Type)
		p.Elem().Set(v.Convert(f.Type))
		ptr = p.Interface()
	} else {
		ptr = v.Field(f.Index).Addr().Interface()
	}
	b, err := json.Marshal(ptr, r.Options()...)
	if err != nil {
		return errors.Wrapf(err, "rdc: encode %s.%s", v.Type(), f.Name)
	}
	return enc.WriteValue(b)
}

// decodeUnion branches on the token kind: a string names a unit variant, an
// object names one keyed variant. Keyed variants are tried in declaration
// order, so the first declared variant whose tag is present wins.
func (r *Registry) decodeUnion(dec *jsontext.Decoder, u *union) (reflect.Value, error) {
	switch dec.PeekKind() {
	case 'n':
		_, err := dec.ReadToken()
		return reflect.Value{}, err
	case '"':
		tok, err := dec.ReadToken()
		if err != nil {
			return reflect.Value{}, err
		}
		tag := tok.String()
		for _, lay := range u.variants {
			if lay.Shape == model.ShapeUnit && lay.Tag == tag {
				return reflect.New(lay.Type).Elem(), nil
			}
		}
		return reflect.Value{}, u.decodeError("unknown variant %q", tag)
	case '{':
		val, err := dec.ReadValue()
		if err != nil {
			return reflect.Value{}, err
		}
		var node map[string]jsontext.Value
		if err := json.Unmarshal(bytes.Clone(val), &node); err != nil {
			return reflect.Value{}, err
		}
		for _, lay := range u.variants {
			if lay.Shape == model.ShapeUnit {
				continue
			}
			if raw, ok := node[lay.Tag]; ok {
				return r.decodePayload(u, lay, raw)
			}
		}
		return reflect.Value{}, u.decodeError("no known variant tag in object")
	default:
		kind := dec.PeekKind()
		if err := dec.SkipValue(); err != nil {
			return reflect.Value{}, err
		}
		return reflect.Value{}, u.decodeError("unexpected JSON %s", kind)
	}
}

func (r *Registry) decodePayload(u *union, lay *VariantLayout, raw jsontext.Value) (reflect.Value, error) {
	out := reflect.New(lay.Type).Elem()

	switch lay.Shape {
	case model.ShapeObject:
		if raw.Kind() != '{' {
			return reflect.Value{}, u.decodeError("expected object for field %q", lay.Tag)
		}
		var members map[string]jsontext.Value
		if err := json.Unmarshal(raw, &members); err != nil {
			return reflect.Value{}, err
		}
		for _, f := range lay.Fields {
			m, ok := members[f.Tag]
			if !ok {
				continue
			}
			if err := r.decodeSlot(out, f, m); err != nil {
				return reflect.Value{}, err
			}
		}
	case model.ShapeTuple:
		// arity decides the payload form, never the payload's own shape
		if len(lay.Slots) == 1 {
			if err := r.decodeSlot(out, lay.Slots[0], raw); err != nil {
				return reflect.Value{}, err
			}
			break
		}
		if raw.Kind() != '[' {
			return reflect.Value{}, u.decodeError("expected array for field %q", lay.Tag)
		}
		var items []jsontext.Value
		if err := json.Unmarshal(raw, &items); err != nil {
			return reflect.Value{}, err
		}
		if len(items) != len(lay.Slots) {
			return reflect.Value{}, u.decodeError("expected array of size %d for field %q", len(lay.Slots), lay.Tag)
		}
		for i, s := range lay.Slots {
			if err := r.decodeSlot(out, s, items[i]); err != nil {
				return reflect.Value{}, err
			}
		}
	}
	return out, nil
}

func (r *Registry) decodeSlot(out reflect.Value, f FieldLayout, raw jsontext.Value) error {
	if f.Index < 0 {
		p := reflect.New(f.Type)
		if err := json.Unmarshal(raw, p.Interface(), r.Options()...); err != nil {
			return err
		}
		out.Set(p.Elem().Convert(out.Type()))
		return nil
	}
	return json.Unmarshal(raw, out.Field(f.Index).Addr().Interface(), r.Options()...)
}
