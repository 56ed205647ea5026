// Package model describes host types as seen by the extractors: the input
// contract every target generator builds on.
package model

import "strings"

type Kind int

const (
	KindInvalid   Kind = iota
	KindPrimitive      // bool, ints, floats, string
	KindList           // []T, [N]T
	KindOptional       // *T; covers both optional and box
	KindMap            // map[K]V
	KindStruct         // record with named fields
	KindEnum           // payload-free enumeration
	KindDataEnum       // tagged union
)

var kindNames = [...]string{"invalid", "primitive", "list", "optional", "map", "struct", "enum", "data enum"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Named reports whether types of this kind become an IR entity.
func (k Kind) Named() bool {
	return k == KindStruct || k == KindEnum || k == KindDataEnum
}

type Primitive int

const (
	PrimitiveInvalid Primitive = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	String
)

var primitiveNames = [...]string{"invalid", "bool", "int8", "int16", "int32", "int64", "float32", "float64", "string"}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "invalid"
}

// ParsePrimitive maps a Go builtin type name to its Primitive. int is 64 bits wide.
func ParsePrimitive(s string) (Primitive, bool) {
	if s == "int" {
		return Int64, true
	}
	for i, n := range primitiveNames {
		if i > 0 && n == s {
			return Primitive(i), true
		}
	}
	return PrimitiveInvalid, false
}

// Shape is the payload form of a data enum variant.
type Shape int

const (
	ShapeUnit Shape = iota
	ShapeObject
	ShapeTuple
)

func (s Shape) String() string {
	switch s {
	case ShapeUnit:
		return "unit"
	case ShapeObject:
		return "object"
	case ShapeTuple:
		return "tuple"
	}
	return "invalid"
}

type HostType struct {
	// Identity ------------------------------------------------------------
	Name     string // "Pair", without type arguments
	PkgPath  string // import path, "" for primitives and containers
	Kind     Kind
	TypeArgs []*HostType // concrete instantiation, e.g. [int32 string]

	// Structure ------------------------------------------------------------
	Primitive Primitive      // KindPrimitive
	Elem      *HostType      // list/optional element, map value
	Key       *HostType      // map key
	Fields    []*HostField   // KindStruct
	Members   []*HostMember  // KindEnum
	Variants  []*HostVariant // KindDataEnum

	Comment string
}

type HostField struct {
	Name    string // Go identifier
	Tag     string // wire name
	Type    *HostType
	Comment string
}

type HostMember struct {
	Name string
	Tag  string
}

type HostVariant struct {
	Name   string
	Tag    string
	Shape  Shape
	Fields []*HostField // ShapeObject
	Slots  []*HostType  // ShapeTuple
}

func PrimitiveOf(p Primitive) *HostType {
	return &HostType{Name: p.String(), Kind: KindPrimitive, Primitive: p}
}

func ListOf(elem *HostType) *HostType {
	return &HostType{Kind: KindList, Elem: elem}
}

func OptionalOf(elem *HostType) *HostType {
	return &HostType{Kind: KindOptional, Elem: elem}
}

func MapOf(key, elem *HostType) *HostType {
	return &HostType{Kind: KindMap, Key: key, Elem: elem}
}

// Identity is the structural key used for deduplication: package path and
// name plus the identities of every type argument. Two instantiations of one
// generic type have different identities.
func (t *HostType) Identity() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	t.writeIdentity(&b)
	return b.String()
}

func (t *HostType) writeIdentity(b *strings.Builder) {
	switch t.Kind {
	case KindPrimitive:
		b.WriteString(t.Primitive.String())
	case KindList:
		b.WriteString("[]")
		t.Elem.writeIdentity(b)
	case KindOptional:
		b.WriteString("*")
		t.Elem.writeIdentity(b)
	case KindMap:
		b.WriteString("map[")
		t.Key.writeIdentity(b)
		b.WriteString("]")
		t.Elem.writeIdentity(b)
	default:
		if t.PkgPath != "" {
			b.WriteString(t.PkgPath)
			b.WriteByte('.')
		}
		b.WriteString(t.Name)
		if len(t.TypeArgs) > 0 {
			b.WriteByte('[')
			for i, a := range t.TypeArgs {
				if i > 0 {
					b.WriteByte(',')
				}
				a.writeIdentity(b)
			}
			b.WriteByte(']')
		}
	}
}

func (t *HostType) String() string {
	return t.Identity()
}

// Variant returns the variant with the given Go-side name.
func (t *HostType) Variant(name string) *HostVariant {
	for _, v := range t.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}
