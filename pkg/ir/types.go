package ir

import (
	"github.com/cmmoran/rdcgen/pkg/name"
)

// Type is a target expression used where a value of some type is declared,
// e.g. a field type. Generators emit it verbatim.
type Type string

// CustomType is the identifier a generated type is defined under.
type CustomType string

type Field struct {
	Name name.Name
	Tag  string
	Type Type
}

type Struct struct {
	Name     name.Name
	SelfType CustomType
	Fields   []Field
}

type EnumVariant struct {
	Name name.Name
	Tag  string
}

type Enum struct {
	Name     name.Name
	SelfType CustomType
	Variants []EnumVariant
}

type DataEnum struct {
	Name     name.Name
	SelfType CustomType
	Style    Style
	Variants []DataEnumVariant
}

// DataEnumVariant is one of UnitVariant, ObjectVariant or TupleVariant.
type DataEnumVariant interface {
	VariantName() name.Name
	VariantTag() string
	isDataEnumVariant()
}

// UnitVariant carries no payload.
type UnitVariant struct {
	Name name.Name
	Tag  string
}

// ObjectVariant carries named payload fields.
type ObjectVariant struct {
	Name   name.Name
	Tag    string
	Fields []Field
}

// TupleVariant carries positional payload slots.
type TupleVariant struct {
	Name  name.Name
	Tag   string
	Slots []Type
}

func (v UnitVariant) VariantName() name.Name   { return v.Name }
func (v ObjectVariant) VariantName() name.Name { return v.Name }
func (v TupleVariant) VariantName() name.Name  { return v.Name }

func (v UnitVariant) VariantTag() string   { return v.Tag }
func (v ObjectVariant) VariantTag() string { return v.Tag }
func (v TupleVariant) VariantTag() string  { return v.Tag }

func (UnitVariant) isDataEnumVariant()   {}
func (ObjectVariant) isDataEnumVariant() {}
func (TupleVariant) isDataEnumVariant()  {}

func (v TupleVariant) Arity() int {
	return len(v.Slots)
}

// UnitVariants returns the payload-free variants in declaration order.
func (d *DataEnum) UnitVariants() []UnitVariant {
	var out []UnitVariant
	for _, v := range d.Variants {
		if u, ok := v.(UnitVariant); ok {
			out = append(out, u)
		}
	}
	return out
}

// KeyedVariants returns the Object and Tuple variants in declaration order;
// the order is the tie-break when an input object carries several tags.
func (d *DataEnum) KeyedVariants() []DataEnumVariant {
	var out []DataEnumVariant
	for _, v := range d.Variants {
		if _, ok := v.(UnitVariant); !ok {
			out = append(out, v)
		}
	}
	return out
}
