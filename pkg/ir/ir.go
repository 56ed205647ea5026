// Package ir holds the language-agnostic model of the types collected for
// one generation request and the collector that fills it.
package ir

import (
	"github.com/cmmoran/rdcgen/pkg/model"
	"github.com/cmmoran/rdcgen/pkg/name"
)

// Target resolves host types into one target language's type expressions.
type Target interface {
	Name() string
	// ResolveType returns the expression used to declare a value of t.
	ResolveType(t *model.HostType) Type
	// ResolveCustomType returns the identifier t is generated under.
	ResolveCustomType(t *model.HostType) CustomType
}

// IntermediateRepresentation is built once per request. It is append-only
// while types are added and read-only once generators consume it.
type IntermediateRepresentation struct {
	target    Target
	structs   []*Struct
	enums     []*Enum
	dataEnums []*DataEnum
	seen      map[string]struct{}
}

func New(target Target) *IntermediateRepresentation {
	return &IntermediateRepresentation{
		target: target,
		seen:   make(map[string]struct{}),
	}
}

func (r *IntermediateRepresentation) Target() Target        { return r.target }
func (r *IntermediateRepresentation) Structs() []*Struct     { return r.structs }
func (r *IntermediateRepresentation) Enums() []*Enum         { return r.enums }
func (r *IntermediateRepresentation) DataEnums() []*DataEnum { return r.dataEnums }

// Len is the number of collected entities.
func (r *IntermediateRepresentation) Len() int {
	return len(r.structs) + len(r.enums) + len(r.dataEnums)
}

// Has reports whether a type identity was already processed.
func (r *IntermediateRepresentation) Has(identity string) bool {
	_, ok := r.seen[identity]
	return ok
}

func (r *IntermediateRepresentation) AddStruct(s *Struct)     { r.structs = append(r.structs, s) }
func (r *IntermediateRepresentation) AddEnum(e *Enum)         { r.enums = append(r.enums, e) }
func (r *IntermediateRepresentation) AddDataEnum(d *DataEnum) { r.dataEnums = append(r.dataEnums, d) }

// Add registers t and every type reachable from it, each identity once.
// Containers register their element types only; primitives register nothing.
func (r *IntermediateRepresentation) Add(t *model.HostType) {
	if t == nil {
		return
	}
	switch t.Kind {
	case model.KindList, model.KindOptional:
		r.Add(t.Elem)
		return
	case model.KindMap:
		r.Add(t.Key)
		r.Add(t.Elem)
		return
	}
	if !t.Kind.Named() {
		return
	}

	id := t.Identity()
	if r.Has(id) {
		return
	}
	// mark before recursing so cyclic graphs stop here
	r.seen[id] = struct{}{}

	switch t.Kind {
	case model.KindStruct:
		r.addStruct(t)
	case model.KindEnum:
		r.addEnum(t)
	case model.KindDataEnum:
		r.addDataEnum(t)
	}
}

func (r *IntermediateRepresentation) addStruct(t *model.HostType) {
	s := &Struct{
		Name:     name.FromPascalCase(t.Name),
		SelfType: r.target.ResolveCustomType(t),
		Fields:   r.fields(t.Fields),
	}
	r.structs = append(r.structs, s)

	for _, f := range t.Fields {
		r.Add(f.Type)
	}
}

func (r *IntermediateRepresentation) addEnum(t *model.HostType) {
	e := &Enum{
		Name:     name.FromPascalCase(t.Name),
		SelfType: r.target.ResolveCustomType(t),
		Variants: make([]EnumVariant, 0, len(t.Members)),
	}
	for _, m := range t.Members {
		e.Variants = append(e.Variants, EnumVariant{Name: name.FromPascalCase(m.Name), Tag: m.Tag})
	}
	r.enums = append(r.enums, e)
}

func (r *IntermediateRepresentation) addDataEnum(t *model.HostType) {
	d := &DataEnum{
		Name:     name.FromPascalCase(t.Name),
		SelfType: r.target.ResolveCustomType(t),
		Style:    StyleExternal,
		Variants: make([]DataEnumVariant, 0, len(t.Variants)),
	}
	for _, v := range t.Variants {
		n := name.FromPascalCase(v.Name)
		switch v.Shape {
		case model.ShapeUnit:
			d.Variants = append(d.Variants, UnitVariant{Name: n, Tag: v.Tag})
		case model.ShapeObject:
			d.Variants = append(d.Variants, ObjectVariant{Name: n, Tag: v.Tag, Fields: r.fields(v.Fields)})
		case model.ShapeTuple:
			slots := make([]Type, 0, len(v.Slots))
			for _, s := range v.Slots {
				slots = append(slots, r.target.ResolveType(s))
			}
			d.Variants = append(d.Variants, TupleVariant{Name: n, Tag: v.Tag, Slots: slots})
		}
	}
	r.dataEnums = append(r.dataEnums, d)

	for _, v := range t.Variants {
		for _, f := range v.Fields {
			r.Add(f.Type)
		}
		for _, s := range v.Slots {
			r.Add(s)
		}
	}
}

func (r *IntermediateRepresentation) fields(in []*model.HostField) []Field {
	out := make([]Field, 0, len(in))
	for _, f := range in {
		out = append(out, Field{
			Name: name.FromPascalCase(f.Name),
			Tag:  f.Tag,
			Type: r.target.ResolveType(f.Type),
		})
	}
	return out
}

// CheckNames reports entities that resolved to the same target identifier,
// e.g. two packages declaring a type with one name.
func (r *IntermediateRepresentation) CheckNames() error {
	owners := make(map[CustomType]string, r.Len())
	claim := func(self CustomType, n name.Name) error {
		if prev, ok := owners[self]; ok {
			return GenerationErrorf("%s: %s and %s both generate %s", r.target.Name(), prev, n.PascalCase(), self)
		}
		owners[self] = n.PascalCase()
		return nil
	}
	for _, s := range r.structs {
		if err := claim(s.SelfType, s.Name); err != nil {
			return err
		}
	}
	for _, e := range r.enums {
		if err := claim(e.SelfType, e.Name); err != nil {
			return err
		}
	}
	for _, d := range r.dataEnums {
		if err := claim(d.SelfType, d.Name); err != nil {
			return err
		}
	}
	return nil
}
