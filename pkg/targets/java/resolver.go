package java

import (
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/cmmoran/rdcgen/pkg/ir"
	"github.com/cmmoran/rdcgen/pkg/model"
)

// Target resolves host types to Java with Jackson-compatible reference types.
type Target struct{}

var _ ir.Target = Target{}

func (Target) Name() string { return "java" }

func (Target) ResolveType(t *model.HostType) ir.Type {
	return ir.Type(typeExpr(t))
}

func (Target) ResolveCustomType(t *model.HostType) ir.CustomType {
	return ir.CustomType(customName(t))
}

// boxed types keep every field nullable, so absent JSON members stay null.
var boxed = map[model.Primitive]string{
	model.Bool:    "Boolean",
	model.Int8:    "Byte",
	model.Int16:   "Short",
	model.Int32:   "Integer",
	model.Int64:   "Long",
	model.Float32: "Float",
	model.Float64: "Double",
	model.String:  "String",
}

func typeExpr(t *model.HostType) string {
	switch t.Kind {
	case model.KindPrimitive:
		return boxed[t.Primitive]
	case model.KindList:
		return "java.util.List<" + typeExpr(t.Elem) + ">"
	case model.KindMap:
		return "java.util.Map<" + typeExpr(t.Key) + ", " + typeExpr(t.Elem) + ">"
	case model.KindOptional:
		return typeExpr(t.Elem)
	}
	return customName(t)
}

// customName monomorphizes a generic instantiation: B[int32,float64] is
// BIntegerDouble.
func customName(t *model.HostType) string {
	var b strings.Builder
	b.WriteString(t.Name)
	for _, a := range t.TypeArgs {
		b.WriteString(argName(a))
	}
	return b.String()
}

func argName(t *model.HostType) string {
	switch t.Kind {
	case model.KindPrimitive:
		return boxed[t.Primitive]
	case model.KindList:
		return inflection.Plural(argName(t.Elem))
	case model.KindOptional:
		return argName(t.Elem)
	case model.KindMap:
		return argName(t.Key) + argName(t.Elem) + "Map"
	}
	return customName(t)
}
