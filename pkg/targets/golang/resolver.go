package golang

import (
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/cmmoran/rdcgen/pkg/ir"
	"github.com/cmmoran/rdcgen/pkg/model"
)

// Target resolves host types to Go declarations in which every value
// position is a pointer, so absent and null JSON members decode to nil.
type Target struct{}

var _ ir.Target = Target{}

func (Target) Name() string { return "go" }

func (Target) ResolveType(t *model.HostType) ir.Type {
	return ir.Type(typeExpr(t))
}

func (Target) ResolveCustomType(t *model.HostType) ir.CustomType {
	return ir.CustomType(customName(t))
}

var builtins = map[model.Primitive]string{
	model.Bool:    "bool",
	model.Int8:    "int8",
	model.Int16:   "int16",
	model.Int32:   "int32",
	model.Int64:   "int64",
	model.Float32: "float32",
	model.Float64: "float64",
	model.String:  "string",
}

func typeExpr(t *model.HostType) string {
	switch t.Kind {
	case model.KindPrimitive:
		return "*" + builtins[t.Primitive]
	case model.KindList:
		return "[]" + typeExpr(t.Elem)
	case model.KindMap:
		return "map[" + strings.TrimPrefix(typeExpr(t.Key), "*") + "]" + typeExpr(t.Elem)
	case model.KindOptional:
		return typeExpr(t.Elem)
	}
	return "*" + customName(t)
}

// customName monomorphizes a generic instantiation: B[int32,float64] is
// BInt32Float64.
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
		s := builtins[t.Primitive]
		return strings.ToUpper(s[:1]) + s[1:]
	case model.KindList:
		return inflection.Plural(argName(t.Elem))
	case model.KindOptional:
		return argName(t.Elem)
	case model.KindMap:
		return argName(t.Key) + argName(t.Elem) + "Map"
	}
	return customName(t)
}
