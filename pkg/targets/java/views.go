package java

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cmmoran/rdcgen/pkg/ir"
)

type fieldView struct {
	Tag    string
	Type   string
	Ident  string
	Pascal string
}

func newFieldView(f ir.Field) fieldView {
	return fieldView{
		Tag:    f.Tag,
		Type:   string(f.Type),
		Ident:  ident(f.Name.CamelCase()),
		Pascal: f.Name.PascalCase(),
	}
}

type structView struct {
	ClassName string
	Fields    []fieldView
}

func newStructView(s *ir.Struct) structView {
	v := structView{ClassName: string(s.SelfType)}
	for _, f := range s.Fields {
		v.Fields = append(v.Fields, newFieldView(f))
	}
	return v
}

type constantView struct {
	Tag      string
	Constant string
}

type enumView struct {
	ClassName string
	Constants []constantView
}

func newEnumView(e *ir.Enum) enumView {
	v := enumView{ClassName: string(e.SelfType)}
	for _, c := range e.Variants {
		v.Constants = append(v.Constants, constantView{Tag: c.Tag, Constant: c.Name.UpperSnakeCase()})
	}
	return v
}

type slotView struct {
	Type   string
	Getter string
	Index  int
}

type variantView struct {
	Owner    string
	Constant string
	Pascal   string
	Tag      string
	IsUnit   bool
	IsObject bool
	Single   bool

	// object variants
	Holder        string
	Fields        []fieldView
	CreatorParams string

	// object and tuple factories
	Params string
	Args   string

	// tuple variants
	Slots    []slotView
	TypeRefs string
}

type dataEnumView struct {
	ClassName string
	Variants  []variantView
	Units     []variantView
	Keyed     []variantView
	Constants []string
}

func newDataEnumView(d *ir.DataEnum) (dataEnumView, error) {
	v := dataEnumView{ClassName: string(d.SelfType)}
	for _, dv := range d.Variants {
		vv := variantView{
			Owner:    v.ClassName,
			Constant: dv.VariantName().UpperSnakeCase(),
			Pascal:   dv.VariantName().PascalCase(),
			Tag:      dv.VariantTag(),
		}
		switch dv := dv.(type) {
		case ir.UnitVariant:
			vv.IsUnit = true
			v.Units = append(v.Units, vv)
		case ir.ObjectVariant:
			vv.IsObject = true
			vv.Holder = vv.Pascal
			var params, args, creator []string
			for _, f := range dv.Fields {
				fv := newFieldView(f)
				vv.Fields = append(vv.Fields, fv)
				params = append(params, fv.Type+" "+fv.Ident)
				args = append(args, fv.Ident)
				creator = append(creator, fmt.Sprintf("@JsonProperty(%s) %s %s", quote(fv.Tag), fv.Type, fv.Ident))
			}
			vv.Params = strings.Join(params, ", ")
			vv.Args = strings.Join(args, ", ")
			vv.CreatorParams = strings.Join(creator, ", ")
			v.Keyed = append(v.Keyed, vv)
		case ir.TupleVariant:
			if dv.Arity() == 0 {
				return v, ir.GenerationErrorf("java: tuple variant %s.%s has no slots", v.ClassName, vv.Pascal)
			}
			vv.Single = dv.Arity() == 1
			var params, args, refs []string
			for i, s := range dv.Slots {
				getter := "get" + vv.Pascal
				if !vv.Single {
					getter = fmt.Sprintf("get%s%d", vv.Pascal, i)
				}
				vv.Slots = append(vv.Slots, slotView{Type: string(s), Getter: getter, Index: i})
				params = append(params, fmt.Sprintf("%s arg%d", s, i))
				args = append(args, fmt.Sprintf("arg%d", i))
				refs = append(refs, fmt.Sprintf("new TypeReference<%s>() {}", s))
			}
			vv.Params = strings.Join(params, ", ")
			vv.Args = strings.Join(args, ", ")
			vv.TypeRefs = strings.Join(refs, ", ")
			v.Keyed = append(v.Keyed, vv)
		default:
			return v, ir.GenerationErrorf("java: unknown variant %T in %s", dv, v.ClassName)
		}
		v.Variants = append(v.Variants, vv)
		v.Constants = append(v.Constants, vv.Constant)
	}
	if len(v.Variants) == 0 {
		return v, ir.GenerationErrorf("java: data enum %s has no variants", v.ClassName)
	}
	return v, v.checkHolders()
}

// bodyNames are the simple type names the dataenum template refers to inside
// the class body.
var bodyNames = []string{
	"Variant", "Object", "String", "IllegalStateException", "IOException",
	"JsonCreator", "JsonIgnore", "JsonInclude", "JsonProperty",
	"JacksonException", "JsonGenerator", "JsonParseException", "JsonParser", "JsonToken",
	"TypeReference", "DeserializationContext", "JsonNode", "SerializerProvider",
	"JsonDeserialize", "JsonSerialize", "StdDeserializer", "ObjectNode", "StdSerializer",
	"Serializer", "Deserializer", "Override", "SuppressWarnings",
}

var javaIdent = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)

// checkHolders rejects a nested holder class whose simple name would shadow
// the enclosing class or a type the class body refers to.
func (v dataEnumView) checkHolders() error {
	used := map[string]string{v.ClassName: "the enclosing class"}
	for _, n := range bodyNames {
		used[n] = "a type used by the generated codec"
	}
	for _, vv := range v.Variants {
		var refs []string
		for _, f := range vv.Fields {
			refs = append(refs, f.Type)
		}
		for _, s := range vv.Slots {
			refs = append(refs, s.Type)
		}
		for _, ref := range refs {
			for _, n := range javaIdent.FindAllString(ref, -1) {
				used[n] = "the type of variant " + vv.Pascal
			}
		}
	}
	for _, vv := range v.Keyed {
		if !vv.IsObject {
			continue
		}
		if by, ok := used[vv.Holder]; ok {
			return ir.GenerationErrorf("java: %s: holder class %s.%s shadows %s", v.ClassName, v.ClassName, vv.Holder, by)
		}
	}
	return nil
}
