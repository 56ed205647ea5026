package golang

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/rdcgen/pkg/ir"
)

// dataEnum carries the identifiers shared by every declaration of one
// generated union.
type dataEnum struct {
	*ir.DataEnum
	self  string
	kind  string
	parse string
}

func (d *dataEnum) constant(v ir.DataEnumVariant) string {
	return d.kind + v.VariantName().PascalCase()
}

func (d *dataEnum) holder(v ir.ObjectVariant) string {
	return d.self + v.Name.PascalCase()
}

func (d *dataEnum) fail(reason string) string {
	return "cannot deserialize as `" + d.self + "`: " + reason
}

func (d *dataEnum) receiver() *jen.Statement {
	return jen.Id("x").Op("*").Id(d.self)
}

// assign renders *x = Self{variant: ..., value: ...}.
func (d *dataEnum) assign(v ir.DataEnumVariant, value jen.Code) *jen.Statement {
	dict := jen.Dict{jen.Id("variant"): jen.Id(d.constant(v))}
	if value != nil {
		dict[jen.Id("value")] = value
	}
	return jen.Op("*").Id("x").Op("=").Id(d.self).Values(dict)
}

func newDataEnum(in *ir.DataEnum) *dataEnum {
	d := &dataEnum{
		DataEnum: in,
		self:     string(in.SelfType),
	}
	d.kind = lowerFirst(d.self) + "Variant"
	d.parse = "parse" + d.self + "Field"
	return d
}

func (d *dataEnum) factory(v ir.DataEnumVariant) string {
	return d.self + "Of" + v.VariantName().PascalCase()
}

func (d *dataEnum) hasTuple() bool {
	for _, v := range d.Variants {
		if _, ok := v.(ir.TupleVariant); ok {
			return true
		}
	}
	return false
}

func dataEnumDecl(f *jen.File, in *ir.DataEnum) error {
	d := newDataEnum(in)

	if len(d.Variants) == 0 {
		return ir.GenerationErrorf("go: data enum %s has no variants", d.self)
	}
	for _, v := range d.Variants {
		if tv, ok := v.(ir.TupleVariant); ok && tv.Arity() == 0 {
			return ir.GenerationErrorf("go: tuple variant %s.%s has no slots", d.self, tv.Name.PascalCase())
		}
	}

	f.Type().Id(d.self).Struct(
		jen.Id("variant").Id(d.kind),
		jen.Id("value").Interface(),
	)
	f.Line()
	d.discriminant(f)

	for _, v := range d.Variants {
		f.Line()
		switch v := v.(type) {
		case ir.UnitVariant:
			d.unit(f, v)
		case ir.ObjectVariant:
			d.object(f, v)
		case ir.TupleVariant:
			d.tuple(f, v)
		default:
			return ir.GenerationErrorf("go: unknown variant %T in %s", v, d.self)
		}
		f.Line()
		f.Func().Params(d.receiver()).Id("Is" + v.VariantName().PascalCase()).Params().Bool().Block(
			jen.Return(jen.Id("x").Dot("variant").Op("==").Id(d.constant(v))),
		)
	}

	f.Line()
	d.marshal(f)
	f.Line()
	d.unmarshal(f)
	if d.hasTuple() {
		f.Line()
		d.parseField(f)
	}
	return nil
}

func (d *dataEnum) discriminant(f *jen.File) {
	defs := make([]jen.Code, 0, len(d.Variants))
	cases := make([]jen.Code, 0, len(d.Variants))
	for i, v := range d.Variants {
		if i == 0 {
			defs = append(defs, jen.Id(d.constant(v)).Id(d.kind).Op("=").Id("iota").Op("+").Lit(1))
		} else {
			defs = append(defs, jen.Id(d.constant(v)))
		}
		cases = append(cases, jen.Case(jen.Id(d.constant(v))).Block(jen.Return(jen.Lit(v.VariantName().PascalCase()))))
	}

	f.Type().Id(d.kind).Int()
	f.Line()
	f.Const().Defs(defs...)
	f.Line()
	f.Func().Params(jen.Id("v").Id(d.kind)).Id("String").Params().String().Block(
		jen.Switch(jen.Id("v")).Block(cases...),
		jen.Return(jen.Lit("invalid")),
	)
}

func (d *dataEnum) guard(v ir.DataEnumVariant) *jen.Statement {
	return jen.If(jen.Id("x").Dot("variant").Op("!=").Id(d.constant(v))).Block(
		jen.Panic(jen.Qual(fmtPkg, "Sprintf").Call(jen.Lit("invalid variant: %s"), jen.Id("x").Dot("variant"))),
	)
}

func (d *dataEnum) unit(f *jen.File, v ir.UnitVariant) {
	f.Func().Id(d.factory(v)).Params().Op("*").Id(d.self).Block(
		jen.Return(jen.Op("&").Id(d.self).Values(jen.Dict{jen.Id("variant"): jen.Id(d.constant(v))})),
	)
}

func (d *dataEnum) object(f *jen.File, v ir.ObjectVariant) {
	holder := d.holder(v)
	params := make([]jen.Code, 0, len(v.Fields))
	values := jen.Dict{}
	for _, fd := range v.Fields {
		param := ident(fd.Name.CamelCase())
		params = append(params, jen.Id(param).Add(typ(fd.Type)))
		values[jen.Id(fd.Name.PascalCase())] = jen.Id(param)
	}

	f.Type().Id(holder).Struct(structFields(v.Fields)...)
	f.Line()
	f.Func().Id(d.factory(v)).Params(params...).Op("*").Id(d.self).Block(
		jen.Return(jen.Op("&").Id(d.self).Values(jen.Dict{
			jen.Id("variant"): jen.Id(d.constant(v)),
			jen.Id("value"):   jen.Op("&").Id(holder).Values(values),
		})),
	)
	f.Line()
	f.Func().Params(d.receiver()).Id("Get" + v.Name.PascalCase()).Params().Op("*").Id(holder).Block(
		d.guard(v),
		jen.Return(jen.Id("x").Dot("value").Assert(jen.Op("*").Id(holder))),
	)
}

func (d *dataEnum) tuple(f *jen.File, v ir.TupleVariant) {
	params := make([]jen.Code, 0, len(v.Slots))
	args := make([]jen.Code, 0, len(v.Slots))
	for i, s := range v.Slots {
		arg := fmt.Sprintf("arg%d", i)
		params = append(params, jen.Id(arg).Add(typ(s)))
		args = append(args, jen.Id(arg))
	}

	f.Func().Id(d.factory(v)).Params(params...).Op("*").Id(d.self).Block(
		jen.Return(jen.Op("&").Id(d.self).Values(jen.Dict{
			jen.Id("variant"): jen.Id(d.constant(v)),
			jen.Id("value"):   jen.Index().Interface().Values(args...),
		})),
	)
	for i, s := range v.Slots {
		getter := "Get" + v.Name.PascalCase()
		if v.Arity() > 1 {
			getter = fmt.Sprintf("%s%d", getter, i)
		}
		f.Line()
		f.Func().Params(d.receiver()).Id(getter).Params().Add(typ(s)).Block(
			d.guard(v),
			jen.Return(jen.Id("x").Dot("value").Assert(jen.Index().Interface()).Index(jen.Lit(i)).Assert(typ(s))),
		)
	}
}

func (d *dataEnum) marshal(f *jen.File) {
	cases := make([]jen.Code, 0, len(d.Variants))
	for _, v := range d.Variants {
		var payload jen.Code
		switch v := v.(type) {
		case ir.UnitVariant:
			cases = append(cases, jen.Case(jen.Id(d.constant(v))).Block(
				jen.Return(jen.Qual(jsonPkg, "Marshal").Call(jen.Lit(v.Tag))),
			))
			continue
		case ir.TupleVariant:
			payload = jen.Id("x").Dot("value")
			if v.Arity() == 1 {
				payload = jen.Id("x").Dot("value").Assert(jen.Index().Interface()).Index(jen.Lit(0))
			}
		default:
			payload = jen.Id("x").Dot("value")
		}
		cases = append(cases, jen.Case(jen.Id(d.constant(v))).Block(
			jen.Return(jen.Qual(jsonPkg, "Marshal").Call(
				jen.Map(jen.String()).Interface().Values(jen.Dict{jen.Lit(v.VariantTag()): payload}),
			)),
		))
	}

	f.Func().Params(jen.Id("x").Id(d.self)).Id("MarshalJSON").Params().Params(jen.Index().Byte(), jen.Error()).Block(
		jen.Switch(jen.Id("x").Dot("variant")).Block(cases...),
		jen.Return(jen.Nil(), jen.Qual(fmtPkg, "Errorf").Call(
			jen.Lit("cannot serialize as `"+d.self+"`: invalid variant: %s"), jen.Id("x").Dot("variant"),
		)),
	)
}

func (d *dataEnum) unmarshal(f *jen.File) {
	var units []jen.Code
	for _, v := range d.UnitVariants() {
		units = append(units, jen.Case(jen.Lit(v.Tag)).Block(
			d.assign(v, nil),
			jen.Return(jen.Nil()),
		))
	}
	str := []jen.Code{
		jen.Var().Id("tag").String(),
		errIfNotNil(jen.Qual(jsonPkg, "Unmarshal").Call(jen.Id("data"), jen.Op("&").Id("tag"))),
	}
	if len(units) > 0 {
		str = append(str, jen.Switch(jen.Id("tag")).Block(units...))
	}
	str = append(str, jen.Return(jen.Qual(fmtPkg, "Errorf").Call(jen.Lit(d.fail("unknown tag %q")), jen.Id("tag"))))

	obj := []jen.Code{
		jen.Var().Id("node").Map(jen.String()).Qual(jsonPkg, "RawMessage"),
		errIfNotNil(jen.Qual(jsonPkg, "Unmarshal").Call(jen.Id("data"), jen.Op("&").Id("node"))),
	}
	// the first declared variant present in the object wins
	for _, v := range d.KeyedVariants() {
		var body []jen.Code
		switch v := v.(type) {
		case ir.ObjectVariant:
			body = []jen.Code{
				jen.Var().Id("value").Op("*").Id(d.holder(v)),
				errIfNotNil(jen.Qual(jsonPkg, "Unmarshal").Call(jen.Id("raw"), jen.Op("&").Id("value"))),
				d.assign(v, jen.Id("value")),
			}
		case ir.TupleVariant:
			call := []jen.Code{jen.Id("raw"), jen.Lit(v.Tag)}
			args := make([]jen.Code, 0, len(v.Slots))
			for i, s := range v.Slots {
				arg := fmt.Sprintf("arg%d", i)
				body = append(body, jen.Var().Id(arg).Add(typ(s)))
				call = append(call, jen.Op("&").Id(arg))
				args = append(args, jen.Id(arg))
			}
			body = append(body,
				errIfNotNil(jen.Id(d.parse).Call(call...)),
				d.assign(v, jen.Index().Interface().Values(args...)),
			)
		}
		body = append(body, jen.Return(jen.Nil()))
		obj = append(obj, jen.If(
			jen.List(jen.Id("raw"), jen.Id("ok")).Op(":=").Id("node").Index(jen.Lit(v.VariantTag())),
			jen.Id("ok"),
		).Block(body...))
	}
	obj = append(obj, jen.Return(jen.Qual(fmtPkg, "Errorf").Call(jen.Lit(d.fail("no known variant tag")))))

	f.Func().Params(d.receiver()).Id("UnmarshalJSON").Params(jen.Id("data").Index().Byte()).Error().Block(
		jen.Id("data").Op("=").Qual("bytes", "TrimSpace").Call(jen.Id("data")),
		jen.If(jen.String().Call(jen.Id("data")).Op("==").Lit("null")).Block(jen.Return(jen.Nil())),
		jen.If(jen.Len(jen.Id("data")).Op("==").Lit(0)).Block(
			jen.Return(jen.Qual(fmtPkg, "Errorf").Call(jen.Lit(d.fail("empty input")))),
		),
		jen.Switch(jen.Id("data").Index(jen.Lit(0))).Block(
			jen.Case(jen.LitRune('"')).Block(str...),
			jen.Case(jen.LitRune('{')).Block(obj...),
		),
		jen.Return(jen.Qual(fmtPkg, "Errorf").Call(jen.Lit(d.fail("expected string or object")))),
	)
}

// parseField renders the helper that reads a tuple payload: a lone slot
// reads the value itself, several slots read an array of exactly that size.
func (d *dataEnum) parseField(f *jen.File) {
	f.Func().Id(d.parse).Params(
		jen.Id("raw").Qual(jsonPkg, "RawMessage"),
		jen.Id("key").String(),
		jen.Id("slots").Op("...").Interface(),
	).Error().Block(
		jen.If(jen.Len(jen.Id("slots")).Op("==").Lit(1)).Block(
			jen.Return(jen.Qual(jsonPkg, "Unmarshal").Call(jen.Id("raw"), jen.Id("slots").Index(jen.Lit(0)))),
		),
		jen.Var().Id("items").Index().Qual(jsonPkg, "RawMessage"),
		jen.If(
			jen.Err().Op(":=").Qual(jsonPkg, "Unmarshal").Call(jen.Id("raw"), jen.Op("&").Id("items")),
			jen.Err().Op("!=").Nil().Op("||").Len(jen.Id("items")).Op("!=").Len(jen.Id("slots")),
		).Block(
			jen.Return(jen.Qual(fmtPkg, "Errorf").Call(
				jen.Lit(d.fail("expected array of size %d for field %q")), jen.Len(jen.Id("slots")), jen.Id("key"),
			)),
		),
		jen.For(jen.List(jen.Id("i"), jen.Id("item")).Op(":=").Range().Id("items")).Block(
			errIfNotNil(jen.Qual(jsonPkg, "Unmarshal").Call(jen.Id("item"), jen.Id("slots").Index(jen.Id("i")))),
		),
		jen.Return(jen.Nil()),
	)
}
