package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/rdcgen/pkg/ir"
)

func enumDecl(f *jen.File, e *ir.Enum) error {
	self := string(e.SelfType)
	if len(e.Variants) == 0 {
		return ir.GenerationErrorf("go: enum %s has no members", self)
	}

	defs := make([]jen.Code, 0, len(e.Variants))
	members := make([]jen.Code, 0, len(e.Variants))
	for _, v := range e.Variants {
		member := self + v.Name.PascalCase()
		defs = append(defs, jen.Id(member).Id(self).Op("=").Lit(v.Tag))
		members = append(members, jen.Id(member))
	}

	f.Type().Id(self).String()
	f.Line()
	f.Const().Defs(defs...)
	f.Line()
	f.Func().Id(self + "Values").Params().Index().Id(self).Block(
		jen.Return(jen.Index().Id(self).Values(members...)),
	)
	f.Line()
	f.Func().Params(jen.Id("x").Op("*").Id(self)).Id("UnmarshalJSON").Params(jen.Id("data").Index().Byte()).Error().Block(
		jen.Var().Id("tag").String(),
		errIfNotNil(jen.Qual(jsonPkg, "Unmarshal").Call(jen.Id("data"), jen.Op("&").Id("tag"))),
		jen.Switch(jen.Id(self).Call(jen.Id("tag"))).Block(
			jen.Case(members...).Block(
				jen.Op("*").Id("x").Op("=").Id(self).Call(jen.Id("tag")),
				jen.Return(jen.Nil()),
			),
		),
		jen.Return(jen.Qual(fmtPkg, "Errorf").Call(jen.Lit("cannot deserialize as `"+self+"`: unknown tag %q"), jen.Id("tag"))),
	)
	return nil
}
