package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/rdcgen/pkg/ir"
)

func structFields(fields []ir.Field) []jen.Code {
	out := make([]jen.Code, 0, len(fields))
	for _, fd := range fields {
		out = append(out, jen.Id(fd.Name.PascalCase()).Add(typ(fd.Type)).Tag(map[string]string{"json": fd.Tag}))
	}
	return out
}

func structDecl(f *jen.File, s *ir.Struct) error {
	self := string(s.SelfType)
	if self == "" {
		return ir.GenerationErrorf("go: struct %s has no type name", s.Name)
	}

	f.Type().Id(self).Struct(structFields(s.Fields)...)
	f.Line()
	f.Func().Id("New" + self).Params().Op("*").Id(self).Block(
		jen.Return(jen.Op("&").Id(self).Values()),
	)

	for _, fd := range s.Fields {
		field := fd.Name.PascalCase()
		param := ident(fd.Name.CamelCase())

		f.Line()
		f.Func().Params(jen.Id("x").Op("*").Id(self)).Id("Get" + field).Params().Add(typ(fd.Type)).Block(
			jen.If(jen.Id("x").Op("==").Nil()).Block(jen.Return(jen.Nil())),
			jen.Return(jen.Id("x").Dot(field)),
		)
		f.Line()
		f.Func().Params(jen.Id("x").Op("*").Id(self)).Id("Set" + field).Params(jen.Id(param).Add(typ(fd.Type))).Block(
			jen.Id("x").Dot(field).Op("=").Id(param),
		)
	}
	return nil
}
