package bindgen

import "github.com/dave/jennifer/jen"

func (p *Plan) emitRegister() *jen.File {
	f := p.newFile()
	f.PackageComment("Package " + p.Options.Package + " holds bindings generated for " + p.Model.Header.FullName + ".")

	f.Comment("APIVersion is the engine version the bindings were generated from.")
	f.Const().Id("APIVersion").Op("=").Lit(p.Model.Header.String())
	f.Line()
	f.Comment("BuildConfig names the configuration BuiltinSizes was taken from.")
	f.Const().Id("BuildConfig").Op("=").Lit(p.Config)
	f.Line()

	sizes, _ := p.Model.BuiltinSizes(p.Config)
	f.Comment("BuiltinSizes holds the byte size of each builtin type.")
	f.Var().Id("BuiltinSizes").Op("=").Map(jen.String()).Int().Values(dictOf(sizes, func(v int) jen.Code {
		return jen.Lit(v)
	}))
	f.Line()

	formats := make(map[string]string, len(p.Model.NativeStructures))
	for _, ns := range p.Model.NativeStructures {
		formats[ns.Name] = ns.Format
	}
	f.Comment("NativeStructures holds the C layout of each native structure.")
	f.Var().Id("NativeStructures").Op("=").Map(jen.String()).String().Values(dictOf(formats, func(v string) jen.Code {
		return jen.Lit(v)
	}))
	f.Line()

	var stmts []jen.Code
	for _, cp := range p.Classes {
		info := jen.Dict{}
		if cp.Parent != nil {
			info[jen.Id("Parent")] = jen.Lit(cp.Parent.Class.Name)
			var anc []jen.Code
			for _, a := range cp.Ancestors {
				anc = append(anc, jen.Lit(a.Class.Name))
			}
			info[jen.Id("Ancestors")] = jen.Index().String().Values(anc...)
		}
		if len(cp.Virtuals) > 0 {
			info[jen.Id("Virtual")] = jen.Id(cp.Resolver)
		}
		stmts = append(stmts, jen.If(
			jen.Err().Op(":=").Add(p.objQual("RegisterNative")).Types(jen.Id(cp.GoName)).Call(jen.Id("db"), p.objQual("ClassInfo").Values(info)),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())))
	}
	stmts = append(stmts, jen.Return(jen.Nil()))

	f.Comment("RegisterClasses adds every generated class to db, bases first.")
	f.Func().Id("RegisterClasses").Params(jen.Id("db").Op("*").Add(p.objQual("ClassDB"))).Error().Block(stmts...)
	return f
}

// dictOf renders a map literal body. jennifer orders Dict entries by their
// rendered key, so the output does not depend on map iteration.
func dictOf[V any](m map[string]V, lit func(V) jen.Code) jen.Dict {
	d := jen.Dict{}
	for k, v := range m {
		d[jen.Lit(k)] = lit(v)
	}
	return d
}
