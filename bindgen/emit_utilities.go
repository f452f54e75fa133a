package bindgen

import "github.com/dave/jennifer/jen"

func (p *Plan) emitUtilities() *jen.File {
	f := p.newFile()
	for _, u := range p.Model.Utilities {
		name := p.utilities[u.Name]

		params, wire := p.params(u.Args, u.IsVararg)
		head := []jen.Code{jen.Lit(u.Name), intLit(u.Hash)}
		call := p.objQual("CallUtility").Call(p.callArgs(head, wire, u.IsVararg)...)

		var result jen.Code = jen.Null()
		body := []jen.Code{call}
		if u.Return != nil {
			rt := p.mapType(u.Return.Type, u.Return.Meta)
			result = rt.code(p.Options.ObjImport)
			body = []jen.Code{jen.Return(rt.fromWire(p.Options.ObjImport, call))}
		}
		f.Commentf("%s calls the %s utility function %s.", name, u.Category, u.Name)
		f.Func().Id(name).Params(params...).Add(result).Block(body...)
		f.Line()
	}
	return f
}
