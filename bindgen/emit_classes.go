package bindgen

import (
	"strconv"
	"unicode"

	"github.com/StatisMike/gdext/obj"
	"github.com/StatisMike/gdext/schema"
	"github.com/dave/jennifer/jen"
)

// reservedMethods are defined on every generated class by the bindings
// themselves.
var reservedMethods = map[string]bool{
	"ClassName": true,
	"Declarer":  true,
	"Memory":    true,
	"Ptr":       true,
}

func (p *Plan) newFile() *jen.File {
	f := jen.NewFile(p.Options.Package)
	f.ImportName(p.Options.ObjImport, "obj")
	return f
}

func (p *Plan) objQual(name string) *jen.Statement {
	return jen.Qual(p.Options.ObjImport, name)
}

func (p *Plan) gdOf(goName string) *jen.Statement {
	return jen.Op("*").Qual(p.Options.ObjImport, "Gd").Types(jen.Id(goName))
}

func intLit(v int64) *jen.Statement {
	return jen.Id(strconv.FormatInt(v, 10))
}

func lowerFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func memoryIdent(m obj.Memory) string {
	switch m {
	case obj.StaticMemory:
		return "StaticMemory"
	case obj.DynamicRefCount:
		return "DynamicRefCount"
	default:
		return "ManualMemory"
	}
}

func (p *Plan) emitClasses() *jen.File {
	f := p.newFile()
	for _, cp := range p.Classes {
		p.emitClassType(f, cp)
		p.emitEdges(f, cp)
		p.emitMethods(f, cp)
		p.emitVirtuals(f, cp)
	}
	p.emitSingletons(f)
	return f
}

func (p *Plan) embedName(cp *ClassPlan) string {
	if cp.Parent == nil {
		return "Opaque"
	}
	return cp.Parent.GoName
}

func (p *Plan) emitClassType(f *jen.File, cp *ClassPlan) {
	var embed jen.Code = p.objQual("Opaque")
	if cp.Parent != nil {
		embed = jen.Id(cp.Parent.GoName)
		f.Commentf("%s wraps the engine class %s, derived from %s.", cp.GoName, cp.Class.Name, cp.Parent.Class.Name)
	} else {
		f.Commentf("%s wraps the engine class %s.", cp.GoName, cp.Class.Name)
	}
	f.Type().Id(cp.GoName).Struct(embed)
	f.Line()

	recv := jen.Id(cp.GoName)
	f.Func().Params(recv.Clone()).Id("ClassName").Params().String().Block(
		jen.Return(jen.Lit(cp.Class.Name)),
	)
	f.Func().Params(recv.Clone()).Id("Declarer").Params().Add(p.objQual("Declarer")).Block(
		jen.Return(p.objQual("NativeDeclarer")),
	)
	f.Func().Params(recv.Clone()).Id("Memory").Params().Add(p.objQual("Memory")).Block(
		jen.Return(p.objQual(memoryIdent(cp.Memory))),
	)
	f.Line()
}

// emitEdges writes the Derives constraint of cp, one marker method per
// inheritance edge, and the compile-time checked To helper.
func (p *Plan) emitEdges(f *jen.File, cp *ClassPlan) {
	f.Commentf("%s is satisfied by %s and every class derived from it.", cp.Derives, cp.GoName)
	f.Type().Id(cp.Derives).Interface(
		p.objQual("Class"),
		jen.Id("is"+cp.GoName).Params(),
	)
	f.Line()

	f.Func().Params(jen.Id(cp.GoName)).Id("is" + cp.GoName).Params().Block()
	for _, a := range cp.Ancestors {
		f.Func().Params(jen.Id(cp.GoName)).Id("is" + a.GoName).Params().Block()
	}
	f.Line()

	f.Commentf("%s moves h into a %s handle. The conversion is proven at compile time.", cp.Upcast, cp.GoName)
	f.Func().Id(cp.Upcast).
		Types(jen.Id("D").Id(cp.Derives)).
		Params(jen.Id("h").Op("*").Qual(p.Options.ObjImport, "Gd").Types(jen.Id("D"))).
		Add(p.gdOf(cp.GoName)).
		Block(
			jen.Return(p.objQual("UpcastUnchecked").Types(jen.Id(cp.GoName)).Call(jen.Id("h"))),
		)
	f.Line()
}

func (p *Plan) methodName(cp *ClassPlan, m schema.Method) string {
	name := ToPascal(m.Name)
	if name == "" || reservedMethods[name] || name == p.embedName(cp) {
		name += "_"
	}
	return name
}

// params renders a parameter list and the matching wire arguments.
func (p *Plan) params(args []schema.Arg, vararg bool) (params, wire []jen.Code) {
	for _, a := range args {
		t := p.mapType(a.Type, a.Meta)
		id := ToGoIdent(a.Name)
		params = append(params, jen.Id(id).Add(t.code(p.Options.ObjImport)))
		wire = append(wire, t.toWire(p.Options.ObjImport, jen.Id(id)))
	}
	if vararg {
		params = append(params, jen.Id("args").Op("...").Add(p.objQual("Variant")))
	}
	return params, wire
}

// callArgs appends the wire arguments to head, spreading a variadic tail.
func (p *Plan) callArgs(head, wire []jen.Code, vararg bool) []jen.Code {
	if !vararg {
		return append(head, wire...)
	}
	if len(wire) == 0 {
		return append(head, jen.Id("args").Op("..."))
	}
	fixed := jen.Index().Add(p.objQual("Variant")).Values(wire...)
	return append(head, jen.Append(fixed, jen.Id("args").Op("...")).Op("..."))
}

func (p *Plan) emitMethods(f *jen.File, cp *ClassPlan) {
	for _, m := range cp.Class.Methods {
		if m.IsVirtual {
			continue
		}
		p.emitMethod(f, cp, m)
	}
}

func (p *Plan) emitMethod(f *jen.File, cp *ClassPlan, m schema.Method) {
	name := p.methodName(cp, m)
	params, wire := p.params(m.Args, m.IsVararg)
	ident := jen.Lit(cp.Class.Name)
	head := []jen.Code{ident, jen.Lit(m.Name), intLit(m.Hash)}

	var call *jen.Statement
	if m.IsStatic {
		call = p.objQual("CallStatic").Call(p.callArgs(head, wire, m.IsVararg)...)
	} else {
		head = append([]jen.Code{jen.Id("o").Dot("Ptr").Call()}, head...)
		call = p.objQual("Call").Call(p.callArgs(head, wire, m.IsVararg)...)
	}

	var result jen.Code = jen.Null()
	body := []jen.Code{call}
	if m.Return != nil {
		rt := p.mapType(m.Return.Type, m.Return.Meta)
		result = rt.code(p.Options.ObjImport)
		body = []jen.Code{jen.Return(rt.fromWire(p.Options.ObjImport, call))}
	}

	if m.IsStatic {
		fn := cp.Statics[m.Name]
		f.Commentf("%s calls the static method %s.%s.", fn, cp.Class.Name, m.Name)
		f.Func().Id(fn).Params(params...).Add(result).Block(body...)
	} else {
		f.Commentf("%s calls %s.%s.", name, cp.Class.Name, m.Name)
		f.Func().Params(jen.Id("o").Op("*").Id(cp.GoName)).Id(name).Params(params...).Add(result).Block(body...)
	}
	f.Line()
}

func (p *Plan) emitVirtuals(f *jen.File, cp *ClassPlan) {
	if len(cp.Virtuals) == 0 {
		return
	}
	objPath := p.Options.ObjImport

	var cases []jen.Code
	for _, v := range cp.Virtuals {
		params, _ := p.params(v.Method.Args, false)
		var result jen.Code = jen.Null()
		var rt goType
		if v.Method.Return != nil {
			rt = p.mapType(v.Method.Return.Type, v.Method.Return.Meta)
			result = rt.code(objPath)
		}
		f.Commentf("%s is implemented by user classes that override %s.%s.", v.Iface, cp.Class.Name, v.Method.Name)
		f.Type().Id(v.Iface).Interface(jen.Id(v.GoName).Params(params...).Add(result))
		f.Line()

		var args []jen.Code
		for i, a := range v.Method.Args {
			args = append(args, p.mapType(a.Type, a.Meta).fromArg(objPath, i))
		}
		invoke := jen.Id("inst").Assert(jen.Id(v.Iface)).Dot(v.GoName).Call(args...)
		var body []jen.Code
		if v.Method.Return != nil {
			body = []jen.Code{jen.Return(rt.toWire(objPath, invoke))}
		} else {
			body = []jen.Code{invoke, jen.Return(jen.Nil())}
		}

		cases = append(cases, jen.Case(jen.Lit(v.Method.Name)).Block(
			jen.Return(jen.Op("&").Qual(objPath, "Virtual").Values(jen.Dict{
				jen.Id("Method"): jen.Lit(v.Method.Name),
				jen.Id("Implemented"): jen.Func().Params(jen.Id("inst").Id("any")).Bool().Block(
					jen.List(jen.Id("_"), jen.Id("ok")).Op(":=").Id("inst").Assert(jen.Id(v.Iface)),
					jen.Return(jen.Id("ok")),
				),
				jen.Id("Call"): jen.Func().
					Params(jen.Id("inst").Id("any"), jen.Id("args").Index().Qual(objPath, "Variant")).
					Qual(objPath, "Variant").
					Block(body...),
			})),
		))
	}

	f.Commentf("%s resolves the virtual methods %s declares.", cp.Resolver, cp.Class.Name)
	f.Func().Id(cp.Resolver).Params(jen.Id("method").String()).Op("*").Qual(objPath, "Virtual").Block(
		jen.Switch(jen.Id("method")).Block(cases...),
		jen.Return(jen.Nil()),
	)
	f.Line()
}

func (p *Plan) emitSingletons(f *jen.File) {
	for _, cp := range p.Classes {
		if !cp.Singleton {
			continue
		}
		f.Commentf("%s returns the process-wide %s instance.", cp.Accessor, cp.Class.Name)
		f.Func().Id(cp.Accessor).Params().Add(p.gdOf(cp.GoName)).Block(
			jen.Return(p.objQual("Singleton").Types(jen.Id(cp.GoName)).Call(jen.Lit(cp.Class.Name))),
		)
		f.Line()
	}
}
