package bindgen

import (
	"github.com/StatisMike/gdext/schema"
	"github.com/dave/jennifer/jen"
)

func (p *Plan) emitEnums() *jen.File {
	f := p.newFile()
	for _, e := range p.Model.GlobalEnums {
		p.emitEnum(f, e, e.Name)
	}
	for _, b := range p.Model.Builtins {
		for _, e := range b.Enums {
			p.emitEnum(f, e, b.Name+"."+e.Name)
		}
	}
	for _, cp := range p.Classes {
		for _, e := range cp.Class.Enums {
			p.emitEnum(f, e, cp.Class.Name+"."+e.Name)
		}
		p.emitConstants(f, cp)
	}
	return f
}

// emitEnum writes an int32 named type and its values. Values were narrowed
// when the model was ingested.
func (p *Plan) emitEnum(f *jen.File, e schema.Enum, qualified string) {
	kind := "enum"
	if e.IsBitfield {
		kind = "bitfield"
	}
	typeName := p.enums[qualified]
	f.Commentf("%s mirrors the %s %s.", typeName, qualified, kind)
	f.Type().Id(typeName).Int32()
	f.Line()
	if len(e.Values) == 0 {
		return
	}
	defs := make([]jen.Code, 0, len(e.Values))
	for _, v := range e.Values {
		name := p.consts[constKey{qualified, v.Name}]
		defs = append(defs, jen.Id(name).Id(typeName).Op("=").Add(intLit(int64(v.MustEnumOrd()))))
	}
	f.Const().Defs(defs...)
	f.Line()
}

func (p *Plan) emitConstants(f *jen.File, cp *ClassPlan) {
	if len(cp.Class.Constants) == 0 {
		return
	}
	defs := make([]jen.Code, 0, len(cp.Class.Constants))
	for _, c := range cp.Class.Constants {
		name := p.consts[constKey{cp.Class.Name, c.Name}]
		defs = append(defs, jen.Id(name).Int32().Op("=").Add(intLit(int64(c.MustEnumOrd()))))
	}
	f.Commentf("Constants of %s.", cp.Class.Name)
	f.Const().Defs(defs...)
	f.Line()
}
