package bindgen

import (
	"strings"

	"github.com/StatisMike/gdext/schema"
	"github.com/dave/jennifer/jen"
)

type typeKind uint8

const (
	valueKind typeKind = iota
	enumKind
	objectKind
	variantKind
)

// goType is the Go rendering of a schema type.
type goType struct {
	kind typeKind
	// name is the Go type name: a basic type, an enum type, or for objects
	// the class struct.
	name string
}

var intMetas = map[string]string{
	"int8":   "int8",
	"int16":  "int16",
	"int32":  "int32",
	"int64":  "int64",
	"uint8":  "uint8",
	"uint16": "uint16",
	"uint32": "uint32",
	"uint64": "uint64",
}

var stringTypes = map[string]bool{
	"String":     true,
	"StringName": true,
	"NodePath":   true,
}

// mapType resolves a schema type and its meta width hint. Types the bindings
// do not model, builtins like Vector2 or typed arrays, travel as obj.Variant.
func (p *Plan) mapType(typ, meta string) goType {
	switch {
	case typ == "bool":
		return goType{kind: valueKind, name: "bool"}
	case typ == "int":
		if t, ok := intMetas[meta]; ok {
			return goType{kind: valueKind, name: t}
		}
		return goType{kind: valueKind, name: "int64"}
	case typ == "float":
		return goType{kind: valueKind, name: p.floatType(meta)}
	case stringTypes[typ]:
		return goType{kind: valueKind, name: "string"}
	case strings.HasPrefix(typ, "enum::"), strings.HasPrefix(typ, "bitfield::"):
		_, ref, _ := strings.Cut(typ, "::")
		if name, ok := p.enums[ref]; ok {
			return goType{kind: enumKind, name: name}
		}
		return goType{kind: valueKind, name: "int64"}
	}
	if cp, ok := p.byName[typ]; ok {
		return goType{kind: objectKind, name: cp.GoName}
	}
	return goType{kind: variantKind, name: "Variant"}
}

// floatType picks the width of a float value. "real" follows the build
// precision; an unannotated float is a double on the wire.
func (p *Plan) floatType(meta string) string {
	switch meta {
	case "float":
		return "float32"
	case "real":
		if p.Model.Precision == schema.Single {
			return "float32"
		}
		return "float64"
	default:
		return "float64"
	}
}

// code renders the type for a declaration.
func (t goType) code(objPath string) jen.Code {
	switch t.kind {
	case objectKind:
		return jen.Op("*").Qual(objPath, "Gd").Types(jen.Id(t.name))
	case variantKind:
		return jen.Qual(objPath, "Variant")
	default:
		return jen.Id(t.name)
	}
}

// toWire converts a Go value expression to what crosses the host boundary.
func (t goType) toWire(objPath string, v *jen.Statement) jen.Code {
	switch t.kind {
	case enumKind:
		return jen.Int64().Call(v)
	case objectKind:
		return jen.Qual(objPath, "PtrOf").Call(v)
	default:
		return v
	}
}

// fromWire converts a call result back to the Go type.
func (t goType) fromWire(objPath string, v jen.Code) jen.Code {
	switch t.kind {
	case enumKind:
		return jen.Id(t.name).Call(jen.Qual(objPath, "As").Types(jen.Int64()).Call(v))
	case objectKind:
		return jen.Qual(objPath, "AsObject").Types(jen.Id(t.name)).Call(v)
	case variantKind:
		return v
	default:
		return jen.Qual(objPath, "As").Types(jen.Id(t.name)).Call(v)
	}
}

// fromArg extracts argument i of a virtual call.
func (t goType) fromArg(objPath string, i int) jen.Code {
	args := jen.Id("args")
	switch t.kind {
	case enumKind:
		return jen.Id(t.name).Call(jen.Qual(objPath, "Arg").Types(jen.Int64()).Call(args, jen.Lit(i)))
	case objectKind:
		return jen.Qual(objPath, "ArgObject").Types(jen.Id(t.name)).Call(args, jen.Lit(i))
	case variantKind:
		return args.Index(jen.Lit(i))
	default:
		return jen.Qual(objPath, "Arg").Types(jen.Id(t.name)).Call(args, jen.Lit(i))
	}
}
