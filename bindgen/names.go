package bindgen

import (
	"strings"

	"github.com/StatisMike/gdext/schema"
)

// registerNames are declared by register.go and are part of the generated
// package's API, so they are claimed before anything else.
var registerNames = []string{"RegisterClasses", "APIVersion", "BuildConfig", "BuiltinSizes", "NativeStructures"}

// namer hands out the package-level identifiers of one generated package.
// Every emitted file draws from the same namer, so a name is declared once.
type namer struct {
	taken map[string]bool
}

func newNamer() *namer {
	n := &namer{taken: make(map[string]bool)}
	for _, name := range registerNames {
		n.taken[name] = true
	}
	return n
}

// claim returns name, suffixed with underscores until it is free.
func (n *namer) claim(name string) string {
	for n.taken[name] {
		name += "_"
	}
	n.taken[name] = true
	return name
}

// claimConst names an enum value or constant, falling back to the enum type
// as prefix when the short form is taken.
func (n *namer) claimConst(prefix, typeName, value string) string {
	name := ConstName(prefix, value)
	if n.taken[name] {
		name = ConstName(typeName, value)
	}
	return n.claim(name)
}

// constKey identifies an enum value ("Node.ProcessMode", "PROCESS_MODE_ALWAYS")
// or a class constant ("Node", "NOTIFICATION_READY").
type constKey struct {
	scope, value string
}

// assignNames fixes every package-level identifier in the order the files
// are emitted: class types, their helpers, enum types, constants, then
// utilities.
func (p *Plan) assignNames() {
	n := newNamer()
	for _, cp := range p.Classes {
		cp.GoName = n.claim(cp.GoName)
	}
	for _, cp := range p.Classes {
		cp.Derives = n.claim("Derives" + cp.GoName)
		cp.Upcast = n.claim("To" + cp.GoName)
		for i := range cp.Virtuals {
			v := &cp.Virtuals[i]
			v.Iface = n.claim("I" + cp.GoName + v.GoName)
		}
		if len(cp.Virtuals) > 0 {
			cp.Resolver = n.claim(lowerFirst(cp.GoName) + "Virtual")
		}
		if cp.Singleton {
			cp.Accessor = n.claim(cp.GoName + "Singleton")
		}
		for _, m := range cp.Class.Methods {
			if m.IsStatic && !m.IsVirtual {
				if cp.Statics == nil {
					cp.Statics = make(map[string]string)
				}
				cp.Statics[m.Name] = n.claim(cp.GoName + p.methodName(cp, m))
			}
		}
	}

	p.enums = make(map[string]string)
	for _, e := range p.Model.GlobalEnums {
		p.enums[e.Name] = n.claim(EnumTypeName("", e.Name))
	}
	for _, b := range p.Model.Builtins {
		for _, e := range b.Enums {
			p.enums[b.Name+"."+e.Name] = n.claim(EnumTypeName(b.Name, e.Name))
		}
	}
	for _, cp := range p.Classes {
		for _, e := range cp.Class.Enums {
			p.enums[cp.Class.Name+"."+e.Name] = n.claim(EnumTypeName(cp.GoName, e.Name))
		}
	}

	p.consts = make(map[constKey]string)
	claimValues := func(ref, prefix string, values []schema.EnumConstant) {
		for _, v := range values {
			p.consts[constKey{ref, v.Name}] = n.claimConst(prefix, p.enums[ref], v.Name)
		}
	}
	for _, e := range p.Model.GlobalEnums {
		owner, _, found := strings.Cut(e.Name, ".")
		if !found {
			owner = ""
		}
		claimValues(e.Name, ToPascal(owner), e.Values)
	}
	for _, b := range p.Model.Builtins {
		for _, e := range b.Enums {
			claimValues(b.Name+"."+e.Name, ToPascal(b.Name), e.Values)
		}
	}
	for _, cp := range p.Classes {
		for _, e := range cp.Class.Enums {
			claimValues(cp.Class.Name+"."+e.Name, cp.GoName, e.Values)
		}
		for _, c := range cp.Class.Constants {
			p.consts[constKey{cp.Class.Name, c.Name}] = n.claimConst(cp.GoName, cp.GoName, c.Name)
		}
	}

	p.utilities = make(map[string]string)
	for _, u := range p.Model.Utilities {
		name := ToPascal(u.Name)
		if n.taken[name] {
			name += "Func"
		}
		p.utilities[u.Name] = n.claim(name)
	}
}

// EnumGoName returns the Go type generated for an enum. owner is the
// declaring class or builtin, empty for global enums. Enums that are not
// generated get the name they would have had.
func (p *Plan) EnumGoName(owner, name string) string {
	ref := name
	if owner != "" {
		ref = owner + "." + name
	}
	if goName, ok := p.enums[ref]; ok {
		return goName
	}
	return EnumTypeName(owner, name)
}
