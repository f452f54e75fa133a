// Package bindgen turns a validated schema model into Go bindings: one struct
// per engine class over obj handles, enums, utility wrappers and a
// registration function that fills an obj.ClassDB.
package bindgen

import (
	"fmt"
	"go/token"
	"slices"

	"github.com/StatisMike/gdext/obj"
	"github.com/StatisMike/gdext/schema"
	"github.com/tliron/commonlog"
	"golang.org/x/mod/module"
)

var log = commonlog.GetLogger("gdext.bindgen")

// DefaultObjImport is the import path generated code uses for the runtime.
const DefaultObjImport = "github.com/StatisMike/gdext/obj"

// Options select what gets generated.
type Options struct {
	// Package is the Go package name of the output. Defaults to "engine".
	Package string
	// ObjImport overrides the runtime import path.
	ObjImport string
	// Include limits generation to these classes and their ancestors. Empty
	// means every class.
	Include []string
	// APITypes limits generation to classes with these api_type values, e.g.
	// "core". Empty means every api type.
	APITypes []string
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = "engine"
	}
	if o.ObjImport == "" {
		o.ObjImport = DefaultObjImport
	}
	return o
}

func (o Options) validate() error {
	if !token.IsIdentifier(o.Package) {
		return fmt.Errorf("package name %q is not a Go identifier", o.Package)
	}
	if err := module.CheckImportPath(o.ObjImport); err != nil {
		return fmt.Errorf("runtime import path: %w", err)
	}
	return nil
}

// ClassPlan is everything the emitter needs to know about one class.
type ClassPlan struct {
	Class  *schema.Class
	GoName string
	// Parent is nil for classes directly under the root sentinel.
	Parent *ClassPlan
	// Ancestors lists every transitive base, nearest first.
	Ancestors []*ClassPlan
	Memory    obj.Memory
	Declarer  obj.Declarer
	Singleton bool
	Virtuals  []VirtualPlan

	// Package-level names declared for the class: the Derives constraint,
	// the To helper, the virtual resolver and the singleton accessor.
	Derives  string
	Upcast   string
	Resolver string
	Accessor string
	// Statics maps static schema methods to their package-level functions.
	Statics map[string]string
}

// VirtualPlan describes the override hook generated for one virtual method.
type VirtualPlan struct {
	Method schema.Method
	// GoName is the method a user class implements, e.g. "Process".
	GoName string
	// Iface is the single-method interface the trampoline asserts on. It is
	// assigned with the other package-level names.
	Iface string
}

// Plan is the ordered, filtered view of a model that Generate renders.
type Plan struct {
	Model   *schema.Model
	Options Options
	// Classes are in topological order: bases before derived, ties broken by
	// schema order.
	Classes []*ClassPlan
	// Config is the build configuration used for builtin sizes.
	Config string

	byName    map[string]*ClassPlan
	enums     map[string]string
	consts    map[constKey]string
	utilities map[string]string
}

// NewPlan orders and filters the classes of m and assigns memory policies.
func NewPlan(m *schema.Model, opts Options) (*Plan, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	p := &Plan{
		Model:   m,
		Options: opts,
		Config:  m.BuildConfig(),
		byName:  make(map[string]*ClassPlan),
	}

	selected, err := p.selectClasses()
	if err != nil {
		return nil, err
	}

	visited := make(map[*schema.Class]bool)
	var visit func(c *schema.Class)
	visit = func(c *schema.Class) {
		if visited[c] {
			return
		}
		visited[c] = true
		if !c.Parent.IsRoot() {
			visit(c.Parent)
		}
		if selected[c] {
			p.add(c)
		}
	}
	for _, c := range m.Classes() {
		visit(c)
	}
	p.assignNames()

	log.Infof("planned %d of %d classes for %s", len(p.Classes), len(m.Classes()), p.Config)
	return p, nil
}

// selectClasses applies the include and api-type filters. A class whose
// ancestor is filtered out is dropped too, since it could not be declared.
func (p *Plan) selectClasses() (map[*schema.Class]bool, error) {
	m := p.Model
	include := make(map[*schema.Class]bool)
	for _, name := range p.Options.Include {
		c, ok := m.Class(name)
		if !ok {
			return nil, fmt.Errorf("included class %s is not in the schema", name)
		}
		include[c] = true
		for _, a := range m.Ancestors(c) {
			include[a] = true
		}
	}

	selected := make(map[*schema.Class]bool)
	for _, c := range m.Classes() {
		if len(include) > 0 && !include[c] {
			continue
		}
		if len(p.Options.APITypes) > 0 && !slices.Contains(p.Options.APITypes, c.APIType) {
			continue
		}
		selected[c] = true
	}
	for _, c := range m.Classes() {
		if !selected[c] {
			continue
		}
		for _, a := range m.Ancestors(c) {
			if !selected[a] {
				log.Warningf("skipping %s: ancestor %s is filtered out", c.Name, a.Name)
				delete(selected, c)
				break
			}
		}
	}
	return selected, nil
}

func (p *Plan) add(c *schema.Class) {
	cp := &ClassPlan{
		Class:     c,
		GoName:    ToPascal(c.Name),
		Declarer:  obj.NativeDeclarer,
		Memory:    p.memoryOf(c),
		Singleton: p.Model.IsSingleton(c.Name),
	}
	if !c.Parent.IsRoot() {
		cp.Parent = p.byName[c.Parent.Name]
		cp.Ancestors = append([]*ClassPlan{cp.Parent}, cp.Parent.Ancestors...)
	}
	for _, vm := range c.VirtualMethods() {
		cp.Virtuals = append(cp.Virtuals, VirtualPlan{
			Method: vm,
			GoName: ToPascal(vm.Name),
		})
	}
	p.Classes = append(p.Classes, cp)
	p.byName[c.Name] = cp
	log.Debugf("planned %s: %s memory, %d ancestors, %d virtuals", c.Name, cp.Memory, len(cp.Ancestors), len(cp.Virtuals))
}

// memoryOf assigns the ownership policy. A class that is not ref-counted
// itself but has ref-counted descendants, Object above all, may alias a
// ref-counted instance and must decide per instance.
func (p *Plan) memoryOf(c *schema.Class) obj.Memory {
	switch {
	case p.Model.IsSingleton(c.Name):
		return obj.StaticMemory
	case c.IsRefCounted || p.Model.HasRefCountedDescendant(c):
		return obj.DynamicRefCount
	default:
		return obj.ManualMemory
	}
}

// Class returns the plan of a generated class.
func (p *Plan) Class(name string) (*ClassPlan, bool) {
	cp, ok := p.byName[name]
	return cp, ok
}

// Edges lists every inheritance edge the bindings materialize.
func (p *Plan) Edges() []obj.Edge {
	var out []obj.Edge
	for _, cp := range p.Classes {
		for i, a := range cp.Ancestors {
			out = append(out, obj.Edge{Derived: cp.Class.Name, Base: a.Class.Name, Distance: i + 1})
		}
	}
	return out
}
