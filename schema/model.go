// Package schema ingests the host runtime's extension API description and
// turns it into a validated, immutable model.
package schema

import "fmt"

// RootName is the name of the implicit root sentinel at the top of every
// inheritance chain.
const RootName = "(no base)"

// Header is the version identity of a schema.
type Header struct {
	Major    int
	Minor    int
	Patch    int
	Status   string
	Build    string
	FullName string
}

// String renders the header as "major.minor.patch.status".
func (h Header) String() string {
	return fmt.Sprintf("%d.%d.%d.%s", h.Major, h.Minor, h.Patch, h.Status)
}

// Class is a validated class descriptor. Parent is never nil except on the
// root sentinel; classes without "inherits" point at Model.Root.
type Class struct {
	Name           string
	ParentName     string
	IsRefCounted   bool
	IsInstantiable bool
	APIType        string
	Methods        []Method
	Constants      []Constant
	Enums          []Enum

	Parent   *Class   `cbor:"-"`
	children []*Class `cbor:"-"`
}

// IsRoot reports whether c is the "(no base)" sentinel.
func (c *Class) IsRoot() bool {
	return c.Parent == nil && c.Name == RootName
}

// Children returns the direct subclasses of c in schema order.
func (c *Class) Children() []*Class {
	return c.children
}

// VirtualMethods returns the virtual methods declared directly on c.
func (c *Class) VirtualMethods() []Method {
	var out []Method
	for _, m := range c.Methods {
		if m.IsVirtual {
			out = append(out, m)
		}
	}
	return out
}

// Method describes a class or builtin method.
type Method struct {
	Name      string
	IsConst   bool
	IsVararg  bool
	IsStatic  bool
	IsVirtual bool
	Hash      int64
	HasHash   bool
	Return    *Return
	Args      []Arg
}

// Return describes a method's return value. Meta is a precision/width hint
// such as "int32" or "float".
type Return struct {
	Type string
	Meta string
}

// Arg is one method argument.
type Arg struct {
	Name    string
	Type    string
	Meta    string
	Default *string
}

// Enum is the canonical enum shape shared by global, class-local and
// builtin-local enums.
type Enum struct {
	Name       string
	IsBitfield bool
	Values     []EnumConstant
}

// EnumConstant is a named 64-bit value.
type EnumConstant struct {
	Name  string
	Value int64
}

// Constant is a class-level integer constant.
type Constant = EnumConstant

// Builtin is a built-in value type (Vector2, String, ...). Only its shape is
// modelled; the value types themselves live outside this module.
type Builtin struct {
	Name               string
	IndexingReturnType string
	IsKeyed            bool
	Enums              []Enum
	Operators          []Operator
	Methods            []Method
	Constructors       []Constructor
	HasDestructor      bool
}

type Operator struct {
	Name       string
	RightType  string // empty if unary
	ReturnType string
}

type Constructor struct {
	Index int
	Args  []Arg
}

// UtilityFunction is a free function exposed by the host.
type UtilityFunction struct {
	Name     string
	Return   *Return
	Category string
	IsVararg bool
	Hash     int64
	Args     []Arg
}

// NativeStructure is an opaque C-like layout description.
type NativeStructure struct {
	Name   string
	Format string
}

// Model is the validated, immutable result of Ingest. It is produced once and
// passed explicitly to consumers; nothing in this package keeps it globally.
type Model struct {
	Header           Header
	Precision        Precision
	Root             *Class
	Builtins         []Builtin
	GlobalEnums      []Enum
	Utilities        []UtilityFunction
	NativeStructures []NativeStructure
	Singletons       []string

	classes      []*Class
	byName       map[string]*Class
	singletonSet map[string]bool
	classSizes   map[string]map[string]int
}

// Classes returns all classes in schema order, excluding the root sentinel.
func (m *Model) Classes() []*Class {
	return m.classes
}

// Class looks up a class by name.
func (m *Model) Class(name string) (*Class, bool) {
	c, ok := m.byName[name]
	return c, ok
}

// IsSingleton reports whether name is a process-wide singleton class.
func (m *Model) IsSingleton(name string) bool {
	return m.singletonSet[name]
}

// Depth returns the number of parent steps from c to the root sentinel.
// Classes without "inherits" have depth 1.
func (m *Model) Depth(c *Class) int {
	depth := 0
	for cur := c; !cur.IsRoot(); cur = cur.Parent {
		depth++
	}
	return depth
}

// Ancestors returns every transitive ancestor of c, nearest first, excluding
// the root sentinel.
func (m *Model) Ancestors(c *Class) []*Class {
	var out []*Class
	for cur := c.Parent; cur != nil && !cur.IsRoot(); cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}

// HasRefCountedDescendant reports whether any transitive subclass of c is
// ref-counted.
func (m *Model) HasRefCountedDescendant(c *Class) bool {
	for _, child := range c.children {
		if child.IsRefCounted || m.HasRefCountedDescendant(child) {
			return true
		}
	}
	return false
}

// BuildConfig returns the build configuration name for the running platform,
// e.g. "float_64".
func (m *Model) BuildConfig() string {
	return m.Precision.ConfigName(pointerBits)
}

// BuiltinSizes returns builtin byte sizes for a build configuration.
func (m *Model) BuiltinSizes(config string) (map[string]int, bool) {
	sizes, ok := m.classSizes[config]
	return sizes, ok
}
