package obj

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
)

// Trampoline adapts a call coming from the host onto a Go instance.
type Trampoline func(instance any, args []Variant) Variant

// Virtual describes one engine virtual method a user class may override.
// Implemented reports whether an instance provides the override; a nil
// Implemented means always.
type Virtual struct {
	Method      string
	Implemented func(instance any) bool
	Call        Trampoline
}

// VirtualResolver maps a virtual method name to its trampoline, or nil.
type VirtualResolver func(method string) *Virtual

// ClassInfo is one row of the class table.
type ClassInfo struct {
	Name   string
	Parent string
	// Ancestors lists every transitive base, nearest first. When left nil it
	// is derived from the registered parent.
	Ancestors []string
	Declarer  Declarer
	Memory    Memory
	Virtual   VirtualResolver

	methods   map[string]Trampoline
	toString  func(instance any) string
	construct func(base ObjectPtr) any
	goType    reflect.Type
}

func (c *ClassInfo) record() ExtensionClass {
	methods := make([]string, 0, len(c.methods))
	for name := range c.methods {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	return ExtensionClass{
		Name:        c.Name,
		Parent:      c.Parent,
		Methods:     methods,
		HasToString: c.toString != nil,
	}
}

// Edge is one inheritance relation: Derived has Base as an ancestor,
// Distance steps up its chain.
type Edge struct {
	Derived  string
	Base     string
	Distance int
}

type edgeKey struct {
	derived, base string
}

type virtualKey struct {
	class, method string
}

// ClassDB is the class table. Every transitive inheritance edge is stored
// explicitly so Inherits is a single map lookup. Bases must be registered
// before the classes that derive from them.
type ClassDB struct {
	classes  map[string]*ClassInfo
	byType   map[reflect.Type]*ClassInfo
	order    []string
	edges    map[edgeKey]int
	virtuals map[virtualKey]Trampoline
}

// NewClassDB returns an empty class table.
func NewClassDB() *ClassDB {
	return &ClassDB{
		classes:  make(map[string]*ClassInfo),
		byType:   make(map[reflect.Type]*ClassInfo),
		edges:    make(map[edgeKey]int),
		virtuals: make(map[virtualKey]Trampoline),
	}
}

var (
	// ErrDuplicateClass is returned when a class name is registered twice.
	ErrDuplicateClass = errors.New("class already registered")
	// ErrUnknownBase is returned when a class is registered before its base.
	ErrUnknownBase = errors.New("base class not registered")
	// ErrUserBase is returned when a user class names another user class as
	// its base. User classes extend engine classes only.
	ErrUserBase = errors.New("base class is user-declared")
)

func (db *ClassDB) register(info *ClassInfo) error {
	if info.Name == "" {
		return errors.New("class has no name")
	}
	if _, ok := db.classes[info.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateClass, info.Name)
	}

	var chain []string
	if info.Parent != "" {
		parent, ok := db.classes[info.Parent]
		if !ok {
			return fmt.Errorf("%w: %s (base of %s)", ErrUnknownBase, info.Parent, info.Name)
		}
		chain = append([]string{parent.Name}, parent.Ancestors...)
	}
	if info.Ancestors != nil && !slices.Equal(info.Ancestors, chain) {
		return fmt.Errorf("class %s declares ancestors %v, registered chain is %v", info.Name, info.Ancestors, chain)
	}
	info.Ancestors = chain

	if current != nil && current.db == db && info.Declarer == UserDeclarer {
		if err := current.host.RegisterExtensionClass(info.record()); err != nil {
			return err
		}
	}

	db.classes[info.Name] = info
	if info.goType != nil {
		db.byType[info.goType] = info
	}
	db.order = append(db.order, info.Name)
	for i, base := range chain {
		db.edges[edgeKey{info.Name, base}] = i + 1
	}
	log.Debugf("registered %s class %s (%s memory, %d ancestors)", info.Declarer, info.Name, info.Memory, len(chain))
	return nil
}

// RegisterNative adds the engine class T. info supplies the parent and the
// optional ancestor list and virtual resolver; name, declarer and memory come
// from T. The layout of T is checked so handle reinterpretation is sound.
func RegisterNative[T Class](db *ClassDB, info ClassInfo) error {
	zero := classOf[T]()
	if zero.Declarer() != NativeDeclarer {
		return fmt.Errorf("class %s is not native-declared", zero.ClassName())
	}
	t := reflect.TypeOf(zero)
	if err := checkNativeLayout(t); err != nil {
		return err
	}
	info.Name = zero.ClassName()
	info.Declarer = NativeDeclarer
	info.Memory = zero.Memory()
	info.goType = t
	return db.register(&info)
}

// UserClass describes a Go type that extends an engine class.
type UserClass[T Class] struct {
	// Base is the engine class being extended.
	Base string
	// Construct builds the Go side of a new instance around its base object.
	Construct func(base ObjectPtr) *T
	// Virtual holds overrides looked up by engine virtual method name. They
	// take precedence over the generated resolvers of the base classes.
	Virtual map[string]func(self *T, args []Variant) Variant
	// Methods are exposed to the host under their map keys.
	Methods  map[string]func(self *T, args []Variant) Variant
	ToString func(self *T) string
}

// RegisterUser adds the user class T. The base must be an engine class and
// its memory policy must match that of T.
func RegisterUser[T Class](db *ClassDB, uc UserClass[T]) error {
	zero := classOf[T]()
	name := zero.ClassName()
	if zero.Declarer() != UserDeclarer {
		return fmt.Errorf("class %s is not user-declared", name)
	}
	if uc.Construct == nil {
		return fmt.Errorf("class %s has no constructor", name)
	}
	base, ok := db.classes[uc.Base]
	if !ok {
		return fmt.Errorf("%w: %s (base of %s)", ErrUnknownBase, uc.Base, name)
	}
	if base.Declarer == UserDeclarer {
		return fmt.Errorf("%w: %s (base of %s)", ErrUserBase, uc.Base, name)
	}
	if zero.Memory() != base.Memory {
		return fmt.Errorf("class %s has %s memory, base %s has %s", name, zero.Memory(), base.Name, base.Memory)
	}

	info := &ClassInfo{
		Name:     name,
		Parent:   uc.Base,
		Declarer: UserDeclarer,
		Memory:   zero.Memory(),
		goType:   reflect.TypeOf((*T)(nil)),
		construct: func(ptr ObjectPtr) any {
			return uc.Construct(ptr)
		},
	}
	if len(uc.Virtual) > 0 {
		info.Virtual = func(method string) *Virtual {
			fn, ok := uc.Virtual[method]
			if !ok {
				return nil
			}
			return &Virtual{Method: method, Call: func(inst any, args []Variant) Variant {
				return fn(inst.(*T), args)
			}}
		}
	}
	if len(uc.Methods) > 0 {
		info.methods = make(map[string]Trampoline, len(uc.Methods))
		for method, fn := range uc.Methods {
			info.methods[method] = func(inst any, args []Variant) Variant {
				return fn(inst.(*T), args)
			}
		}
	}
	if uc.ToString != nil {
		info.toString = func(inst any) string {
			return uc.ToString(inst.(*T))
		}
	}
	return db.register(info)
}

// Lookup returns the row for a class name.
func (db *ClassDB) Lookup(name string) (*ClassInfo, bool) {
	info, ok := db.classes[name]
	return info, ok
}

func (db *ClassDB) mustLookup(name string) *ClassInfo {
	info, ok := db.classes[name]
	if !ok {
		panic(fmt.Sprintf("obj: class %s is not registered", name))
	}
	return info
}

// Inherits reports whether derived has base as a strict ancestor.
func (db *ClassDB) Inherits(derived, base string) bool {
	_, ok := db.edges[edgeKey{derived, base}]
	return ok
}

// IsA reports whether an instance of class may be viewed as target.
func (db *ClassDB) IsA(class, target string) bool {
	return class == target || db.Inherits(class, target)
}

// Distance is the number of parent steps from derived to base, or -1.
func (db *ClassDB) Distance(derived, base string) int {
	if d, ok := db.edges[edgeKey{derived, base}]; ok {
		return d
	}
	return -1
}

// Classes returns every registered class name in registration order.
func (db *ClassDB) Classes() []string {
	return slices.Clone(db.order)
}

// Edges returns every inheritance edge, grouped by derived class in
// registration order and sorted by distance within a group.
func (db *ClassDB) Edges() []Edge {
	out := make([]Edge, 0, len(db.edges))
	for _, name := range db.order {
		for i, base := range db.classes[name].Ancestors {
			out = append(out, Edge{Derived: name, Base: base, Distance: i + 1})
		}
	}
	return out
}

// ResolveVirtual finds the override of method for class by walking the
// resolvers from class up to the root. The result, including a miss, is
// cached on first dispatch.
func (db *ClassDB) ResolveVirtual(class, method string) Trampoline {
	key := virtualKey{class, method}
	if tr, ok := db.virtuals[key]; ok {
		return tr
	}

	var tr Trampoline
	if info, ok := db.classes[class]; ok {
		var sample any
		if info.Declarer == UserDeclarer {
			sample = reflect.New(info.goType.Elem()).Interface()
		}
		for cur := info; cur != nil; cur = db.classes[cur.Parent] {
			if cur.Virtual == nil {
				continue
			}
			v := cur.Virtual(method)
			if v == nil {
				continue
			}
			if v.Implemented != nil && (sample == nil || !v.Implemented(sample)) {
				break
			}
			tr = v.Call
			break
		}
	}
	db.virtuals[key] = tr
	return tr
}
