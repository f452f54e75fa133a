// Package hostsim is an in-memory stand-in for the engine runtime. It
// implements obj.Host with real reference counting and destruction tracking,
// and refuses any access to an instance after it was destroyed.
package hostsim

import (
	"errors"
	"fmt"

	"github.com/StatisMike/gdext/obj"
	"github.com/StatisMike/gdext/schema"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("gdext.hostsim")

// MethodFunc handles an engine method call on self.
type MethodFunc func(h *Host, self obj.ObjectPtr, args []obj.Variant) (obj.Variant, error)

// UtilityFunc handles a global utility function call.
type UtilityFunc func(args []obj.Variant) (obj.Variant, error)

var (
	// ErrUnknownClass is returned when constructing an undefined class.
	ErrUnknownClass = errors.New("unknown class")
	// ErrNotInstantiable is returned when constructing an abstract class.
	ErrNotInstantiable = errors.New("class is not instantiable")
	// ErrNoMethod is returned when no handler serves a call.
	ErrNoMethod = errors.New("no such method")
)

type classRec struct {
	name         string
	parent       string
	refCounted   bool
	instantiable bool
}

type instance struct {
	class string
	refs  int32
}

// Host is the simulated runtime. The zero value is not usable; call New or
// FromModel.
type Host struct {
	classes    map[string]*classRec
	objects    map[obj.ObjectPtr]*instance
	destroyed  map[obj.ObjectPtr]string
	singletons map[string]obj.ObjectPtr
	methods    map[string]MethodFunc
	utilities  map[string]UtilityFunc
	extensions map[string]obj.ExtensionClass
	next       obj.ObjectPtr
}

// New returns a host that knows no classes. Object.get_class and
// Object.get_instance_id are served out of the box.
func New() *Host {
	h := &Host{
		classes:    make(map[string]*classRec),
		objects:    make(map[obj.ObjectPtr]*instance),
		destroyed:  make(map[obj.ObjectPtr]string),
		singletons: make(map[string]obj.ObjectPtr),
		methods:    make(map[string]MethodFunc),
		utilities:  make(map[string]UtilityFunc),
		extensions: make(map[string]obj.ExtensionClass),
		next:       0x1000,
	}
	h.HandleMethod("Object", "get_class", func(h *Host, self obj.ObjectPtr, _ []obj.Variant) (obj.Variant, error) {
		return h.ClassName(self), nil
	})
	h.HandleMethod("Object", "get_instance_id", func(_ *Host, self obj.ObjectPtr, _ []obj.Variant) (obj.Variant, error) {
		return uint64(self), nil
	})
	return h
}

// FromModel returns a host that knows every class of m and holds one live
// instance per singleton.
func FromModel(m *schema.Model) *Host {
	h := New()
	for _, c := range m.Classes() {
		parent := ""
		if !c.Parent.IsRoot() {
			parent = c.Parent.Name
		}
		h.classes[c.Name] = &classRec{
			name:         c.Name,
			parent:       parent,
			refCounted:   c.IsRefCounted,
			instantiable: c.IsInstantiable,
		}
	}
	for _, name := range m.Singletons {
		h.AddSingleton(name, name)
	}
	return h
}

// DefineClass declares an engine class. refCounted marks instances of the
// class and its descendants as reference counted.
func (h *Host) DefineClass(name, parent string, refCounted bool) {
	h.classes[name] = &classRec{name: name, parent: parent, refCounted: refCounted, instantiable: true}
}

// AddSingleton creates the process-lifetime instance returned for name.
func (h *Host) AddSingleton(name, class string) obj.ObjectPtr {
	ptr := h.alloc(class)
	h.singletons[name] = ptr
	return ptr
}

// HandleMethod installs the handler for class.method. Calls on descendants
// fall back to it.
func (h *Host) HandleMethod(class, method string, fn MethodFunc) {
	h.methods[class+"."+method] = fn
}

// HandleUtility installs the handler for a utility function.
func (h *Host) HandleUtility(name string, fn UtilityFunc) {
	h.utilities[name] = fn
}

func (h *Host) alloc(class string) obj.ObjectPtr {
	ptr := h.next
	h.next += 0x10
	h.objects[ptr] = &instance{class: class}
	return ptr
}

func (h *Host) live(ptr obj.ObjectPtr) *instance {
	if inst, ok := h.objects[ptr]; ok {
		return inst
	}
	if class, ok := h.destroyed[ptr]; ok {
		panic(fmt.Sprintf("hostsim: use of destroyed %s instance %#x", class, uintptr(ptr)))
	}
	panic(fmt.Sprintf("hostsim: unknown instance %#x", uintptr(ptr)))
}

// engineRec walks from class to its nearest engine class, passing through
// registered extension classes.
func (h *Host) engineRec(class string) (*classRec, bool) {
	for seen := 0; seen <= len(h.extensions); seen++ {
		if rec, ok := h.classes[class]; ok {
			return rec, true
		}
		ext, ok := h.extensions[class]
		if !ok {
			return nil, false
		}
		class = ext.Parent
	}
	return nil, false
}

func (h *Host) parentOf(class string) string {
	if ext, ok := h.extensions[class]; ok {
		return ext.Parent
	}
	if rec, ok := h.classes[class]; ok {
		return rec.parent
	}
	return ""
}

func (h *Host) refCounted(class string) bool {
	for cur := class; cur != ""; cur = h.parentOf(cur) {
		if rec, ok := h.classes[cur]; ok && rec.refCounted {
			return true
		}
	}
	return false
}

// Construct implements obj.Host.
func (h *Host) Construct(class string) (obj.ObjectPtr, error) {
	rec, ok := h.engineRec(class)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownClass, class)
	}
	if _, isExt := h.extensions[class]; !isExt && !rec.instantiable {
		return 0, fmt.Errorf("%w: %s", ErrNotInstantiable, class)
	}
	ptr := h.alloc(class)
	log.Debugf("constructed %s at %#x", class, uintptr(ptr))
	return ptr, nil
}

// Destroy implements obj.Host.
func (h *Host) Destroy(ptr obj.ObjectPtr) {
	inst := h.live(ptr)
	delete(h.objects, ptr)
	h.destroyed[ptr] = inst.class
	log.Debugf("destroyed %s at %#x", inst.class, uintptr(ptr))
}

// ClassName implements obj.Host.
func (h *Host) ClassName(ptr obj.ObjectPtr) string {
	return h.live(ptr).class
}

// IsRefCounted implements obj.Host.
func (h *Host) IsRefCounted(ptr obj.ObjectPtr) bool {
	return h.refCounted(h.live(ptr).class)
}

// Reference implements obj.Host.
func (h *Host) Reference(ptr obj.ObjectPtr) {
	h.live(ptr).refs++
}

// Unreference implements obj.Host.
func (h *Host) Unreference(ptr obj.ObjectPtr) bool {
	inst := h.live(ptr)
	if inst.refs == 0 {
		panic(fmt.Sprintf("hostsim: unreference of %s at %#x with no references", inst.class, uintptr(ptr)))
	}
	inst.refs--
	return inst.refs == 0
}

// ReferenceCount implements obj.Host.
func (h *Host) ReferenceCount(ptr obj.ObjectPtr) int32 {
	return h.live(ptr).refs
}

// Singleton implements obj.Host.
func (h *Host) Singleton(name string) (obj.ObjectPtr, error) {
	ptr, ok := h.singletons[name]
	if !ok {
		return 0, fmt.Errorf("%w: singleton %s", ErrUnknownClass, name)
	}
	return ptr, nil
}

// Call implements obj.Host. Static calls carry a null pointer and resolve
// from the declaring class upwards.
func (h *Host) Call(ptr obj.ObjectPtr, class, method string, _ int64, args []obj.Variant) (obj.Variant, error) {
	start := class
	if ptr != 0 {
		start = h.live(ptr).class
	}
	for cur := start; cur != ""; cur = h.parentOf(cur) {
		if fn, ok := h.methods[cur+"."+method]; ok {
			return fn(h, ptr, args)
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrNoMethod, class, method)
}

// CallUtility implements obj.Host.
func (h *Host) CallUtility(name string, _ int64, args []obj.Variant) (obj.Variant, error) {
	fn, ok := h.utilities[name]
	if !ok {
		return nil, fmt.Errorf("%w: utility %s", ErrNoMethod, name)
	}
	return fn(args)
}

// RegisterExtensionClass implements obj.Host.
func (h *Host) RegisterExtensionClass(rec obj.ExtensionClass) error {
	if _, ok := h.classes[rec.Name]; ok {
		return fmt.Errorf("extension class %s shadows an engine class", rec.Name)
	}
	if _, ok := h.extensions[rec.Name]; ok {
		return fmt.Errorf("extension class %s registered twice", rec.Name)
	}
	if _, ok := h.engineRec(rec.Parent); !ok {
		return fmt.Errorf("%w: %s (base of %s)", ErrUnknownClass, rec.Parent, rec.Name)
	}
	h.extensions[rec.Name] = rec
	return nil
}

// Extension returns the registration record of a user class.
func (h *Host) Extension(name string) (obj.ExtensionClass, bool) {
	rec, ok := h.extensions[name]
	return rec, ok
}

// Live is the number of instances not yet destroyed, singletons included.
func (h *Host) Live() int {
	return len(h.objects)
}

// Destroyed reports whether ptr was destroyed.
func (h *Host) Destroyed(ptr obj.ObjectPtr) bool {
	_, ok := h.destroyed[ptr]
	return ok
}
