package obj

import (
	"fmt"
	"unsafe"
)

// noCopy makes go vet's copylocks check flag copies of a Gd value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Gd is an owning handle to a host instance of class T. Handles are used
// through pointers and must not be copied; Share is the only way to obtain a
// second live handle to the same instance.
//
// ptr is the only sized field and sits at offset 0, so for native classes
// the handle's memory is read as a *T directly.
type Gd[T Class] struct {
	noCopy noCopy
	_      [0]*T
	ptr    ObjectPtr
}

// New constructs a fresh instance of T through the host. A user class gets
// its storage cell here; a ref-counted instance starts with one reference
// owned by the returned handle.
func New[T Class]() *Gd[T] {
	b := rt()
	name := classOf[T]().ClassName()
	info := b.db.mustLookup(name)
	if info.Memory == StaticMemory {
		panic(fmt.Sprintf("obj: %s is a singleton and cannot be constructed", name))
	}

	ptr, err := b.host.Construct(name)
	if err != nil {
		panic(fmt.Sprintf("obj: constructing %s: %v", name, err))
	}
	if info.Declarer == UserDeclarer {
		b.storage.insert(ptr, info.construct(ptr))
	}
	if info.Memory == DynamicRefCount && b.host.IsRefCounted(ptr) {
		b.host.Reference(ptr)
	}
	return &Gd[T]{ptr: ptr}
}

// FromPtr adopts a pointer handed out by the host, such as a method return
// value. Ref-counted instances gain a reference owned by the new handle. A
// null pointer yields a nil handle.
func FromPtr[T Class](ptr ObjectPtr) *Gd[T] {
	if ptr == 0 {
		return nil
	}
	b := rt()
	target := classOf[T]().ClassName()
	if actual := b.host.ClassName(ptr); !b.db.IsA(actual, target) {
		panic(&CastError{Target: target, Actual: actual})
	}
	if classOf[T]().Memory() == DynamicRefCount && b.host.IsRefCounted(ptr) {
		b.host.Reference(ptr)
	}
	return &Gd[T]{ptr: ptr}
}

// Singleton returns a handle to a process-lifetime engine singleton.
func Singleton[T Class](name string) *Gd[T] {
	ptr, err := rt().host.Singleton(name)
	if err != nil {
		panic(fmt.Sprintf("obj: singleton %s: %v", name, err))
	}
	return &Gd[T]{ptr: ptr}
}

// PtrOf returns the host pointer of h, or null for a nil handle.
func PtrOf[T Class](h *Gd[T]) ObjectPtr {
	if h == nil {
		return 0
	}
	return h.ptr
}

// Ptr returns the host pointer. It is null after Drop, Free or a move.
func (g *Gd[T]) Ptr() ObjectPtr {
	return g.ptr
}

// IsNull reports whether the handle no longer owns an instance.
func (g *Gd[T]) IsNull() bool {
	return g == nil || g.ptr == 0
}

func (g *Gd[T]) mustLive() {
	if g.IsNull() {
		panic(fmt.Sprintf("obj: use of released %s handle", classOf[T]().ClassName()))
	}
}

// Bind returns the instance for reading. The result must not be mutated
// and must not outlive the handle.
func (g *Gd[T]) Bind() *T {
	g.mustLive()
	return g.deref()
}

// BindMut returns the instance for mutation. The result must not outlive the
// handle.
func (g *Gd[T]) BindMut() *T {
	g.mustLive()
	return g.deref()
}

func (g *Gd[T]) deref() *T {
	zero := classOf[T]()
	if zero.Declarer() == NativeDeclarer {
		return (*T)(unsafe.Pointer(&g.ptr))
	}
	name := zero.ClassName()
	inst, ok := rt().storage.get(g.ptr, name).(*T)
	if !ok {
		panic(&StorageLookupFailure{Ptr: g.ptr, Class: name})
	}
	return inst
}

// DynamicClass is the class the host reports for the instance, which may be
// any descendant of T.
func (g *Gd[T]) DynamicClass() string {
	g.mustLive()
	return rt().host.ClassName(g.ptr)
}

// ReferenceCount reports the host reference count. ok is false when the
// instance is not ref-counted.
func (g *Gd[T]) ReferenceCount() (count int32, ok bool) {
	g.mustLive()
	b := rt()
	if !b.host.IsRefCounted(g.ptr) {
		return 0, false
	}
	return b.host.ReferenceCount(g.ptr), true
}

// Share returns a second handle to the same instance. Ref-counted instances
// gain a reference.
func (g *Gd[T]) Share() *Gd[T] {
	g.mustLive()
	if g.countsReferences() {
		rt().host.Reference(g.ptr)
	}
	return &Gd[T]{ptr: g.ptr}
}

func (g *Gd[T]) countsReferences() bool {
	return classOf[T]().Memory() == DynamicRefCount && rt().host.IsRefCounted(g.ptr)
}

// Drop releases the handle. A ref-counted instance loses exactly one
// reference and is destroyed when that was the last one. Dropping a
// released handle does nothing.
func (g *Gd[T]) Drop() {
	if g.IsNull() {
		return
	}
	counted := g.countsReferences()
	ptr := g.ptr
	g.ptr = 0
	if !counted {
		return
	}
	if b := rt(); b.host.Unreference(ptr) {
		b.destroy(ptr)
	}
}

// Free destroys a manually managed instance. It panics for singletons and
// for ref-counted instances, which are released by Drop.
func (g *Gd[T]) Free() {
	g.mustLive()
	name := classOf[T]().ClassName()
	switch classOf[T]().Memory() {
	case StaticMemory:
		panic(fmt.Sprintf("obj: cannot free singleton %s", name))
	case DynamicRefCount:
		if rt().host.IsRefCounted(g.ptr) {
			panic(fmt.Sprintf("obj: cannot free ref-counted %s instance, drop its handles", g.DynamicClass()))
		}
	}
	ptr := g.ptr
	g.ptr = 0
	rt().destroy(ptr)
}

// String renders the instance through the user class ToString when one is
// registered, otherwise as class and pointer.
func (g *Gd[T]) String() string {
	if g.IsNull() {
		return fmt.Sprintf("%s(null)", classOf[T]().ClassName())
	}
	if s, ok := ToString(g.ptr); ok {
		return s
	}
	return fmt.Sprintf("%s#%x", g.DynamicClass(), uintptr(g.ptr))
}
