// Package obj is the runtime side of the bindings: typed handles over host
// instances, the two declarer strategies that reach instance data, the
// per-class memory policies, and the class table that records every
// inheritance edge.
//
// The package is single-threaded. The host runtime is not assumed to be
// thread-safe and nothing here synchronizes access.
package obj

// ObjectPtr is an opaque pointer to an instance owned by the host runtime.
// The zero value is the null pointer.
type ObjectPtr uintptr

// Variant is a dynamically typed value crossing the host boundary.
type Variant = any

// Opaque is the single field of every native-declared class. A native class
// embeds either Opaque or its parent class and nothing else, which keeps its
// layout identical to ObjectPtr and therefore to Gd.
type Opaque struct {
	ptr ObjectPtr
}

// Ptr returns the host pointer of the instance.
func (o Opaque) Ptr() ObjectPtr {
	return o.ptr
}

// Class is implemented by every bound class, engine or user defined. All
// three methods must work on the zero value.
type Class interface {
	ClassName() string
	Declarer() Declarer
	Memory() Memory
}

// Declarer selects how a handle reaches the data of its instance.
type Declarer uint8

const (
	// NativeDeclarer reinterprets the handle's memory as the class itself.
	// Only valid for classes whose layout is exactly one ObjectPtr.
	NativeDeclarer Declarer = iota
	// UserDeclarer looks the instance up in a storage cell keyed by pointer.
	UserDeclarer
)

func (d Declarer) String() string {
	switch d {
	case NativeDeclarer:
		return "native"
	case UserDeclarer:
		return "user"
	}
	return "unknown"
}

// Memory is the ownership policy of a class.
type Memory uint8

const (
	// StaticMemory instances outlive the process; handles never count or free.
	StaticMemory Memory = iota
	// DynamicRefCount handles count references when the instance is
	// ref-counted, which is decided per instance by the host.
	DynamicRefCount
	// ManualMemory instances are only destroyed by an explicit Free.
	ManualMemory
)

func (m Memory) String() string {
	switch m {
	case StaticMemory:
		return "static"
	case DynamicRefCount:
		return "refcounted"
	case ManualMemory:
		return "manual"
	}
	return "unknown"
}

func classOf[T Class]() T {
	var zero T
	return zero
}
