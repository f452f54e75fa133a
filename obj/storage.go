package obj

import "fmt"

// StorageLookupFailure is the panic value raised when a user-declared handle
// has no storage cell. It means the instance was freed behind the handle's
// back or the pointer never belonged to the class.
type StorageLookupFailure struct {
	Ptr   ObjectPtr
	Class string
}

func (e *StorageLookupFailure) Error() string {
	return fmt.Sprintf("no storage for %s instance at %#x", e.Class, uintptr(e.Ptr))
}

// storage holds the Go side of every live user-declared instance, keyed by
// the host pointer of its base object.
type storage struct {
	cells map[ObjectPtr]any
}

func newStorage() *storage {
	return &storage{cells: make(map[ObjectPtr]any)}
}

func (s *storage) insert(ptr ObjectPtr, instance any) {
	if _, ok := s.cells[ptr]; ok {
		panic(fmt.Sprintf("obj: storage cell for %#x already exists", uintptr(ptr)))
	}
	s.cells[ptr] = instance
}

func (s *storage) get(ptr ObjectPtr, class string) any {
	inst, ok := s.cells[ptr]
	if !ok {
		panic(&StorageLookupFailure{Ptr: ptr, Class: class})
	}
	return inst
}

func (s *storage) remove(ptr ObjectPtr) {
	delete(s.cells, ptr)
}

func (s *storage) len() int {
	return len(s.cells)
}
