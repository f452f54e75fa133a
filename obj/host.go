package obj

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("gdext.obj")

// Host is the external object runtime the bindings talk to.
type Host interface {
	// Construct creates an instance of an engine or registered extension
	// class. Ref-counted instances start with a count of zero; the handle
	// that adopts the pointer takes the first reference.
	Construct(class string) (ObjectPtr, error)
	Destroy(ptr ObjectPtr)

	// ClassName is the dynamic class of a live instance.
	ClassName(ptr ObjectPtr) string
	IsRefCounted(ptr ObjectPtr) bool
	Reference(ptr ObjectPtr)
	// Unreference drops one reference and reports whether it was the last.
	Unreference(ptr ObjectPtr) bool
	ReferenceCount(ptr ObjectPtr) int32

	Singleton(name string) (ObjectPtr, error)
	Call(ptr ObjectPtr, class, method string, hash int64, args []Variant) (Variant, error)
	CallUtility(name string, hash int64, args []Variant) (Variant, error)

	// RegisterExtensionClass exposes a user class and its method table.
	RegisterExtensionClass(rec ExtensionClass) error
}

// ExtensionClass is the registration record a user class hands to the host.
type ExtensionClass struct {
	Name        string
	Parent      string
	Methods     []string
	HasToString bool
}

type binding struct {
	host    Host
	db      *ClassDB
	storage *storage
}

var current *binding

// Initialize binds the package to a host and a class table. User classes
// already registered in db are announced to the host.
func Initialize(host Host, db *ClassDB) error {
	if current != nil {
		return errors.New("obj: runtime already initialized")
	}
	b := &binding{host: host, db: db, storage: newStorage()}
	for _, name := range db.order {
		info := db.classes[name]
		if info.Declarer != UserDeclarer {
			continue
		}
		if err := host.RegisterExtensionClass(info.record()); err != nil {
			return fmt.Errorf("registering %s: %w", name, err)
		}
	}
	current = b
	log.Infof("runtime initialized with %d classes", len(db.order))
	return nil
}

// Deinitialize unbinds the host. Live handles must not be used afterwards.
func Deinitialize() {
	if current == nil {
		return
	}
	if n := current.storage.len(); n > 0 {
		log.Warningf("deinitializing with %d live user instances", n)
	}
	current = nil
}

func rt() *binding {
	if current == nil {
		panic("obj: runtime not initialized")
	}
	return current
}

// destroy frees a host instance together with its storage cell, if any.
func (b *binding) destroy(ptr ObjectPtr) {
	class := b.host.ClassName(ptr)
	if info, ok := b.db.Lookup(class); ok && info.Declarer == UserDeclarer {
		b.storage.remove(ptr)
	}
	b.host.Destroy(ptr)
}
