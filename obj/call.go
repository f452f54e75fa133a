package obj

import "fmt"

// Call invokes an engine method on ptr. A host failure is fatal: generated
// wrappers have no error path, matching the engine's own calling convention.
func Call(ptr ObjectPtr, class, method string, hash int64, args ...Variant) Variant {
	ret, err := rt().host.Call(ptr, class, method, hash, args)
	if err != nil {
		panic(fmt.Sprintf("obj: %s.%s: %v", class, method, err))
	}
	return ret
}

// CallStatic invokes a static engine method.
func CallStatic(class, method string, hash int64, args ...Variant) Variant {
	return Call(0, class, method, hash, args...)
}

// CallUtility invokes a global utility function.
func CallUtility(name string, hash int64, args ...Variant) Variant {
	ret, err := rt().host.CallUtility(name, hash, args)
	if err != nil {
		panic(fmt.Sprintf("obj: utility %s: %v", name, err))
	}
	return ret
}

// CallVirtual is the host's entry point into a user override. ok is false
// when the instance's class has no override for method.
func CallVirtual(ptr ObjectPtr, method string, args []Variant) (ret Variant, ok bool) {
	b := rt()
	class := b.host.ClassName(ptr)
	info, found := b.db.Lookup(class)
	if !found || info.Declarer != UserDeclarer {
		return nil, false
	}
	tr := b.db.ResolveVirtual(class, method)
	if tr == nil {
		return nil, false
	}
	return tr(b.storage.get(ptr, class), args), true
}

// CallMethod dispatches a host call to a method the user class of ptr
// registered.
func CallMethod(ptr ObjectPtr, method string, args []Variant) (Variant, error) {
	b := rt()
	class := b.host.ClassName(ptr)
	if info, ok := b.db.Lookup(class); ok && info.Declarer == UserDeclarer {
		if tr, found := info.methods[method]; found {
			return tr(b.storage.get(ptr, class), args), nil
		}
	}
	return nil, fmt.Errorf("class %s has no method %s", class, method)
}

// ToString renders a user instance through its registered ToString.
func ToString(ptr ObjectPtr) (string, bool) {
	b := rt()
	class := b.host.ClassName(ptr)
	info, ok := b.db.Lookup(class)
	if !ok || info.toString == nil {
		return "", false
	}
	return info.toString(b.storage.get(ptr, class)), true
}

// Arg extracts argument i as T. A missing or mistyped argument panics.
func Arg[T any](args []Variant, i int) T {
	if i >= len(args) {
		panic(fmt.Sprintf("obj: missing argument %d", i))
	}
	v, ok := args[i].(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("obj: argument %d is %T, want %T", i, args[i], zero))
	}
	return v
}

// ArgObject adopts argument i, which must be an ObjectPtr, as a handle.
func ArgObject[T Class](args []Variant, i int) *Gd[T] {
	return FromPtr[T](Arg[ObjectPtr](args, i))
}

// As converts a call result to T. A nil result yields the zero value.
func As[T any](v Variant) T {
	var zero T
	if v == nil {
		return zero
	}
	out, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("obj: result is %T, want %T", v, zero))
	}
	return out
}

// AsObject adopts a call result, which must be an ObjectPtr or nil.
func AsObject[T Class](v Variant) *Gd[T] {
	return FromPtr[T](As[ObjectPtr](v))
}
