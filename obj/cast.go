package obj

import "fmt"

// CastError reports a failed downcast. The source handle is left untouched.
type CastError struct {
	Target string
	Actual string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast %s instance to %s", e.Actual, e.Target)
}

// Upcast moves h into a handle of the base class B. The pair must be a
// registered inheritance edge; anything else is a programming error and
// panics. The pointer is preserved and no reference is added or dropped.
func Upcast[B, D Class](h *Gd[D]) *Gd[B] {
	h.mustLive()
	derived, base := classOf[D]().ClassName(), classOf[B]().ClassName()
	if derived != base && !rt().db.Inherits(derived, base) {
		panic(fmt.Sprintf("obj: %s does not inherit %s", derived, base))
	}
	return UpcastUnchecked[B](h)
}

// UpcastUnchecked moves h into a handle of B without consulting the class
// table. Generated To helpers use it once the compiler has proven the edge.
func UpcastUnchecked[B, D Class](h *Gd[D]) *Gd[B] {
	h.mustLive()
	out := &Gd[B]{ptr: h.ptr}
	h.ptr = 0
	return out
}

// Cast moves h into a handle of D when the instance's dynamic class is D or
// derives from it. On failure h keeps ownership and a *CastError names both
// classes.
func Cast[D, B Class](h *Gd[B]) (*Gd[D], error) {
	h.mustLive()
	b := rt()
	target := classOf[D]().ClassName()
	actual := b.host.ClassName(h.ptr)
	if !b.db.IsA(actual, target) {
		return nil, &CastError{Target: target, Actual: actual}
	}
	out := &Gd[D]{ptr: h.ptr}
	h.ptr = 0
	return out, nil
}

// MustCast is Cast for call sites where failure is a bug.
func MustCast[D, B Class](h *Gd[B]) *Gd[D] {
	out, err := Cast[D](h)
	if err != nil {
		panic(err)
	}
	return out
}
