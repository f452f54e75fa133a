package engineio

import (
	"fmt"

	"github.com/StatisMike/gdext/obj"
)

// CheckUnique hands h back when it is the only reference to its instance.
// Otherwise h is kept by the caller and the error carries the count.
// Calling it on an instance that is not ref-counted is a programming error.
func CheckUnique[T obj.Class](h *obj.Gd[T]) (*obj.Gd[T], error) {
	count, ok := h.ReferenceCount()
	if !ok {
		panic(fmt.Sprintf("engineio: %s instance is not ref-counted", h.DynamicClass()))
	}
	if count != 1 {
		return nil, &NotUniqueError{ReferenceCount: count}
	}
	return h, nil
}

// CheckFileAccess is CheckUnique for handles about to be used for exclusive
// file access. A shared handle is reported as a FileAccessReference IoError.
func CheckFileAccess[T obj.Class](h *obj.Gd[T], path string) (*obj.Gd[T], error) {
	out, err := CheckUnique(h)
	if err != nil {
		return nil, &IoError{Kind: FileAccessReference, Path: path, Err: err}
	}
	return out, nil
}
