package obj

import (
	"fmt"
	"reflect"
)

var (
	objectPtrType = reflect.TypeOf(ObjectPtr(0))
	opaqueType    = reflect.TypeOf(Opaque{})
)

// checkNativeLayout verifies that t is a chain of single-field structs ending
// in Opaque, so a pointer to a handle's ObjectPtr can be read as a *t.
// Zero-size fields are ignored.
func checkNativeLayout(t reflect.Type) error {
	if t.Size() != objectPtrType.Size() {
		return fmt.Errorf("native class %s is %d bytes, want %d", t, t.Size(), objectPtrType.Size())
	}
	for cur := t; cur != opaqueType; {
		if cur.Kind() != reflect.Struct {
			return fmt.Errorf("native class %s: %s is not a struct embedding Opaque", t, cur)
		}
		var next reflect.Type
		for i := 0; i < cur.NumField(); i++ {
			f := cur.Field(i)
			if f.Type.Size() == 0 {
				continue
			}
			if next != nil {
				return fmt.Errorf("native class %s: %s has more than one sized field", t, cur)
			}
			if f.Offset != 0 {
				return fmt.Errorf("native class %s: field %s.%s is not at offset 0", t, cur, f.Name)
			}
			next = f.Type
		}
		if next == nil {
			return fmt.Errorf("native class %s: %s does not embed Opaque", t, cur)
		}
		cur = next
	}
	return nil
}
