package engineio

import (
	"github.com/StatisMike/gdext/obj"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("gdext.engineio")

// ResourceLoader loads resources whose base class is R. typeHint is the class
// name the caller expects. Load returns nil when nothing exists at path.
type ResourceLoader[R obj.Class] interface {
	Load(path, typeHint string) *obj.Gd[R]
}

// ResourceSaver persists resources whose base class is R and returns the host
// error code, zero meaning success.
type ResourceSaver[R obj.Class] interface {
	Save(res *obj.Gd[R], path string) int64
}

// TryLoad loads path and casts the result to T.
func TryLoad[T, R obj.Class](loader ResourceLoader[R], path string) (*obj.Gd[T], error) {
	var zero T
	res := loader.Load(path, zero.ClassName())
	if res.IsNull() {
		return nil, &IoError{Kind: ResourceNotFound, Path: path}
	}
	out, err := obj.Cast[T](res)
	if err != nil {
		return nil, &IoError{Kind: ResourceCantCast, Path: path, Resource: res, Err: err}
	}
	log.Debugf("loaded %s from %s", zero.ClassName(), path)
	return out, nil
}

// Load is TryLoad for resources that must exist.
func Load[T, R obj.Class](loader ResourceLoader[R], path string) *obj.Gd[T] {
	out, err := TryLoad[T, R](loader, path)
	if err != nil {
		panic(err)
	}
	return out
}

// TrySave saves res, a handle of R or of any class derived from it, to path.
// res stays owned by the caller.
func TrySave[R, T obj.Class](saver ResourceSaver[R], res *obj.Gd[T], path string) error {
	base := obj.Upcast[R](res.Share())
	defer base.Drop()
	if code := saver.Save(base, path); code != 0 {
		return &IoError{Kind: ResourceSave, Path: path, Code: code}
	}
	log.Debugf("saved %s to %s", res.DynamicClass(), path)
	return nil
}

// Save is TrySave for saves that must succeed.
func Save[R, T obj.Class](saver ResourceSaver[R], res *obj.Gd[T], path string) {
	if err := TrySave[R, T](saver, res, path); err != nil {
		panic(err)
	}
}
