package engineio_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/StatisMike/gdext/engineio"
	"github.com/StatisMike/gdext/hostsim"
	"github.com/StatisMike/gdext/obj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Object struct{ obj.Opaque }

func (Object) ClassName() string       { return "Object" }
func (Object) Declarer() obj.Declarer { return obj.NativeDeclarer }
func (Object) Memory() obj.Memory     { return obj.DynamicRefCount }

type RefCounted struct{ Object }

func (RefCounted) ClassName() string       { return "RefCounted" }
func (RefCounted) Declarer() obj.Declarer { return obj.NativeDeclarer }
func (RefCounted) Memory() obj.Memory     { return obj.DynamicRefCount }

type Resource struct{ RefCounted }

func (Resource) ClassName() string       { return "Resource" }
func (Resource) Declarer() obj.Declarer { return obj.NativeDeclarer }
func (Resource) Memory() obj.Memory     { return obj.DynamicRefCount }

type Texture struct{ Resource }

func (Texture) ClassName() string       { return "Texture" }
func (Texture) Declarer() obj.Declarer { return obj.NativeDeclarer }
func (Texture) Memory() obj.Memory     { return obj.DynamicRefCount }

type Script struct{ Resource }

func (Script) ClassName() string       { return "Script" }
func (Script) Declarer() obj.Declarer { return obj.NativeDeclarer }
func (Script) Memory() obj.Memory     { return obj.DynamicRefCount }

type Node struct{ Object }

func (Node) ClassName() string       { return "Node" }
func (Node) Declarer() obj.Declarer { return obj.NativeDeclarer }
func (Node) Memory() obj.Memory     { return obj.ManualMemory }

func setup(t *testing.T) *hostsim.Host {
	t.Helper()
	h := hostsim.New()
	h.DefineClass("Object", "", false)
	h.DefineClass("RefCounted", "Object", true)
	h.DefineClass("Resource", "RefCounted", false)
	h.DefineClass("Texture", "Resource", false)
	h.DefineClass("Script", "Resource", false)
	h.DefineClass("Node", "Object", false)

	db := obj.NewClassDB()
	require.NoError(t, obj.RegisterNative[Object](db, obj.ClassInfo{}))
	require.NoError(t, obj.RegisterNative[RefCounted](db, obj.ClassInfo{Parent: "Object"}))
	require.NoError(t, obj.RegisterNative[Resource](db, obj.ClassInfo{Parent: "RefCounted"}))
	require.NoError(t, obj.RegisterNative[Texture](db, obj.ClassInfo{Parent: "Resource"}))
	require.NoError(t, obj.RegisterNative[Script](db, obj.ClassInfo{Parent: "Resource"}))
	require.NoError(t, obj.RegisterNative[Node](db, obj.ClassInfo{Parent: "Object"}))
	require.NoError(t, obj.Initialize(h, db))
	t.Cleanup(obj.Deinitialize)
	return h
}

// memStore maps resource paths to the class stored there.
type memStore struct {
	host  *hostsim.Host
	files map[string]string
}

func (s *memStore) Load(path, _ string) *obj.Gd[Resource] {
	class, ok := s.files[path]
	if !ok {
		return nil
	}
	ptr, err := s.host.Construct(class)
	if err != nil {
		panic(err)
	}
	return obj.FromPtr[Resource](ptr)
}

func (s *memStore) Save(res *obj.Gd[Resource], path string) int64 {
	if strings.HasPrefix(path, "res://readonly/") {
		return 15
	}
	s.files[path] = res.DynamicClass()
	return 0
}

func TestCheckUnique(t *testing.T) {
	setup(t)

	rc := obj.New[RefCounted]()
	same, err := engineio.CheckUnique(rc)
	require.NoError(t, err)
	assert.Same(t, rc, same)

	other := rc.Share()
	_, err = engineio.CheckUnique(rc)
	var nu *engineio.NotUniqueError
	require.True(t, errors.As(err, &nu))
	assert.EqualValues(t, 2, nu.ReferenceCount)
	assert.False(t, rc.IsNull(), "failed check leaves the handle with the caller")

	_, err = engineio.CheckFileAccess(rc, "user://save.dat")
	var ioe *engineio.IoError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, engineio.FileAccessReference, ioe.Kind)
	assert.True(t, errors.As(err, &nu))

	other.Drop()
	_, err = engineio.CheckFileAccess(rc, "user://save.dat")
	assert.NoError(t, err)
	rc.Drop()

	node := obj.New[Node]()
	defer node.Free()
	assert.Panics(t, func() { engineio.CheckUnique(node) })
}

func TestTryLoad(t *testing.T) {
	h := setup(t)
	store := &memStore{host: h, files: map[string]string{
		"res://icon.png":  "Texture",
		"res://player.gd": "Script",
	}}

	tex, err := engineio.TryLoad[Texture, Resource](store, "res://icon.png")
	require.NoError(t, err)
	assert.Equal(t, "Texture", tex.DynamicClass())
	count, _ := tex.ReferenceCount()
	assert.EqualValues(t, 1, count)
	ptr := tex.Ptr()
	tex.Drop()
	assert.True(t, h.Destroyed(ptr))

	_, err = engineio.TryLoad[Texture, Resource](store, "res://missing.png")
	var ioe *engineio.IoError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, engineio.ResourceNotFound, ioe.Kind)
	assert.Contains(t, err.Error(), "res://missing.png")

	_, err = engineio.TryLoad[Texture, Resource](store, "res://player.gd")
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, engineio.ResourceCantCast, ioe.Kind)
	var ce *obj.CastError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Script", ce.Actual)
	assert.Equal(t, "Texture", ce.Target)
	require.NotNil(t, ioe.Resource)
	ioe.Resource.Drop()

	assert.Panics(t, func() { engineio.Load[Texture, Resource](store, "res://missing.png") })
}

func TestTrySave(t *testing.T) {
	h := setup(t)
	store := &memStore{host: h, files: map[string]string{}}

	tex := obj.New[Texture]()
	defer tex.Drop()

	require.NoError(t, engineio.TrySave[Resource](store, tex, "res://out.tres"))
	assert.Equal(t, "Texture", store.files["res://out.tres"])
	count, _ := tex.ReferenceCount()
	assert.EqualValues(t, 1, count, "save borrows, it does not keep a reference")

	err := engineio.TrySave[Resource](store, tex, "res://readonly/out.tres")
	var ioe *engineio.IoError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, engineio.ResourceSave, ioe.Kind)
	assert.EqualValues(t, 15, ioe.Code)
	assert.Contains(t, err.Error(), "error 15")

	loaded := engineio.Load[Texture, Resource](store, "res://out.tres")
	loaded.Drop()
}
