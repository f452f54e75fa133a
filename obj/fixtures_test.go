package obj_test

import (
	"fmt"
	"testing"

	"github.com/StatisMike/gdext/hostsim"
	"github.com/StatisMike/gdext/obj"
	"github.com/stretchr/testify/require"
)

// A hand-written slice of the engine hierarchy:
//
//	Object
//	├── RefCounted
//	│   └── Resource
//	├── Node
//	│   ├── Node3D
//	│   └── Sprite
//	└── Engine (singleton)

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

type Node struct{ Object }

func (Node) ClassName() string       { return "Node" }
func (Node) Declarer() obj.Declarer { return obj.NativeDeclarer }
func (Node) Memory() obj.Memory     { return obj.ManualMemory }

type Node3D struct{ Node }

func (Node3D) ClassName() string       { return "Node3D" }
func (Node3D) Declarer() obj.Declarer { return obj.NativeDeclarer }
func (Node3D) Memory() obj.Memory     { return obj.ManualMemory }

type Sprite struct{ Node }

func (Sprite) ClassName() string       { return "Sprite" }
func (Sprite) Declarer() obj.Declarer { return obj.NativeDeclarer }
func (Sprite) Memory() obj.Memory     { return obj.ManualMemory }

type Engine struct{ Object }

func (Engine) ClassName() string       { return "Engine" }
func (Engine) Declarer() obj.Declarer { return obj.NativeDeclarer }
func (Engine) Memory() obj.Memory     { return obj.StaticMemory }

// Player is a user class extending Node.
type Player struct {
	base  obj.ObjectPtr
	HP    int
	Ready int
}

func (Player) ClassName() string       { return "Player" }
func (Player) Declarer() obj.Declarer { return obj.UserDeclarer }
func (Player) Memory() obj.Memory     { return obj.ManualMemory }

func (p *Player) OnReady() { p.Ready++ }

// Boss tries to extend Player, which user classes may not do.
type Boss struct{ Player }

func (Boss) ClassName() string       { return "Boss" }
func (Boss) Declarer() obj.Declarer { return obj.UserDeclarer }
func (Boss) Memory() obj.Memory     { return obj.ManualMemory }

// Sky is a user class whose name the host may already know as an engine
// class.
type Sky struct{ Lit bool }

func (Sky) ClassName() string       { return "Sky" }
func (Sky) Declarer() obj.Declarer { return obj.UserDeclarer }
func (Sky) Memory() obj.Memory     { return obj.ManualMemory }

// Counter is a user class extending RefCounted.
type Counter struct {
	N int
}

func (Counter) ClassName() string       { return "Counter" }
func (Counter) Declarer() obj.Declarer { return obj.UserDeclarer }
func (Counter) Memory() obj.Memory     { return obj.DynamicRefCount }

type readier interface{ OnReady() }

func nodeVirtual(method string) *obj.Virtual {
	if method != "_ready" {
		return nil
	}
	return &obj.Virtual{
		Method: method,
		Implemented: func(inst any) bool {
			_, ok := inst.(readier)
			return ok
		},
		Call: func(inst any, _ []obj.Variant) obj.Variant {
			inst.(readier).OnReady()
			return nil
		},
	}
}

func newEngineHost() *hostsim.Host {
	h := hostsim.New()
	h.DefineClass("Object", "", false)
	h.DefineClass("RefCounted", "Object", true)
	h.DefineClass("Resource", "RefCounted", false)
	h.DefineClass("Node", "Object", false)
	h.DefineClass("Node3D", "Node", false)
	h.DefineClass("Sprite", "Node", false)
	h.DefineClass("Engine", "Object", false)
	h.AddSingleton("Engine", "Engine")
	return h
}

func registerEngine(t *testing.T, db *obj.ClassDB) {
	t.Helper()
	require.NoError(t, obj.RegisterNative[Object](db, obj.ClassInfo{}))
	require.NoError(t, obj.RegisterNative[RefCounted](db, obj.ClassInfo{Parent: "Object"}))
	require.NoError(t, obj.RegisterNative[Resource](db, obj.ClassInfo{Parent: "RefCounted"}))
	require.NoError(t, obj.RegisterNative[Node](db, obj.ClassInfo{Parent: "Object", Virtual: nodeVirtual}))
	require.NoError(t, obj.RegisterNative[Node3D](db, obj.ClassInfo{
		Parent:    "Node",
		Ancestors: []string{"Node", "Object"},
	}))
	require.NoError(t, obj.RegisterNative[Sprite](db, obj.ClassInfo{Parent: "Node"}))
	require.NoError(t, obj.RegisterNative[Engine](db, obj.ClassInfo{Parent: "Object"}))
}

func registerUsers(t *testing.T, db *obj.ClassDB) {
	t.Helper()
	require.NoError(t, obj.RegisterUser(db, obj.UserClass[Player]{
		Base: "Node",
		Construct: func(base obj.ObjectPtr) *Player {
			return &Player{base: base, HP: 100}
		},
		Methods: map[string]func(*Player, []obj.Variant) obj.Variant{
			"damage": func(p *Player, args []obj.Variant) obj.Variant {
				p.HP -= obj.Arg[int](args, 0)
				return p.HP
			},
		},
		ToString: func(p *Player) string {
			return fmt.Sprintf("Player(hp=%d)", p.HP)
		},
	}))
	require.NoError(t, obj.RegisterUser(db, obj.UserClass[Counter]{
		Base: "RefCounted",
		Construct: func(obj.ObjectPtr) *Counter {
			return &Counter{}
		},
		Virtual: map[string]func(*Counter, []obj.Variant) obj.Variant{
			"_tick": func(c *Counter, _ []obj.Variant) obj.Variant {
				c.N++
				return c.N
			},
		},
	}))
}

// setup binds a fresh host and class table for the duration of the test.
func setup(t *testing.T) (*hostsim.Host, *obj.ClassDB) {
	t.Helper()
	h := newEngineHost()
	db := obj.NewClassDB()
	registerEngine(t, db)
	registerUsers(t, db)
	require.NoError(t, obj.Initialize(h, db))
	t.Cleanup(obj.Deinitialize)
	return h, db
}
