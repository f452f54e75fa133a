package bindgen

import (
	"path/filepath"
	"testing"

	"github.com/StatisMike/gdext/obj"
	"github.com/StatisMike/gdext/schema"
	"github.com/google/go-cmp/cmp"
)

var fixturePath = filepath.Join("..", "schema", "testdata", "minimal_api.json")

func loadModel(t *testing.T, opts schema.Options) *schema.Model {
	t.Helper()
	m, err := schema.Load(fixturePath, opts)
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return m
}

func newPlan(t *testing.T, opts Options) *Plan {
	t.Helper()
	p, err := NewPlan(loadModel(t, schema.Options{}), opts)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	return p
}

func planNames(p *Plan) []string {
	var names []string
	for _, cp := range p.Classes {
		names = append(names, cp.Class.Name)
	}
	return names
}

func TestNewPlan_TopologicalOrder(t *testing.T) {
	p := newPlan(t, Options{})

	want := []string{"Object", "RefCounted", "Resource", "Node", "Node3D", "Sprite", "Engine"}
	if diff := cmp.Diff(want, planNames(p)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	pos := make(map[string]int)
	for i, cp := range p.Classes {
		pos[cp.Class.Name] = i
	}
	for _, cp := range p.Classes {
		for _, a := range cp.Ancestors {
			if pos[a.Class.Name] >= pos[cp.Class.Name] {
				t.Errorf("%s planned before its ancestor %s", cp.Class.Name, a.Class.Name)
			}
		}
	}
	if p.Options.Package != "engine" || p.Options.ObjImport != DefaultObjImport {
		t.Errorf("defaults not applied: %+v", p.Options)
	}
}

func TestNewPlan_MemoryPolicy(t *testing.T) {
	p := newPlan(t, Options{})

	got := make(map[string]obj.Memory)
	for _, cp := range p.Classes {
		got[cp.Class.Name] = cp.Memory
		if cp.Declarer != obj.NativeDeclarer {
			t.Errorf("%s declarer = %s, want native", cp.Class.Name, cp.Declarer)
		}
	}
	want := map[string]obj.Memory{
		"Object":     obj.DynamicRefCount,
		"RefCounted": obj.DynamicRefCount,
		"Resource":   obj.DynamicRefCount,
		"Node":       obj.ManualMemory,
		"Node3D":     obj.ManualMemory,
		"Sprite":     obj.ManualMemory,
		"Engine":     obj.StaticMemory,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("memory mismatch (-want +got):\n%s", diff)
	}
}

func TestNewPlan_Edges(t *testing.T) {
	p := newPlan(t, Options{})

	want := []obj.Edge{
		{Derived: "RefCounted", Base: "Object", Distance: 1},
		{Derived: "Resource", Base: "RefCounted", Distance: 1},
		{Derived: "Resource", Base: "Object", Distance: 2},
		{Derived: "Node", Base: "Object", Distance: 1},
		{Derived: "Node3D", Base: "Node", Distance: 1},
		{Derived: "Node3D", Base: "Object", Distance: 2},
		{Derived: "Sprite", Base: "Node", Distance: 1},
		{Derived: "Sprite", Base: "Object", Distance: 2},
		{Derived: "Engine", Base: "Object", Distance: 1},
	}
	if diff := cmp.Diff(want, p.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}

	node, _ := p.Class("Node")
	var virtuals []string
	for _, v := range node.Virtuals {
		virtuals = append(virtuals, v.Iface+"."+v.GoName)
	}
	if diff := cmp.Diff([]string{"INodeReady.Ready", "INodeProcess.Process"}, virtuals); diff != "" {
		t.Errorf("virtuals mismatch (-want +got):\n%s", diff)
	}
}

func TestNewPlan_Filters(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"include pulls ancestors", Options{Include: []string{"Node3D"}}, []string{"Object", "Node", "Node3D"}},
		{"include two branches", Options{Include: []string{"Resource", "Sprite"}}, []string{"Object", "RefCounted", "Resource", "Node", "Sprite"}},
		{"api type", Options{APITypes: []string{"core"}}, []string{"Object", "RefCounted", "Resource", "Node", "Node3D", "Sprite", "Engine"}},
		{"api type excludes all", Options{APITypes: []string{"editor"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlan(t, tt.opts)
			if diff := cmp.Diff(tt.want, planNames(p)); diff != "" {
				t.Errorf("classes mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := NewPlan(loadModel(t, schema.Options{}), Options{Include: []string{"Spatial"}}); err == nil {
		t.Error("expected error for unknown included class")
	}
}

func TestNewPlan_InvalidOptions(t *testing.T) {
	for _, opts := range []Options{
		{Package: "go-engine"},
		{Package: "type"},
		{ObjImport: "github.com/x/y z"},
		{ObjImport: "/abs/obj"},
	} {
		if _, err := NewPlan(loadModel(t, schema.Options{}), opts); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}

func TestMapType(t *testing.T) {
	single := newPlan(t, Options{})
	double, err := NewPlan(loadModel(t, schema.Options{Precision: schema.Double}), Options{})
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}

	tests := []struct {
		plan      *Plan
		typ, meta string
		kind      typeKind
		name      string
	}{
		{single, "int", "", valueKind, "int64"},
		{single, "int", "int32", valueKind, "int32"},
		{single, "int", "uint64", valueKind, "uint64"},
		{single, "float", "", valueKind, "float64"},
		{single, "float", "float", valueKind, "float32"},
		{single, "float", "double", valueKind, "float64"},
		{single, "float", "real", valueKind, "float32"},
		{double, "float", "real", valueKind, "float64"},
		{single, "bool", "", valueKind, "bool"},
		{single, "StringName", "", valueKind, "string"},
		{single, "enum::Node.ProcessMode", "", enumKind, "NodeProcessMode"},
		{single, "bitfield::Object.ConnectFlags", "", enumKind, "ObjectConnectFlags"},
		{single, "enum::Variant.Type", "", enumKind, "VariantType"},
		{single, "enum::Error", "", enumKind, "Error"},
		{single, "enum::Vector2.Axis", "", enumKind, "Vector2Axis"},
		{single, "enum::Control.Anchor", "", valueKind, "int64"},
		{single, "Node", "", objectKind, "Node"},
		{single, "Vector2", "", variantKind, "Variant"},
		{single, "typedarray::Node", "", variantKind, "Variant"},
	}
	for _, tt := range tests {
		got := tt.plan.mapType(tt.typ, tt.meta)
		if got.kind != tt.kind || got.name != tt.name {
			t.Errorf("mapType(%q, %q) = %+v, want kind %d name %s", tt.typ, tt.meta, got, tt.kind, tt.name)
		}
	}
}
