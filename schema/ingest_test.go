package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "minimal_api.json"))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return data
}

// mutateFixture decodes the fixture into generic maps, applies fn, and
// re-encodes it.
func mutateFixture(t *testing.T, fn func(doc map[string]any)) []byte {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal(loadFixture(t), &doc); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	fn(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return data
}

func classEntry(doc map[string]any, name string) map[string]any {
	for _, c := range doc["classes"].([]any) {
		cm := c.(map[string]any)
		if cm["name"] == name {
			return cm
		}
	}
	return nil
}

func ingestFixture(t *testing.T) *Model {
	t.Helper()
	m, err := Ingest(loadFixture(t), Options{})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	return m
}

func TestIngest_Minimal(t *testing.T) {
	m := ingestFixture(t)

	want := Header{Major: 4, Minor: 1, Patch: 0, Status: "stable", Build: "official",
		FullName: "Godot Engine v4.1.stable.official"}
	if diff := cmp.Diff(want, m.Header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if m.Header.String() != "4.1.0.stable" {
		t.Errorf("header string = %q", m.Header.String())
	}

	var names []string
	for _, c := range m.Classes() {
		names = append(names, c.Name)
	}
	wantNames := []string{"Object", "RefCounted", "Resource", "Node", "Node3D", "Sprite", "Engine"}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Errorf("class order mismatch (-want +got):\n%s", diff)
	}

	node3d, ok := m.Class("Node3D")
	if !ok {
		t.Fatal("Node3D not found")
	}
	if node3d.Parent.Name != "Node" {
		t.Errorf("Node3D parent = %q, want Node", node3d.Parent.Name)
	}
	if got := m.Depth(node3d); got != 3 {
		t.Errorf("Node3D depth = %d, want 3", got)
	}
	var anc []string
	for _, a := range m.Ancestors(node3d) {
		anc = append(anc, a.Name)
	}
	if diff := cmp.Diff([]string{"Node", "Object"}, anc); diff != "" {
		t.Errorf("Node3D ancestors (-want +got):\n%s", diff)
	}

	object, _ := m.Class("Object")
	if object.Parent != m.Root || !m.Root.IsRoot() {
		t.Error("Object should hang off the root sentinel")
	}
	if len(m.Root.Children()) != 1 || m.Root.Children()[0] != object {
		t.Errorf("root sentinel should have exactly Object as child, got %d children", len(m.Root.Children()))
	}

	if !m.IsSingleton("Engine") || m.IsSingleton("Node") {
		t.Error("singleton set mismatch")
	}
	if !m.HasRefCountedDescendant(object) {
		t.Error("Object has ref-counted descendants")
	}
	node, _ := m.Class("Node")
	if m.HasRefCountedDescendant(node) {
		t.Error("Node has no ref-counted descendants")
	}
	if got := len(node.VirtualMethods()); got != 2 {
		t.Errorf("Node virtual methods = %d, want 2", got)
	}
}

func TestIngest_BuiltinEnumsFolded(t *testing.T) {
	m := ingestFixture(t)

	if len(m.Builtins) != 1 {
		t.Fatalf("builtins = %d, want 1", len(m.Builtins))
	}
	want := []Enum{{
		Name:       "Axis",
		IsBitfield: false,
		Values:     []EnumConstant{{Name: "AXIS_X", Value: 0}, {Name: "AXIS_Y", Value: 1}},
	}}
	if diff := cmp.Diff(want, m.Builtins[0].Enums); diff != "" {
		t.Errorf("folded enums (-want +got):\n%s", diff)
	}
	if m.Builtins[0].Operators[1].RightType != "" {
		t.Error("unary operator should have no right type")
	}
}

func TestIngest_ForestProperty(t *testing.T) {
	m := ingestFixture(t)

	for _, c := range m.Classes() {
		depth := m.Depth(c)
		steps := 0
		seen := map[*Class]bool{}
		for cur := c; !cur.IsRoot(); cur = cur.Parent {
			if seen[cur] {
				t.Fatalf("%s reaches itself", c.Name)
			}
			seen[cur] = true
			steps++
			if steps > len(m.Classes()) {
				t.Fatalf("%s chain does not terminate", c.Name)
			}
		}
		if steps != depth {
			t.Errorf("%s: %d steps to root, depth %d", c.Name, steps, depth)
		}
	}
}

func TestIngest_IntegrityErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]any)
		want   error
	}{
		{
			name: "duplicate class",
			mutate: func(doc map[string]any) {
				classes := doc["classes"].([]any)
				doc["classes"] = append(classes, map[string]any{
					"name": "Node", "is_refcounted": false, "is_instantiable": true, "api_type": "core",
				})
			},
			want: ErrDuplicateClass,
		},
		{
			name: "dangling parent",
			mutate: func(doc map[string]any) {
				classEntry(doc, "Sprite")["inherits"] = "CanvasItem"
			},
			want: ErrDanglingParent,
		},
		{
			name: "two-class cycle",
			mutate: func(doc map[string]any) {
				classEntry(doc, "Object")["inherits"] = "Node3D"
			},
			want: ErrCycle,
		},
		{
			name: "self parent",
			mutate: func(doc map[string]any) {
				classEntry(doc, "Sprite")["inherits"] = "Sprite"
			},
			want: ErrCycle,
		},
		{
			name: "enum value above int32",
			mutate: func(doc map[string]any) {
				enums := doc["global_enums"].([]any)
				e := enums[0].(map[string]any)
				e["values"] = append(e["values"].([]any), map[string]any{"name": "TOO_BIG", "value": 2147483648})
			},
			want: ErrEnumRange,
		},
		{
			name: "class constant below int32",
			mutate: func(doc map[string]any) {
				classEntry(doc, "Node")["constants"] = []any{map[string]any{"name": "NEG", "value": -2147483649}}
			},
			want: ErrEnumRange,
		},
		{
			name: "builtin enum above int32",
			mutate: func(doc map[string]any) {
				b := doc["builtin_classes"].([]any)[0].(map[string]any)
				e := b["enums"].([]any)[0].(map[string]any)
				e["values"] = []any{map[string]any{"name": "AXIS_W", "value": 4294967296}}
			},
			want: ErrEnumRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := mutateFixture(t, tt.mutate)
			_, err := Ingest(data, Options{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Errorf("error %T is not a *SchemaError", err)
			}
		})
	}
}

func TestIngest_StructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]any)
		want   error
	}{
		{
			name: "missing class field",
			mutate: func(doc map[string]any) {
				delete(classEntry(doc, "Node"), "api_type")
			},
			want: ErrMissingField,
		},
		{
			name: "missing top-level array",
			mutate: func(doc map[string]any) {
				delete(doc, "singletons")
			},
			want: ErrMissingField,
		},
		{
			name: "missing header field",
			mutate: func(doc map[string]any) {
				delete(doc["header"].(map[string]any), "version_status")
			},
			want: ErrHeader,
		},
		{
			name: "version out of range",
			mutate: func(doc map[string]any) {
				doc["header"].(map[string]any)["version_major"] = 300
			},
			want: ErrHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Ingest(mutateFixture(t, tt.mutate), Options{})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIngest_Undecodable(t *testing.T) {
	for _, opts := range []Options{{}, {SkipValidation: true}} {
		_, err := Ingest([]byte(`{"header": `), opts)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("SkipValidation=%v: error = %v, want ErrDecode", opts.SkipValidation, err)
		}
	}
}

func TestIngest_SkipValidationStillChecksHeader(t *testing.T) {
	data := mutateFixture(t, func(doc map[string]any) {
		doc["header"].(map[string]any)["version_major"] = 300
	})
	_, err := Ingest(data, Options{SkipValidation: true})
	if !errors.Is(err, ErrHeader) {
		t.Errorf("error = %v, want ErrHeader", err)
	}
}

func TestToEnumOrd(t *testing.T) {
	tests := []struct {
		value   int64
		want    int32
		wantErr bool
	}{
		{0, 0, false},
		{-1, -1, false},
		{2147483647, 2147483647, false},
		{-2147483648, -2147483648, false},
		{2147483648, 0, true},
		{-2147483649, 0, true},
		{1 << 40, 0, true},
	}
	for _, tt := range tests {
		got, err := EnumConstant{Name: "K", Value: tt.value}.ToEnumOrd()
		if (err != nil) != tt.wantErr {
			t.Errorf("ToEnumOrd(%d) err = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ToEnumOrd(%d) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestBuiltinSizesByPrecision(t *testing.T) {
	for _, tt := range []struct {
		precision Precision
		config    string
		vector2   int
	}{
		{Single, "float_64", 8},
		{Double, "double_64", 16},
	} {
		m, err := Ingest(loadFixture(t), Options{Precision: tt.precision})
		if err != nil {
			t.Fatalf("Ingest: %v", err)
		}
		if got := tt.precision.ConfigName(64); got != tt.config {
			t.Errorf("ConfigName(64) = %q, want %q", got, tt.config)
		}
		sizes, ok := m.BuiltinSizes(tt.config)
		if !ok {
			t.Fatalf("no sizes for %s", tt.config)
		}
		if sizes["Vector2"] != tt.vector2 {
			t.Errorf("%s Vector2 size = %d, want %d", tt.config, sizes["Vector2"], tt.vector2)
		}
	}
}

func TestParsePrecision(t *testing.T) {
	for in, want := range map[string]Precision{"": Single, "single": Single, "float": Single, "Double": Double} {
		got, err := ParsePrecision(in)
		if err != nil || got != want {
			t.Errorf("ParsePrecision(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePrecision("half"); err == nil {
		t.Error("expected error for unknown precision")
	}
	if cfgs := Double.Configs(); cfgs != [2]string{"double_32", "double_64"} {
		t.Errorf("Double.Configs() = %v", cfgs)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), Options{})
	if err == nil {
		t.Error("expected error for missing file")
	}
}
