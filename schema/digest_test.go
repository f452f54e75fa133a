package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func classShape(m *Model) map[string]string {
	out := make(map[string]string)
	for _, c := range m.Classes() {
		out[c.Name] = c.Parent.Name
	}
	return out
}

func TestSnapshot_RebuildsHierarchy(t *testing.T) {
	m := ingestFixture(t)

	data, err := MarshalSnapshot(m)
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}
	back, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}

	if diff := cmp.Diff(classShape(m), classShape(back)); diff != "" {
		t.Errorf("hierarchy mismatch (-orig +decoded):\n%s", diff)
	}
	node3d, _ := back.Class("Node3D")
	if back.Depth(node3d) != 3 {
		t.Errorf("decoded Node3D depth = %d, want 3", back.Depth(node3d))
	}
	if !back.IsSingleton("Engine") {
		t.Error("decoded model lost singleton set")
	}

	d1, err := m.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	d2, err := back.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if d1 != d2 {
		t.Error("digest changed across snapshot round trip")
	}
}

func TestDigest_SensitiveToContent(t *testing.T) {
	a := ingestFixture(t)
	b, err := Ingest(mutateFixture(t, func(doc map[string]any) {
		classEntry(doc, "Sprite")["inherits"] = "Node3D"
	}), Options{})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	da, _ := a.Digest()
	db, _ := b.Digest()
	if da == db {
		t.Error("different hierarchies produced the same digest")
	}
}

func TestUnmarshalSnapshot_Garbage(t *testing.T) {
	_, err := UnmarshalSnapshot([]byte{0xff, 0x00, 0x13})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
}
