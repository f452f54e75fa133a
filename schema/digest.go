package schema

import (
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// snapshotEncMode uses canonical CBOR so that equal models always encode to
// equal bytes.
var snapshotEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("schema: failed to create CBOR enc mode: %v", err))
	}
	snapshotEncMode = em
}

// snapshot is the flat, pointer-free form of a Model. Parent links are
// carried by name and rebuilt on decode.
type snapshot struct {
	Header           Header
	Precision        Precision
	Classes          []*Class
	Builtins         []Builtin
	GlobalEnums      []Enum
	Utilities        []UtilityFunction
	NativeStructures []NativeStructure
	Singletons       []string
	ClassSizes       map[string]map[string]int
}

func (m *Model) snapshot() *snapshot {
	return &snapshot{
		Header:           m.Header,
		Precision:        m.Precision,
		Classes:          m.classes,
		Builtins:         m.Builtins,
		GlobalEnums:      m.GlobalEnums,
		Utilities:        m.Utilities,
		NativeStructures: m.NativeStructures,
		Singletons:       m.Singletons,
		ClassSizes:       m.classSizes,
	}
}

// MarshalSnapshot serializes a validated model to canonical CBOR.
func MarshalSnapshot(m *Model) ([]byte, error) {
	return snapshotEncMode.Marshal(m.snapshot())
}

// UnmarshalSnapshot rebuilds a model from MarshalSnapshot output. The class
// table and parent links go through the same checks as Ingest.
func UnmarshalSnapshot(data []byte) (*Model, error) {
	var s snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, &SchemaError{Op: "decode", Err: fmt.Errorf("%w: snapshot: %v", ErrDecode, err)}
	}

	m := newModel(s.Header, s.Precision)
	for _, c := range s.Classes {
		if err := m.addClass(c); err != nil {
			return nil, err
		}
	}
	if err := m.link(); err != nil {
		return nil, err
	}
	m.Builtins = s.Builtins
	m.GlobalEnums = s.GlobalEnums
	m.Utilities = s.Utilities
	m.NativeStructures = s.NativeStructures
	m.Singletons = s.Singletons
	for _, name := range s.Singletons {
		m.singletonSet[name] = true
	}
	if s.ClassSizes != nil {
		m.classSizes = s.ClassSizes
	}
	return m, nil
}

// Digest is the SHA-256 of the model's canonical snapshot. Two models with
// the same digest generate identical bindings.
func (m *Model) Digest() ([32]byte, error) {
	data, err := MarshalSnapshot(m)
	if err != nil {
		return [32]byte{}, fmt.Errorf("schema: digest: %w", err)
	}
	return sha256.Sum256(data), nil
}
