package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// pointerBits is the pointer width of the running platform.
var pointerBits = strconv.IntSize

// Precision selects the width of the host's real_t.
type Precision uint8

const (
	Single Precision = iota
	Double
)

// ParsePrecision accepts "single"/"float" and "double". The empty string
// means Single.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(s) {
	case "", "single", "float":
		return Single, nil
	case "double":
		return Double, nil
	}
	return Single, fmt.Errorf("unknown precision %q (want single or double)", s)
}

func (p Precision) String() string {
	if p == Double {
		return "double"
	}
	return "single"
}

// Configs returns the [32-bit, 64-bit] build configuration names for p.
// The pointer width is only known once the bindings are compiled, so both are
// carried around.
func (p Precision) Configs() [2]string {
	if p == Double {
		return [2]string{"double_32", "double_64"}
	}
	return [2]string{"float_32", "float_64"}
}

// ConfigName picks the configuration for a pointer width of 32 or 64 bits.
func (p Precision) ConfigName(bits int) string {
	cfgs := p.Configs()
	if bits == 32 {
		return cfgs[0]
	}
	return cfgs[1]
}

// RealBits is the width in bits of the host's real_t.
func (p Precision) RealBits() int {
	if p == Double {
		return 64
	}
	return 32
}
