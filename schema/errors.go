package schema

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrDecode         = errors.New("cannot decode schema")
	ErrMissingField   = errors.New("required field absent")
	ErrHeader         = errors.New("unparsable header")
	ErrDuplicateClass = errors.New("duplicate class")
	ErrDanglingParent = errors.New("unknown parent class")
	ErrCycle          = errors.New("inheritance cycle")
	ErrEnumRange      = errors.New("enum value out of range for int32")
)

// SchemaError reports a malformed or inconsistent schema. It is fatal: a
// schema that fails ingestion is a build-time defect.
type SchemaError struct {
	Op      string // decode, validate, header, classes, resolve, enums
	Subject string // class or enum the problem was found on, if any
	Err     error
}

func (e *SchemaError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("schema %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("schema %s %s: %v", e.Op, e.Subject, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ToEnumOrd narrows the constant to a 32-bit ordinal. Values that do not fit
// are an error rather than a silent wraparound.
func (c EnumConstant) ToEnumOrd() (int32, error) {
	if c.Value < math.MinInt32 || c.Value > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s = %d", ErrEnumRange, c.Name, c.Value)
	}
	return int32(c.Value), nil
}

// MustEnumOrd is ToEnumOrd for constants of an ingested Model, which are
// known to be in range.
func (c EnumConstant) MustEnumOrd() int32 {
	ord, err := c.ToEnumOrd()
	if err != nil {
		panic(err)
	}
	return ord
}
