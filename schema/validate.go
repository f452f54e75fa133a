package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed extension_api.cue
var apiContract string

// validateStructure checks raw schema text against the embedded CUE contract:
// every required field present, header versions in range, field kinds right.
// A missing required header field reports ErrHeader, not ErrMissingField.
func validateStructure(data []byte) error {
	ctx := cuecontext.New()

	contract := ctx.CompileString(apiContract, cue.Filename("extension_api.cue"))
	if err := contract.Err(); err != nil {
		// The contract is embedded; failing to compile it is a bug here.
		panic(fmt.Sprintf("schema: embedded contract does not compile: %v", err))
	}
	def := contract.LookupPath(cue.ParsePath("#ExtensionAPI"))

	expr, err := cuejson.Extract("extension_api.json", data)
	if err != nil {
		return &SchemaError{Op: "decode", Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return &SchemaError{Op: "decode", Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return classifyViolation(err)
	}
	return nil
}

// classifyViolation maps the first CUE violation onto the schema error
// taxonomy. The full CUE report is kept as detail.
func classifyViolation(err error) error {
	detail := strings.TrimSpace(cueerrors.Details(err, nil))

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &SchemaError{Op: "validate", Err: fmt.Errorf("%w: %s", ErrDecode, detail)}
	}
	first := errs[0]
	path := first.Path()
	subject := strings.Join(path, ".")

	msg := first.Error()
	kind := ErrMissingField
	switch {
	case len(path) > 0 && path[0] == "header":
		kind = ErrHeader
	case strings.Contains(msg, "conflicting values"),
		strings.Contains(msg, "mismatched types"),
		strings.Contains(msg, "invalid value"),
		strings.Contains(msg, "out of bound"):
		kind = ErrDecode
	}
	return &SchemaError{Op: "validate", Subject: subject, Err: fmt.Errorf("%w: %s", kind, detail)}
}
