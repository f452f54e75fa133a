package schema

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("gdext.schema")

// Options controls ingestion.
type Options struct {
	// Precision selects the build configuration (float_* or double_*).
	Precision Precision

	// SkipValidation disables the structural CUE check. Decoding and the
	// semantic passes still run, so integrity violations are still fatal, but
	// an absent required field decodes as its zero value.
	SkipValidation bool
}

// Load reads and ingests a schema file.
func Load(path string, opts Options) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	m, err := Ingest(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Ingest turns raw schema text into a validated Model. It runs once, has no
// retry semantics, and every failure is a *SchemaError.
func Ingest(data []byte, opts Options) (*Model, error) {
	if !opts.SkipValidation {
		if err := validateStructure(data); err != nil {
			return nil, err
		}
	}

	var api JsonExtensionAPI
	if err := json.Unmarshal(data, &api); err != nil {
		return nil, &SchemaError{Op: "decode", Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}

	m, err := build(&api, opts.Precision)
	if err != nil {
		return nil, err
	}

	log.Infof("parsed extension API for version %s (%d classes, config %s)",
		m.Header, len(m.classes), m.BuildConfig())
	return m, nil
}

// build runs the semantic passes over decoded JSON.
func build(api *JsonExtensionAPI, precision Precision) (*Model, error) {
	header, err := convertHeader(api.Header)
	if err != nil {
		return nil, err
	}

	m := newModel(header, precision)

	// Pass 1: name-keyed class table.
	for i := range api.Classes {
		jc := &api.Classes[i]
		c, err := convertClass(jc)
		if err != nil {
			return nil, err
		}
		if err := m.addClass(c); err != nil {
			return nil, err
		}
	}

	// Pass 2: parent links and forest check.
	if err := m.link(); err != nil {
		return nil, err
	}

	for _, jb := range api.BuiltinClasses {
		b, err := convertBuiltin(jb)
		if err != nil {
			return nil, err
		}
		m.Builtins = append(m.Builtins, b)
	}

	for _, je := range api.GlobalEnums {
		e, err := convertEnum("", je)
		if err != nil {
			return nil, err
		}
		m.GlobalEnums = append(m.GlobalEnums, e)
	}

	for _, ju := range api.UtilityFunctions {
		m.Utilities = append(m.Utilities, UtilityFunction{
			Name:     ju.Name,
			Return:   returnFromType(ju.ReturnType),
			Category: ju.Category,
			IsVararg: ju.IsVararg,
			Hash:     ju.Hash,
			Args:     convertArgs(ju.Arguments),
		})
	}

	for _, ns := range api.NativeStructures {
		m.NativeStructures = append(m.NativeStructures, NativeStructure{Name: ns.Name, Format: ns.Format})
	}

	for _, s := range api.Singletons {
		m.Singletons = append(m.Singletons, s.Name)
		m.singletonSet[s.Name] = true
	}

	for _, cs := range api.BuiltinClassSizes {
		sizes := make(map[string]int, len(cs.Sizes))
		for _, s := range cs.Sizes {
			sizes[s.Name] = s.Size
		}
		m.classSizes[cs.BuildConfiguration] = sizes
	}

	return m, nil
}

func newModel(header Header, precision Precision) *Model {
	return &Model{
		Header:       header,
		Precision:    precision,
		Root:         &Class{Name: RootName},
		byName:       make(map[string]*Class),
		singletonSet: make(map[string]bool),
		classSizes:   make(map[string]map[string]int),
	}
}

func convertHeader(h JsonHeader) (Header, error) {
	for _, v := range []struct {
		name  string
		value int
	}{
		{"version_major", h.VersionMajor},
		{"version_minor", h.VersionMinor},
		{"version_patch", h.VersionPatch},
	} {
		if v.value < 0 || v.value > 255 {
			return Header{}, &SchemaError{Op: "header", Subject: v.name,
				Err: fmt.Errorf("%w: %d is not a valid version component", ErrHeader, v.value)}
		}
	}
	if h.VersionStatus == "" {
		return Header{}, &SchemaError{Op: "header", Subject: "version_status",
			Err: fmt.Errorf("%w: empty status", ErrHeader)}
	}
	return Header{
		Major:    h.VersionMajor,
		Minor:    h.VersionMinor,
		Patch:    h.VersionPatch,
		Status:   h.VersionStatus,
		Build:    h.VersionBuild,
		FullName: h.VersionFullName,
	}, nil
}

func convertClass(jc *JsonClass) (*Class, error) {
	c := &Class{
		Name:           jc.Name,
		IsRefCounted:   jc.IsRefcounted,
		IsInstantiable: jc.IsInstantiable,
		APIType:        jc.APIType,
	}
	if jc.Inherits != nil {
		c.ParentName = *jc.Inherits
	}

	for _, k := range jc.Constants {
		if _, err := k.toConstant().ToEnumOrd(); err != nil {
			return nil, &SchemaError{Op: "enums", Subject: jc.Name, Err: err}
		}
		c.Constants = append(c.Constants, k.toConstant())
	}

	for _, je := range jc.Enums {
		e, err := convertEnum(jc.Name, je)
		if err != nil {
			return nil, err
		}
		c.Enums = append(c.Enums, e)
	}

	for _, jm := range jc.Methods {
		m := Method{
			Name:      jm.Name,
			IsConst:   jm.IsConst,
			IsVararg:  jm.IsVararg,
			IsStatic:  jm.IsStatic,
			IsVirtual: jm.IsVirtual,
			Args:      convertArgs(jm.Arguments),
		}
		if jm.Hash != nil {
			m.Hash, m.HasHash = *jm.Hash, true
		}
		if jm.ReturnValue != nil {
			m.Return = &Return{Type: jm.ReturnValue.Type, Meta: deref(jm.ReturnValue.Meta)}
		}
		c.Methods = append(c.Methods, m)
	}
	return c, nil
}

func convertBuiltin(jb JsonBuiltin) (Builtin, error) {
	b := Builtin{
		Name:               jb.Name,
		IndexingReturnType: deref(jb.IndexingReturnType),
		IsKeyed:            jb.IsKeyed,
		HasDestructor:      jb.HasDestructor,
	}
	// Builtin-local enums are folded into the global shape here so that
	// downstream code handles one representation.
	for _, je := range jb.Enums {
		e, err := convertEnum(jb.Name, je.ToEnum())
		if err != nil {
			return Builtin{}, err
		}
		b.Enums = append(b.Enums, e)
	}
	for _, op := range jb.Operators {
		b.Operators = append(b.Operators, Operator{
			Name:       op.Name,
			RightType:  deref(op.RightType),
			ReturnType: op.ReturnType,
		})
	}
	for _, jm := range jb.Methods {
		m := Method{
			Name:     jm.Name,
			IsConst:  jm.IsConst,
			IsVararg: jm.IsVararg,
			IsStatic: jm.IsStatic,
			Return:   returnFromType(jm.ReturnType),
			Args:     convertArgs(jm.Arguments),
		}
		if jm.Hash != nil {
			m.Hash, m.HasHash = *jm.Hash, true
		}
		b.Methods = append(b.Methods, m)
	}
	for _, ctor := range jb.Constructors {
		b.Constructors = append(b.Constructors, Constructor{Index: ctor.Index, Args: convertArgs(ctor.Arguments)})
	}
	return b, nil
}

// convertEnum copies an enum and checks that every value fits an int32
// ordinal. owner is the declaring class or builtin, empty for global enums.
func convertEnum(owner string, je JsonEnum) (Enum, error) {
	e := Enum{Name: je.Name, IsBitfield: je.IsBitfield}
	subject := je.Name
	if owner != "" {
		subject = owner + "." + je.Name
	}
	for _, v := range je.Values {
		k := v.toConstant()
		if _, err := k.ToEnumOrd(); err != nil {
			return Enum{}, &SchemaError{Op: "enums", Subject: subject, Err: err}
		}
		e.Values = append(e.Values, k)
	}
	return e, nil
}

func convertArgs(args []JsonMethodArg) []Arg {
	if len(args) == 0 {
		return nil
	}
	out := make([]Arg, 0, len(args))
	for _, a := range args {
		out = append(out, Arg{
			Name:    a.Name,
			Type:    a.Type,
			Meta:    deref(a.Meta),
			Default: a.DefaultValue,
		})
	}
	return out
}

// returnFromType builds a Return without metadata; nil means void.
func returnFromType(t *string) *Return {
	if t == nil {
		return nil
	}
	return &Return{Type: *t}
}

func (k JsonEnumConstant) toConstant() EnumConstant {
	return EnumConstant{Name: k.Name, Value: k.Value}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
