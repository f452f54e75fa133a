package schema

// Raw models of extension_api.json. They mirror the file one to one and carry
// no validation; Ingest turns them into a Model.

// JsonExtensionAPI is the top-level document.
type JsonExtensionAPI struct {
	Header            JsonHeader            `json:"header"`
	BuiltinClassSizes []JsonClassSizes      `json:"builtin_class_sizes"`
	BuiltinClasses    []JsonBuiltin         `json:"builtin_classes"`
	Classes           []JsonClass           `json:"classes"`
	GlobalEnums       []JsonEnum            `json:"global_enums"`
	UtilityFunctions  []JsonUtilityFunction `json:"utility_functions"`
	NativeStructures  []JsonNativeStructure `json:"native_structures"`
	Singletons        []JsonSingleton       `json:"singletons"`
}

type JsonHeader struct {
	VersionMajor    int    `json:"version_major"`
	VersionMinor    int    `json:"version_minor"`
	VersionPatch    int    `json:"version_patch"`
	VersionStatus   string `json:"version_status"`
	VersionBuild    string `json:"version_build"`
	VersionFullName string `json:"version_full_name"`
}

type JsonClassSizes struct {
	BuildConfiguration string          `json:"build_configuration"`
	Sizes              []JsonClassSize `json:"sizes"`
}

type JsonClassSize struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type JsonBuiltin struct {
	Name               string              `json:"name"`
	IndexingReturnType *string             `json:"indexing_return_type"`
	IsKeyed            bool                `json:"is_keyed"`
	Enums              []JsonBuiltinEnum   `json:"enums"` // never bitfields
	Operators          []JsonOperator      `json:"operators"`
	Methods            []JsonBuiltinMethod `json:"methods"`
	Constructors       []JsonConstructor   `json:"constructors"`
	HasDestructor      bool                `json:"has_destructor"`
}

type JsonClass struct {
	Name           string              `json:"name"`
	IsRefcounted   bool                `json:"is_refcounted"`
	IsInstantiable bool                `json:"is_instantiable"`
	Inherits       *string             `json:"inherits"`
	APIType        string              `json:"api_type"`
	Constants      []JsonClassConstant `json:"constants"`
	Enums          []JsonEnum          `json:"enums"`
	Methods        []JsonClassMethod   `json:"methods"`
	Properties     []JsonProperty      `json:"properties"`
	Signals        []JsonSignal        `json:"signals"`
}

type JsonNativeStructure struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}

// JsonSingleton names a process-wide instance. Its "type" field always equals
// the name and is not decoded.
type JsonSingleton struct {
	Name string `json:"name"`
}

type JsonEnum struct {
	Name       string             `json:"name"`
	IsBitfield bool               `json:"is_bitfield"`
	Values     []JsonEnumConstant `json:"values"`
}

type JsonBuiltinEnum struct {
	Name   string             `json:"name"`
	Values []JsonEnumConstant `json:"values"`
}

// ToEnum folds a builtin-local enum into the global enum shape.
func (e JsonBuiltinEnum) ToEnum() JsonEnum {
	values := make([]JsonEnumConstant, len(e.Values))
	copy(values, e.Values)
	return JsonEnum{
		Name:       e.Name,
		IsBitfield: false,
		Values:     values,
	}
}

// JsonEnumConstant is shared by enums, bitfields and class constants; int64 is
// the common denominator of all three.
type JsonEnumConstant struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type JsonClassConstant = JsonEnumConstant

type JsonOperator struct {
	Name       string  `json:"name"`
	RightType  *string `json:"right_type"` // nil if unary
	ReturnType string  `json:"return_type"`
}

type JsonMember struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type JsonProperty struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Setter string `json:"setter"`
	Getter string `json:"getter"`
	Index  *int   `json:"index"` // can be -1
}

type JsonSignal struct {
	Name      string          `json:"name"`
	Arguments []JsonMethodArg `json:"arguments"`
}

type JsonConstructor struct {
	Index     int             `json:"index"`
	Arguments []JsonMethodArg `json:"arguments"`
}

type JsonUtilityFunction struct {
	Name       string          `json:"name"`
	ReturnType *string         `json:"return_type"`
	Category   string          `json:"category"` // "general" or "math"
	IsVararg   bool            `json:"is_vararg"`
	Hash       int64           `json:"hash"`
	Arguments  []JsonMethodArg `json:"arguments"`
}

type JsonBuiltinMethod struct {
	Name       string          `json:"name"`
	ReturnType *string         `json:"return_type"`
	IsVararg   bool            `json:"is_vararg"`
	IsConst    bool            `json:"is_const"`
	IsStatic   bool            `json:"is_static"`
	Hash       *int64          `json:"hash"`
	Arguments  []JsonMethodArg `json:"arguments"`
}

type JsonClassMethod struct {
	Name        string            `json:"name"`
	IsConst     bool              `json:"is_const"`
	IsVararg    bool              `json:"is_vararg"`
	IsStatic    bool              `json:"is_static"`
	IsVirtual   bool              `json:"is_virtual"`
	Hash        *int64            `json:"hash"`
	ReturnValue *JsonMethodReturn `json:"return_value"`
	Arguments   []JsonMethodArg   `json:"arguments"`
}

// JsonMethodArg example (set_point_weight_scale):
//
//	{name: "id", type: "int", meta: "int64"}
type JsonMethodArg struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Meta         *string `json:"meta"`
	DefaultValue *string `json:"default_value"`
}

type JsonMethodReturn struct {
	Type string  `json:"type"`
	Meta *string `json:"meta"`
}
