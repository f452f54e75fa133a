package bindgen

import (
	"go/token"
	"strings"
	"unicode"
)

// ToPascal converts a schema identifier to PascalCase.
// e.g., "get_class" → "GetClass", "_ready" → "Ready",
// "ERR_UNAVAILABLE" → "ErrUnavailable", "Node3D" → "Node3D"
func ToPascal(s string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(s, isSeparator) {
		if isAllUpper(part) {
			part = strings.ToLower(part)
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == ' '
}

// isAllUpper reports whether s has at least two letters and none of them is
// lower case. Single letters ("X" in AXIS_X) stay as they are.
func isAllUpper(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters > 1
}

// reservedIdents are names the generated method bodies rely on.
var reservedIdents = map[string]bool{
	"o":    true,
	"obj":  true,
	"args": true,
	"h":    true,
}

// ToGoIdent converts a schema argument name to a lowerCamel Go identifier
// that cannot collide with a keyword or a name used by generated code.
// e.g., "legible_unique_name" → "legibleUniqueName", "type" → "type_"
func ToGoIdent(s string) string {
	p := ToPascal(s)
	if p == "" {
		return "arg_"
	}
	r := []rune(p)
	r[0] = unicode.ToLower(r[0])
	id := string(r)
	if unicode.IsDigit(r[0]) {
		id = "n" + id
	}
	if token.IsKeyword(id) || reservedIdents[id] {
		id += "_"
	}
	return id
}

// EnumTypeName names the Go type of an enum. owner is the declaring class
// or builtin, empty for global enums. Dotted global names keep their prefix.
// e.g., ("Node", "ProcessMode") → "NodeProcessMode",
// ("", "Variant.Type") → "VariantType"
func EnumTypeName(owner, name string) string {
	return ToPascal(owner) + ToPascal(name)
}

// ConstName names an enum value or class constant. prefix is the Go name of
// the owner, which keeps values of different classes apart.
// e.g., ("Node", "NOTIFICATION_READY") → "NodeNotificationReady"
func ConstName(prefix, value string) string {
	name := prefix + ToPascal(value)
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "K" + name
	}
	return name
}
