package typecheck

import "github.com/kairei-dsl/kairei/internal/ast"

func simpleType(name string) ast.TypeInfo { return &ast.SimpleTypeInfo{Name: name} }

// typeName returns the SimpleTypeInfo name for t, t.String() for compound
// types, and "Unknown" for a type that failed to resolve (nil).
func typeName(t ast.TypeInfo) string {
	if t == nil {
		return "Unknown"
	}
	if s, ok := t.(*ast.SimpleTypeInfo); ok {
		return s.Name
	}
	return t.String()
}

func isNumeric(t ast.TypeInfo) bool {
	switch typeName(t) {
	case "Integer", "Int", "Float":
		return true
	default:
		return false
	}
}

func isBoolean(t ast.TypeInfo) bool { return typeName(t) == "Boolean" }

// sameType is a structural comparison good enough for the mismatch checks
// TC performs (spec §4.3 does not require full unification, only flagging
// obviously incompatible operands).
func sameType(a, b ast.TypeInfo) bool {
	if a == nil || b == nil {
		return true // one side unresolved: already reported, don't cascade
	}
	return a.String() == b.String()
}
