package typecheck

import (
	"github.com/kairei-dsl/kairei/internal/ast"
	"github.com/kairei-dsl/kairei/internal/diagnostics"
)

// resolveType walks a TypeInfo tree, validating that every named type
// resolves to a built-in or a previously-seen custom type, and recursing
// into Option/Array/Result wrappers and custom-type field declarations
// (spec §3.3 "type resolution"). It registers CustomTypeInfo values into
// the checker's registry as they are encountered so later StateAccessExpr
// paths can descend through their fields.
//
// A custom type must be declared (as a field type, a state-variable type,
// or a parameter type) before it is referenced elsewhere by name; this
// single-pass, declaration-order resolution is a simplification the
// original grammar's lack of a separate top-level type-declaration form
// makes unavoidable.
func (c *Checker) resolveType(t ast.TypeInfo) ast.TypeInfo {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case *ast.SimpleTypeInfo:
		if !c.ctx.Scope.ContainsType(v.Name) && !c.isCustomKnown(v.Name) {
			c.ctx.AddError(diagnostics.Newf(diagnostics.KindUndefinedType, v.Pos(), "undefined type '%s'", v.Name))
		}
		return v
	case *ast.OptionTypeInfo:
		v.Inner = c.resolveType(v.Inner)
		return v
	case *ast.ArrayTypeInfo:
		v.Inner = c.resolveType(v.Inner)
		return v
	case *ast.ResultTypeInfo:
		v.Ok = c.resolveType(v.Ok)
		v.Err = c.resolveType(v.Err)
		return v
	case *ast.CustomTypeInfo:
		c.customTypes[v.Name] = v
		for _, fname := range v.Order {
			fi := v.Fields[fname]
			if fi == nil {
				continue
			}
			if fi.Type != nil {
				fi.Type = c.resolveType(fi.Type)
			}
			if fi.Default != nil {
				c.checkExprNode(fi.Default)
			}
		}
		return v
	default:
		return t
	}
}

func (c *Checker) isCustomKnown(name string) bool {
	_, ok := c.customTypes[name]
	return ok
}
