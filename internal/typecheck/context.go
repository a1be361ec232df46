package typecheck

import (
	"github.com/kairei-dsl/kairei/internal/ast"
	"github.com/kairei-dsl/kairei/internal/diagnostics"
)

// builtinTypeNames are the names resolvable without a user declaration
// (spec §3.3 "built-in types").
var builtinTypeNames = []string{
	"String", "Int", "Integer", "Float", "Boolean", "Null", "Duration",
	"Error", "Option", "Array", "Result",
}

// TypeContext bundles the scope stack with the diagnostic batch accumulated
// while checking (spec §3.3). It is the receiver for the scope operations a
// Checker drives during traversal.
type TypeContext struct {
	Scope  *TypeScope
	errors diagnostics.Batch
}

// NewTypeContext returns a TypeContext with the built-in type names already
// registered in its outermost scope.
func NewTypeContext() *TypeContext {
	ctx := &TypeContext{Scope: NewTypeScope()}
	for _, name := range builtinTypeNames {
		ctx.Scope.InsertType(name, &ast.SimpleTypeInfo{Name: name})
	}
	return ctx
}

func (c *TypeContext) EnterScope() { c.Scope.EnterScope() }
func (c *TypeContext) ExitScope()  { c.Scope.ExitScope() }

// AddError appends a diagnostic to the batch. nil is ignored so call sites
// can pass through an optional diagnostic without an extra nil check.
func (c *TypeContext) AddError(d *diagnostics.Diagnostic) {
	if d == nil {
		return
	}
	c.errors.Add(d)
}

// HasErrors reports whether any error-severity diagnostic has been recorded.
func (c *TypeContext) HasErrors() bool { return c.errors.HasErrors() }

// TakeErrors drains and returns the accumulated diagnostics in traversal order.
func (c *TypeContext) TakeErrors() []*diagnostics.Diagnostic { return c.errors.Take() }
