package typecheck

import (
	"strings"

	"github.com/kairei-dsl/kairei/internal/ast"
	"github.com/kairei-dsl/kairei/internal/diagnostics"
)

// checkExprNode visits e and returns the type the visit computed, using
// Checker.lastType as the single-field return channel ast.ExprVisitor's
// error-only signature doesn't provide (spec §4.3 "expression typing").
// Safe for the recursive-descent pattern used throughout this file: each
// Visit* sets lastType as the final thing it does, after any children have
// already been visited and their own lastType consumed.
func (c *Checker) checkExprNode(e ast.Expression) ast.TypeInfo {
	if e == nil {
		c.lastType = nil
		return nil
	}
	e.Accept(c)
	return c.lastType
}

func (c *Checker) VisitLiteral(e *ast.LiteralExpr) error {
	c.lastType = literalType(e.Value)
	return nil
}

func literalType(l ast.Literal) ast.TypeInfo {
	switch l.(type) {
	case *ast.IntegerLiteral:
		return simpleType("Integer")
	case *ast.FloatLiteral:
		return simpleType("Float")
	case *ast.StringLiteral:
		return simpleType("String")
	case *ast.BooleanLiteral:
		return simpleType("Boolean")
	case *ast.NullLiteral:
		return simpleType("Null")
	case *ast.DurationLiteral:
		return simpleType("Duration")
	case *ast.ListLiteral:
		return simpleType("Array")
	case *ast.MapLiteral:
		return simpleType("Map")
	case *ast.RetryLiteral:
		return simpleType("Retry")
	default:
		return simpleType("Null")
	}
}

func (c *Checker) VisitVariable(e *ast.VariableExpr) error {
	t, ok := c.ctx.Scope.GetType(e.Name)
	if !ok {
		c.ctx.AddError(diagnostics.Newf(diagnostics.KindUndefinedVariable, e.Pos(), "undefined variable '%s'", e.Name))
		c.lastType = nil
		return nil
	}
	c.lastType = t
	return nil
}

func (c *Checker) VisitStateAccess(e *ast.StateAccessExpr) error {
	if len(e.Path) == 0 {
		c.lastType = nil
		return nil
	}
	first := e.Path[0]
	cur, ok := c.ctx.Scope.GetType(first)
	if !ok {
		c.ctx.AddError(diagnostics.Newf(diagnostics.KindUndefinedVariable, e.Pos(), "undefined state path '%s'", strings.Join(e.Path, ".")))
		c.lastType = nil
		return nil
	}
	for _, seg := range e.Path[1:] {
		ct, ok := cur.(*ast.CustomTypeInfo)
		if !ok {
			c.ctx.AddError(diagnostics.Newf(diagnostics.KindUndefinedVariable, e.Pos(), "'%s' has no field '%s' (path '%s')", typeName(cur), seg, strings.Join(e.Path, ".")))
			c.lastType = nil
			return nil
		}
		fi, ok := ct.Fields[seg]
		if !ok {
			c.ctx.AddError(diagnostics.Newf(diagnostics.KindUndefinedVariable, e.Pos(), "type '%s' has no field '%s' (path '%s')", ct.Name, seg, strings.Join(e.Path, ".")))
			c.lastType = nil
			return nil
		}
		cur = fi.Type
	}
	c.lastType = cur
	return nil
}

// VisitFunctionCall type-checks arguments but, per spec §4.3 ("unknown
// function names are accepted without a signature to check against"), does
// not attempt to resolve the callee or its return type.
func (c *Checker) VisitFunctionCall(e *ast.FunctionCallExpr) error {
	for _, a := range e.Arguments {
		c.checkExprNode(a)
	}
	c.lastType = nil
	return nil
}

func (c *Checker) VisitBinaryOp(e *ast.BinaryOpExpr) error {
	if _, ok := e.IsUnarySentinel(); ok {
		// Sentinel-encoded unary `!`/`-`: the Right operand is a synthetic
		// marker literal, not a real value, so only Left is type-checked
		// (spec §4.3 "unary operators").
		c.lastType = c.checkExprNode(e.Left)
		return nil
	}

	lt := c.checkExprNode(e.Left)
	rt := c.checkExprNode(e.Right)

	switch e.Op {
	case "Add", "Subtract", "Multiply", "Divide":
		if !isNumeric(lt) || !isNumeric(rt) {
			c.ctx.AddError(diagnostics.Newf(diagnostics.KindInvalidOperatorType, e.Pos(), "operator '%s' requires numeric operands, got %s and %s", e.Op, typeName(lt), typeName(rt)))
			c.lastType = nil
			return nil
		}
		if typeName(lt) == "Float" || typeName(rt) == "Float" {
			c.lastType = simpleType("Float")
		} else {
			c.lastType = simpleType("Integer")
		}
	case "And", "Or":
		if !isBoolean(lt) || !isBoolean(rt) {
			c.ctx.AddError(diagnostics.Newf(diagnostics.KindInvalidOperatorType, e.Pos(), "operator '%s' requires boolean operands, got %s and %s", e.Op, typeName(lt), typeName(rt)))
		}
		c.lastType = simpleType("Boolean")
	case "Equal", "NotEqual":
		if !sameType(lt, rt) {
			c.ctx.AddError(diagnostics.Newf(diagnostics.KindInvalidOperatorType, e.Pos(), "cannot compare %s with %s", typeName(lt), typeName(rt)))
		}
		c.lastType = simpleType("Boolean")
	case "LessThan", "LessThanOrEqual", "GreaterThan", "GreaterThanOrEqual":
		if !isNumeric(lt) || !isNumeric(rt) {
			c.ctx.AddError(diagnostics.Newf(diagnostics.KindInvalidOperatorType, e.Pos(), "operator '%s' requires numeric operands, got %s and %s", e.Op, typeName(lt), typeName(rt)))
		}
		c.lastType = simpleType("Boolean")
	default:
		c.lastType = nil
	}
	return nil
}

func (c *Checker) VisitAwait(e *ast.AwaitExpr) error {
	for _, ex := range e.Expressions {
		c.checkExprNode(ex)
	}
	c.lastType = nil
	return nil
}

func (c *Checker) VisitThink(e *ast.ThinkExpr) error {
	for _, a := range e.Args {
		c.checkExprNode(a.Value())
	}
	if e.With != nil {
		if e.With.Temperature != nil && (*e.With.Temperature < 0 || *e.With.Temperature > 2) {
			c.ctx.AddError(diagnostics.New(diagnostics.KindInvalidThinkBlock, e.With.Pos(), "temperature should be between 0.0 and 2.0"))
		}
		if e.With.MaxTokens != nil && *e.With.MaxTokens <= 0 {
			c.ctx.AddError(diagnostics.New(diagnostics.KindInvalidThinkBlock, e.With.Pos(), "max_tokens must be positive"))
		}
	}
	c.lastType = nil
	return nil
}

func (c *Checker) VisitRequest(e *ast.RequestExpr) error {
	for _, p := range e.Parameters {
		c.checkExprNode(p.Value())
	}
	for _, o := range e.Options {
		c.checkExprNode(o.Value())
	}
	c.lastType = nil
	return nil
}

func (c *Checker) VisitOk(e *ast.OkExpr) error {
	inner := c.checkExprNode(e.Value)
	if inner == nil {
		inner = simpleType("Null")
	}
	c.lastType = &ast.ResultTypeInfo{Token: e.Token, Ok: inner, Err: simpleType("Error")}
	return nil
}

func (c *Checker) VisitErr(e *ast.ErrExpr) error {
	inner := c.checkExprNode(e.Value)
	if inner == nil {
		inner = simpleType("Error")
	}
	c.lastType = &ast.ResultTypeInfo{Token: e.Token, Ok: simpleType("Null"), Err: inner}
	return nil
}

// VisitWillAction validates the action is only used inside a sistence
// agent (spec §4.3 "will actions"); the action name and target are free
// text and are not resolved against a registry.
func (c *Checker) VisitWillAction(e *ast.WillActionExpr) error {
	if !c.inSistence {
		c.ctx.AddError(diagnostics.Newf(diagnostics.KindInvalidWillActionError, e.Pos(), "will action '%s' is only valid inside a sistence agent", e.Action))
	}
	for _, p := range e.Parameters {
		c.checkExprNode(p)
	}
	c.lastType = nil
	return nil
}
