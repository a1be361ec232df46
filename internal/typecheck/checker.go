// Package typecheck implements the KAIREI type checker: a visitor-based
// static analysis pass that walks a parsed ast.Root, resolving types,
// checking scope and operator typing rules, and validating handler and
// sistence-agent configuration shapes (spec §4.3, §5).
//
// It is grounded on the teacher's internal/semantic (go-dws): a TypeContext
// carrying a scope stack, and an Analyzer/Checker struct implementing the
// AST's visitor interfaces rather than a hand-rolled type switch.
package typecheck

import (
	"github.com/kairei-dsl/kairei/internal/ast"
	"github.com/kairei-dsl/kairei/internal/diagnostics"
)

// Checker walks an ast.Root and accumulates diagnostics into its
// TypeContext. It implements both ast.ExprVisitor and ast.StmtVisitor.
type Checker struct {
	ctx         *TypeContext
	customTypes map[string]*ast.CustomTypeInfo
	events      map[string]*ast.EventDecl
	inSistence  bool

	// lastType is the single-value return channel for checkExprNode, since
	// ExprVisitor methods only return error.
	lastType ast.TypeInfo
}

// CheckTypes type-checks root and returns every diagnostic found, in
// world -> micro agents -> sistence agents traversal order (spec §5
// "Checker traversal order"), each in source order.
func CheckTypes(root *ast.Root) []*diagnostics.Diagnostic {
	c := &Checker{
		ctx:         NewTypeContext(),
		customTypes: map[string]*ast.CustomTypeInfo{},
		events:      map[string]*ast.EventDecl{},
	}
	c.checkRoot(root)
	return c.ctx.TakeErrors()
}

func (c *Checker) checkRoot(root *ast.Root) {
	if root == nil {
		return
	}
	if root.World != nil {
		c.checkWorld(root.World)
	}
	for _, m := range root.MicroAgents {
		c.checkMicroAgent(m)
	}
	for _, s := range root.SistenceAgents {
		c.checkSistenceAgent(s)
	}
}

// checkWorld checks the world's config entries (in the global scope, since
// world-level values have no enclosing agent state) and registers its
// custom events before validating its handlers (spec §5: "events become
// visible to handler checking").
func (c *Checker) checkWorld(w *ast.WorldDef) {
	if w.Config != nil {
		for _, name := range w.Config.Order {
			c.checkExprNode(w.Config.Entries[name])
		}
	}
	if w.Events != nil {
		for _, ev := range w.Events.Events {
			c.events[ev.Name] = ev
			for _, p := range ev.Parameters {
				c.resolveType(p.Type)
			}
		}
	}
	if w.Handlers != nil {
		for _, h := range w.Handlers.Handlers {
			c.checkWorldEventHandler(h)
		}
	}
}

// checkWorldEventHandler is like checkEventHandler but additionally
// validates a custom event name against the world's event registry
// (spec §5), since a world-level handler is declared alongside that
// registry, unlike an agent's observe/react handlers which may react to
// events broadcast from anywhere.
func (c *Checker) checkWorldEventHandler(h *ast.EventHandler) {
	if h.EventType.Kind == ast.EventCustom {
		if _, ok := c.events[h.EventType.Name]; !ok {
			c.ctx.AddError(diagnostics.Newf(diagnostics.KindInvalidHandlerSignature, h.Pos(), "handler reacts to undeclared event '%s'", h.EventType.Name))
		}
	}
	c.checkEventHandlerBody(h)
}

func (c *Checker) checkMicroAgent(m *ast.MicroAgentDef) {
	c.ctx.EnterScope()
	c.inSistence = false
	c.bindState(m.State)
	if m.Lifecycle != nil {
		c.checkLifecycle(m.Lifecycle)
	}
	if m.Observe != nil {
		for _, h := range m.Observe.Handlers {
			c.checkEventHandlerBody(h)
		}
	}
	if m.Answer != nil {
		for _, h := range m.Answer.Handlers {
			c.checkRequestHandlerBody(h)
		}
	}
	if m.React != nil {
		for _, h := range m.React.Handlers {
			c.checkEventHandlerBody(h)
		}
	}
	c.ctx.ExitScope()
}

func (c *Checker) checkSistenceAgent(s *ast.SistenceAgentDef) {
	c.ctx.EnterScope()
	c.inSistence = true
	c.bindState(s.State)
	if s.Lifecycle != nil {
		c.checkLifecycle(s.Lifecycle)
	}
	if s.Observe != nil {
		for _, h := range s.Observe.Handlers {
			c.checkEventHandlerBody(h)
		}
	}
	if s.Answer != nil {
		for _, h := range s.Answer.Handlers {
			c.checkRequestHandlerBody(h)
		}
	}
	if s.React != nil {
		for _, h := range s.React.Handlers {
			c.checkEventHandlerBody(h)
		}
	}
	if s.SistenceConfig != nil {
		c.checkSistenceConfig(s.SistenceConfig)
	}
	c.inSistence = false
	c.ctx.ExitScope()
}

func (c *Checker) bindState(state *ast.StateDef) {
	if state == nil {
		return
	}
	for _, name := range state.Order {
		v := state.Vars[name]
		t := c.resolveType(v.Type)
		c.ctx.Scope.InsertType(name, t)
		if v.InitialValue != nil {
			it := c.checkExprNode(v.InitialValue)
			if t != nil && it != nil && !sameType(t, it) {
				c.ctx.AddError(diagnostics.Newf(diagnostics.KindInvalidStateVariable, v.Pos(), "state variable '%s' declared as %s but initialized with %s", name, typeName(t), typeName(it)))
			}
		}
	}
}

func (c *Checker) checkLifecycle(l *ast.LifecycleDef) {
	if l.OnInit != nil {
		for _, st := range l.OnInit.Statements {
			c.checkStmt(st)
		}
	}
	if l.OnDestroy != nil {
		for _, st := range l.OnDestroy.Statements {
			c.checkStmt(st)
		}
	}
}

func (c *Checker) checkEventHandlerBody(h *ast.EventHandler) {
	c.ctx.EnterScope()
	seen := map[string]bool{}
	for _, p := range h.Parameters {
		if seen[p.Name] {
			c.ctx.AddError(diagnostics.Newf(diagnostics.KindInvalidHandlerSignature, p.Pos(), "duplicate parameter name '%s'", p.Name))
			continue
		}
		seen[p.Name] = true
		c.ctx.Scope.InsertType(p.Name, c.resolveType(p.Type))
	}
	if h.Block != nil {
		for _, st := range h.Block.Statements {
			c.checkStmt(st)
		}
	}
	c.ctx.ExitScope()
}

func (c *Checker) checkRequestHandlerBody(h *ast.RequestHandler) {
	retType := c.resolveType(h.ReturnType)
	c.checkConstraints(h.Constraints)

	c.ctx.EnterScope()
	seen := map[string]bool{}
	for _, p := range h.Parameters {
		if seen[p.Name] {
			c.ctx.AddError(diagnostics.Newf(diagnostics.KindInvalidHandlerSignature, p.Pos(), "duplicate parameter name '%s'", p.Name))
			continue
		}
		seen[p.Name] = true
		c.ctx.Scope.InsertType(p.Name, c.resolveType(p.Type))
	}
	if h.Block != nil {
		for _, st := range h.Block.Statements {
			c.checkStmt(st)
		}
	}
	c.validateAnswerReturn(h, retType)
	c.ctx.ExitScope()
}

// validateAnswerReturn checks that an answer handler's body ends in a
// return whose Ok/Err shape matches the declared Result return type
// (spec §4.3 "answer handlers must return a matching Result").
func (c *Checker) validateAnswerReturn(h *ast.RequestHandler, retType ast.TypeInfo) {
	resultType, isResult := retType.(*ast.ResultTypeInfo)
	if !isResult || h.Block == nil || len(h.Block.Statements) == 0 {
		return
	}
	last := lastEffectiveStatement(h.Block.Statements[len(h.Block.Statements)-1])
	ret, ok := last.(*ast.ReturnStmt)
	if !ok {
		c.ctx.AddError(diagnostics.New(diagnostics.KindInvalidReturnType, h.Pos(), "answer handler body must end in a return statement"))
		return
	}
	switch ret.Value.(type) {
	case *ast.OkExpr:
	case *ast.ErrExpr:
	default:
		c.ctx.AddError(diagnostics.Newf(diagnostics.KindInvalidReturnType, ret.Pos(), "answer handler must return Ok(..) or Err(..), declared return type is %s", resultType.String()))
	}
}

// lastEffectiveStatement unwraps a trailing WithErrorStmt to inspect the
// statement it actually wraps, since an onFail trailer on the final
// statement does not change what the handler itself returns.
func lastEffectiveStatement(s ast.Statement) ast.Statement {
	if w, ok := s.(*ast.WithErrorStmt); ok {
		return lastEffectiveStatement(w.Inner)
	}
	return s
}

// checkConstraints range-checks the optional strictness/stability/latency
// knobs on a request handler (spec §3.2 "Constraints", §4.3 range rules).
func (c *Checker) checkConstraints(constraints *ast.Constraints) {
	if constraints == nil {
		return
	}
	if constraints.Strictness != nil && (*constraints.Strictness < 0 || *constraints.Strictness > 1) {
		c.ctx.AddError(diagnostics.New(diagnostics.KindInvalidHandlerSignature, constraints.Pos(), "constraint 'strictness' must be between 0.0 and 1.0"))
	}
	if constraints.Stability != nil && (*constraints.Stability < 0 || *constraints.Stability > 1) {
		c.ctx.AddError(diagnostics.New(diagnostics.KindInvalidHandlerSignature, constraints.Pos(), "constraint 'stability' must be between 0.0 and 1.0"))
	}
	if constraints.Latency != nil && *constraints.Latency > 4294967295 {
		c.ctx.AddError(diagnostics.New(diagnostics.KindInvalidHandlerSignature, constraints.Pos(), "constraint 'latency' exceeds the maximum representable milliseconds"))
	}
}

// checkSistenceConfig range-checks a sistence agent's proactivity
// configuration (spec §3.2 "SistenceConfig", §4.3 "E4" example).
func (c *Checker) checkSistenceConfig(sc *ast.SistenceConfig) {
	if sc.Level < 0 || sc.Level > 1 {
		c.ctx.AddError(diagnostics.New(diagnostics.KindTypeInferenceError, sc.Pos(), "Sistence proactivity level must be between 0.0 and 1.0"))
	}
	if sc.InitiativeThreshold < 0 || sc.InitiativeThreshold > 1 {
		c.ctx.AddError(diagnostics.New(diagnostics.KindTypeInferenceError, sc.Pos(), "Sistence initiative threshold must be between 0.0 and 1.0"))
	}
	if len(sc.Domains) == 0 {
		c.ctx.AddError(diagnostics.New(diagnostics.KindInvalidSistenceContextError, sc.Pos(), "sistence agent must declare at least one domain"))
	}
	for _, d := range sc.Domains {
		if d == "" {
			c.ctx.AddError(diagnostics.New(diagnostics.KindInvalidSistenceContextError, sc.Pos(), "sistence domain must be a non-empty string"))
		}
	}
}
