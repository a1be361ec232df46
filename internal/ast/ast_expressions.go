package ast

import "github.com/kairei-dsl/kairei/internal/token"

// Expression is the sum type of value-producing nodes (spec §3.2). Every
// variant implements Accept so the type checker can dispatch through
// ExprVisitor without a hand-rolled type switch (spec §4.3 "visitor traversal").
type Expression interface {
	Node
	expressionNode()
	Accept(ExprVisitor) error
}

// Argument is one call argument: either positional or named (spec §3.2).
type Argument interface {
	Node
	argumentNode()
	Value() Expression
}

type PositionalArgument struct {
	Arg Expression
}

func (p *PositionalArgument) Pos() token.Position { return p.Arg.Pos() }
func (*PositionalArgument) argumentNode()          {}
func (p *PositionalArgument) Value() Expression    { return p.Arg }

type NamedArgument struct {
	Token token.Token
	Name  string
	Arg   Expression
}

func (n *NamedArgument) Pos() token.Position { return n.Token.Pos }
func (*NamedArgument) argumentNode()          {}
func (n *NamedArgument) Value() Expression    { return n.Arg }

// ThinkAttributes is the parsed `with { ... }` trailer on a think expression
// (spec §3.2). Unrecognized keys with a map-valued literal are captured in
// Plugins; unrecognized keys with any other value are dropped by GL, and no
// diagnostic is emitted for them.
type ThinkAttributes struct {
	Token       token.Token
	Provider    *string
	Model       *string
	Temperature *float64
	MaxTokens   *int64
	Retry       *RetryConfig
	Policies    []string
	Plugins     map[string]map[string]Literal
}

func (t *ThinkAttributes) Pos() token.Position { return t.Token.Pos }

// LiteralExpr wraps a Literal in expression position.
type LiteralExpr struct {
	Token token.Token
	Value Literal
}

func (e *LiteralExpr) Pos() token.Position          { return e.Token.Pos }
func (*LiteralExpr) expressionNode()                 {}
func (e *LiteralExpr) Accept(v ExprVisitor) error    { return v.VisitLiteral(e) }

// VariableExpr is a bare identifier reference.
type VariableExpr struct {
	Token token.Token
	Name  string
}

func (e *VariableExpr) Pos() token.Position       { return e.Token.Pos }
func (*VariableExpr) expressionNode()              {}
func (e *VariableExpr) Accept(v ExprVisitor) error { return v.VisitVariable(e) }

// StateAccessExpr is a dotted path into agent state (e.g. `profile.name`).
type StateAccessExpr struct {
	Token token.Token
	Path  []string
}

func (e *StateAccessExpr) Pos() token.Position       { return e.Token.Pos }
func (*StateAccessExpr) expressionNode()              {}
func (e *StateAccessExpr) Accept(v ExprVisitor) error { return v.VisitStateAccess(e) }

// FunctionCallExpr calls an (unresolved) named function (spec §4.3: unknown
// names are accepted without signature checking).
type FunctionCallExpr struct {
	Token     token.Token
	Name      string
	Arguments []Expression
}

func (e *FunctionCallExpr) Pos() token.Position       { return e.Token.Pos }
func (*FunctionCallExpr) expressionNode()              {}
func (e *FunctionCallExpr) Accept(v ExprVisitor) error { return v.VisitFunctionCall(e) }

// BinaryOpExpr is a binary operation, including the sentinel encoding of
// unary `!`/`-` described in spec §4.2 and §9 (Left is the lone operand,
// Right is a LiteralExpr wrapping StringLiteral("OPERATOR_NOT"|"OPERATOR_MINUS")).
type BinaryOpExpr struct {
	Token token.Token
	Op    string
	Left  Expression
	Right Expression
}

func (e *BinaryOpExpr) Pos() token.Position       { return e.Token.Pos }
func (*BinaryOpExpr) expressionNode()              {}
func (e *BinaryOpExpr) Accept(v ExprVisitor) error { return v.VisitBinaryOp(e) }

// IsUnarySentinel reports whether this BinaryOpExpr is actually an encoded
// unary operation, and if so which surface operator it represents.
func (e *BinaryOpExpr) IsUnarySentinel() (operator string, ok bool) {
	lit, isLit := e.Right.(*LiteralExpr)
	if !isLit {
		return "", false
	}
	str, isStr := lit.Value.(*StringLiteral)
	if !isStr {
		return "", false
	}
	switch str.Value {
	case "OPERATOR_NOT":
		return "!", true
	case "OPERATOR_MINUS":
		return "-", true
	default:
		return "", false
	}
}

// AwaitExpr awaits one or more concurrently-evaluated expressions.
type AwaitExpr struct {
	Token       token.Token
	Expressions []Expression
}

func (e *AwaitExpr) Pos() token.Position       { return e.Token.Pos }
func (*AwaitExpr) expressionNode()              {}
func (e *AwaitExpr) Accept(v ExprVisitor) error { return v.VisitAwait(e) }

// ThinkExpr dispatches a prompt to an LLM provider.
type ThinkExpr struct {
	Token token.Token
	Args  []Argument
	With  *ThinkAttributes
}

func (e *ThinkExpr) Pos() token.Position       { return e.Token.Pos }
func (*ThinkExpr) expressionNode()              {}
func (e *ThinkExpr) Accept(v ExprVisitor) error { return v.VisitThink(e) }

// RequestExpr sends a typed request to another agent.
type RequestExpr struct {
	Token       token.Token
	Agent       string
	RequestType RequestType
	Parameters  []Argument
	Options     []Argument
}

func (e *RequestExpr) Pos() token.Position       { return e.Token.Pos }
func (*RequestExpr) expressionNode()              {}
func (e *RequestExpr) Accept(v ExprVisitor) error { return v.VisitRequest(e) }

// OkExpr wraps a success value.
type OkExpr struct {
	Token token.Token
	Value Expression
}

func (e *OkExpr) Pos() token.Position       { return e.Token.Pos }
func (*OkExpr) expressionNode()              {}
func (e *OkExpr) Accept(v ExprVisitor) error { return v.VisitOk(e) }

// ErrExpr wraps a failure value.
type ErrExpr struct {
	Token token.Token
	Value Expression
}

func (e *ErrExpr) Pos() token.Position       { return e.Token.Pos }
func (*ErrExpr) expressionNode()              {}
func (e *ErrExpr) Accept(v ExprVisitor) error { return v.VisitErr(e) }

// WillActionExpr signals an agent's intent to perform a named action.
type WillActionExpr struct {
	Token      token.Token
	Action     string
	Parameters []Expression
	Target     *string
}

func (e *WillActionExpr) Pos() token.Position       { return e.Token.Pos }
func (*WillActionExpr) expressionNode()              {}
func (e *WillActionExpr) Accept(v ExprVisitor) error { return v.VisitWillAction(e) }

// ExprVisitor is implemented by passes that walk Expression trees (spec §4.3).
type ExprVisitor interface {
	VisitLiteral(*LiteralExpr) error
	VisitVariable(*VariableExpr) error
	VisitStateAccess(*StateAccessExpr) error
	VisitFunctionCall(*FunctionCallExpr) error
	VisitBinaryOp(*BinaryOpExpr) error
	VisitAwait(*AwaitExpr) error
	VisitThink(*ThinkExpr) error
	VisitRequest(*RequestExpr) error
	VisitOk(*OkExpr) error
	VisitErr(*ErrExpr) error
	VisitWillAction(*WillActionExpr) error
}
