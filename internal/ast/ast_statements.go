package ast

import "github.com/kairei-dsl/kairei/internal/token"

// Statement is the sum type of action nodes (spec §3.2).
type Statement interface {
	Node
	statementNode()
	Accept(StmtVisitor) error
}

// AssignmentStmt assigns Value to one or more targets (destructuring when
// len(Targets) > 1). Duplicate targets are accepted by GL; TC does not
// check uniqueness (spec §4.2 "Assignment targets").
type AssignmentStmt struct {
	Token   token.Token
	Targets []Expression
	Value   Expression
}

func (s *AssignmentStmt) Pos() token.Position       { return s.Token.Pos }
func (*AssignmentStmt) statementNode()               {}
func (s *AssignmentStmt) Accept(v StmtVisitor) error { return v.VisitAssignment(s) }

type ReturnStmt struct {
	Token token.Token
	Value Expression
}

func (s *ReturnStmt) Pos() token.Position       { return s.Token.Pos }
func (*ReturnStmt) statementNode()               {}
func (s *ReturnStmt) Accept(v StmtVisitor) error { return v.VisitReturn(s) }

type EmitStmt struct {
	Token     token.Token
	EventType EventType
	Arguments []Expression
	Target    *string
}

func (s *EmitStmt) Pos() token.Position       { return s.Token.Pos }
func (*EmitStmt) statementNode()               {}
func (s *EmitStmt) Accept(v StmtVisitor) error { return v.VisitEmit(s) }

type IfStmt struct {
	Token     token.Token
	Condition Expression
	Then      Statement
	Else      Statement // nil when no else branch
}

func (s *IfStmt) Pos() token.Position       { return s.Token.Pos }
func (*IfStmt) statementNode()               {}
func (s *IfStmt) Accept(v StmtVisitor) error { return v.VisitIf(s) }

type BlockStmt struct {
	Token      token.Token
	Statements []Statement
}

func (s *BlockStmt) Pos() token.Position       { return s.Token.Pos }
func (*BlockStmt) statementNode()               {}
func (s *BlockStmt) Accept(v StmtVisitor) error { return v.VisitBlock(s) }

type ExpressionStmt struct {
	Token      token.Token
	Expression Expression
}

func (s *ExpressionStmt) Pos() token.Position       { return s.Token.Pos }
func (*ExpressionStmt) statementNode()               {}
func (s *ExpressionStmt) Accept(v StmtVisitor) error { return v.VisitExpression(s) }

// OnFailControlKind discriminates OnFailControl's variants.
type OnFailControlKind int

const (
	OnFailReturnOk OnFailControlKind = iota
	OnFailReturnErr
	OnFailRethrow
)

// OnFailControl is the promoted trailing return of an onFail handler body
// (spec §3.2, §4.2): if the handler body's last statement is
// `return Ok(e)`/`return Err(e)`, GL strips it and stores it here instead.
type OnFailControl struct {
	Kind  OnFailControlKind
	Value Expression // set for OnFailReturnOk / OnFailReturnErr
}

// ErrorHandlerBlock is the `onFail (binding?) { ... }` trailer attached to a
// statement (spec §3.2).
type ErrorHandlerBlock struct {
	Token        token.Token
	ErrorBinding *string
	Statements   []Statement
	Control      *OnFailControl
}

func (e *ErrorHandlerBlock) Pos() token.Position { return e.Token.Pos }

// WithErrorStmt wraps Inner with a trailing error handler (spec §3.2).
type WithErrorStmt struct {
	Token   token.Token
	Inner   Statement
	Handler *ErrorHandlerBlock
}

func (s *WithErrorStmt) Pos() token.Position       { return s.Token.Pos }
func (*WithErrorStmt) statementNode()               {}
func (s *WithErrorStmt) Accept(v StmtVisitor) error { return v.VisitWithError(s) }

// IsWithError reports whether node is a WithErrorStmt carrying the given
// error binding name, per the round-trip property in spec §8 (property 5).
func IsWithError(node Statement, binding string) bool {
	w, ok := node.(*WithErrorStmt)
	if !ok || w.Handler == nil || w.Handler.ErrorBinding == nil {
		return false
	}
	return *w.Handler.ErrorBinding == binding
}

// StmtVisitor is implemented by passes that walk Statement trees (spec §4.3).
type StmtVisitor interface {
	VisitAssignment(*AssignmentStmt) error
	VisitReturn(*ReturnStmt) error
	VisitEmit(*EmitStmt) error
	VisitIf(*IfStmt) error
	VisitBlock(*BlockStmt) error
	VisitExpression(*ExpressionStmt) error
	VisitWithError(*WithErrorStmt) error
}
