package typecheck

import "github.com/kairei-dsl/kairei/internal/ast"

func (c *Checker) checkStmt(s ast.Statement) {
	if s == nil {
		return
	}
	s.Accept(c)
}

func (c *Checker) VisitAssignment(s *ast.AssignmentStmt) error {
	for _, t := range s.Targets {
		c.checkExprNode(t)
	}
	c.checkExprNode(s.Value)
	return nil
}

func (c *Checker) VisitReturn(s *ast.ReturnStmt) error {
	c.checkExprNode(s.Value)
	return nil
}

func (c *Checker) VisitEmit(s *ast.EmitStmt) error {
	for _, a := range s.Arguments {
		c.checkExprNode(a)
	}
	return nil
}

func (c *Checker) VisitIf(s *ast.IfStmt) error {
	c.checkExprNode(s.Condition)
	c.checkStmt(s.Then)
	if s.Else != nil {
		c.checkStmt(s.Else)
	}
	return nil
}

func (c *Checker) VisitBlock(s *ast.BlockStmt) error {
	for _, st := range s.Statements {
		c.checkStmt(st)
	}
	return nil
}

func (c *Checker) VisitExpression(s *ast.ExpressionStmt) error {
	c.checkExprNode(s.Expression)
	return nil
}

func (c *Checker) VisitWithError(s *ast.WithErrorStmt) error {
	c.checkStmt(s.Inner)
	if s.Handler == nil {
		return nil
	}
	c.ctx.EnterScope()
	if s.Handler.ErrorBinding != nil {
		c.ctx.Scope.InsertType(*s.Handler.ErrorBinding, simpleType("Error"))
	}
	for _, st := range s.Handler.Statements {
		c.checkStmt(st)
	}
	if s.Handler.Control != nil && s.Handler.Control.Value != nil {
		c.checkExprNode(s.Handler.Control.Value)
	}
	c.ctx.ExitScope()
	return nil
}
