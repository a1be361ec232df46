package parser

import (
	"testing"

	"github.com/kairei-dsl/kairei/internal/ast"
	"github.com/kairei-dsl/kairei/internal/token"
	"github.com/stretchr/testify/require"
)

func TestAssignmentStmt(t *testing.T) {
	toks := []token.Token{
		token.Ident("x", pos(1)),
		token.Op(token.OpAssign, pos(2)),
		token.Int(5, pos(3)),
	}
	next, s, err := statementParser()(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	assign, ok := s.(*ast.AssignmentStmt)
	require.True(t, ok)
	require.Len(t, assign.Targets, 1)
	require.Equal(t, "x", assign.Targets[0].(*ast.VariableExpr).Name)
}

func TestDestructureAssignmentStmt(t *testing.T) {
	toks := []token.Token{
		token.Delim(token.DelimLParen, pos(1)),
		token.Ident("a", pos(2)),
		token.Delim(token.DelimComma, pos(3)),
		token.Ident("b", pos(4)),
		token.Delim(token.DelimRParen, pos(5)),
		token.Op(token.OpAssign, pos(6)),
		token.Ident("pair", pos(7)),
	}
	next, s, err := statementParser()(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	assign, ok := s.(*ast.AssignmentStmt)
	require.True(t, ok)
	require.Len(t, assign.Targets, 2)
}

func TestExpressionStmt(t *testing.T) {
	toks := []token.Token{token.Ident("doIt", pos(1)), token.Delim(token.DelimLParen, pos(2)), token.Delim(token.DelimRParen, pos(3))}
	next, s, err := statementParser()(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	_, ok := s.(*ast.ExpressionStmt)
	require.True(t, ok)
}

func TestReturnStmt(t *testing.T) {
	toks := []token.Token{token.KW(token.KeywordReturn, pos(1)), token.Int(1, pos(2))}
	next, s, err := statementParser()(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	ret, ok := s.(*ast.ReturnStmt)
	require.True(t, ok)
	require.Equal(t, int64(1), ret.Value.(*ast.LiteralExpr).Value.(*ast.IntegerLiteral).Value)
}

func TestIfElseStmt(t *testing.T) {
	toks := []token.Token{
		token.KW(token.KeywordIf, pos(1)),
		token.Delim(token.DelimLParen, pos(2)),
		token.Bool(true, pos(3)),
		token.Delim(token.DelimRParen, pos(4)),
		token.Delim(token.DelimLBrace, pos(5)),
		token.KW(token.KeywordReturn, pos(6)),
		token.Int(1, pos(7)),
		token.Delim(token.DelimRBrace, pos(8)),
		token.KW(token.KeywordElse, pos(9)),
		token.Delim(token.DelimLBrace, pos(10)),
		token.KW(token.KeywordReturn, pos(11)),
		token.Int(2, pos(12)),
		token.Delim(token.DelimRBrace, pos(13)),
	}
	next, s, err := statementParser()(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	ifs, ok := s.(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, ifs.Then)
	require.NotNil(t, ifs.Else)
}

func TestEmitStmtWithTarget(t *testing.T) {
	toks := []token.Token{
		token.KW(token.KeywordEmit, pos(1)),
		token.Ident("Alarm", pos(2)),
		token.Delim(token.DelimLParen, pos(3)),
		token.Str("fire", pos(4)),
		token.Delim(token.DelimRParen, pos(5)),
		token.KW(token.KeywordTo, pos(6)),
		token.Ident("monitor", pos(7)),
	}
	next, s, err := statementParser()(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	emit, ok := s.(*ast.EmitStmt)
	require.True(t, ok)
	require.Equal(t, ast.EventCustom, emit.EventType.Kind)
	require.Equal(t, "Alarm", emit.EventType.Name)
	require.Len(t, emit.Arguments, 1)
	require.NotNil(t, emit.Target)
	require.Equal(t, "monitor", *emit.Target)
}

func TestBlockStmt(t *testing.T) {
	toks := []token.Token{
		token.Delim(token.DelimLBrace, pos(1)),
		token.KW(token.KeywordReturn, pos(2)),
		token.Int(1, pos(3)),
		token.Delim(token.DelimRBrace, pos(4)),
	}
	next, s, err := statementParser()(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	block, ok := s.(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, block.Statements, 1)
}

func TestOnFailPromotesReturnOk(t *testing.T) {
	toks := []token.Token{
		token.Ident("risky", pos(1)),
		token.Delim(token.DelimLParen, pos(2)),
		token.Delim(token.DelimRParen, pos(3)),
		token.KW(token.KeywordOnFail, pos(4)),
		token.Delim(token.DelimLParen, pos(5)),
		token.Ident("e", pos(6)),
		token.Delim(token.DelimRParen, pos(7)),
		token.Delim(token.DelimLBrace, pos(8)),
		token.KW(token.KeywordReturn, pos(9)),
		token.KW(token.KeywordOk, pos(10)),
		token.Delim(token.DelimLParen, pos(11)),
		token.Int(0, pos(12)),
		token.Delim(token.DelimRParen, pos(13)),
		token.Delim(token.DelimRBrace, pos(14)),
	}
	next, s, err := statementParser()(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	with, ok := s.(*ast.WithErrorStmt)
	require.True(t, ok)
	require.NotNil(t, with.Handler.ErrorBinding)
	require.Equal(t, "e", *with.Handler.ErrorBinding)
	require.Empty(t, with.Handler.Statements)
	require.NotNil(t, with.Handler.Control)
	require.Equal(t, ast.OnFailReturnOk, with.Handler.Control.Kind)
}

func TestOnFailReThrow(t *testing.T) {
	toks := []token.Token{
		token.Ident("risky", pos(1)),
		token.Delim(token.DelimLParen, pos(2)),
		token.Delim(token.DelimRParen, pos(3)),
		token.KW(token.KeywordOnFail, pos(4)),
		token.Delim(token.DelimLBrace, pos(5)),
		token.KW(token.KeywordReThrow, pos(6)),
		token.Delim(token.DelimRBrace, pos(7)),
	}
	next, s, err := statementParser()(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	with, ok := s.(*ast.WithErrorStmt)
	require.True(t, ok)
	require.Nil(t, with.Handler.ErrorBinding)
	require.NotNil(t, with.Handler.Control)
	require.Equal(t, ast.OnFailRethrow, with.Handler.Control.Kind)
}
