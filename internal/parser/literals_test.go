package parser

import (
	"testing"

	"github.com/kairei-dsl/kairei/internal/ast"
	"github.com/kairei-dsl/kairei/internal/token"
	"github.com/stretchr/testify/require"
)

func pos(col int) token.Position { return token.Position{Line: 1, Column: col} }

func TestScalarLiterals(t *testing.T) {
	cases := []struct {
		name string
		tok  token.Token
		want ast.Literal
	}{
		{"integer", token.Int(42, pos(1)), &ast.IntegerLiteral{Value: 42}},
		{"float", token.Flt(3.5, pos(1)), &ast.FloatLiteral{Value: 3.5}},
		{"boolean", token.Bool(true, pos(1)), &ast.BooleanLiteral{Value: true}},
		{"null", token.Null(pos(1)), &ast.NullLiteral{}},
		{"string", token.Str("hi", pos(1)), &ast.StringLiteral{Value: "hi"}},
		{"duration", token.IntWithUnit(30, token.UnitSeconds, pos(1)), &ast.DurationLiteral{Nanoseconds: 30_000_000_000}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			next, got, err := literalValue([]token.Token{c.tok}, 0)
			require.Nil(t, err)
			require.Equal(t, 1, next)
			require.IsType(t, c.want, got)
			switch w := c.want.(type) {
			case *ast.IntegerLiteral:
				require.Equal(t, w.Value, got.(*ast.IntegerLiteral).Value)
			case *ast.FloatLiteral:
				require.Equal(t, w.Value, got.(*ast.FloatLiteral).Value)
			case *ast.BooleanLiteral:
				require.Equal(t, w.Value, got.(*ast.BooleanLiteral).Value)
			case *ast.StringLiteral:
				require.Equal(t, w.Value, got.(*ast.StringLiteral).Value)
			case *ast.DurationLiteral:
				require.Equal(t, w.Nanoseconds, got.(*ast.DurationLiteral).Nanoseconds)
			}
		})
	}
}

func TestListLiteral(t *testing.T) {
	toks := []token.Token{
		token.Delim(token.DelimLBracket, pos(1)),
		token.Int(1, pos(2)),
		token.Delim(token.DelimComma, pos(3)),
		token.Int(2, pos(4)),
		token.Delim(token.DelimRBracket, pos(5)),
	}
	next, got, err := literalValue(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	list, ok := got.(*ast.ListLiteral)
	require.True(t, ok)
	require.Len(t, list.Items, 2)
}

func TestEmptyListLiteral(t *testing.T) {
	toks := []token.Token{
		token.Delim(token.DelimLBracket, pos(1)),
		token.Delim(token.DelimRBracket, pos(2)),
	}
	next, got, err := literalValue(toks, 0)
	require.Nil(t, err)
	require.Equal(t, 2, next)
	list, ok := got.(*ast.ListLiteral)
	require.True(t, ok)
	require.Empty(t, list.Items)
}

func TestMapLiteral(t *testing.T) {
	toks := []token.Token{
		token.Delim(token.DelimLBrace, pos(1)),
		token.Ident("a", pos(2)),
		token.Op(token.OpColon, pos(3)),
		token.Int(1, pos(4)),
		token.Delim(token.DelimComma, pos(5)),
		token.Ident("b", pos(6)),
		token.Op(token.OpColon, pos(7)),
		token.Str("x", pos(8)),
		token.Delim(token.DelimRBrace, pos(9)),
	}
	next, got, err := literalValue(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	m, ok := got.(*ast.MapLiteral)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, m.Order)
	require.Equal(t, int64(1), m.Entries["a"].(*ast.IntegerLiteral).Value)
	require.Equal(t, "x", m.Entries["b"].(*ast.StringLiteral).Value)
}

func TestRetryLiteralFixed(t *testing.T) {
	toks := []token.Token{
		token.KW(token.KeywordRetry, pos(1)),
		token.Int(3, pos(2)),
		token.KW(token.KeywordFixed, pos(3)),
		token.Delim(token.DelimLParen, pos(4)),
		token.Int(500, pos(5)),
		token.Delim(token.DelimRParen, pos(6)),
	}
	next, got, err := literalValue(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	retry, ok := got.(*ast.RetryLiteral)
	require.True(t, ok)
	require.Equal(t, uint64(3), retry.Config.MaxAttempts)
	require.Equal(t, ast.RetryDelayFixed, retry.Config.Delay.Kind)
	require.Equal(t, uint64(500), retry.Config.Delay.FixedMs)
}

func TestRetryLiteralExponential(t *testing.T) {
	toks := []token.Token{
		token.KW(token.KeywordRetry, pos(1)),
		token.Int(5, pos(2)),
		token.KW(token.KeywordExponential, pos(3)),
		token.Delim(token.DelimLParen, pos(4)),
		token.Int(100, pos(5)),
		token.Delim(token.DelimComma, pos(6)),
		token.Int(2000, pos(7)),
		token.Delim(token.DelimRParen, pos(8)),
	}
	next, got, err := literalValue(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	retry, ok := got.(*ast.RetryLiteral)
	require.True(t, ok)
	require.Equal(t, ast.RetryDelayExponential, retry.Config.Delay.Kind)
	require.Equal(t, uint64(100), retry.Config.Delay.InitialMs)
	require.Equal(t, uint64(2000), retry.Config.Delay.MaxMs)
}
