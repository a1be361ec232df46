package parser

import (
	"testing"

	"github.com/kairei-dsl/kairei/internal/ast"
	"github.com/kairei-dsl/kairei/internal/token"
	"github.com/stretchr/testify/require"
)

func TestSimpleType(t *testing.T) {
	toks := []token.Token{token.Ident("Int", pos(1))}
	next, got, err := typeExpr(toks, 0)
	require.Nil(t, err)
	require.Equal(t, 1, next)
	simple, ok := got.(*ast.SimpleTypeInfo)
	require.True(t, ok)
	require.Equal(t, "Int", simple.Name)
}

func TestOptionType(t *testing.T) {
	toks := []token.Token{
		token.Ident("Option", pos(1)),
		token.Delim(token.DelimLBrace, pos(2)),
		token.Ident("String", pos(3)),
		token.Delim(token.DelimRBrace, pos(4)),
	}
	next, got, err := typeExpr(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	opt, ok := got.(*ast.OptionTypeInfo)
	require.True(t, ok)
	require.Equal(t, "String", opt.Inner.(*ast.SimpleTypeInfo).Name)
}

func TestArrayType(t *testing.T) {
	toks := []token.Token{
		token.Ident("Array", pos(1)),
		token.Delim(token.DelimLBrace, pos(2)),
		token.Ident("Int", pos(3)),
		token.Delim(token.DelimRBrace, pos(4)),
	}
	next, got, err := typeExpr(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	arr, ok := got.(*ast.ArrayTypeInfo)
	require.True(t, ok)
	require.Equal(t, "Int", arr.Inner.(*ast.SimpleTypeInfo).Name)
}

func TestResultType(t *testing.T) {
	toks := []token.Token{
		token.Ident("Result", pos(1)),
		token.Delim(token.DelimLAngle, pos(2)),
		token.Ident("String", pos(3)),
		token.Delim(token.DelimComma, pos(4)),
		token.Ident("Error", pos(5)),
		token.Delim(token.DelimRAngle, pos(6)),
	}
	next, got, err := typeExpr(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	res, ok := got.(*ast.ResultTypeInfo)
	require.True(t, ok)
	require.Equal(t, "String", res.Ok.(*ast.SimpleTypeInfo).Name)
	require.Equal(t, "Error", res.Err.(*ast.SimpleTypeInfo).Name)
}

func TestNestedArrayOfOption(t *testing.T) {
	toks := []token.Token{
		token.Ident("Array", pos(1)),
		token.Delim(token.DelimLBrace, pos(2)),
		token.Ident("Option", pos(3)),
		token.Delim(token.DelimLBrace, pos(4)),
		token.Ident("Int", pos(5)),
		token.Delim(token.DelimRBrace, pos(6)),
		token.Delim(token.DelimRBrace, pos(7)),
	}
	next, got, err := typeExpr(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	arr, ok := got.(*ast.ArrayTypeInfo)
	require.True(t, ok)
	opt, ok := arr.Inner.(*ast.OptionTypeInfo)
	require.True(t, ok)
	require.Equal(t, "Int", opt.Inner.(*ast.SimpleTypeInfo).Name)
}

func TestCustomTypeWithFields(t *testing.T) {
	toks := []token.Token{
		token.Ident("Point", pos(1)),
		token.Delim(token.DelimLBrace, pos(2)),
		token.Ident("x", pos(3)),
		token.Op(token.OpColon, pos(4)),
		token.Ident("Int", pos(5)),
		token.Delim(token.DelimComma, pos(6)),
		token.Ident("y", pos(7)),
		token.Op(token.OpColon, pos(8)),
		token.Ident("Int", pos(9)),
		token.Delim(token.DelimRBrace, pos(10)),
	}
	next, got, err := typeExpr(toks, 0)
	require.Nil(t, err)
	require.Equal(t, len(toks), next)
	ct, ok := got.(*ast.CustomTypeInfo)
	require.True(t, ok)
	require.Equal(t, "Point", ct.Name)
	require.Equal(t, []string{"x", "y"}, ct.Order)
	require.Equal(t, "Int", ct.Fields["x"].Type.(*ast.SimpleTypeInfo).Name)
}

func TestCustomFieldRequiresTypeOrDefault(t *testing.T) {
	toks := []token.Token{
		token.Ident("Broken", pos(1)),
		token.Delim(token.DelimLBrace, pos(2)),
		token.Ident("x", pos(3)),
		token.Delim(token.DelimRBrace, pos(4)),
	}
	next, got, err := typeExpr(toks, 0)
	// customOrSimpleType swallows the inner Fatal error from its fields
	// attempt and falls back to parsing just "Broken" as a simple type name.
	require.Nil(t, err)
	require.Equal(t, 1, next)
	simple, ok := got.(*ast.SimpleTypeInfo)
	require.True(t, ok)
	require.Equal(t, "Broken", simple.Name)
}
