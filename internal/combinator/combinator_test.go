package combinator_test

import (
	"testing"

	ck "github.com/kairei-dsl/kairei/internal/combinator"
	"github.com/kairei-dsl/kairei/internal/token"
	"github.com/stretchr/testify/require"
)

func ints(vs ...int64) []token.Token {
	out := make([]token.Token, len(vs))
	for i, v := range vs {
		out[i] = token.Int(v, token.Position{Line: 1, Column: i + 1})
	}
	return out
}

func intLiteral() ck.Parser[int64] {
	return ck.Satisfy(func(t token.Token) (int64, bool) {
		if t.Kind != token.LiteralTok || t.Literal.Kind != token.LiteralInteger {
			return 0, false
		}
		return t.Literal.Integer, true
	}, "integer")
}

func comma() ck.Parser[token.Token] {
	return ck.Equal(token.Delim(token.DelimComma, token.Position{}))
}

func TestMany(t *testing.T) {
	toks := ints(1, 2, 3)
	next, out, err := ck.Many(intLiteral())(toks, 0)
	require.Nil(t, err)
	require.Equal(t, 3, next)
	require.Equal(t, []int64{1, 2, 3}, out)
}

func TestManyZeroMatches(t *testing.T) {
	toks := []token.Token{token.Str("x", token.Position{})}
	next, out, err := ck.Many(intLiteral())(toks, 0)
	require.Nil(t, err)
	require.Equal(t, 0, next)
	require.Empty(t, out)
}

func TestSeparatedList(t *testing.T) {
	toks := []token.Token{
		token.Int(1, token.Position{}),
		token.Delim(token.DelimComma, token.Position{}),
		token.Int(2, token.Position{}),
		token.Delim(token.DelimComma, token.Position{}),
		token.Int(3, token.Position{}),
	}
	next, out, err := ck.SeparatedList(intLiteral(), comma())(toks, 0)
	require.Nil(t, err)
	require.Equal(t, 5, next)
	require.Equal(t, []int64{1, 2, 3}, out)
}

func TestChoiceFirstSuccessWins(t *testing.T) {
	short := ck.Map(intLiteral(), func(v int64) string { return "short" })
	long := ck.Map(ck.Tuple2(intLiteral(), intLiteral()), func(ck.Pair2[int64, int64]) string { return "long" })

	toks := ints(1, 2)
	next, out, err := ck.Choice(short, long)(toks, 0)
	require.Nil(t, err)
	require.Equal(t, 1, next)
	require.Equal(t, "short", out)
}

func TestChoicePicksLongestErrorWhenAllFail(t *testing.T) {
	// Neither alternative succeeds; Choice reports the error from whichever
	// one consumed the longest prefix before failing (spec §4.1's
	// longest-prefix tie-break among failures).
	requireThreeInts := ck.Tuple3(intLiteral(), intLiteral(), intLiteral())
	requireOneStringThenInt := ck.Tuple2(
		ck.Satisfy(func(t token.Token) (string, bool) {
			if t.Kind == token.LiteralTok && t.Literal.Kind == token.LiteralString {
				return t.Literal.String[0].Text, true
			}
			return "", false
		}, "string"),
		intLiteral(),
	)

	toks := ints(1, 2) // matches 0 for the first alternative, 2 of 3 for the second
	_, _, err := ck.Choice(ck.AsUnit(requireOneStringThenInt), ck.AsUnit(requireThreeInts))(toks, 0)
	require.NotNil(t, err)
	// The second alternative got further, so its missing-third-integer error wins.
	require.Contains(t, err.Message, "expected integer")
}

func TestOptionalNoMatch(t *testing.T) {
	toks := []token.Token{token.Str("x", token.Position{})}
	next, out, err := ck.Optional(intLiteral())(toks, 0)
	require.Nil(t, err)
	require.Equal(t, 0, next)
	require.Nil(t, out)
}

func TestOptionalMatch(t *testing.T) {
	toks := ints(7)
	next, out, err := ck.Optional(intLiteral())(toks, 0)
	require.Nil(t, err)
	require.Equal(t, 1, next)
	require.NotNil(t, out)
	require.Equal(t, int64(7), *out)
}

func TestFatalPropagatesThroughMany(t *testing.T) {
	fatalOnSecond := func(tokens []token.Token, pos int) (int, int64, *ck.ParseError) {
		next, v, err := intLiteral()(tokens, pos)
		if err != nil {
			return next, v, err
		}
		if v == 2 {
			return pos, 0, &ck.ParseError{Kind: ck.Fatal, Message: "boom", Position: tokens[pos].Pos}
		}
		return next, v, nil
	}
	toks := ints(1, 2, 3)
	_, _, err := ck.Many(ck.Parser[int64](fatalOnSecond))(toks, 0)
	require.NotNil(t, err)
	require.Equal(t, ck.Fatal, err.Kind)
}
