package parser

import (
	"github.com/kairei-dsl/kairei/internal/ast"
	ck "github.com/kairei-dsl/kairei/internal/combinator"
	"github.com/kairei-dsl/kairei/internal/token"
)

// durationNanos converts an integer-plus-unit literal to a canonical
// nanosecond count (spec §4.2 "Literals").
func durationNanos(v int64, unit token.DurationUnit) int64 {
	switch unit {
	case token.UnitMilliseconds:
		return v * int64(1e6)
	case token.UnitSeconds:
		return v * int64(1e9)
	case token.UnitMinutes:
		return v * int64(60) * int64(1e9)
	case token.UnitHours:
		return v * int64(3600) * int64(1e9)
	default:
		return v
	}
}

// scalarLiteral parses integer, float, string, boolean, null, and duration
// literals directly from a single token (spec §3.2, §4.2).
func scalarLiteral() ck.Parser[ast.Literal] {
	return ck.WithContext(ck.Satisfy(func(t token.Token) (ast.Literal, bool) {
		if t.Kind != token.LiteralTok {
			return nil, false
		}
		switch t.Literal.Kind {
		case token.LiteralInteger:
			if t.HasUnit {
				return &ast.DurationLiteral{Token: t, Nanoseconds: durationNanos(t.Literal.Integer, t.DurUnit)}, true
			}
			return &ast.IntegerLiteral{Token: t, Value: t.Literal.Integer}, true
		case token.LiteralFloat:
			return &ast.FloatLiteral{Token: t, Value: t.Literal.Float}, true
		case token.LiteralBoolean:
			return &ast.BooleanLiteral{Token: t, Value: t.Literal.Boolean}, true
		case token.LiteralNull:
			return &ast.NullLiteral{Token: t}, true
		case token.LiteralString:
			// The grammar only accepts single-part literal strings
			// (spec §3.1): richer forms fail here.
			if len(t.Literal.String) != 1 || t.Literal.String[0].Kind != token.StringPartLiteral {
				return nil, false
			}
			return &ast.StringLiteral{Token: t, Value: t.Literal.String[0].Text}, true
		default:
			return nil, false
		}
	}, "literal"), "scalar literal")
}

func listLiteral() ck.Parser[ast.Literal] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, ast.Literal, *ck.ParseError) {
		open := delimTok(token.DelimLBracket)
		items := ck.Optional(ck.SeparatedList(ck.Lazy(func() ck.Parser[ast.Literal] { return literalValue }), delimTok(token.DelimComma)))
		close_ := delimTok(token.DelimRBracket)
		p := ck.Map(ck.Tuple3(open, items, close_), func(r ck.Pair3[token.Token, *[]ast.Literal, token.Token]) ast.Literal {
			var out []ast.Literal
			if r.Second != nil {
				out = *r.Second
			}
			return &ast.ListLiteral{Token: r.First, Items: out}
		})
		return p(tokens, pos)
	}, "list literal")
}

func mapLiteral() ck.Parser[ast.Literal] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, ast.Literal, *ck.ParseError) {
		entry := ck.Tuple3(identifierTok(), operatorTok(token.OpColon), ck.Lazy(func() ck.Parser[ast.Literal] { return literalValue }))
		open := delimTok(token.DelimLBrace)
		entries := ck.Optional(ck.SeparatedList(entry, delimTok(token.DelimComma)))
		close_ := delimTok(token.DelimRBrace)
		p := ck.Map(ck.Tuple3(open, entries, close_), func(r ck.Pair3[token.Token, *[]ck.Pair3[identResult, token.Token, ast.Literal], token.Token]) ast.Literal {
			m := &ast.MapLiteral{Token: r.First, Entries: map[string]ast.Literal{}}
			if r.Second != nil {
				for _, e := range *r.Second {
					m.Entries[e.First.Name] = e.Third
					m.Order = append(m.Order, e.First.Name)
				}
			}
			return m
		})
		return p(tokens, pos)
	}, "map literal")
}

func retryDelayParser() ck.Parser[ast.RetryDelay] {
	fixed := ck.Map(ck.Tuple2(keywordTok(token.KeywordFixed), ck.Delimited(delimTok(token.DelimLParen), uintLiteral(), delimTok(token.DelimRParen))),
		func(r ck.Pair2[token.Token, uint64]) ast.RetryDelay {
			return ast.RetryDelay{Kind: ast.RetryDelayFixed, FixedMs: r.Second}
		})
	exponential := ck.Map(ck.Tuple2(keywordTok(token.KeywordExponential),
		ck.Delimited(delimTok(token.DelimLParen),
			ck.Tuple3(uintLiteral(), delimTok(token.DelimComma), uintLiteral()),
			delimTok(token.DelimRParen))),
		func(r ck.Pair2[token.Token, ck.Pair3[uint64, token.Token, uint64]]) ast.RetryDelay {
			return ast.RetryDelay{Kind: ast.RetryDelayExponential, InitialMs: r.Second.First, MaxMs: r.Second.Third}
		})
	return ck.WithContext(ck.Choice(fixed, exponential), "retry delay")
}

func uintLiteral() ck.Parser[uint64] {
	return ck.Satisfy(func(t token.Token) (uint64, bool) {
		if t.Kind == token.LiteralTok && t.Literal.Kind == token.LiteralInteger && t.Literal.Integer >= 0 {
			return uint64(t.Literal.Integer), true
		}
		return 0, false
	}, "non-negative integer")
}

// retryLiteral parses `Retry N (Fixed K | Exponential I, M)` (spec §4.2).
func retryLiteral() ck.Parser[ast.Literal] {
	return ck.WithContext(ck.Map(
		ck.Tuple3(keywordTok(token.KeywordRetry), uintLiteral(), retryDelayParser()),
		func(r ck.Pair3[token.Token, uint64, ast.RetryDelay]) ast.Literal {
			return &ast.RetryLiteral{Token: r.First, Config: ast.RetryConfig{MaxAttempts: r.Second, Delay: r.Third}}
		},
	), "retry literal")
}

// literalValue is the full Literal production, including the recursive
// List/Map/Retry forms (spec §3.2).
func literalValue(tokens []token.Token, pos int) (int, ast.Literal, *ck.ParseError) {
	p := ck.Choice(listLiteral(), mapLiteral(), retryLiteral(), scalarLiteral())
	return p(tokens, pos)
}
