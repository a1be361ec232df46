// Package parser is the Grammar Layer (GL): concrete parsers for KAIREI's
// surface syntax, built on top of the Combinator Kernel (spec §4.2). One
// file per grammar concern, mirroring the teacher's layout
// (go-dws internal/parser: expressions.go, control_flow.go, classes.go...).
package parser

import (
	ck "github.com/kairei-dsl/kairei/internal/combinator"
	"github.com/kairei-dsl/kairei/internal/token"
)

type identResult struct {
	Name string
	Tok  token.Token
}

func identifierTok() ck.Parser[identResult] {
	return ck.Satisfy(func(t token.Token) (identResult, bool) {
		if t.Kind == token.Identifier {
			return identResult{Name: t.Ident, Tok: t}, true
		}
		return identResult{}, false
	}, "identifier")
}

func keywordTok(k token.Keyword) ck.Parser[token.Token] {
	return ck.Satisfy(func(t token.Token) (token.Token, bool) {
		if t.Kind == token.KeywordTok && t.Keyword == k {
			return t, true
		}
		return token.Token{}, false
	}, k.String())
}

func operatorTok(o token.Operator) ck.Parser[token.Token] {
	return ck.Satisfy(func(t token.Token) (token.Token, bool) {
		if t.Kind == token.OperatorTok && t.Operator == o {
			return t, true
		}
		return token.Token{}, false
	}, o.String())
}

func delimTok(d token.Delimiter) ck.Parser[token.Token] {
	return ck.Satisfy(func(t token.Token) (token.Token, bool) {
		if t.Kind == token.DelimiterTok && t.Delim == d {
			return t, true
		}
		return token.Token{}, false
	}, d.String())
}

func literalTok() ck.Parser[token.Token] {
	return ck.Satisfy(func(t token.Token) (token.Token, bool) {
		if t.Kind == token.LiteralTok {
			return t, true
		}
		return token.Token{}, false
	}, "literal")
}

func peek(tokens []token.Token, pos int) token.Token {
	if pos >= len(tokens) {
		return token.Eof(token.Position{})
	}
	return tokens[pos]
}
