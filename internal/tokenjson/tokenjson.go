// Package tokenjson decodes the JSON-encoded token stream the kaireic CLI
// accepts in place of owning a tokenizer (SPEC_FULL.md §9.2): this module's
// contract starts at []token.Token (spec §1 "external collaborators"), so
// the CLI needs *some* textual encoding of that alphabet to read from
// stdin or a file, and JSON is the one every language producing a token
// stream for this tool can emit without a shared wire library.
package tokenjson

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kairei-dsl/kairei/internal/token"
)

var operatorBySymbol = map[string]token.Operator{
	"||": token.OpOr, "&&": token.OpAnd, "==": token.OpEq, "!=": token.OpNotEq,
	"<": token.OpLt, "<=": token.OpLtEq, ">": token.OpGt, ">=": token.OpGtEq,
	"+": token.OpPlus, "-": token.OpMinus, "*": token.OpStar, "/": token.OpSlash,
	"!": token.OpNot, "=": token.OpAssign, ":": token.OpColon, "->": token.OpArrow, ".": token.OpDot,
}

var delimBySymbol = map[string]token.Delimiter{
	"(": token.DelimLParen, ")": token.DelimRParen,
	"{": token.DelimLBrace, "}": token.DelimRBrace,
	"[": token.DelimLBracket, "]": token.DelimRBracket,
	"<": token.DelimLAngle, ">": token.DelimRAngle,
	",": token.DelimComma, ";": token.DelimSemicolon,
}

type posDTO struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

type literalDTO struct {
	Kind    string  `json:"kind"`
	Integer int64   `json:"integer,omitempty"`
	Float   float64 `json:"float,omitempty"`
	Boolean bool    `json:"boolean,omitempty"`
	String  string  `json:"string,omitempty"`
}

type tokenDTO struct {
	Kind     string      `json:"kind"`
	Pos      posDTO      `json:"pos"`
	Ident    string      `json:"ident,omitempty"`
	Keyword  string      `json:"keyword,omitempty"`
	Operator string      `json:"operator,omitempty"`
	Delim    string      `json:"delim,omitempty"`
	Literal  *literalDTO `json:"literal,omitempty"`
	DurUnit  string      `json:"durUnit,omitempty"`
}

// Decode reads a JSON array of token DTOs from r and converts it into the
// []token.Token the grammar layer consumes.
func Decode(r io.Reader) ([]token.Token, error) {
	var dtos []tokenDTO
	if err := json.NewDecoder(r).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("decoding token stream: %w", err)
	}
	tokens := make([]token.Token, 0, len(dtos))
	for i, d := range dtos {
		t, err := d.toToken()
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

func (d tokenDTO) toToken() (token.Token, error) {
	pos := token.Position{Line: d.Pos.Line, Column: d.Pos.Column, Offset: d.Pos.Offset}
	switch d.Kind {
	case "identifier":
		return token.Ident(d.Ident, pos), nil
	case "keyword":
		kw, ok := token.Keywords[d.Keyword]
		if !ok {
			return token.Token{}, fmt.Errorf("unknown keyword %q", d.Keyword)
		}
		return token.KW(kw, pos), nil
	case "operator":
		op, ok := operatorBySymbol[d.Operator]
		if !ok {
			return token.Token{}, fmt.Errorf("unknown operator %q", d.Operator)
		}
		return token.Op(op, pos), nil
	case "delimiter":
		dl, ok := delimBySymbol[d.Delim]
		if !ok {
			return token.Token{}, fmt.Errorf("unknown delimiter %q", d.Delim)
		}
		return token.Delim(dl, pos), nil
	case "literal":
		return literalToken(d, pos)
	case "eof":
		return token.Eof(pos), nil
	default:
		return token.Token{}, fmt.Errorf("unknown token kind %q", d.Kind)
	}
}

func literalToken(d tokenDTO, pos token.Position) (token.Token, error) {
	if d.Literal == nil {
		return token.Token{}, fmt.Errorf("literal token missing \"literal\" payload")
	}
	l := d.Literal
	switch l.Kind {
	case "integer":
		if d.DurUnit != "" {
			return token.IntWithUnit(l.Integer, token.DurationUnit(d.DurUnit), pos), nil
		}
		return token.Int(l.Integer, pos), nil
	case "float":
		return token.Flt(l.Float, pos), nil
	case "boolean":
		return token.Bool(l.Boolean, pos), nil
	case "null":
		return token.Null(pos), nil
	case "string":
		return token.Str(l.String, pos), nil
	default:
		return token.Token{}, fmt.Errorf("unknown literal kind %q", l.Kind)
	}
}
