package parser

import (
	"github.com/kairei-dsl/kairei/internal/ast"
	ck "github.com/kairei-dsl/kairei/internal/combinator"
	"github.com/kairei-dsl/kairei/internal/token"
)

// typeExpr is the full `type` production (spec §6.3):
//
//	type ::= 'Result' '<' type ',' type '>'
//	      | 'Option{' type '}' | 'Array{' type '}'
//	      | custom_type | IDENT
func typeExpr(tokens []token.Token, pos int) (int, ast.TypeInfo, *ck.ParseError) {
	p := ck.WithContext(ck.Choice(resultType(), optionType(), arrayType(), customOrSimpleType()), "type")
	return p(tokens, pos)
}

func typeExprParser() ck.Parser[ast.TypeInfo] {
	return typeExpr
}

func resultType() ck.Parser[ast.TypeInfo] {
	return ck.Map(
		ck.Tuple6(
			resultKeyword(),
			delimTok(token.DelimLAngle),
			ck.Lazy(func() ck.Parser[ast.TypeInfo] { return typeExpr }),
			delimTok(token.DelimComma),
			ck.Lazy(func() ck.Parser[ast.TypeInfo] { return typeExpr }),
			delimTok(token.DelimRAngle),
		),
		func(r ck.Pair6[token.Token, token.Token, ast.TypeInfo, token.Token, ast.TypeInfo, token.Token]) ast.TypeInfo {
			return &ast.ResultTypeInfo{Token: r.First, Ok: r.Third, Err: r.Fifth}
		},
	)
}

// resultKeyword matches the identifier "Result" (it is not in the reserved
// keyword table — spec §4.2 — so it is recognized by name like any other
// type identifier, disambiguated by the following '<').
func resultKeyword() ck.Parser[token.Token] {
	return ck.Satisfy(func(t token.Token) (token.Token, bool) {
		if t.Kind == token.Identifier && t.Ident == "Result" {
			return t, true
		}
		return token.Token{}, false
	}, "Result")
}

func optionKeyword() ck.Parser[token.Token] {
	return identNamed("Option")
}

func arrayKeyword() ck.Parser[token.Token] {
	return identNamed("Array")
}

func identNamed(name string) ck.Parser[token.Token] {
	return ck.Satisfy(func(t token.Token) (token.Token, bool) {
		if t.Kind == token.Identifier && t.Ident == name {
			return t, true
		}
		return token.Token{}, false
	}, name)
}

func optionType() ck.Parser[ast.TypeInfo] {
	return ck.Map(
		ck.Tuple2(optionKeyword(), ck.Delimited(delimTok(token.DelimLBrace), ck.Lazy(func() ck.Parser[ast.TypeInfo] { return typeExpr }), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, ast.TypeInfo]) ast.TypeInfo {
			return &ast.OptionTypeInfo{Token: r.First, Inner: r.Second}
		},
	)
}

func arrayType() ck.Parser[ast.TypeInfo] {
	return ck.Map(
		ck.Tuple2(arrayKeyword(), ck.Delimited(delimTok(token.DelimLBrace), ck.Lazy(func() ck.Parser[ast.TypeInfo] { return typeExpr }), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, ast.TypeInfo]) ast.TypeInfo {
			return &ast.ArrayTypeInfo{Token: r.First, Inner: r.Second}
		},
	)
}

// customField parses `ident : TypeRef`, `ident : TypeRef = default`, or
// `ident = default` (spec §4.2 "Types"). At least one of type/default must
// be present; customField rejects the all-absent shape as Fatal since the
// field keyword was already committed to. customOrSimpleType does not
// propagate that error: it falls back to a simple type name instead.
func customField() ck.Parser[ck.Pair2[string, *ast.FieldInfo]] {
	return func(tokens []token.Token, pos int) (int, ck.Pair2[string, *ast.FieldInfo], *ck.ParseError) {
		var zero ck.Pair2[string, *ast.FieldInfo]
		next, nameTok, err := identifierTok()(tokens, pos)
		if err != nil {
			return next, zero, err
		}

		fi := &ast.FieldInfo{}
		cur := next

		if afterColon, _, colonErr := operatorTok(token.OpColon)(tokens, cur); colonErr == nil {
			afterType, t, typeErr := typeExprParser()(tokens, afterColon)
			if typeErr != nil {
				return afterType, zero, ck.Fatalize(typeErr)
			}
			fi.Type = t
			cur = afterType
		}

		if afterAssign, _, assignErr := operatorTok(token.OpAssign)(tokens, cur); assignErr == nil {
			afterExpr, e, exprErr := expressionParser()(tokens, afterAssign)
			if exprErr != nil {
				return afterExpr, zero, ck.Fatalize(exprErr)
			}
			fi.Default = e
			cur = afterExpr
		}

		if fi.Type == nil && fi.Default == nil {
			return cur, zero, ck.Fatalize(&ck.ParseError{Message: "field '" + nameTok.Name + "' needs a type, a default value, or both", Position: nameTok.Tok.Pos})
		}

		return cur, ck.Pair2[string, *ast.FieldInfo]{First: nameTok.Name, Second: fi}, nil
	}
}

func customOrSimpleType() ck.Parser[ast.TypeInfo] {
	return func(tokens []token.Token, pos int) (int, ast.TypeInfo, *ck.ParseError) {
		afterName, nameTok, err := identifierTok()(tokens, pos)
		if err != nil {
			var zero ast.TypeInfo
			return afterName, zero, err
		}

		// Custom type: `Name { field, field, ... }`
		fieldsParser := ck.SeparatedList(customField(), delimTok(token.DelimComma))
		fullParser := ck.Delimited(delimTok(token.DelimLBrace), fieldsParser, delimTok(token.DelimRBrace))
		if afterFields, fields, fieldsErr := fullParser(tokens, afterName); fieldsErr == nil {
			ct := &ast.CustomTypeInfo{Token: nameTok.Tok, Name: nameTok.Name, Fields: map[string]*ast.FieldInfo{}}
			for _, f := range fields {
				ct.Fields[f.First] = f.Second
				ct.Order = append(ct.Order, f.First)
			}
			return afterFields, ct, nil
		}

		return afterName, &ast.SimpleTypeInfo{Token: nameTok.Tok, Name: nameTok.Name}, nil
	}
}
