package parser

import (
	"github.com/kairei-dsl/kairei/internal/ast"
	ck "github.com/kairei-dsl/kairei/internal/combinator"
	"github.com/kairei-dsl/kairei/internal/token"
)

// eventTypeParser recognizes the closed set of built-in event shapes by
// name, falling back to a custom event reference (spec §3.2 "EventType").
// Tick/StateUpdated/Message are not reserved keywords (spec §4.2's keyword
// table omits them) so they are matched as ordinary identifiers,
// disambiguated by name and by the parenthesized shape that follows.
func eventTypeParser() ck.Parser[ast.EventType] {
	return ck.WithContext(ck.Choice(tickEventType(), stateUpdatedEventType(), messageEventType(), customEventType()), "event type")
}

func tickEventType() ck.Parser[ast.EventType] {
	return ck.Map(identNamed("Tick"), func(token.Token) ast.EventType { return ast.EventType{Kind: ast.EventTick} })
}

func stateUpdatedEventType() ck.Parser[ast.EventType] {
	inner := ck.Delimited(delimTok(token.DelimLParen), ck.Tuple3(identifierTok(), delimTok(token.DelimComma), identifierTok()), delimTok(token.DelimRParen))
	return ck.Map(
		ck.Tuple2(identNamed("StateUpdated"), inner),
		func(r ck.Pair2[token.Token, ck.Pair3[identResult, token.Token, identResult]]) ast.EventType {
			return ast.EventType{Kind: ast.EventStateUpdated, AgentName: r.Second.First.Name, StateName: r.Second.Third.Name}
		},
	)
}

func messageEventType() ck.Parser[ast.EventType] {
	inner := ck.Delimited(delimTok(token.DelimLParen), identifierTok(), delimTok(token.DelimRParen))
	return ck.Map(
		ck.Tuple2(identNamed("Message"), inner),
		func(r ck.Pair2[token.Token, identResult]) ast.EventType { return ast.EventType{Kind: ast.EventMessage, ContentType: r.Second.Name} },
	)
}

func customEventType() ck.Parser[ast.EventType] {
	return ck.Map(identifierTok(), func(id identResult) ast.EventType { return ast.EventType{Kind: ast.EventCustom, Name: id.Name} })
}

// requestTypeParser recognizes `query IDENT`, `action IDENT`, or a bare
// custom request name (spec §3.2 "RequestType"). query/action are reserved
// keywords (spec §4.2), giving this an unambiguous leading token.
func requestTypeParser() ck.Parser[ast.RequestType] {
	query := ck.Map(ck.Tuple2(keywordTok(token.KeywordQuery), identifierTok()), func(r ck.Pair2[token.Token, identResult]) ast.RequestType {
		return ast.RequestType{Kind: ast.RequestQuery, QueryType: r.Second.Name}
	})
	action := ck.Map(ck.Tuple2(keywordTok(token.KeywordAction), identifierTok()), func(r ck.Pair2[token.Token, identResult]) ast.RequestType {
		return ast.RequestType{Kind: ast.RequestAction, ActionType: r.Second.Name}
	})
	custom := ck.Map(identifierTok(), func(id identResult) ast.RequestType { return ast.RequestType{Kind: ast.RequestCustom, Name: id.Name} })
	return ck.WithContext(ck.Choice(query, action, custom), "request type")
}

func paramEntry() ck.Parser[*ast.Parameter] {
	return ck.Map(
		ck.Tuple3(identifierTok(), operatorTok(token.OpColon), typeExprParser()),
		func(r ck.Pair3[identResult, token.Token, ast.TypeInfo]) *ast.Parameter {
			return &ast.Parameter{Token: r.First.Tok, Name: r.First.Name, Type: r.Third}
		},
	)
}

// paramListParser parses `( IDENT ':' type , ... )`, including the empty
// `()` form (spec §6.3).
func paramListParser() ck.Parser[[]*ast.Parameter] {
	return func(tokens []token.Token, pos int) (int, []*ast.Parameter, *ck.ParseError) {
		next, params, err := ck.Delimited(delimTok(token.DelimLParen), ck.Optional(ck.SeparatedList(paramEntry(), delimTok(token.DelimComma))), delimTok(token.DelimRParen))(tokens, pos)
		if err != nil {
			return next, nil, err
		}
		if params == nil {
			return next, nil, nil
		}
		return next, *params, nil
	}
}

func handlerBlockParser() ck.Parser[*ast.HandlerBlock] {
	return ck.Map(
		ck.Tuple3(delimTok(token.DelimLBrace), ck.Many(ck.Lazy(func() ck.Parser[ast.Statement] { return statementParser() })), delimTok(token.DelimRBrace)),
		func(r ck.Pair3[token.Token, []ast.Statement, token.Token]) *ast.HandlerBlock {
			return &ast.HandlerBlock{Token: r.First, Statements: r.Second}
		},
	)
}

func asFloat(l ast.Literal) (float64, bool) {
	switch v := l.(type) {
	case *ast.FloatLiteral:
		return v.Value, true
	case *ast.IntegerLiteral:
		return float64(v.Value), true
	}
	return 0, false
}

func asUint(l ast.Literal) (uint64, bool) {
	if v, ok := l.(*ast.IntegerLiteral); ok && v.Value >= 0 {
		return uint64(v.Value), true
	}
	return 0, false
}

type constraintEntry struct {
	Key   string
	Value ast.Literal
}

func constraintEntryParser() ck.Parser[constraintEntry] {
	return ck.Map(
		ck.Tuple3(identifierTok(), operatorTok(token.OpColon), ck.Lazy(func() ck.Parser[ast.Literal] { return literalValue })),
		func(r ck.Pair3[identResult, token.Token, ast.Literal]) constraintEntry { return constraintEntry{Key: r.First.Name, Value: r.Third} },
	)
}

// constraintsParser parses the optional `with { strictness: .., stability:
// .., latency: .. }` trailer on a request handler (spec §3.2 "Constraints").
func constraintsParser() ck.Parser[*ast.Constraints] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordWith), ck.Delimited(delimTok(token.DelimLBrace), ck.Optional(ck.SeparatedList(constraintEntryParser(), delimTok(token.DelimComma))), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, *[]constraintEntry]) *ast.Constraints {
			c := &ast.Constraints{Token: r.First}
			if r.Second == nil {
				return c
			}
			for _, e := range *r.Second {
				switch e.Key {
				case "strictness":
					if f, ok := asFloat(e.Value); ok {
						c.Strictness = &f
					}
				case "stability":
					if f, ok := asFloat(e.Value); ok {
						c.Stability = &f
					}
				case "latency":
					if u, ok := asUint(e.Value); ok {
						c.Latency = &u
					}
				}
			}
			return c
		},
	)
}

// eventHandlerParser parses `on event_type param_list? block` (spec §6.3
// "handler"), used by observe/react bodies and world-level handlers.
func eventHandlerParser() ck.Parser[*ast.EventHandler] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, *ast.EventHandler, *ck.ParseError) {
		afterOn, onTok, err := keywordTok(token.KeywordOn)(tokens, pos)
		if err != nil {
			return afterOn, nil, err
		}
		afterType, et, typeErr := eventTypeParser()(tokens, afterOn)
		if typeErr != nil {
			return afterType, nil, ck.Fatalize(typeErr)
		}
		cur := afterType
		var params []*ast.Parameter
		if afterParams, p, perr := paramListParser()(tokens, cur); perr == nil {
			params = p
			cur = afterParams
		}
		afterBlock, block, blockErr := handlerBlockParser()(tokens, cur)
		if blockErr != nil {
			return afterBlock, nil, ck.Fatalize(blockErr)
		}
		return afterBlock, &ast.EventHandler{Token: onTok, EventType: et, Parameters: params, Block: block}, nil
	}, "event handler")
}

// requestHandlerParser parses `on request_type ( params ) '->' type
// constraints? block` (spec §6.3 "req_handler").
func requestHandlerParser() ck.Parser[*ast.RequestHandler] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, *ast.RequestHandler, *ck.ParseError) {
		afterOn, onTok, err := keywordTok(token.KeywordOn)(tokens, pos)
		if err != nil {
			return afterOn, nil, err
		}
		afterType, rt, typeErr := requestTypeParser()(tokens, afterOn)
		if typeErr != nil {
			return afterType, nil, ck.Fatalize(typeErr)
		}
		afterParams, params, paramErr := paramListParser()(tokens, afterType)
		if paramErr != nil {
			return afterParams, nil, ck.Fatalize(paramErr)
		}
		afterArrow, _, arrowErr := operatorTok(token.OpArrow)(tokens, afterParams)
		if arrowErr != nil {
			return afterArrow, nil, ck.Fatalize(arrowErr)
		}
		afterReturnType, retType, retErr := typeExprParser()(tokens, afterArrow)
		if retErr != nil {
			return afterReturnType, nil, ck.Fatalize(retErr)
		}
		cur := afterReturnType
		var constraints *ast.Constraints
		if afterConstraints, c, cerr := constraintsParser()(tokens, cur); cerr == nil {
			constraints = c
			cur = afterConstraints
		}
		afterBlock, block, blockErr := handlerBlockParser()(tokens, cur)
		if blockErr != nil {
			return afterBlock, nil, ck.Fatalize(blockErr)
		}
		return afterBlock, &ast.RequestHandler{Token: onTok, RequestType: rt, Parameters: params, ReturnType: retType, Constraints: constraints, Block: block}, nil
	}, "request handler")
}
