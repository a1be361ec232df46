package parser

import (
	"github.com/kairei-dsl/kairei/internal/ast"
	ck "github.com/kairei-dsl/kairei/internal/combinator"
	"github.com/kairei-dsl/kairei/internal/token"
)

func stringLiteralValue() ck.Parser[string] {
	return ck.Satisfy(func(t token.Token) (string, bool) {
		if t.Kind == token.LiteralTok && t.Literal.Kind == token.LiteralString &&
			len(t.Literal.String) == 1 && t.Literal.String[0].Kind == token.StringPartLiteral {
			return t.Literal.String[0].Text, true
		}
		return "", false
	}, "string literal")
}

// policyParser parses `policy STRING` (spec §6.3).
func policyParser() ck.Parser[string] {
	return ck.Map(ck.Tuple2(keywordTok(token.KeywordPolicy), stringLiteralValue()), func(r ck.Pair2[token.Token, string]) string { return r.Second })
}

type configEntry struct {
	Key   string
	Value ast.Expression
}

func configEntryParser() ck.Parser[configEntry] {
	return ck.Map(
		ck.Tuple3(identifierTok(), operatorTok(token.OpColon), exprLazy()),
		func(r ck.Pair3[identResult, token.Token, ast.Expression]) configEntry { return configEntry{Key: r.First.Name, Value: r.Third} },
	)
}

func configDefParser() ck.Parser[*ast.ConfigDef] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordConfig), ck.Delimited(delimTok(token.DelimLBrace), ck.Optional(ck.SeparatedList(configEntryParser(), delimTok(token.DelimComma))), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, *[]configEntry]) *ast.ConfigDef {
			cd := &ast.ConfigDef{Token: r.First, Entries: map[string]ast.Expression{}}
			if r.Second != nil {
				for _, e := range *r.Second {
					cd.Entries[e.Key] = e.Value
					cd.Order = append(cd.Order, e.Key)
				}
			}
			return cd
		},
	)
}

func eventDeclParser() ck.Parser[*ast.EventDecl] {
	return func(tokens []token.Token, pos int) (int, *ast.EventDecl, *ck.ParseError) {
		afterName, nameTok, err := identifierTok()(tokens, pos)
		if err != nil {
			return afterName, nil, err
		}
		cur := afterName
		var params []*ast.Parameter
		if afterParams, p, perr := paramListParser()(tokens, cur); perr == nil {
			params = p
			cur = afterParams
		}
		if afterSep, _, serr := delimTok(token.DelimComma)(tokens, cur); serr == nil {
			cur = afterSep
		} else if afterSep, _, serr := delimTok(token.DelimSemicolon)(tokens, cur); serr == nil {
			cur = afterSep
		}
		return cur, &ast.EventDecl{Token: nameTok.Tok, Name: nameTok.Name, Parameters: params}, nil
	}
}

func eventsBlockParser() ck.Parser[*ast.EventsDef] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordEvents), ck.Delimited(delimTok(token.DelimLBrace), ck.Many(eventDeclParser()), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, []*ast.EventDecl]) *ast.EventsDef { return &ast.EventsDef{Token: r.First, Events: r.Second} },
	)
}

func handlersBlockParser() ck.Parser[*ast.HandlersDef] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordHandlers), ck.Delimited(delimTok(token.DelimLBrace), ck.Many(eventHandlerParser()), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, []*ast.EventHandler]) *ast.HandlersDef { return &ast.HandlersDef{Token: r.First, Handlers: r.Second} },
	)
}

func observeDefParser() ck.Parser[*ast.ObserveDef] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordObserve), ck.Delimited(delimTok(token.DelimLBrace), ck.Many(eventHandlerParser()), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, []*ast.EventHandler]) *ast.ObserveDef { return &ast.ObserveDef{Token: r.First, Handlers: r.Second} },
	)
}

func reactDefParser() ck.Parser[*ast.ReactDef] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordReact), ck.Delimited(delimTok(token.DelimLBrace), ck.Many(eventHandlerParser()), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, []*ast.EventHandler]) *ast.ReactDef { return &ast.ReactDef{Token: r.First, Handlers: r.Second} },
	)
}

func answerDefParser() ck.Parser[*ast.AnswerDef] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordAnswer), ck.Delimited(delimTok(token.DelimLBrace), ck.Many(requestHandlerParser()), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, []*ast.RequestHandler]) *ast.AnswerDef { return &ast.AnswerDef{Token: r.First, Handlers: r.Second} },
	)
}

func lifecycleDefParser() ck.Parser[*ast.LifecycleDef] {
	type lcItem struct {
		IsInit bool
		Block  *ast.HandlerBlock
	}
	onInitItem := ck.Map(ck.Tuple2(keywordTok(token.KeywordOnInit), handlerBlockParser()), func(r ck.Pair2[token.Token, *ast.HandlerBlock]) lcItem {
		return lcItem{IsInit: true, Block: r.Second}
	})
	onDestroyItem := ck.Map(ck.Tuple2(keywordTok(token.KeywordOnDestroy), handlerBlockParser()), func(r ck.Pair2[token.Token, *ast.HandlerBlock]) lcItem {
		return lcItem{IsInit: false, Block: r.Second}
	})
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordLifecycle), ck.Delimited(delimTok(token.DelimLBrace), ck.Many(ck.Choice(onInitItem, onDestroyItem)), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, []lcItem]) *ast.LifecycleDef {
			ld := &ast.LifecycleDef{Token: r.First}
			for _, it := range r.Second {
				if it.IsInit {
					ld.OnInit = it.Block
				} else {
					ld.OnDestroy = it.Block
				}
			}
			return ld
		},
	)
}

// stateVarEntry parses `IDENT ':' type ('=' expr)? ';'` (spec §6.3 "state").
func stateVarEntry() ck.Parser[*ast.StateVarDef] {
	return func(tokens []token.Token, pos int) (int, *ast.StateVarDef, *ck.ParseError) {
		afterName, nameTok, err := identifierTok()(tokens, pos)
		if err != nil {
			return afterName, nil, err
		}
		afterColon, _, cerr := operatorTok(token.OpColon)(tokens, afterName)
		if cerr != nil {
			return afterColon, nil, cerr
		}
		afterType, t, terr := typeExprParser()(tokens, afterColon)
		if terr != nil {
			return afterType, nil, ck.Fatalize(terr)
		}
		cur := afterType
		var initVal ast.Expression
		if afterEq, _, eerr := operatorTok(token.OpAssign)(tokens, cur); eerr == nil {
			afterVal, v, verr := expressionParser()(tokens, afterEq)
			if verr != nil {
				return afterVal, nil, ck.Fatalize(verr)
			}
			initVal = v
			cur = afterVal
		}
		afterSemi, _, serr := delimTok(token.DelimSemicolon)(tokens, cur)
		if serr != nil {
			return afterSemi, nil, ck.Fatalize(serr)
		}
		return afterSemi, &ast.StateVarDef{Token: nameTok.Tok, Name: nameTok.Name, Type: t, InitialValue: initVal}, nil
	}
}

func stateDefParser() ck.Parser[*ast.StateDef] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordState), ck.Delimited(delimTok(token.DelimLBrace), ck.Many(stateVarEntry()), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, []*ast.StateVarDef]) *ast.StateDef {
			sd := &ast.StateDef{Token: r.First, Vars: map[string]*ast.StateVarDef{}}
			for _, v := range r.Second {
				sd.Vars[v.Name] = v
				sd.Order = append(sd.Order, v.Name)
			}
			return sd
		},
	)
}

// sistenceConfigParser parses `sistence_config { level: f, initiative_threshold: f,
// domains: [..], ... }` (spec §3.2 "SistenceConfig"). `sistence_config` is not a
// reserved keyword (spec §4.2's table omits it) so it is matched by name.
func sistenceConfigParser() ck.Parser[*ast.SistenceConfig] {
	return ck.WithContext(
		ck.Map(
			ck.Tuple2(identNamed("sistence_config"), ck.Delimited(delimTok(token.DelimLBrace), ck.Optional(ck.SeparatedList(attrEntryParser(), delimTok(token.DelimComma))), delimTok(token.DelimRBrace))),
			func(r ck.Pair2[token.Token, *[]attrEntry]) *ast.SistenceConfig {
				sc := &ast.SistenceConfig{Token: r.First, Parameters: map[string]ast.Literal{}}
				if r.Second == nil {
					return sc
				}
				for _, e := range *r.Second {
					switch e.Key {
					case "level":
						if f, ok := asFloat(e.Value); ok {
							sc.Level = f
						}
					case "initiative_threshold":
						if f, ok := asFloat(e.Value); ok {
							sc.InitiativeThreshold = f
						}
					case "domains":
						if l, ok := e.Value.(*ast.ListLiteral); ok {
							for _, item := range l.Items {
								if s, ok := item.(*ast.StringLiteral); ok {
									sc.Domains = append(sc.Domains, s.Value)
								}
							}
						}
					default:
						sc.Parameters[e.Key] = e.Value
					}
				}
				return sc
			},
		),
		"sistence_config block",
	)
}

// agentBody is the shared reduction target for micro and sistence agent item
// lists (spec §4.2 "Agent parsing": "a tagged-variant accumulator").
type agentBody struct {
	Policies       []string
	Lifecycle      *ast.LifecycleDef
	State          *ast.StateDef
	Observe        *ast.ObserveDef
	Answer         *ast.AnswerDef
	React          *ast.ReactDef
	SistenceConfig *ast.SistenceConfig
}

type agentItem struct {
	Policy         *string
	Lifecycle      *ast.LifecycleDef
	State          *ast.StateDef
	Observe        *ast.ObserveDef
	Answer         *ast.AnswerDef
	React          *ast.ReactDef
	SistenceConfig *ast.SistenceConfig
}

func agentItemParser(withSistence bool) ck.Parser[agentItem] {
	policyItem := ck.Map(policyParser(), func(s string) agentItem { return agentItem{Policy: &s} })
	lifecycleItem := ck.Map(lifecycleDefParser(), func(l *ast.LifecycleDef) agentItem { return agentItem{Lifecycle: l} })
	stateItem := ck.Map(stateDefParser(), func(s *ast.StateDef) agentItem { return agentItem{State: s} })
	observeItem := ck.Map(observeDefParser(), func(o *ast.ObserveDef) agentItem { return agentItem{Observe: o} })
	answerItem := ck.Map(answerDefParser(), func(a *ast.AnswerDef) agentItem { return agentItem{Answer: a} })
	reactItem := ck.Map(reactDefParser(), func(r *ast.ReactDef) agentItem { return agentItem{React: r} })
	if !withSistence {
		return ck.Choice(policyItem, lifecycleItem, stateItem, observeItem, answerItem, reactItem)
	}
	sistenceItem := ck.Map(sistenceConfigParser(), func(s *ast.SistenceConfig) agentItem { return agentItem{SistenceConfig: s} })
	return ck.Choice(policyItem, lifecycleItem, stateItem, observeItem, answerItem, reactItem, sistenceItem)
}

func reduceAgentItems(items []agentItem) agentBody {
	var body agentBody
	for _, it := range items {
		switch {
		case it.Policy != nil:
			body.Policies = append(body.Policies, *it.Policy)
		case it.Lifecycle != nil:
			body.Lifecycle = it.Lifecycle
		case it.State != nil:
			body.State = it.State
		case it.Observe != nil:
			body.Observe = it.Observe
		case it.Answer != nil:
			body.Answer = it.Answer
		case it.React != nil:
			body.React = it.React
		case it.SistenceConfig != nil:
			body.SistenceConfig = it.SistenceConfig
		}
	}
	return body
}

// microAgentParser parses `micro IDENT { agent_item* }` (spec §6.3).
func microAgentParser() ck.Parser[*ast.MicroAgentDef] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, *ast.MicroAgentDef, *ck.ParseError) {
		afterKw, kwTok, err := keywordTok(token.KeywordMicro)(tokens, pos)
		if err != nil {
			return afterKw, nil, err
		}
		afterName, nameTok, nerr := identifierTok()(tokens, afterKw)
		if nerr != nil {
			return afterName, nil, ck.Fatalize(nerr)
		}
		afterBody, items, berr := ck.Delimited(delimTok(token.DelimLBrace), ck.Many(agentItemParser(false)), delimTok(token.DelimRBrace))(tokens, afterName)
		if berr != nil {
			return afterBody, nil, ck.Fatalize(berr)
		}
		body := reduceAgentItems(items)
		return afterBody, &ast.MicroAgentDef{
			Token: kwTok, Name: nameTok.Name, Policies: body.Policies,
			Lifecycle: body.Lifecycle, State: body.State, Observe: body.Observe,
			Answer: body.Answer, React: body.React,
		}, nil
	}, "micro agent")
}

// sistenceAgentParser parses `sistence IDENT { agent_item* }` (spec §6.3).
func sistenceAgentParser() ck.Parser[*ast.SistenceAgentDef] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, *ast.SistenceAgentDef, *ck.ParseError) {
		afterKw, kwTok, err := keywordTok(token.KeywordSistence)(tokens, pos)
		if err != nil {
			return afterKw, nil, err
		}
		afterName, nameTok, nerr := identifierTok()(tokens, afterKw)
		if nerr != nil {
			return afterName, nil, ck.Fatalize(nerr)
		}
		afterBody, items, berr := ck.Delimited(delimTok(token.DelimLBrace), ck.Many(agentItemParser(true)), delimTok(token.DelimRBrace))(tokens, afterName)
		if berr != nil {
			return afterBody, nil, ck.Fatalize(berr)
		}
		body := reduceAgentItems(items)
		return afterBody, &ast.SistenceAgentDef{
			Token: kwTok, Name: nameTok.Name, Policies: body.Policies,
			Lifecycle: body.Lifecycle, State: body.State, Observe: body.Observe,
			Answer: body.Answer, React: body.React, SistenceConfig: body.SistenceConfig,
		}, nil
	}, "sistence agent")
}
