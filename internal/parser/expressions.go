package parser

import (
	"github.com/kairei-dsl/kairei/internal/ast"
	ck "github.com/kairei-dsl/kairei/internal/combinator"
	"github.com/kairei-dsl/kairei/internal/token"
)

// expressionParser is the top-level Expression entry point: the `||` level
// (spec §4.2 "Expression precedence").
func expressionParser() ck.Parser[ast.Expression] {
	return orExpr
}

type opResult struct {
	Label string
	Tok   token.Token
}

func opChoice(m map[token.Operator]string) ck.Parser[opResult] {
	parsers := make([]ck.Parser[opResult], 0, len(m))
	for op, label := range m {
		o, l := op, label
		parsers = append(parsers, ck.Map(operatorTok(o), func(t token.Token) opResult { return opResult{Label: l, Tok: t} }))
	}
	return ck.Choice(parsers...)
}

// leftAssoc folds repeated `next (op next)*` into a left-leaning BinaryOp
// chain (spec §8 property 3).
func leftAssoc(next ck.Parser[ast.Expression], ops map[token.Operator]string) ck.Parser[ast.Expression] {
	opP := opChoice(ops)
	return func(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
		cur, left, err := next(tokens, pos)
		if err != nil {
			return cur, nil, err
		}
		for {
			afterOp, op, opErr := opP(tokens, cur)
			if opErr != nil {
				break
			}
			afterRight, right, rErr := next(tokens, afterOp)
			if rErr != nil {
				if rErr.Kind == ck.Fatal {
					return afterRight, nil, rErr
				}
				break
			}
			left = &ast.BinaryOpExpr{Token: op.Tok, Op: op.Label, Left: left, Right: right}
			cur = afterRight
		}
		return cur, left, nil
	}
}

var orOps = map[token.Operator]string{token.OpOr: "Or"}
var andOps = map[token.Operator]string{token.OpAnd: "And"}
var comparisonOps = map[token.Operator]string{
	token.OpEq: "Equal", token.OpNotEq: "NotEqual",
	token.OpLt: "LessThan", token.OpLtEq: "LessThanOrEqual",
	token.OpGt: "GreaterThan", token.OpGtEq: "GreaterThanOrEqual",
}
var additiveOps = map[token.Operator]string{token.OpPlus: "Add", token.OpMinus: "Subtract"}
var multiplicativeOps = map[token.Operator]string{token.OpStar: "Multiply", token.OpSlash: "Divide"}

func orExpr(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
	return leftAssoc(andExpr, orOps)(tokens, pos)
}

func andExpr(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
	return leftAssoc(comparisonExpr, andOps)(tokens, pos)
}

// comparisonExpr is non-chainable: at most one comparison operator per level
// (spec §4.2).
func comparisonExpr(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
	cur, left, err := additiveExpr(tokens, pos)
	if err != nil {
		return cur, nil, err
	}
	afterOp, op, opErr := opChoice(comparisonOps)(tokens, cur)
	if opErr != nil {
		return cur, left, nil
	}
	afterRight, right, rErr := additiveExpr(tokens, afterOp)
	if rErr != nil {
		if rErr.Kind == ck.Fatal {
			return afterRight, nil, rErr
		}
		return cur, left, nil
	}
	return afterRight, &ast.BinaryOpExpr{Token: op.Tok, Op: op.Label, Left: left, Right: right}, nil
}

func additiveExpr(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
	return leftAssoc(multiplicativeExpr, additiveOps)(tokens, pos)
}

func multiplicativeExpr(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
	return leftAssoc(unaryExpr, multiplicativeOps)(tokens, pos)
}

// unaryExpr encodes `!x`/`-x` as a sentinel BinaryOp (spec §4.2, §9): the
// canonical representation the source repo's downstream consumers expect.
func unaryExpr(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
	if afterOp, opTok, err := operatorTok(token.OpNot)(tokens, pos); err == nil {
		afterOperand, operand, operr := unaryExpr(tokens, afterOp)
		if operr != nil {
			return afterOperand, nil, ck.Fatalize(operr)
		}
		return afterOperand, unarySentinel(opTok, "NotEqual", "OPERATOR_NOT", operand), nil
	}
	if afterOp, opTok, err := operatorTok(token.OpMinus)(tokens, pos); err == nil {
		afterOperand, operand, operr := unaryExpr(tokens, afterOp)
		if operr != nil {
			return afterOperand, nil, ck.Fatalize(operr)
		}
		return afterOperand, unarySentinel(opTok, "Subtract", "OPERATOR_MINUS", operand), nil
	}
	return primaryExpr(tokens, pos)
}

func unarySentinel(opTok token.Token, opLabel, sentinelText string, operand ast.Expression) ast.Expression {
	sentinel := &ast.LiteralExpr{Token: opTok, Value: &ast.StringLiteral{Token: opTok, Value: sentinelText}}
	return &ast.BinaryOpExpr{Token: opTok, Op: opLabel, Left: operand, Right: sentinel}
}

// primaryExpr covers literals, variables, function calls, Ok/Err, think,
// request, await, will, dotted state-access, and parenthesized expressions
// (spec §4.2).
func primaryExpr(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
	p := ck.Choice(
		parenExpr(),
		literalExpr(),
		okExpr(),
		errExpr(),
		thinkExpr(),
		requestExpr(),
		awaitExpr(),
		willExpr(),
		identifierPrimary(),
	)
	return p(tokens, pos)
}

func parenExpr() ck.Parser[ast.Expression] {
	return ck.Delimited(delimTok(token.DelimLParen), ck.Lazy(func() ck.Parser[ast.Expression] { return expressionParser() }), delimTok(token.DelimRParen))
}

func literalExpr() ck.Parser[ast.Expression] {
	return ck.Map(ck.Lazy(func() ck.Parser[ast.Literal] { return literalValue }), func(l ast.Literal) ast.Expression {
		return &ast.LiteralExpr{Token: token.Token{Pos: l.Pos()}, Value: l}
	})
}

func okExpr() ck.Parser[ast.Expression] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordOk), ck.Delimited(delimTok(token.DelimLParen), ck.Lazy(func() ck.Parser[ast.Expression] { return expressionParser() }), delimTok(token.DelimRParen))),
		func(r ck.Pair2[token.Token, ast.Expression]) ast.Expression { return &ast.OkExpr{Token: r.First, Value: r.Second} },
	)
}

func errExpr() ck.Parser[ast.Expression] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordErr), ck.Delimited(delimTok(token.DelimLParen), ck.Lazy(func() ck.Parser[ast.Expression] { return expressionParser() }), delimTok(token.DelimRParen))),
		func(r ck.Pair2[token.Token, ast.Expression]) ast.Expression { return &ast.ErrExpr{Token: r.First, Value: r.Second} },
	)
}

// argument parses one call argument: `name: expr` (named) or a bare
// expression (positional) — spec §4.2 "Think/Will/Request arguments".
func argument() ck.Parser[ast.Argument] {
	named := ck.Map(
		ck.Tuple3(identifierTok(), operatorTok(token.OpColon), ck.Lazy(func() ck.Parser[ast.Expression] { return expressionParser() })),
		func(r ck.Pair3[identResult, token.Token, ast.Expression]) ast.Argument {
			return &ast.NamedArgument{Token: r.First.Tok, Name: r.First.Name, Arg: r.Third}
		},
	)
	positional := ck.Map(ck.Lazy(func() ck.Parser[ast.Expression] { return expressionParser() }), func(e ast.Expression) ast.Argument {
		return &ast.PositionalArgument{Arg: e}
	})
	return ck.Choice(named, positional)
}

func argumentList() ck.Parser[[]ast.Argument] {
	return func(tokens []token.Token, pos int) (int, []ast.Argument, *ck.ParseError) {
		next, res, err := ck.Optional(ck.SeparatedList(argument(), delimTok(token.DelimComma)))(tokens, pos)
		if err != nil {
			return next, nil, err
		}
		if res == nil {
			return next, nil, nil
		}
		return next, *res, nil
	}
}

type attrEntry struct {
	Key   string
	Value ast.Literal
}

func attrEntryParser() ck.Parser[attrEntry] {
	return ck.Map(
		ck.Tuple3(identifierTok(), operatorTok(token.OpColon), ck.Lazy(func() ck.Parser[ast.Literal] { return literalValue })),
		func(r ck.Pair3[identResult, token.Token, ast.Literal]) attrEntry { return attrEntry{Key: r.First.Name, Value: r.Third} },
	)
}

// thinkWithBlock parses the `with { ... }` trailer on a think expression into
// ThinkAttributes (spec §3.2 "ThinkAttributes", §4.2).
func thinkWithBlock() ck.Parser[*ast.ThinkAttributes] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordWith), ck.Delimited(delimTok(token.DelimLBrace), ck.Optional(ck.SeparatedList(attrEntryParser(), delimTok(token.DelimComma))), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, *[]attrEntry]) *ast.ThinkAttributes {
			var entries []attrEntry
			if r.Second != nil {
				entries = *r.Second
			}
			return buildThinkAttributes(r.First, entries)
		},
	)
}

func buildThinkAttributes(tok token.Token, entries []attrEntry) *ast.ThinkAttributes {
	ta := &ast.ThinkAttributes{Token: tok}
	for _, e := range entries {
		switch e.Key {
		case "provider":
			if s, ok := e.Value.(*ast.StringLiteral); ok {
				v := s.Value
				ta.Provider = &v
			}
		case "model":
			if s, ok := e.Value.(*ast.StringLiteral); ok {
				v := s.Value
				ta.Model = &v
			}
		case "temperature":
			switch lit := e.Value.(type) {
			case *ast.FloatLiteral:
				v := lit.Value
				ta.Temperature = &v
			case *ast.IntegerLiteral:
				v := float64(lit.Value)
				ta.Temperature = &v
			}
		case "max_tokens":
			if i, ok := e.Value.(*ast.IntegerLiteral); ok {
				v := i.Value
				ta.MaxTokens = &v
			}
		case "retry":
			if r, ok := e.Value.(*ast.RetryLiteral); ok {
				cfg := r.Config
				ta.Retry = &cfg
			}
		case "policies":
			if l, ok := e.Value.(*ast.ListLiteral); ok {
				for _, item := range l.Items {
					if s, ok := item.(*ast.StringLiteral); ok {
						ta.Policies = append(ta.Policies, s.Value)
					}
				}
			}
		default:
			// Unrecognized key: map-valued goes to Plugins, anything else is
			// discarded silently (no diagnostic is produced for it here or
			// by any caller).
			if m, ok := e.Value.(*ast.MapLiteral); ok {
				if ta.Plugins == nil {
					ta.Plugins = map[string]map[string]ast.Literal{}
				}
				ta.Plugins[e.Key] = m.Entries
			}
		}
	}
	return ta
}

func thinkExpr() ck.Parser[ast.Expression] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
		afterKw, kwTok, err := keywordTok(token.KeywordThink)(tokens, pos)
		if err != nil {
			return afterKw, nil, err
		}
		afterArgs, args, argErr := ck.Delimited(delimTok(token.DelimLParen), argumentList(), delimTok(token.DelimRParen))(tokens, afterKw)
		if argErr != nil {
			return afterArgs, nil, ck.Fatalize(argErr)
		}
		cur := afterArgs
		var attrs *ast.ThinkAttributes
		if afterWith, a, withErr := thinkWithBlock()(tokens, cur); withErr == nil {
			attrs = a
			cur = afterWith
		}
		return cur, &ast.ThinkExpr{Token: kwTok, Args: args, With: attrs}, nil
	}, "think expression")
}

// requestExpr parses `request AGENT request_type ( params ) ('with' '{' options '}')?`
// (spec §3.2 "RequestExpr"; surface form inferred from the req_handler
// production in §6.3 and the RequestType shape shared with it).
func requestExpr() ck.Parser[ast.Expression] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
		afterKw, kwTok, err := keywordTok(token.KeywordRequest)(tokens, pos)
		if err != nil {
			return afterKw, nil, err
		}
		afterAgent, agentTok, agentErr := identifierTok()(tokens, afterKw)
		if agentErr != nil {
			return afterAgent, nil, ck.Fatalize(agentErr)
		}
		afterType, reqType, typeErr := requestTypeParser()(tokens, afterAgent)
		if typeErr != nil {
			return afterType, nil, ck.Fatalize(typeErr)
		}
		afterParams, params, paramErr := ck.Delimited(delimTok(token.DelimLParen), argumentList(), delimTok(token.DelimRParen))(tokens, afterType)
		if paramErr != nil {
			return afterParams, nil, ck.Fatalize(paramErr)
		}
		cur := afterParams
		var options []ast.Argument
		if afterWith, opts, withErr := requestOptionsBlock()(tokens, cur); withErr == nil {
			options = opts
			cur = afterWith
		}
		return cur, &ast.RequestExpr{Token: kwTok, Agent: agentTok.Name, RequestType: reqType, Parameters: params, Options: options}, nil
	}, "request expression")
}

func requestOptionsBlock() ck.Parser[[]ast.Argument] {
	return ck.Map(
		ck.Tuple2(keywordTok(token.KeywordWith), ck.Delimited(delimTok(token.DelimLBrace), argumentList(), delimTok(token.DelimRBrace))),
		func(r ck.Pair2[token.Token, []ast.Argument]) []ast.Argument { return r.Second },
	)
}

// awaitExpr parses `await expr` or `await (expr, expr, ...)` (spec §6.3).
func awaitExpr() ck.Parser[ast.Expression] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
		afterKw, kwTok, err := keywordTok(token.KeywordAwait)(tokens, pos)
		if err != nil {
			return afterKw, nil, err
		}
		grouped := ck.Delimited(delimTok(token.DelimLParen), ck.SeparatedList(ck.Lazy(func() ck.Parser[ast.Expression] { return expressionParser() }), delimTok(token.DelimComma)), delimTok(token.DelimRParen))
		if afterGroup, exprs, groupErr := grouped(tokens, afterKw); groupErr == nil {
			return afterGroup, &ast.AwaitExpr{Token: kwTok, Expressions: exprs}, nil
		}
		afterExpr, e, exprErr := expressionParser()(tokens, afterKw)
		if exprErr != nil {
			return afterExpr, nil, ck.Fatalize(exprErr)
		}
		return afterExpr, &ast.AwaitExpr{Token: kwTok, Expressions: []ast.Expression{e}}, nil
	}, "await expression")
}

// willExpr parses `will ACTION ( exprs ) ('to' TARGET)?` (spec §6.3).
func willExpr() ck.Parser[ast.Expression] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
		afterKw, kwTok, err := keywordTok(token.KeywordWill)(tokens, pos)
		if err != nil {
			return afterKw, nil, err
		}
		afterAction, actionTok, actionErr := identifierTok()(tokens, afterKw)
		if actionErr != nil {
			return afterAction, nil, ck.Fatalize(actionErr)
		}
		afterParams, params, paramErr := ck.Delimited(delimTok(token.DelimLParen), ck.Optional(ck.SeparatedList(ck.Lazy(func() ck.Parser[ast.Expression] { return expressionParser() }), delimTok(token.DelimComma))), delimTok(token.DelimRParen))(tokens, afterAction)
		if paramErr != nil {
			return afterParams, nil, ck.Fatalize(paramErr)
		}
		var paramList []ast.Expression
		if params != nil {
			paramList = *params
		}
		cur := afterParams
		var target *string
		if afterTo, t, toErr := ck.Tuple2(keywordTok(token.KeywordTo), identifierTok())(tokens, cur); toErr == nil {
			name := t.Second.Name
			target = &name
			cur = afterTo
		}
		return cur, &ast.WillActionExpr{Token: kwTok, Action: actionTok.Name, Parameters: paramList, Target: target}, nil
	}, "will expression")
}

// identifierPrimary disambiguates function call / state access / bare
// variable from a leading identifier (spec §3.2).
func identifierPrimary() ck.Parser[ast.Expression] {
	return func(tokens []token.Token, pos int) (int, ast.Expression, *ck.ParseError) {
		afterName, nameTok, err := identifierTok()(tokens, pos)
		if err != nil {
			return afterName, nil, err
		}

		callArgs := ck.Delimited(delimTok(token.DelimLParen), ck.Optional(ck.SeparatedList(ck.Lazy(func() ck.Parser[ast.Expression] { return expressionParser() }), delimTok(token.DelimComma))), delimTok(token.DelimRParen))
		if afterCall, args, callErr := callArgs(tokens, afterName); callErr == nil {
			var argList []ast.Expression
			if args != nil {
				argList = *args
			}
			return afterCall, &ast.FunctionCallExpr{Token: nameTok.Tok, Name: nameTok.Name, Arguments: argList}, nil
		}

		dotSeg := ck.Preceded(operatorTok(token.OpDot), identifierTok())
		if afterPath, rest, pathErr := ck.Many(dotSeg)(tokens, afterName); pathErr == nil && len(rest) > 0 {
			path := []string{nameTok.Name}
			for _, r := range rest {
				path = append(path, r.Name)
			}
			return afterPath, &ast.StateAccessExpr{Token: nameTok.Tok, Path: path}, nil
		}

		return afterName, &ast.VariableExpr{Token: nameTok.Tok, Name: nameTok.Name}, nil
	}
}
