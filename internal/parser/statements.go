package parser

import (
	"github.com/kairei-dsl/kairei/internal/ast"
	ck "github.com/kairei-dsl/kairei/internal/combinator"
	"github.com/kairei-dsl/kairei/internal/token"
)

func exprLazy() ck.Parser[ast.Expression] {
	return ck.Lazy(func() ck.Parser[ast.Expression] { return expressionParser() })
}

func stmtTok(e ast.Node) token.Token { return token.Token{Pos: e.Pos()} }

// statementParser is the full Statement production: a base statement
// optionally followed by a trailing `onFail` error handler, which wraps it
// in a WithErrorStmt (spec §4.2 "Statements").
func statementParser() ck.Parser[ast.Statement] {
	return func(tokens []token.Token, pos int) (int, ast.Statement, *ck.ParseError) {
		afterBase, base, err := baseStatement()(tokens, pos)
		if err != nil {
			return afterBase, nil, err
		}
		afterTrailer, handler, terr := ck.Optional(onFailBlock())(tokens, afterBase)
		if terr != nil {
			return afterTrailer, nil, terr
		}
		if handler == nil {
			return afterBase, base, nil
		}
		return afterTrailer, &ast.WithErrorStmt{Token: stmtTok(base), Inner: base, Handler: *handler}, nil
	}
}

func baseStatement() ck.Parser[ast.Statement] {
	return ck.Choice(blockStmt(), ifStmt(), returnStmt(), emitStmt(), assignmentOrExprStmt())
}

func blockStmt() ck.Parser[ast.Statement] {
	return ck.Map(
		ck.Tuple3(delimTok(token.DelimLBrace), ck.Many(ck.Lazy(func() ck.Parser[ast.Statement] { return statementParser() })), delimTok(token.DelimRBrace)),
		func(r ck.Pair3[token.Token, []ast.Statement, token.Token]) ast.Statement {
			return &ast.BlockStmt{Token: r.First, Statements: r.Second}
		},
	)
}

func ifStmt() ck.Parser[ast.Statement] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, ast.Statement, *ck.ParseError) {
		afterIf, ifTok, err := keywordTok(token.KeywordIf)(tokens, pos)
		if err != nil {
			return afterIf, nil, err
		}
		afterCond, cond, cerr := ck.Delimited(delimTok(token.DelimLParen), exprLazy(), delimTok(token.DelimRParen))(tokens, afterIf)
		if cerr != nil {
			return afterCond, nil, ck.Fatalize(cerr)
		}
		afterThen, thenStmt, terr := blockStmt()(tokens, afterCond)
		if terr != nil {
			return afterThen, nil, ck.Fatalize(terr)
		}
		cur := afterThen
		var elseStmt ast.Statement
		if afterElseKw, _, eerr := keywordTok(token.KeywordElse)(tokens, cur); eerr == nil {
			elseBranch := ck.Choice(ck.Lazy(func() ck.Parser[ast.Statement] { return ifStmt() }), blockStmt())
			afterElseBody, body, berr := elseBranch(tokens, afterElseKw)
			if berr != nil {
				return afterElseBody, nil, ck.Fatalize(berr)
			}
			elseStmt = body
			cur = afterElseBody
		}
		return cur, &ast.IfStmt{Token: ifTok, Condition: cond, Then: thenStmt, Else: elseStmt}, nil
	}, "if statement")
}

func returnStmt() ck.Parser[ast.Statement] {
	return func(tokens []token.Token, pos int) (int, ast.Statement, *ck.ParseError) {
		afterKw, kwTok, err := keywordTok(token.KeywordReturn)(tokens, pos)
		if err != nil {
			return afterKw, nil, err
		}
		afterExpr, e, eerr := expressionParser()(tokens, afterKw)
		if eerr != nil {
			return afterExpr, nil, ck.Fatalize(eerr)
		}
		return afterExpr, &ast.ReturnStmt{Token: kwTok, Value: e}, nil
	}
}

func emitStmt() ck.Parser[ast.Statement] {
	return func(tokens []token.Token, pos int) (int, ast.Statement, *ck.ParseError) {
		afterKw, kwTok, err := keywordTok(token.KeywordEmit)(tokens, pos)
		if err != nil {
			return afterKw, nil, err
		}
		afterType, et, typeErr := eventTypeParser()(tokens, afterKw)
		if typeErr != nil {
			return afterType, nil, ck.Fatalize(typeErr)
		}
		cur := afterType
		var args []ast.Expression
		argsParser := ck.Delimited(delimTok(token.DelimLParen), ck.Optional(ck.SeparatedList(exprLazy(), delimTok(token.DelimComma))), delimTok(token.DelimRParen))
		if afterArgs, a, aerr := argsParser(tokens, cur); aerr == nil {
			if a != nil {
				args = *a
			}
			cur = afterArgs
		}
		var target *string
		if afterTo, t, terr := ck.Tuple2(keywordTok(token.KeywordTo), identifierTok())(tokens, cur); terr == nil {
			name := t.Second.Name
			target = &name
			cur = afterTo
		}
		return cur, &ast.EmitStmt{Token: kwTok, EventType: et, Arguments: args, Target: target}, nil
	}
}

// assignmentOrExprStmt disambiguates destructuring/single-target assignment
// from a bare expression statement (spec §4.2 "Assignment targets").
func assignmentOrExprStmt() ck.Parser[ast.Statement] {
	return ck.Choice(destructureAssignment(), singleAssignmentOrExpr())
}

func destructureAssignment() ck.Parser[ast.Statement] {
	return func(tokens []token.Token, pos int) (int, ast.Statement, *ck.ParseError) {
		afterOpen, openTok, err := delimTok(token.DelimLParen)(tokens, pos)
		if err != nil {
			return afterOpen, nil, err
		}
		afterTargets, targets, terr := ck.SeparatedList(exprLazy(), delimTok(token.DelimComma))(tokens, afterOpen)
		if terr != nil {
			return afterTargets, nil, terr
		}
		afterClose, _, cerr := delimTok(token.DelimRParen)(tokens, afterTargets)
		if cerr != nil {
			return afterClose, nil, cerr
		}
		afterAssign, _, aerr := operatorTok(token.OpAssign)(tokens, afterClose)
		if aerr != nil {
			return afterAssign, nil, aerr
		}
		afterValue, val, verr := expressionParser()(tokens, afterAssign)
		if verr != nil {
			return afterValue, nil, ck.Fatalize(verr)
		}
		return afterValue, &ast.AssignmentStmt{Token: openTok, Targets: targets, Value: val}, nil
	}
}

func singleAssignmentOrExpr() ck.Parser[ast.Statement] {
	return func(tokens []token.Token, pos int) (int, ast.Statement, *ck.ParseError) {
		afterExpr, e, err := expressionParser()(tokens, pos)
		if err != nil {
			return afterExpr, nil, err
		}
		if afterAssign, _, aerr := operatorTok(token.OpAssign)(tokens, afterExpr); aerr == nil {
			afterValue, v, verr := expressionParser()(tokens, afterAssign)
			if verr != nil {
				return afterValue, nil, ck.Fatalize(verr)
			}
			return afterValue, &ast.AssignmentStmt{Token: stmtTok(e), Targets: []ast.Expression{e}, Value: v}, nil
		}
		return afterExpr, &ast.ExpressionStmt{Token: stmtTok(e), Expression: e}, nil
	}
}

// onFailBlock parses the `onFail (binding?) { stmts }` trailer, promoting a
// trailing `return Ok(e)`/`return Err(e)`/`reThrow` into Control
// (spec §3.2 "ErrorHandlerBlock", §4.2 "onFail control flow promotion").
func onFailBlock() ck.Parser[*ast.ErrorHandlerBlock] {
	return ck.WithContext(func(tokens []token.Token, pos int) (int, *ast.ErrorHandlerBlock, *ck.ParseError) {
		afterKw, kwTok, err := keywordTok(token.KeywordOnFail)(tokens, pos)
		if err != nil {
			return afterKw, nil, err
		}
		cur := afterKw
		var binding *string
		bindingParser := ck.Delimited(delimTok(token.DelimLParen), identifierTok(), delimTok(token.DelimRParen))
		if afterBind, b, berr := bindingParser(tokens, cur); berr == nil {
			name := b.Name
			binding = &name
			cur = afterBind
		}
		afterBrace, _, oerr := delimTok(token.DelimLBrace)(tokens, cur)
		if oerr != nil {
			return afterBrace, nil, ck.Fatalize(oerr)
		}
		afterStmts, stmts, serr := ck.Many(ck.Lazy(func() ck.Parser[ast.Statement] { return statementParser() }))(tokens, afterBrace)
		if serr != nil {
			return afterStmts, nil, serr
		}

		cur = afterStmts
		var control *ast.OnFailControl
		if afterReThrow, _, rerr := keywordTok(token.KeywordReThrow)(tokens, cur); rerr == nil {
			control = &ast.OnFailControl{Kind: ast.OnFailRethrow}
			cur = afterReThrow
		} else if n := len(stmts); n > 0 {
			if ret, ok := stmts[n-1].(*ast.ReturnStmt); ok {
				if okVal, isOk := ret.Value.(*ast.OkExpr); isOk {
					control = &ast.OnFailControl{Kind: ast.OnFailReturnOk, Value: okVal.Value}
					stmts = stmts[:n-1]
				} else if errVal, isErr := ret.Value.(*ast.ErrExpr); isErr {
					control = &ast.OnFailControl{Kind: ast.OnFailReturnErr, Value: errVal.Value}
					stmts = stmts[:n-1]
				}
			}
		}

		afterClose, _, cerr := delimTok(token.DelimRBrace)(tokens, cur)
		if cerr != nil {
			return afterClose, nil, ck.Fatalize(cerr)
		}
		return afterClose, &ast.ErrorHandlerBlock{Token: kwTok, ErrorBinding: binding, Statements: stmts, Control: control}, nil
	}, "onFail handler")
}
