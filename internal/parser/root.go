package parser

import (
	"github.com/kairei-dsl/kairei/internal/ast"
	ck "github.com/kairei-dsl/kairei/internal/combinator"
	"github.com/kairei-dsl/kairei/internal/diagnostics"
	"github.com/kairei-dsl/kairei/internal/token"
)

// parseRoot implements `root ::= world? (micro_agent | sistence_agent)*`
// (spec §6.3). Per spec §4.2 "Failure semantics", an unrecognized top-level
// item is not an error here: parseRoot simply stops and returns the
// position it reached; the caller (ParseWithDiagnostics, which Parse
// wraps) is the one that turns leftover
// tokens into a residual-input error.
func parseRoot(tokens []token.Token) (*ast.Root, []*diagnostics.Diagnostic, int, *ck.ParseError) {
	root := &ast.Root{}
	var diags []*diagnostics.Diagnostic
	pos := 0

	if next, world, wdiags, err := parseWorld(tokens, pos); err == nil {
		root.World = world
		diags = append(diags, wdiags...)
		pos = next
	} else if err.Kind == ck.Fatal {
		return nil, diags, pos, err
	}

	for {
		if next, m, merr := microAgentParser()(tokens, pos); merr == nil {
			root.MicroAgents = append(root.MicroAgents, m)
			pos = next
			continue
		} else if merr.Kind == ck.Fatal {
			return nil, diags, pos, merr
		}

		if next, s, serr := sistenceAgentParser()(tokens, pos); serr == nil {
			root.SistenceAgents = append(root.SistenceAgents, s)
			pos = next
			continue
		} else if serr.Kind == ck.Fatal {
			return nil, diags, pos, serr
		}

		break
	}

	return root, diags, pos, nil
}

// Parse is the grammar layer's single public entry point (spec §6.5): it
// parses tokens into a Root AST, or returns the first fatal parse error, or
// a residual-input error if trailing tokens remain after the last
// recognized top-level item.
func Parse(tokens []token.Token) (*ast.Root, error) {
	root, _, err := ParseWithDiagnostics(tokens)
	return root, err
}

// ParseWithDiagnostics is like Parse but also returns the warning-severity
// diagnostics GL accumulates while parsing (currently just DuplicateBlock —
// spec §9 "Duplicate block handling").
func ParseWithDiagnostics(tokens []token.Token) (*ast.Root, []*diagnostics.Diagnostic, error) {
	root, diags, pos, err := parseRoot(tokens)
	if err != nil {
		return nil, diags, err
	}
	if pos < len(tokens) && tokens[pos].Kind != token.EOF {
		return nil, diags, &ck.ParseError{Kind: ck.Failure, Message: "unexpected trailing input starting with " + tokens[pos].String(), Position: tokens[pos].Pos}
	}
	return root, diags, nil
}
