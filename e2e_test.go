package kairei_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/kairei-dsl/kairei/internal/diagnostics"
	"github.com/kairei-dsl/kairei/internal/parser"
	"github.com/kairei-dsl/kairei/internal/token"
	"github.com/kairei-dsl/kairei/internal/typecheck"
	"github.com/stretchr/testify/require"
)

// p is a throwaway source position; these fixtures only exercise structural
// parsing and type checking, not caret-pointer rendering.
func p(col int) token.Position { return token.Position{Line: 1, Column: col} }

func findDiag(diags []*diagnostics.Diagnostic, kind diagnostics.Kind) *diagnostics.Diagnostic {
	for _, d := range diags {
		if d.Kind == kind {
			return d
		}
	}
	return nil
}

// TestE1CleanWorldAndAgentParsesWithoutDiagnostics is the spec's "happy
// path" scenario: a world declaring one custom event with a matching
// handler, plus a micro agent with typed state and a Tick observer that
// mutates it. Parsing and type checking should both report nothing.
func TestE1CleanWorldAndAgentParsesWithoutDiagnostics(t *testing.T) {
	toks := []token.Token{
		token.KW(token.KeywordWorld, p(1)),
		token.Ident("Main", p(2)),
		token.Delim(token.DelimLBrace, p(3)),

		token.KW(token.KeywordEvents, p(4)),
		token.Delim(token.DelimLBrace, p(5)),
		token.Ident("Alarm", p(6)),
		token.Delim(token.DelimSemicolon, p(7)),
		token.Delim(token.DelimRBrace, p(8)),

		token.KW(token.KeywordHandlers, p(9)),
		token.Delim(token.DelimLBrace, p(10)),
		token.KW(token.KeywordOn, p(11)),
		token.Ident("Alarm", p(12)),
		token.Delim(token.DelimLBrace, p(13)),
		token.Delim(token.DelimRBrace, p(14)),
		token.Delim(token.DelimRBrace, p(15)),

		token.Delim(token.DelimRBrace, p(16)),

		token.KW(token.KeywordMicro, p(17)),
		token.Ident("Counter", p(18)),
		token.Delim(token.DelimLBrace, p(19)),

		token.KW(token.KeywordState, p(20)),
		token.Delim(token.DelimLBrace, p(21)),
		token.Ident("counter", p(22)),
		token.Op(token.OpColon, p(23)),
		token.Ident("Integer", p(24)),
		token.Op(token.OpAssign, p(25)),
		token.Int(0, p(26)),
		token.Delim(token.DelimSemicolon, p(27)),
		token.Delim(token.DelimRBrace, p(28)),

		token.KW(token.KeywordObserve, p(29)),
		token.Delim(token.DelimLBrace, p(30)),
		token.KW(token.KeywordOn, p(31)),
		token.Ident("Tick", p(32)),
		token.Delim(token.DelimLBrace, p(33)),
		token.Ident("counter", p(34)),
		token.Op(token.OpAssign, p(35)),
		token.Int(1, p(36)),
		token.Delim(token.DelimRBrace, p(37)),
		token.Delim(token.DelimRBrace, p(38)),

		token.Delim(token.DelimRBrace, p(39)),
	}

	root, parseDiags, err := parser.ParseWithDiagnostics(toks)
	require.NoError(t, err)
	require.Empty(t, parseDiags)
	require.NotNil(t, root.World)
	require.Len(t, root.MicroAgents, 1)

	tcDiags := typecheck.CheckTypes(root)
	require.Empty(t, tcDiags)
}

// TestE2WorldHandlerForUndeclaredEventReportsDiagnostic drops the `events`
// block while keeping a handler that reacts to "Alarm": the world-level
// registry check (unlike agent observe/react handlers) must flag it.
func TestE2WorldHandlerForUndeclaredEventReportsDiagnostic(t *testing.T) {
	toks := []token.Token{
		token.KW(token.KeywordWorld, p(1)),
		token.Ident("Main", p(2)),
		token.Delim(token.DelimLBrace, p(3)),

		token.KW(token.KeywordHandlers, p(4)),
		token.Delim(token.DelimLBrace, p(5)),
		token.KW(token.KeywordOn, p(6)),
		token.Ident("Alarm", p(7)),
		token.Delim(token.DelimLBrace, p(8)),
		token.Delim(token.DelimRBrace, p(9)),
		token.Delim(token.DelimRBrace, p(10)),

		token.Delim(token.DelimRBrace, p(11)),
	}

	root, parseDiags, err := parser.ParseWithDiagnostics(toks)
	require.NoError(t, err)
	require.Empty(t, parseDiags)

	tcDiags := typecheck.CheckTypes(root)
	d := findDiag(tcDiags, diagnostics.KindInvalidHandlerSignature)
	require.NotNil(t, d)
}

// TestE4SistenceConfigOutOfRangeReportsExactMessages pins down the exact
// diagnostic wording the spec's E4 example names for an out-of-range
// proactivity level.
func TestE4SistenceConfigOutOfRangeReportsExactMessages(t *testing.T) {
	toks := []token.Token{
		token.KW(token.KeywordSistence, p(1)),
		token.Ident("Helper", p(2)),
		token.Delim(token.DelimLBrace, p(3)),

		token.Ident("sistence_config", p(4)),
		token.Delim(token.DelimLBrace, p(5)),
		token.Ident("level", p(6)),
		token.Op(token.OpColon, p(7)),
		token.Flt(1.5, p(8)),
		token.Delim(token.DelimComma, p(9)),
		token.Ident("initiative_threshold", p(10)),
		token.Op(token.OpColon, p(11)),
		token.Flt(0.5, p(12)),
		token.Delim(token.DelimComma, p(13)),
		token.Ident("domains", p(14)),
		token.Op(token.OpColon, p(15)),
		token.Delim(token.DelimLBracket, p(16)),
		token.Str("home", p(17)),
		token.Delim(token.DelimRBracket, p(18)),
		token.Delim(token.DelimRBrace, p(19)),

		token.Delim(token.DelimRBrace, p(20)),
	}

	root, parseDiags, err := parser.ParseWithDiagnostics(toks)
	require.NoError(t, err)
	require.Empty(t, parseDiags)
	require.Len(t, root.SistenceAgents, 1)
	require.Equal(t, 1.5, root.SistenceAgents[0].SistenceConfig.Level)

	tcDiags := typecheck.CheckTypes(root)
	d := findDiag(tcDiags, diagnostics.KindTypeInferenceError)
	require.NotNil(t, d)
	require.Equal(t, "Sistence proactivity level must be between 0.0 and 1.0", d.Message)

	snaps.MatchSnapshot(t, "E4_diagnostic_message", d.Message)
}
