package kairei_test

import (
	"os"
	"testing"

	"github.com/kairei-dsl/kairei/internal/parser"
	"github.com/kairei-dsl/kairei/internal/token"
	"github.com/kairei-dsl/kairei/internal/typecheck"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// goldenScenario mirrors one entry of testdata/golden/scenarios.yaml.
type goldenScenario struct {
	Name                  string   `yaml:"name"`
	Description           string   `yaml:"description"`
	ExpectDiagnosticKinds []string `yaml:"expectDiagnosticKinds"`
	ExpectMessageContains string   `yaml:"expectMessageContains"`
}

type goldenFile struct {
	Scenarios []goldenScenario `yaml:"scenarios"`
}

func loadGoldenScenarios(t *testing.T, path string) goldenFile {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var gf goldenFile
	require.NoError(t, yaml.Unmarshal(data, &gf))
	return gf
}

// scenarioTokens builds the hand-assembled token stream for a named
// scenario. Kept separate from the expected-outcome data in
// testdata/golden/scenarios.yaml: this module parses pre-tokenized
// streams, not source text, so there is no surface-syntax fixture to
// load directly.
func scenarioTokens(name string) []token.Token {
	switch name {
	case "clean_world_and_agent":
		return []token.Token{
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
	case "world_handler_undeclared_event":
		return []token.Token{
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
	case "sistence_config_out_of_range":
		return []token.Token{
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
	default:
		return nil
	}
}

// TestGoldenScenarios replays each fixture in testdata/golden/scenarios.yaml
// through the full parse -> typecheck pipeline and checks the resulting
// diagnostic kinds (and, where given, message substring) against the
// expectations recorded in the fixture.
func TestGoldenScenarios(t *testing.T) {
	gf := loadGoldenScenarios(t, "testdata/golden/scenarios.yaml")
	require.NotEmpty(t, gf.Scenarios)

	for _, sc := range gf.Scenarios {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			toks := scenarioTokens(sc.Name)
			require.NotNil(t, toks, "no token builder registered for scenario %q", sc.Name)

			root, parseDiags, err := parser.ParseWithDiagnostics(toks)
			require.NoError(t, err)
			require.Empty(t, parseDiags)

			tcDiags := typecheck.CheckTypes(root)
			require.Len(t, tcDiags, len(sc.ExpectDiagnosticKinds))
			for i, wantKind := range sc.ExpectDiagnosticKinds {
				require.Equal(t, wantKind, string(tcDiags[i].Kind))
			}
			if sc.ExpectMessageContains != "" {
				require.Len(t, tcDiags, 1)
				require.Contains(t, tcDiags[0].Message, sc.ExpectMessageContains)
			}
		})
	}
}
