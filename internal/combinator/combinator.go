// Package combinator implements the Combinator Kernel (CK): a
// parser-combinator library over a token slice (spec §4.1). Every parser is
// a pure function from (tokens, pos) to (nextPos, output, error) — it must
// not hold mutable state across calls and must not consume input on
// failure, so ordered choice and optional constructs can backtrack for free.
//
// This generalizes the teacher's stateful, method-on-*Parser combinators
// (go-dws internal/parser/combinators.go) into side-effect-free values, per
// spec §4.1's explicit contract, while keeping the teacher's naming and
// doc-comment conventions (Many, Choice, SeparatedList) and the
// real KAIREI source's own combinator vocabulary
// (with_context/map/tuple2/tuple3/choice/as_unit/equal — confirmed in
// _examples/original_source/kairei-core/src/analyzer/parsers/expression/will.rs).
package combinator

import (
	"github.com/kairei-dsl/kairei/internal/token"
)

// Parser is a parser that consumes a prefix of tokens[pos:] and produces an
// O, returning the index just past what it consumed. On failure it returns
// a non-nil *ParseError and the position it reached before failing (used by
// Choice to pick the error with the longest consumed prefix).
type Parser[O any] func(tokens []token.Token, pos int) (int, O, *ParseError)

// ErrorKind discriminates the two ParseError variants (spec §4.1).
type ErrorKind int

const (
	// Failure is recoverable: an enclosing Choice may still try other alternatives.
	Failure ErrorKind = iota
	// Fatal is a committed failure: Choice must propagate it without trying
	// further alternatives (used once a keyword has been consumed and what
	// follows is malformed).
	Fatal
)

// ParseError carries a message, the position it occurred at, and an
// optional context label chain built up by WithContext (spec §4.1, §7).
type ParseError struct {
	Kind     ErrorKind
	Message  string
	Position token.Position
	Context  string
}

func (e *ParseError) Error() string {
	if e.Context != "" {
		return e.Message + " (in " + e.Context + ") at " + e.Position.String()
	}
	return e.Message + " at " + e.Position.String()
}

func fail(pos []token.Token, at int, msg string) *ParseError {
	p := token.Position{Line: 1, Column: 1}
	if at >= 0 && at < len(pos) {
		p = pos[at].Pos
	} else if len(pos) > 0 {
		p = pos[len(pos)-1].Pos
	}
	return &ParseError{Kind: Failure, Message: msg, Position: p}
}

// Fatalize upgrades a recoverable ParseError into a committed one, in place
// conceptually (a new value is returned) — used at commit points once a
// production has consumed a distinguishing keyword (spec §7).
func Fatalize(err *ParseError) *ParseError {
	if err == nil {
		return nil
	}
	cp := *err
	cp.Kind = Fatal
	return &cp
}

func tokensEqual(a, b token.Token) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case token.Identifier:
		return a.Ident == b.Ident
	case token.KeywordTok:
		return a.Keyword == b.Keyword
	case token.OperatorTok:
		return a.Operator == b.Operator
	case token.DelimiterTok:
		return a.Delim == b.Delim
	case token.EOF:
		return true
	default:
		return a.Literal.Kind == b.Literal.Kind
	}
}

// Equal matches a single token literally, ignoring position (spec §4.1 table).
func Equal(tok token.Token) Parser[token.Token] {
	return func(tokens []token.Token, pos int) (int, token.Token, *ParseError) {
		if pos >= len(tokens) {
			return pos, token.Token{}, fail(tokens, len(tokens)-1, "unexpected end of input, expected "+tok.String())
		}
		if tokensEqual(tokens[pos], tok) {
			return pos + 1, tokens[pos], nil
		}
		return pos, token.Token{}, fail(tokens, pos, "expected "+tok.String()+", got "+tokens[pos].String())
	}
}

// Satisfy pattern-matches one token via pred, extracting a U on success.
func Satisfy[U any](pred func(token.Token) (U, bool), label string) Parser[U] {
	return func(tokens []token.Token, pos int) (int, U, *ParseError) {
		var zero U
		if pos >= len(tokens) {
			return pos, zero, fail(tokens, len(tokens)-1, "unexpected end of input, expected "+label)
		}
		if v, ok := pred(tokens[pos]); ok {
			return pos + 1, v, nil
		}
		return pos, zero, fail(tokens, pos, "expected "+label)
	}
}

// Map applies a pure function to a parser's output.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(tokens []token.Token, pos int) (int, B, *ParseError) {
		var zero B
		next, a, err := p(tokens, pos)
		if err != nil {
			return next, zero, err
		}
		return next, f(a), nil
	}
}

// MapErr is like Map but f may itself fail, turning the failure Fatal so
// Choice doesn't mask a semantic error behind a syntactic alternative.
func MapErr[A, B any](p Parser[A], f func(A) (B, string)) Parser[B] {
	return func(tokens []token.Token, pos int) (int, B, *ParseError) {
		var zero B
		next, a, err := p(tokens, pos)
		if err != nil {
			return next, zero, err
		}
		b, errMsg := f(a)
		if errMsg != "" {
			return next, zero, Fatalize(fail(tokens, next, errMsg))
		}
		return next, b, nil
	}
}

// Many parses p zero or more times, stopping on the first failure. p must
// not consume input on failure (spec §4.1 table).
func Many[O any](p Parser[O]) Parser[[]O] {
	return func(tokens []token.Token, pos int) (int, []O, *ParseError) {
		var out []O
		cur := pos
		for {
			next, v, err := p(tokens, cur)
			if err != nil {
				if err.Kind == Fatal {
					return next, out, err
				}
				break
			}
			out = append(out, v)
			cur = next
		}
		return cur, out, nil
	}
}

// SeparatedList parses one-or-more p separated by sep. A trailing separator
// is not consumed (spec §4.1 table).
func SeparatedList[O any](p Parser[O], sep Parser[token.Token]) Parser[[]O] {
	return func(tokens []token.Token, pos int) (int, []O, *ParseError) {
		next, first, err := p(tokens, pos)
		if err != nil {
			return next, nil, err
		}
		out := []O{first}
		cur := next
		for {
			afterSep, _, sepErr := sep(tokens, cur)
			if sepErr != nil {
				if sepErr.Kind == Fatal {
					return afterSep, out, sepErr
				}
				break
			}
			afterItem, item, itemErr := p(tokens, afterSep)
			if itemErr != nil {
				if itemErr.Kind == Fatal {
					return afterItem, out, itemErr
				}
				// trailing separator: don't consume it
				break
			}
			out = append(out, item)
			cur = afterItem
		}
		return cur, out, nil
	}
}

// Pair2..Pair6 are the tuple result shapes for Tuple2..Tuple6.
type Pair2[A, B any] struct {
	First  A
	Second B
}

type Pair3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

type Pair4[A, B, C, D any] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

type Pair5[A, B, C, D, E any] struct {
	First  A
	Second B
	Third  C
	Fourth D
	Fifth  E
}

type Pair6[A, B, C, D, E, F any] struct {
	First  A
	Second B
	Third  C
	Fourth D
	Fifth  E
	Sixth  F
}

// Tuple2 runs pa then pb in order, short-circuiting on failure.
func Tuple2[A, B any](pa Parser[A], pb Parser[B]) Parser[Pair2[A, B]] {
	return func(tokens []token.Token, pos int) (int, Pair2[A, B], *ParseError) {
		var zero Pair2[A, B]
		p1, a, err := pa(tokens, pos)
		if err != nil {
			return p1, zero, err
		}
		p2, b, err := pb(tokens, p1)
		if err != nil {
			return p2, zero, err
		}
		return p2, Pair2[A, B]{a, b}, nil
	}
}

func Tuple3[A, B, C any](pa Parser[A], pb Parser[B], pc Parser[C]) Parser[Pair3[A, B, C]] {
	return func(tokens []token.Token, pos int) (int, Pair3[A, B, C], *ParseError) {
		var zero Pair3[A, B, C]
		p1, a, err := pa(tokens, pos)
		if err != nil {
			return p1, zero, err
		}
		p2, b, err := pb(tokens, p1)
		if err != nil {
			return p2, zero, err
		}
		p3, c, err := pc(tokens, p2)
		if err != nil {
			return p3, zero, err
		}
		return p3, Pair3[A, B, C]{a, b, c}, nil
	}
}

func Tuple4[A, B, C, D any](pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D]) Parser[Pair4[A, B, C, D]] {
	return func(tokens []token.Token, pos int) (int, Pair4[A, B, C, D], *ParseError) {
		var zero Pair4[A, B, C, D]
		p1, a, err := pa(tokens, pos)
		if err != nil {
			return p1, zero, err
		}
		p2, b, err := pb(tokens, p1)
		if err != nil {
			return p2, zero, err
		}
		p3, c, err := pc(tokens, p2)
		if err != nil {
			return p3, zero, err
		}
		p4, d, err := pd(tokens, p3)
		if err != nil {
			return p4, zero, err
		}
		return p4, Pair4[A, B, C, D]{a, b, c, d}, nil
	}
}

func Tuple5[A, B, C, D, E any](pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D], pe Parser[E]) Parser[Pair5[A, B, C, D, E]] {
	return func(tokens []token.Token, pos int) (int, Pair5[A, B, C, D, E], *ParseError) {
		var zero Pair5[A, B, C, D, E]
		p1, a, err := pa(tokens, pos)
		if err != nil {
			return p1, zero, err
		}
		p2, b, err := pb(tokens, p1)
		if err != nil {
			return p2, zero, err
		}
		p3, c, err := pc(tokens, p2)
		if err != nil {
			return p3, zero, err
		}
		p4, d, err := pd(tokens, p3)
		if err != nil {
			return p4, zero, err
		}
		p5, e, err := pe(tokens, p4)
		if err != nil {
			return p5, zero, err
		}
		return p5, Pair5[A, B, C, D, E]{a, b, c, d, e}, nil
	}
}

func Tuple6[A, B, C, D, E, F any](pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D], pe Parser[E], pf Parser[F]) Parser[Pair6[A, B, C, D, E, F]] {
	return func(tokens []token.Token, pos int) (int, Pair6[A, B, C, D, E, F], *ParseError) {
		var zero Pair6[A, B, C, D, E, F]
		p1, a, err := pa(tokens, pos)
		if err != nil {
			return p1, zero, err
		}
		p2, b, err := pb(tokens, p1)
		if err != nil {
			return p2, zero, err
		}
		p3, c, err := pc(tokens, p2)
		if err != nil {
			return p3, zero, err
		}
		p4, d, err := pd(tokens, p3)
		if err != nil {
			return p4, zero, err
		}
		p5, e, err := pe(tokens, p4)
		if err != nil {
			return p5, zero, err
		}
		p6, f, err := pf(tokens, p5)
		if err != nil {
			return p6, zero, err
		}
		return p6, Pair6[A, B, C, D, E, F]{a, b, c, d, e, f}, nil
	}
}

// Choice tries each parser in order; the first success wins. A Fatal error
// from any alternative short-circuits immediately. If all fail recoverably,
// Choice returns the error whose consumed-prefix (reached position minus
// start position) is longest, breaking ties by the last one added
// (spec §4.1 table).
func Choice[O any](parsers ...Parser[O]) Parser[O] {
	return func(tokens []token.Token, pos int) (int, O, *ParseError) {
		var zero O
		var bestErr *ParseError
		bestDepth := -1
		for _, p := range parsers {
			next, v, err := p(tokens, pos)
			if err == nil {
				return next, v, nil
			}
			if err.Kind == Fatal {
				return next, zero, err
			}
			depth := next - pos
			if depth >= bestDepth {
				bestDepth = depth
				bestErr = err
			}
		}
		if bestErr == nil {
			bestErr = fail(tokens, pos, "no alternative matched")
		}
		return pos, zero, bestErr
	}
}

// Preceded runs p then q, discarding p's output.
func Preceded[A, B any](p Parser[A], q Parser[B]) Parser[B] {
	return Map(Tuple2(p, q), func(pr Pair2[A, B]) B { return pr.Second })
}

// Delimited runs l, then p, then r, discarding l's and r's output.
func Delimited[L, O, R any](l Parser[L], p Parser[O], r Parser[R]) Parser[O] {
	return Map(Tuple3(l, p, r), func(pr Pair3[L, O, R]) O { return pr.Second })
}

// Optional turns a recoverable Failure into a nil result; a Fatal error
// still propagates (spec §4.1 table).
func Optional[O any](p Parser[O]) Parser[*O] {
	return func(tokens []token.Token, pos int) (int, *O, *ParseError) {
		next, v, err := p(tokens, pos)
		if err == nil {
			vv := v
			return next, &vv, nil
		}
		if err.Kind == Fatal {
			return next, nil, err
		}
		return pos, nil, nil
	}
}

// Lazy defers parser construction to allow recursive grammars.
func Lazy[O any](f func() Parser[O]) Parser[O] {
	return func(tokens []token.Token, pos int) (int, O, *ParseError) {
		return f()(tokens, pos)
	}
}

// WithContext annotates any error emitted by p with a label, building the
// label chain used in diagnostics (spec §4.1, §7).
func WithContext[O any](p Parser[O], label string) Parser[O] {
	return func(tokens []token.Token, pos int) (int, O, *ParseError) {
		next, v, err := p(tokens, pos)
		if err != nil {
			cp := *err
			if cp.Context == "" {
				cp.Context = label
			} else {
				cp.Context = label + " > " + cp.Context
			}
			return next, v, &cp
		}
		return next, v, nil
	}
}

// Expected succeeds only if p's output equals v.
func Expected[O comparable](p Parser[O], v O) Parser[O] {
	return func(tokens []token.Token, pos int) (int, O, *ParseError) {
		next, got, err := p(tokens, pos)
		if err != nil {
			return next, got, err
		}
		if got != v {
			return pos, got, fail(tokens, pos, "unexpected value")
		}
		return next, got, nil
	}
}

// AsUnit discards a parser's output.
func AsUnit[O any](p Parser[O]) Parser[struct{}] {
	return Map(p, func(O) struct{} { return struct{}{} })
}

// Run is the top-level driver: it runs p from the start of tokens and
// requires the entire input be consumed save for a trailing EOF token.
func Run[O any](p Parser[O], tokens []token.Token) (O, error) {
	next, v, err := p(tokens, 0)
	if err != nil {
		return v, err
	}
	if next < len(tokens) && tokens[next].Kind != token.EOF {
		return v, fail(tokens, next, "unexpected trailing input")
	}
	return v, nil
}
