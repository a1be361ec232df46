// Package diagnostics provides the shared diagnostic type and rendering
// logic consumed by both the grammar layer's wrapped ParseError and the
// type checker's TypeCheckError (spec §6.4). It is grounded on the
// teacher's internal/errors.CompilerError (go-dws): same source-line
// extraction and caret-pointer rendering, generalized with the Help/
// Suggestion fields spec §6.4 requires.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/kairei-dsl/kairei/internal/token"
)

// Severity distinguishes hard errors from advisory diagnostics (used for
// the "duplicate block" design decision in spec §9 — DESIGN.md Open
// Questions).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Kind is a stable, tool-consumable diagnostic category.
type Kind string

// Parser diagnostic kinds.
const (
	KindParseError         Kind = "ParseError"
	KindDuplicateBlock      Kind = "DuplicateBlock"
	KindUnrecognizedAttribute Kind = "UnrecognizedAttribute"
)

// Type checker diagnostic kinds (spec §4.3 "Error taxonomy").
const (
	KindTypeMismatch             Kind = "TypeMismatch"
	KindUndefinedType            Kind = "UndefinedType"
	KindInvalidTypeArguments      Kind = "InvalidTypeArguments"
	KindInvalidStateVariable      Kind = "InvalidStateVariable"
	KindInvalidHandlerSignature   Kind = "InvalidHandlerSignature"
	KindInvalidThinkBlock         Kind = "InvalidThinkBlock"
	KindTypeInferenceError        Kind = "TypeInferenceError"
	KindUndefinedVariable         Kind = "UndefinedVariable"
	KindUndefinedFunction         Kind = "UndefinedFunction"
	KindInvalidReturnType         Kind = "InvalidReturnType"
	KindInvalidArgumentType       Kind = "InvalidArgumentType"
	KindInvalidOperatorType       Kind = "InvalidOperatorType"
	KindInvalidWillActionError    Kind = "InvalidWillActionError"
	KindWillActionParameterError  Kind = "WillActionParameterError"
	KindInvalidSistenceContextError Kind = "InvalidSistenceContextError"
)

// Meta is the optional tooling-oriented payload on a Diagnostic (spec §6.4).
type Meta struct {
	Help       string
	Suggestion string
}

// Diagnostic is one compiler message: a kind, a location, a human message,
// and optional tooling metadata (spec §6.4).
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Position token.Position
	Meta     Meta
}

// New builds an error-severity Diagnostic.
func New(kind Kind, pos token.Position, message string) *Diagnostic {
	return &Diagnostic{Kind: kind, Severity: SeverityError, Position: pos, Message: message}
}

// Newf builds an error-severity Diagnostic with a formatted message.
func Newf(kind Kind, pos token.Position, format string, args ...any) *Diagnostic {
	return New(kind, pos, fmt.Sprintf(format, args...))
}

// Warning builds a warning-severity Diagnostic.
func Warning(kind Kind, pos token.Position, message string) *Diagnostic {
	return &Diagnostic{Kind: kind, Severity: SeverityWarning, Position: pos, Message: message}
}

// WithMeta attaches help/suggestion text and returns the same Diagnostic
// for chaining.
func (d *Diagnostic) WithMeta(help, suggestion string) *Diagnostic {
	d.Meta = Meta{Help: help, Suggestion: suggestion}
	return d
}

// String renders the diagnostic in the short display form spec §6.4
// mandates: "<kind>: <message> at <location>".
func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s: %s at %s", d.Kind, d.Message, d.Position)
}

// Error implements the error interface.
func (d *Diagnostic) Error() string { return d.String() }

// Render produces a multi-line form with source-line context and a caret
// pointing at the offending column, for CLI consumers (SPEC_FULL.md §9.1).
// Grounded on go-dws's internal/errors.CompilerError.Format.
func Render(d *Diagnostic, source string, color bool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s[%s]: %s at %s\n", strings.ToUpper(d.Severity.String()), d.Kind, d.Message, d.Position))

	if line := sourceLine(source, d.Position.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", d.Position.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max0(d.Position.Column-1)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if d.Meta.Help != "" {
		sb.WriteString("help: ")
		sb.WriteString(d.Meta.Help)
		sb.WriteString("\n")
	}
	if d.Meta.Suggestion != "" {
		sb.WriteString("suggestion: ")
		sb.WriteString(d.Meta.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Batch is an ordered collection of diagnostics, following the traversal
// order described in spec §5 (world, then micro agents, then sistence
// agents, each in source order).
type Batch struct {
	Diagnostics []*Diagnostic
}

// Add appends a diagnostic.
func (b *Batch) Add(d *Diagnostic) { b.Diagnostics = append(b.Diagnostics, d) }

// HasErrors reports whether any diagnostic in the batch is error-severity.
func (b *Batch) HasErrors() bool {
	for _, d := range b.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Take returns and clears the accumulated diagnostics.
func (b *Batch) Take() []*Diagnostic {
	out := b.Diagnostics
	b.Diagnostics = nil
	return out
}

// Clear discards all accumulated diagnostics.
func (b *Batch) Clear() { b.Diagnostics = nil }
