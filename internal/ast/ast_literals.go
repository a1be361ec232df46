package ast

import "github.com/kairei-dsl/kairei/internal/token"

// Literal is the sum type of constant values (spec §3.2).
type Literal interface {
	Node
	literalNode()
}

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (l *IntegerLiteral) Pos() token.Position { return l.Token.Pos }
func (*IntegerLiteral) literalNode()           {}

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (l *FloatLiteral) Pos() token.Position { return l.Token.Pos }
func (*FloatLiteral) literalNode()           {}

type StringLiteral struct {
	Token token.Token
	Value string
}

func (l *StringLiteral) Pos() token.Position { return l.Token.Pos }
func (*StringLiteral) literalNode()           {}

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (l *BooleanLiteral) Pos() token.Position { return l.Token.Pos }
func (*BooleanLiteral) literalNode()           {}

type NullLiteral struct {
	Token token.Token
}

func (l *NullLiteral) Pos() token.Position { return l.Token.Pos }
func (*NullLiteral) literalNode()           {}

// DurationLiteral is an integer-plus-unit literal, canonicalized to
// nanoseconds at parse time (spec §4.2 "Literals").
type DurationLiteral struct {
	Token       token.Token
	Nanoseconds int64
}

func (l *DurationLiteral) Pos() token.Position { return l.Token.Pos }
func (*DurationLiteral) literalNode()           {}

type ListLiteral struct {
	Token token.Token
	Items []Literal
}

func (l *ListLiteral) Pos() token.Position { return l.Token.Pos }
func (*ListLiteral) literalNode()           {}

type MapLiteral struct {
	Token   token.Token
	Entries map[string]Literal
	Order   []string
}

func (l *MapLiteral) Pos() token.Position { return l.Token.Pos }
func (*MapLiteral) literalNode()           {}

// RetryDelayKind discriminates the variants of RetryDelay.
type RetryDelayKind int

const (
	RetryDelayFixed RetryDelayKind = iota
	RetryDelayExponential
)

// RetryDelay is `Fixed(u64) | Exponential { initial, max }` (spec §3.2).
type RetryDelay struct {
	Kind       RetryDelayKind
	FixedMs    uint64 // RetryDelayFixed
	InitialMs  uint64 // RetryDelayExponential
	MaxMs      uint64 // RetryDelayExponential
}

// RetryConfig is the payload of a Retry literal.
type RetryConfig struct {
	MaxAttempts uint64
	Delay       RetryDelay
}

type RetryLiteral struct {
	Token  token.Token
	Config RetryConfig
}

func (l *RetryLiteral) Pos() token.Position { return l.Token.Pos }
func (*RetryLiteral) literalNode()           {}
