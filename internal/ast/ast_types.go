package ast

import "github.com/kairei-dsl/kairei/internal/token"

// TypeInfo is the sum type describing a declared or inferred type (spec §3.2).
type TypeInfo interface {
	Node
	typeInfoNode()
	String() string
}

// SimpleTypeInfo is a bare identifier type reference (e.g. Integer, String,
// or a user-defined nominal type used by name).
type SimpleTypeInfo struct {
	Token token.Token
	Name  string
}

func (s *SimpleTypeInfo) Pos() token.Position { return s.Token.Pos }
func (*SimpleTypeInfo) typeInfoNode()          {}
func (s *SimpleTypeInfo) String() string       { return s.Name }

// OptionTypeInfo is `Option{ T }`.
type OptionTypeInfo struct {
	Token token.Token
	Inner TypeInfo
}

func (o *OptionTypeInfo) Pos() token.Position { return o.Token.Pos }
func (*OptionTypeInfo) typeInfoNode()          {}
func (o *OptionTypeInfo) String() string       { return "Option{" + o.Inner.String() + "}" }

// ArrayTypeInfo is `Array{ T }`.
type ArrayTypeInfo struct {
	Token token.Token
	Inner TypeInfo
}

func (a *ArrayTypeInfo) Pos() token.Position { return a.Token.Pos }
func (*ArrayTypeInfo) typeInfoNode()          {}
func (a *ArrayTypeInfo) String() string       { return "Array{" + a.Inner.String() + "}" }

// ResultTypeInfo is `Result< T , E >`.
type ResultTypeInfo struct {
	Token token.Token
	Ok    TypeInfo
	Err   TypeInfo
}

func (r *ResultTypeInfo) Pos() token.Position { return r.Token.Pos }
func (*ResultTypeInfo) typeInfoNode()          {}
func (r *ResultTypeInfo) String() string {
	return "Result<" + r.Ok.String() + "," + r.Err.String() + ">"
}

// FieldInfo is one field of a CustomTypeInfo. At least one of Type or
// Default must be present (spec §3.2) — GL rejects a field with neither.
type FieldInfo struct {
	Type    TypeInfo
	Default Expression
}

// CustomTypeInfo is `Name { field, field, ... }`.
type CustomTypeInfo struct {
	Token  token.Token
	Name   string
	Fields map[string]*FieldInfo
	Order  []string
}

func (c *CustomTypeInfo) Pos() token.Position { return c.Token.Pos }
func (*CustomTypeInfo) typeInfoNode()          {}
func (c *CustomTypeInfo) String() string       { return c.Name }
