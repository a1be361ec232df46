// Package ast defines the Abstract Syntax Tree node types produced by the
// grammar layer and consumed by the type checker (spec §3.2).
//
// All nodes are owned by their parent; cross-references (e.g. a
// StateAccessExpr's path into a StateDef) are name-based and resolved by the
// type checker, not by back-pointers.
package ast

import "github.com/kairei-dsl/kairei/internal/token"

// Node is the base interface every AST node implements.
type Node interface {
	Pos() token.Position
}

// Root is the root node of the AST: an optional world plus the agents
// declared after it, in source order (spec §3.2).
type Root struct {
	World          *WorldDef
	MicroAgents    []*MicroAgentDef
	SistenceAgents []*SistenceAgentDef
}

func (r *Root) Pos() token.Position {
	if r.World != nil {
		return r.World.Pos()
	}
	if len(r.MicroAgents) > 0 {
		return r.MicroAgents[0].Pos()
	}
	if len(r.SistenceAgents) > 0 {
		return r.SistenceAgents[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// WorldDef is the optional ambient container declaring global events,
// handlers, policies, and configuration (spec §3.2).
type WorldDef struct {
	Token    token.Token
	Name     string
	Policies []string
	Config   *ConfigDef
	Events   *EventsDef
	Handlers *HandlersDef
}

func (w *WorldDef) Pos() token.Position { return w.Token.Pos }

// ConfigDef holds the world's configuration entries (e.g. tick_interval).
// Order is preserved for deterministic formatting/diagnostics.
type ConfigDef struct {
	Token   token.Token
	Entries map[string]Expression
	Order   []string
}

func (c *ConfigDef) Pos() token.Position { return c.Token.Pos }

// EventDecl declares a custom event's name and parameter signature.
type EventDecl struct {
	Token      token.Token
	Name       string
	Parameters []*Parameter
}

func (e *EventDecl) Pos() token.Position { return e.Token.Pos }

// EventsDef is the world's ordered, possibly empty, custom event list.
type EventsDef struct {
	Token  token.Token
	Events []*EventDecl
}

func (e *EventsDef) Pos() token.Position { return e.Token.Pos }

// HandlersDef is the world's ordered, possibly empty, top-level handler list.
type HandlersDef struct {
	Token    token.Token
	Handlers []*EventHandler
}

func (h *HandlersDef) Pos() token.Position { return h.Token.Pos }

// Parameter is a name/type pair used in handler and event signatures.
type Parameter struct {
	Token token.Token
	Name  string
	Type  TypeInfo
}

func (p *Parameter) Pos() token.Position { return p.Token.Pos }

// HandlerBlock is the statement sequence executed by a handler.
type HandlerBlock struct {
	Token      token.Token
	Statements []Statement
}

func (h *HandlerBlock) Pos() token.Position { return h.Token.Pos }

// EventTypeKind discriminates the variants of EventType.
type EventTypeKind int

const (
	EventTick EventTypeKind = iota
	EventStateUpdated
	EventMessage
	EventCustom
)

// EventType identifies what an EventHandler reacts to (spec §3.2).
type EventType struct {
	Kind EventTypeKind

	// EventStateUpdated
	AgentName string
	StateName string

	// EventMessage
	ContentType string

	// EventCustom
	Name string
}

// EventHandler binds a statement block to an EventType (observe/react/world handlers).
type EventHandler struct {
	Token      token.Token
	EventType  EventType
	Parameters []*Parameter
	Block      *HandlerBlock
}

func (e *EventHandler) Pos() token.Position { return e.Token.Pos }

// RequestTypeKind discriminates the variants of RequestType.
type RequestTypeKind int

const (
	RequestQuery RequestTypeKind = iota
	RequestAction
	RequestCustom
)

// RequestType identifies what a RequestHandler answers (spec §3.2).
type RequestType struct {
	Kind RequestTypeKind

	QueryType  string // RequestQuery
	ActionType string // RequestAction
	Name       string // RequestCustom
}

// Constraints are the optional numeric quality knobs on a request handler
// (spec §3.2). Nil fields mean "not specified" — TC only range-checks what
// is present.
type Constraints struct {
	Token      token.Token
	Strictness *float64
	Stability  *float64
	Latency    *uint64 // milliseconds
}

func (c *Constraints) Pos() token.Position { return c.Token.Pos }

// RequestHandler answers a typed request inside an AnswerDef.
type RequestHandler struct {
	Token       token.Token
	RequestType RequestType
	Parameters  []*Parameter
	ReturnType  TypeInfo
	Constraints *Constraints
	Block       *HandlerBlock
}

func (r *RequestHandler) Pos() token.Position { return r.Token.Pos }

// ObserveDef is the ordered list of event handlers with read-write state access.
type ObserveDef struct {
	Token    token.Token
	Handlers []*EventHandler
}

func (o *ObserveDef) Pos() token.Position { return o.Token.Pos }

// ReactDef is the ordered list of event handlers reacting to external stimuli.
type ReactDef struct {
	Token    token.Token
	Handlers []*EventHandler
}

func (r *ReactDef) Pos() token.Position { return r.Token.Pos }

// AnswerDef is the ordered list of request handlers.
type AnswerDef struct {
	Token    token.Token
	Handlers []*RequestHandler
}

func (a *AnswerDef) Pos() token.Position { return a.Token.Pos }

// StateVarDef is one declared state variable.
type StateVarDef struct {
	Token        token.Token
	Name         string
	Type         TypeInfo
	InitialValue Expression
}

func (s *StateVarDef) Pos() token.Position { return s.Token.Pos }

// StateDef is an agent's state variable block. Order is preserved for
// deterministic traversal even though lookup is by name.
type StateDef struct {
	Token token.Token
	Vars  map[string]*StateVarDef
	Order []string
}

func (s *StateDef) Pos() token.Position { return s.Token.Pos }

// LifecycleDef holds the optional on_init/on_destroy handler blocks.
type LifecycleDef struct {
	Token     token.Token
	OnInit    *HandlerBlock
	OnDestroy *HandlerBlock
}

func (l *LifecycleDef) Pos() token.Position { return l.Token.Pos }

// SistenceConfig is the proactivity configuration unique to sistence agents.
type SistenceConfig struct {
	Token               token.Token
	Level               float64
	InitiativeThreshold float64
	Domains             []string
	Parameters          map[string]Literal
}

func (s *SistenceConfig) Pos() token.Position { return s.Token.Pos }

// MicroAgentDef is a reactive agent: state, lifecycle, and handlers.
type MicroAgentDef struct {
	Token     token.Token
	Name      string
	Policies  []string
	Lifecycle *LifecycleDef
	State     *StateDef
	Observe   *ObserveDef
	Answer    *AnswerDef
	React     *ReactDef
}

func (m *MicroAgentDef) Pos() token.Position { return m.Token.Pos }

// SistenceAgentDef is a MicroAgentDef plus an optional proactivity config.
type SistenceAgentDef struct {
	Token          token.Token
	Name           string
	Policies       []string
	Lifecycle      *LifecycleDef
	State          *StateDef
	Observe        *ObserveDef
	Answer         *AnswerDef
	React          *ReactDef
	SistenceConfig *SistenceConfig
}

func (s *SistenceAgentDef) Pos() token.Position { return s.Token.Pos }
