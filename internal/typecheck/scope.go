package typecheck

import "github.com/kairei-dsl/kairei/internal/ast"

// TypeScope is a stack of name->TypeInfo layers: one layer per lexical
// scope (global, agent, handler, onFail binding), innermost last (spec §3.3
// "TypeContext").
type TypeScope struct {
	layers []map[string]ast.TypeInfo
}

// NewTypeScope returns a scope with a single, empty top-level layer.
func NewTypeScope() *TypeScope {
	return &TypeScope{layers: []map[string]ast.TypeInfo{{}}}
}

// EnterScope pushes a new, empty layer.
func (s *TypeScope) EnterScope() {
	s.layers = append(s.layers, map[string]ast.TypeInfo{})
}

// ExitScope pops the innermost layer. The outermost layer is never popped.
func (s *TypeScope) ExitScope() {
	if len(s.layers) > 1 {
		s.layers = s.layers[:len(s.layers)-1]
	}
}

// InsertType binds name to t in the innermost layer, shadowing any outer
// binding of the same name.
func (s *TypeScope) InsertType(name string, t ast.TypeInfo) {
	s.layers[len(s.layers)-1][name] = t
}

// GetType searches innermost-to-outermost and returns the first binding found.
func (s *TypeScope) GetType(name string) (ast.TypeInfo, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if t, ok := s.layers[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

// ContainsType reports whether name is bound in any visible layer.
func (s *TypeScope) ContainsType(name string) bool {
	_, ok := s.GetType(name)
	return ok
}

// GetTypeFromCurrentScope looks up name only in the innermost layer,
// ignoring shadowed outer bindings.
func (s *TypeScope) GetTypeFromCurrentScope(name string) (ast.TypeInfo, bool) {
	t, ok := s.layers[len(s.layers)-1][name]
	return t, ok
}

// Checkpoint returns a marker that Restore can roll back to.
func (s *TypeScope) Checkpoint() int { return len(s.layers) }

// Restore truncates the layer stack back to a prior Checkpoint, discarding
// any scopes entered since.
func (s *TypeScope) Restore(mark int) {
	if mark >= 1 && mark <= len(s.layers) {
		s.layers = s.layers[:mark]
	}
}

// Clear resets the scope to a single empty layer.
func (s *TypeScope) Clear() {
	s.layers = []map[string]ast.TypeInfo{{}}
}
