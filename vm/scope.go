package vm

import (
	"sort"
	"sync"
	"sync/atomic"

	"slumber/types"
)

// Scope is one level of variables keyed by full name including sigil
type Scope struct {
	vars map[string]*types.Scalar
}

// NewScope returns an empty scope
func NewScope() *Scope {
	return &Scope{vars: make(map[string]*types.Scalar)}
}

// Get returns the slot for name
func (s *Scope) Get(name string) (*types.Scalar, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Put installs v as the slot for name
func (s *Scope) Put(name string, v *types.Scalar) {
	s.vars[name] = v
}

// Remove deletes name and reports whether it was present
func (s *Scope) Remove(name string) bool {
	if _, ok := s.vars[name]; !ok {
		return false
	}
	delete(s.vars, name)
	return true
}

// Names lists the declared names in order
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for n := range s.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// callChain identifies one host entry and the cross-script calls made
// under it. A chain may re-enter an instance it already holds.
type callChain struct{}

// ScopeManager resolves variables through the active local scope, then the
// running closure's scope, then the global scope. Its lock guards the
// instance's frames, contexts and scopes, and is re-entrant per call chain.
type ScopeManager struct {
	mu       sync.Mutex
	holder   atomic.Pointer[callChain]
	depth    int
	global   *Scope
	closures []*Scope
	locals   []*Scope
}

// NewScopeManager returns a manager with an empty global scope
func NewScopeManager() *ScopeManager {
	return &ScopeManager{global: NewScope()}
}

// acquire takes the lock for chain. Only the holding chain ever stores
// itself in holder, so a match means this goroutine already owns it.
func (m *ScopeManager) acquire(chain *callChain) {
	if m.holder.Load() == chain {
		m.depth++
		return
	}
	m.mu.Lock()
	m.holder.Store(chain)
	m.depth = 1
}

func (m *ScopeManager) release() {
	m.depth--
	if m.depth == 0 {
		m.holder.Store(nil)
		m.mu.Unlock()
	}
}

// Global returns the script wide scope
func (m *ScopeManager) Global() *Scope { return m.global }

// Local returns the active local scope, or nil at top level
func (m *ScopeManager) Local() *Scope {
	if len(m.locals) == 0 {
		return nil
	}
	return m.locals[len(m.locals)-1]
}

// Closure returns the running closure's scope, or nil at top level
func (m *ScopeManager) Closure() *Scope {
	if len(m.closures) == 0 {
		return nil
	}
	return m.closures[len(m.closures)-1]
}

func (m *ScopeManager) pushClosure(s *Scope) { m.closures = append(m.closures, s) }
func (m *ScopeManager) pushLocal(s *Scope)   { m.locals = append(m.locals, s) }

func (m *ScopeManager) popClosure() {
	if len(m.closures) > 0 {
		m.closures = m.closures[:len(m.closures)-1]
	}
}

func (m *ScopeManager) popLocal() {
	if len(m.locals) > 0 {
		m.locals = m.locals[:len(m.locals)-1]
	}
}

// Find looks name up local first, then closure, then global
func (m *ScopeManager) Find(name string) (*types.Scalar, bool) {
	if s := m.Local(); s != nil {
		if v, ok := s.Get(name); ok {
			return v, true
		}
	}
	if s := m.Closure(); s != nil {
		if v, ok := s.Get(name); ok {
			return v, true
		}
	}
	return m.global.Get(name)
}

// Undeclare removes name from the innermost scope holding it
func (m *ScopeManager) Undeclare(name string) bool {
	for _, s := range []*Scope{m.Local(), m.Closure(), m.global} {
		if s != nil && s.Remove(name) {
			return true
		}
	}
	return false
}

// EmptyValue is the initial value for a new variable: @ names start as an
// empty array, % names as an empty map, anything else as $null
func EmptyValue(name string) *types.Scalar {
	if name == "" {
		return types.NewNull()
	}
	switch name[0] {
	case '@':
		return types.NewArray(types.NewListArray())
	case '%':
		return types.NewMap(types.NewOrderedMap(false))
	}
	return types.NewNull()
}
