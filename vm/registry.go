package vm

import (
	"strings"
	"sync"

	"slumber/parser"
	"slumber/types"
)

// Function is anything callable by name: a native bridge or a closure.
// args is consumed with Pop, first argument first.
type Function interface {
	Evaluate(name string, script *ScriptInstance, args *Frame) (*types.Scalar, error)
}

// FunctionFunc adapts a plain Go function to Function
type FunctionFunc func(name string, script *ScriptInstance, args *Frame) (*types.Scalar, error)

func (f FunctionFunc) Evaluate(name string, script *ScriptInstance, args *Frame) (*types.Scalar, error) {
	return f(name, script, args)
}

// Predicate decides a named comparison
type Predicate interface {
	Decide(name string, script *ScriptInstance, args *Frame) (bool, error)
}

// PredicateFunc adapts a plain Go function to Predicate
type PredicateFunc func(name string, script *ScriptInstance, args *Frame) (bool, error)

func (f PredicateFunc) Decide(name string, script *ScriptInstance, args *Frame) (bool, error) {
	return f(name, script, args)
}

// Operator computes a binary operator; args holds left then right
type Operator interface {
	Operate(op string, script *ScriptInstance, args *Frame) (*types.Scalar, error)
}

// OperatorFunc adapts a plain Go function to Operator
type OperatorFunc func(op string, script *ScriptInstance, args *Frame) (*types.Scalar, error)

func (f OperatorFunc) Operate(op string, script *ScriptInstance, args *Frame) (*types.Scalar, error) {
	return f(op, script, args)
}

// Binder handles `keyword name {block}`
type Binder interface {
	Bind(script *ScriptInstance, keyword, name string, body *Block) error
}

// PredicateBinder handles `keyword (predicate) {block}`
type PredicateBinder interface {
	BindPredicate(script *ScriptInstance, keyword string, check Check, body *Block) error
}

// FilterBinder handles `keyword name filter {block}`
type FilterBinder interface {
	BindFilter(script *ScriptInstance, keyword, name, filter string, body *Block) error
}

// Registry is the namespace shared by the script instances of one
// interpreter. Lookups may run concurrently; registration is expected to
// happen while scripts load.
type Registry struct {
	*parser.Keywords

	mu         sync.RWMutex
	functions  map[string]Function
	predicates map[string]Predicate
	operators  map[string]Operator
	binders    map[string]any
	parser     *parser.Parser
}

// NewRegistry returns an empty registry over the default keyword set
func NewRegistry() *Registry {
	kw := parser.DefaultKeywords()
	return &Registry{
		Keywords:   kw,
		functions:  make(map[string]Function),
		predicates: make(map[string]Predicate),
		operators:  make(map[string]Operator),
		binders:    make(map[string]any),
		parser:     parser.New(kw),
	}
}

// Parser returns a parser that recognizes the registry's keywords
func (r *Registry) Parser() *parser.Parser { return r.parser }

func functionKey(name string) string {
	if strings.HasPrefix(name, "&") {
		return name
	}
	return "&" + name
}

// Register installs a function under &name
func (r *Registry) Register(name string, fn Function) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[functionKey(name)] = fn
}

// RegisterFunc installs a plain Go function under &name
func (r *Registry) RegisterFunc(name string, fn FunctionFunc) {
	r.Register(name, fn)
}

// Unregister removes &name
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.functions, functionKey(name))
}

// Function looks up &name
func (r *Registry) Function(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.functions[functionKey(name)]
	return fn, ok
}

// FunctionNames lists the registered function names
func (r *Registry) FunctionNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.functions))
	for k := range r.functions {
		out = append(out, k)
	}
	return out
}

// RegisterPredicate installs a predicate and makes it a keyword. Names
// starting with '-' are unary.
func (r *Registry) RegisterPredicate(name string, p Predicate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predicates[name] = p
	r.AddPredicate(name)
}

// Predicate looks up a predicate by name
func (r *Registry) Predicate(name string) (Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.predicates[name]
	return p, ok
}

// RegisterOperator installs an operator and makes it a keyword
func (r *Registry) RegisterOperator(op string, o Operator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operators[op] = o
	r.AddOperator(op)
}

// Operator looks up an operator by symbol
func (r *Registry) Operator(op string) (Operator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.operators[op]
	return o, ok
}

// RegisterEnvironment installs a bind keyword. b implements at least one of
// Binder, PredicateBinder and FilterBinder.
func (r *Registry) RegisterEnvironment(keyword string, b any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.binders[keyword] = b
	r.AddEnvironment(keyword)
}

// Environment looks up a bind keyword's handler
func (r *Registry) Environment(keyword string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.binders[keyword]
	return b, ok
}

// RemoveOwnedBy drops every closure bound by script
func (r *Registry) RemoveOwnedBy(script *ScriptInstance) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for name, fn := range r.functions {
		if c, ok := fn.(*Closure); ok && c.owner == script {
			delete(r.functions, name)
			n++
		}
	}
	return n
}
