package vm

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"slumber/trace"
	"slumber/types"
)

// ScriptInstance is one loaded script: its variables, its environment and
// the registry it shares with other scripts. Run, Call and calls into its
// closures from other scripts serialize on the scope manager's lock.
type ScriptInstance struct {
	name     string
	registry *Registry
	env      *Environment
	scopes   *ScopeManager
	chain    *callChain // guarded by scopes
	host     HostObjects
	debug    int
	loaded   atomic.Bool
	logger   zerolog.Logger
	tracer   *trace.Tracer
	out      io.Writer

	errMu   sync.Mutex
	flagged *types.Scalar
}

// Option configures a ScriptInstance
type Option func(*ScriptInstance)

// WithLogger sets the logger warnings go to
func WithLogger(l zerolog.Logger) Option {
	return func(s *ScriptInstance) { s.logger = l }
}

// WithTracer sets the call tracer
func WithTracer(t *trace.Tracer) Option {
	return func(s *ScriptInstance) { s.tracer = t }
}

// WithHost sets the bridge for [new ...], ^Class and object messages
func WithHost(h HostObjects) Option {
	return func(s *ScriptInstance) { s.host = h }
}

// WithDebug sets the debug flags
func WithDebug(flags int) Option {
	return func(s *ScriptInstance) { s.debug = flags }
}

// WithOutput sets where print style bridges write
func WithOutput(w io.Writer) Option {
	return func(s *ScriptInstance) { s.out = w }
}

// NewScriptInstance creates a loaded script over registry
func NewScriptInstance(name string, registry *Registry, opts ...Option) *ScriptInstance {
	s := &ScriptInstance{
		name:     name,
		registry: registry,
		scopes:   NewScopeManager(),
		logger:   zerolog.Nop(),
		tracer:   trace.Disabled(),
		out:      io.Discard,
	}
	s.env = NewEnvironment(s)
	for _, opt := range opts {
		opt(s)
	}
	s.loaded.Store(true)
	return s
}

func (s *ScriptInstance) Name() string              { return s.name }
func (s *ScriptInstance) Registry() *Registry       { return s.registry }
func (s *ScriptInstance) Environment() *Environment { return s.env }
func (s *ScriptInstance) Scopes() *ScopeManager     { return s.scopes }
func (s *ScriptInstance) Logger() zerolog.Logger    { return s.logger }
func (s *ScriptInstance) Output() io.Writer         { return s.out }
func (s *ScriptInstance) Debug() int                { return s.debug }
func (s *ScriptInstance) SetDebug(flags int)        { s.debug = flags }

// Loaded is polled by long running bridges to stop after Unload
func (s *ScriptInstance) Loaded() bool { return s.loaded.Load() }

// Unload marks the script as no longer loaded
func (s *ScriptInstance) Unload() { s.loaded.Store(false) }

// Run executes block as the script's top level
func (s *ScriptInstance) Run(block *Block) (*types.Scalar, error) {
	c := NewClosure(s, "", block)
	return s.Call(c, "", nil)
}

// Call invokes fn from the host. The frame stack is left as it was found,
// and a throw nobody caught comes back as an *UncaughtError.
func (s *ScriptInstance) Call(fn Function, message string, args []*types.Scalar) (*types.Scalar, error) {
	chain := &callChain{}
	exit := s.enter(chain)
	defer exit()

	env := s.env
	depth := env.FrameDepth()
	defer env.truncateFrames(depth)

	result, err := s.Invoke(fn, message, NewFrame(args...))
	if err != nil {
		uncaught := &UncaughtError{Value: thrownValue(err), Script: s.name, Line: env.line}
		if s.debug&DebugShowErrors != 0 {
			s.logger.Error().Str("script", s.name).Int("line", env.line).Msg("uncaught exception: " + uncaught.Value.String())
		}
		return nil, uncaught
	}
	return result, nil
}

// enter locks s for chain and makes chain the one its closures run under.
// The returned func undoes both.
func (s *ScriptInstance) enter(chain *callChain) func() {
	s.scopes.acquire(chain)
	prev := s.chain
	s.chain = chain
	return func() {
		s.chain = prev
		s.scopes.release()
	}
}

// Invoke calls fn from inside the script, e.g. from a bridge that takes a
// closure argument. A throw comes back as an error and the signal register
// is left clear.
func (s *ScriptInstance) Invoke(fn Function, message string, args *Frame) (*types.Scalar, error) {
	env := s.env
	result, err := s.callFunction(message, fn, args)
	if err == nil && env.IsThrowing() {
		err = &ThrowError{Value: env.thrown}
	}
	if env.signal != SignalNone {
		env.ClearSignal()
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = types.NewNull()
	}
	return result, nil
}

// callFunction runs fn with tracing. A closure owned by this script leaves
// its throw on the signal register rather than in the error.
func (s *ScriptInstance) callFunction(name string, fn Function, args *Frame) (*types.Scalar, error) {
	tracing := s.tracer.IsEnabled() || s.debug&DebugTraceCalls != 0
	if tracing {
		s.tracer.Call(s.name, name, args.Args())
		if !s.tracer.IsEnabled() {
			s.logger.Debug().Str("script", s.name).Str("function", name).Int("line", s.env.line).Msg("call")
		}
	}
	result, err := fn.Evaluate(name, s, args)
	if !tracing {
		return result, err
	}
	switch {
	case err != nil:
		s.tracer.Exception(s.name, name, thrownValue(err))
	case s.env.IsThrowing():
		s.tracer.Exception(s.name, name, s.env.thrown)
	default:
		s.tracer.Return(s.name, name, result)
	}
	return result, err
}

// invokeValue calls the function held by v, throwing when v holds none
func (s *ScriptInstance) invokeValue(env *Environment, v *types.Scalar, message string, args *Frame) *types.Scalar {
	fn, ok := v.Object().(Function)
	if !ok {
		env.Throw(types.NewString(fmt.Sprintf("%s: %s is not a function", message, v.Describe())))
		return types.NewNull()
	}
	result, err := s.callFunction(message, fn, args)
	if err != nil {
		env.Throw(thrownValue(err))
		return types.NewNull()
	}
	if result == nil {
		result = types.NewNull()
	}
	return result
}

// Host returns the host object bridge, or nil
func (s *ScriptInstance) Host() HostObjects { return s.host }

// Variable returns the slot for name, creating it in the global scope when
// no scope declares it
func (s *ScriptInstance) Variable(name string) *types.Scalar {
	if v, ok := s.scopes.Find(name); ok {
		return v
	}
	if s.debug&DebugRequireStrict != 0 {
		s.Warn("variable '%s' not declared", name)
	}
	v := EmptyValue(name)
	s.scopes.global.Put(name, v)
	return v
}

// SetVariable assigns v to name, resolving it like Variable
func (s *ScriptInstance) SetVariable(name string, v *types.Scalar) {
	s.Variable(name).SetValue(v)
}

// Declare creates name in scope. A nil value gives the sigil's empty value.
func (s *ScriptInstance) Declare(scope *Scope, name string, v *types.Scalar) {
	if scope == nil {
		scope = s.scopes.global
	}
	if v == nil {
		v = EmptyValue(name)
	} else {
		v = v.Fresh()
	}
	scope.Put(name, v)
}

// FlagError stores a soft error for checkError; the previous one is lost
func (s *ScriptInstance) FlagError(v *types.Scalar) {
	s.errMu.Lock()
	s.flagged = v
	s.errMu.Unlock()
	if s.debug&DebugShowWarnings != 0 {
		s.logger.Warn().Str("script", s.name).Int("line", s.env.line).Msg("flagged error: " + v.String())
	}
}

// CheckError drains the flagged error, returning $null when none is set
func (s *ScriptInstance) CheckError() *types.Scalar {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	v := s.flagged
	s.flagged = nil
	if v == nil {
		return types.NewNull()
	}
	return v
}

// Warn reports a non fatal problem. With DebugThrowWarnings set it is
// thrown instead.
func (s *ScriptInstance) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.tracer.Warning(s.name, s.env.line, msg)
	if s.debug&DebugThrowWarnings == DebugThrowWarnings {
		s.env.Throw(types.NewString(msg))
		return
	}
	if s.debug&DebugShowWarnings != 0 {
		s.logger.Warn().Str("script", s.name).Int("line", s.env.line).Msg(msg)
	}
}
