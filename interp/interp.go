package interp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"slumber/builtins"
	"slumber/config"
	"slumber/trace"
	"slumber/types"
	"slumber/vm"
)

// Interpreter owns the pieces shared by a set of scripts: the registry,
// the compiled block and pattern caches, the logger and the tracer
type Interpreter struct {
	cfg      *config.Config
	registry *vm.Registry
	blocks   *BlockCache
	patterns *builtins.PatternCache
	logger   zerolog.Logger
	tracer   *trace.Tracer
	out      io.Writer
	host     vm.HostObjects

	mu      sync.Mutex
	scripts map[string]*vm.ScriptInstance
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithLogger sets the logger handed to every script
func WithLogger(l zerolog.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithOutput sets where print and println write
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithHost sets the host object bridge
func WithHost(h vm.HostObjects) Option {
	return func(in *Interpreter) { in.host = h }
}

// WithTracer replaces the tracer built from the configuration
func WithTracer(t *trace.Tracer) Option {
	return func(in *Interpreter) { in.tracer = t }
}

// New builds an interpreter from cfg. A nil cfg means config.Default().
func New(cfg *config.Config, opts ...Option) (*Interpreter, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	in := &Interpreter{
		cfg:     cfg,
		logger:  zerolog.Nop(),
		out:     os.Stdout,
		scripts: make(map[string]*vm.ScriptInstance),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.tracer == nil {
		in.tracer = trace.NewWithLogger(cfg.Trace.Enabled, cfg.Trace.Filters, in.logger)
	}
	if cfg.CacheSize > 0 {
		in.blocks = NewBlockCache(cfg.CacheSize)
	}
	in.patterns = builtins.NewPatternCache(cfg.PatternCacheSize)
	in.registry = builtins.NewRegistry(in.patterns)
	return in, nil
}

func (in *Interpreter) Config() *config.Config           { return in.cfg }
func (in *Interpreter) Registry() *vm.Registry           { return in.registry }
func (in *Interpreter) Tracer() *trace.Tracer            { return in.tracer }
func (in *Interpreter) Logger() zerolog.Logger           { return in.logger }
func (in *Interpreter) Blocks() *BlockCache              { return in.blocks }
func (in *Interpreter) Patterns() *builtins.PatternCache { return in.patterns }

// Compile turns src into a block, reusing a cached block for source seen
// before. Failed compilations are not cached.
func (in *Interpreter) Compile(name, src string) (*vm.Block, error) {
	if in.blocks != nil {
		if b, ok := in.blocks.Get(src); ok {
			return b, nil
		}
	}
	b, err := vm.Compile(name, src, in.registry.Parser())
	if err != nil {
		return nil, err
	}
	if in.blocks != nil {
		in.blocks.Add(src, b)
	}
	return b, nil
}

// NewScript creates an empty script instance wired to the interpreter's
// registry, logger, tracer and output. It is not tracked by name.
func (in *Interpreter) NewScript(name string) *vm.ScriptInstance {
	return vm.NewScriptInstance(name, in.registry,
		vm.WithLogger(in.logger.With().Str("script", name).Logger()),
		vm.WithTracer(in.tracer),
		vm.WithHost(in.host),
		vm.WithDebug(in.cfg.DebugFlags()),
		vm.WithOutput(in.out),
	)
}

// Load compiles src, runs its top level in a new script instance and
// tracks the instance under name. A script already loaded under name is
// unloaded first.
func (in *Interpreter) Load(name, src string) (*vm.ScriptInstance, error) {
	block, err := in.Compile(name, src)
	if err != nil {
		return nil, err
	}
	in.Unload(name)

	s := in.NewScript(name)
	in.mu.Lock()
	in.scripts[name] = s
	in.mu.Unlock()

	if _, err := s.Run(block); err != nil {
		in.Unload(name)
		return nil, err
	}
	in.logger.Debug().Str("script", name).Int("functions", len(in.registry.FunctionNames())).Msg("loaded")
	return s, nil
}

// LoadFile reads a script found through the configured script paths and
// loads it under its base name
func (in *Interpreter) LoadFile(path string) (*vm.ScriptInstance, error) {
	found, err := in.cfg.FindScript(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(found)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return in.Load(filepath.Base(found), string(data))
}

// Script returns the loaded script called name
func (in *Interpreter) Script(name string) (*vm.ScriptInstance, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	s, ok := in.scripts[name]
	return s, ok
}

// Scripts lists the names of loaded scripts
func (in *Interpreter) Scripts() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	names := make([]string, 0, len(in.scripts))
	for name := range in.scripts {
		names = append(names, name)
	}
	return names
}

// Unload marks the script not loaded and drops the functions it bound.
// It reports whether a script of that name was loaded.
func (in *Interpreter) Unload(name string) bool {
	in.mu.Lock()
	s, ok := in.scripts[name]
	delete(in.scripts, name)
	in.mu.Unlock()
	if !ok {
		return false
	}
	s.Unload()
	removed := in.registry.RemoveOwnedBy(s)
	in.logger.Debug().Str("script", name).Int("removed", removed).Msg("unloaded")
	return true
}

// Run compiles src and runs it as the top level of s
func (in *Interpreter) Run(s *vm.ScriptInstance, src string) (*types.Scalar, error) {
	block, err := in.Compile(s.Name(), src)
	if err != nil {
		return nil, err
	}
	return s.Run(block)
}

// Eval evaluates a single expression in s. A nil s gets a throwaway script.
func (in *Interpreter) Eval(s *vm.ScriptInstance, expr string) (*types.Scalar, error) {
	if s == nil {
		s = in.NewScript("eval")
	}
	expr = strings.TrimSuffix(strings.TrimSpace(expr), ";")
	return in.Run(s, "return "+expr+";")
}

// Call invokes a function registered under name, e.g. a sub bound by a
// loaded script, from the host
func (in *Interpreter) Call(s *vm.ScriptInstance, name string, args ...*types.Scalar) (*types.Scalar, error) {
	fn, ok := in.registry.Function(name)
	if !ok {
		return nil, fmt.Errorf("unknown function &%s", strings.TrimPrefix(name, "&"))
	}
	return s.Call(fn, name, args)
}
