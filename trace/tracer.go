package trace

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"slumber/types"
)

// Tracer provides execution tracing for debugging
type Tracer struct {
	enabled bool
	filters []string
	logger  zerolog.Logger
	mu      sync.Mutex
}

// New creates a tracer writing zerolog events to writer (stderr when nil)
func New(enabled bool, filters []string, writer io.Writer) *Tracer {
	if writer == nil {
		writer = os.Stderr
	}
	return &Tracer{
		enabled: enabled,
		filters: filters,
		logger:  zerolog.New(writer).With().Timestamp().Str("component", "trace").Logger(),
	}
}

// NewWithLogger creates a tracer that writes through an existing logger
func NewWithLogger(enabled bool, filters []string, logger zerolog.Logger) *Tracer {
	return &Tracer{enabled: enabled, filters: filters, logger: logger}
}

// Disabled returns a tracer that records nothing
func Disabled() *Tracer {
	return &Tracer{logger: zerolog.Nop()}
}

// IsEnabled returns whether tracing is enabled
func (t *Tracer) IsEnabled() bool {
	return t != nil && t.enabled
}

// SetEnabled turns tracing on or off
func (t *Tracer) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

// matchesFilter checks if a function name matches any of the filter patterns
func (t *Tracer) matchesFilter(name string) bool {
	if len(t.filters) == 0 {
		return true // No filters = trace everything
	}

	name = strings.TrimPrefix(name, "&")
	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(strings.TrimPrefix(pattern, "&"), name); matched {
			return true
		}
	}
	return false
}

func (t *Tracer) active(name string) bool {
	return t.IsEnabled() && t.matchesFilter(name)
}

// Call logs a function call
func (t *Tracer) Call(script, name string, args []*types.Scalar) {
	if !t.active(name) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	argStrs := make([]string, len(args))
	for i, arg := range args {
		argStrs[i] = arg.Describe()
	}
	t.logger.Debug().
		Str("script", script).
		Str("function", name).
		Str("args", strings.Join(argStrs, ", ")).
		Msg("CALL")
}

// Return logs a function's return value
func (t *Tracer) Return(script, name string, result *types.Scalar) {
	if !t.active(name) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	resultStr := "$null"
	if result != nil && !result.IsNull() {
		resultStr = result.Describe()
	}
	t.logger.Debug().
		Str("script", script).
		Str("function", name).
		Str("result", resultStr).
		Msg("RETURN")
}

// Exception logs a value thrown out of a function
func (t *Tracer) Exception(script, name string, value *types.Scalar) {
	if !t.active(name) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.logger.Warn().
		Str("script", script).
		Str("function", name).
		Str("value", value.String()).
		Msg("EXCEPTION")
}

// Warning logs a script warning. Warnings are not filtered by function name.
func (t *Tracer) Warning(script string, line int, msg string) {
	if !t.IsEnabled() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.logger.Warn().
		Str("script", script).
		Int("line", line).
		Msg(msg)
}
