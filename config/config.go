package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"slumber/vm"
)

// Default sizes for the interpreter's caches
const (
	DefaultCacheSize        = 256
	DefaultPatternCacheSize = 128
)

// debugNames maps the names accepted under `debug:` to script debug flags
var debugNames = map[string]int{
	"errors":   vm.DebugShowErrors,
	"warnings": vm.DebugShowWarnings,
	"strict":   vm.DebugRequireStrict,
	"trace":    vm.DebugTraceCalls,
	"throw":    vm.DebugThrowWarnings,
}

// Config is the interpreter configuration
type Config struct {
	Debug            []string    `yaml:"debug"`
	CacheSize        int         `yaml:"cache_size"`
	PatternCacheSize int         `yaml:"pattern_cache_size"`
	Log              LogConfig   `yaml:"log"`
	Trace            TraceConfig `yaml:"trace"`
	ScriptPaths      []string    `yaml:"script_paths"`
}

// LogConfig controls the zerolog logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// TraceConfig controls call tracing. Filters are glob patterns over
// function names.
type TraceConfig struct {
	Enabled bool     `yaml:"enabled"`
	Filters []string `yaml:"filters"`
}

// ValidationError collects every problem found in a configuration
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Debug:            []string{"errors"},
		CacheSize:        DefaultCacheSize,
		PatternCacheSize: DefaultPatternCacheSize,
		Log:              LogConfig{Level: "info"},
		ScriptPaths:      []string{"."},
	}
}

// Load reads a YAML file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the debug names, log level and cache sizes
func (c *Config) Validate() error {
	var issues []string
	for _, name := range c.Debug {
		if _, ok := debugNames[strings.ToLower(name)]; !ok {
			issues = append(issues, fmt.Sprintf("unknown debug flag %q", name))
		}
	}
	if _, err := c.LogLevel(); err != nil {
		issues = append(issues, err.Error())
	}
	if c.CacheSize < 0 {
		issues = append(issues, "cache_size must not be negative")
	}
	if c.PatternCacheSize < 0 {
		issues = append(issues, "pattern_cache_size must not be negative")
	}
	for _, pattern := range c.Trace.Filters {
		if _, err := filepath.Match(pattern, ""); err != nil {
			issues = append(issues, fmt.Sprintf("bad trace filter %q", pattern))
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// DebugFlags combines the named debug flags. Unknown names are ignored;
// Validate reports them.
func (c *Config) DebugFlags() int {
	flags := vm.DebugNone
	for _, name := range c.Debug {
		flags |= debugNames[strings.ToLower(name)]
	}
	return flags
}

// LogLevel parses the configured level. An empty level means info.
func (c *Config) LogLevel() (zerolog.Level, error) {
	if c.Log.Level == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return level, nil
}

// FindScript resolves name against the script paths. Absolute names and
// names that exist relative to the working directory are returned as is.
func (c *Config) FindScript(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	for _, dir := range c.ScriptPaths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("script %s not found (searched %s)", name, strings.Join(c.ScriptPaths, ", "))
}
