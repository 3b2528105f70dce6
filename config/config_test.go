package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"slumber/vm"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.DebugFlags() != vm.DebugShowErrors {
		t.Errorf("default debug flags = %d", cfg.DebugFlags())
	}
	if cfg.CacheSize != DefaultCacheSize {
		t.Errorf("cache size = %d", cfg.CacheSize)
	}
}

func TestParse(t *testing.T) {
	src := `
debug: [warnings, strict]
cache_size: 16
log:
  level: debug
  pretty: true
trace:
  enabled: true
  filters: ["push*"]
`
	cfg, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got, want := cfg.DebugFlags(), vm.DebugShowWarnings|vm.DebugRequireStrict; got != want {
		t.Errorf("debug flags = %d, want %d", got, want)
	}
	if cfg.CacheSize != 16 {
		t.Errorf("cache size = %d", cfg.CacheSize)
	}
	if cfg.PatternCacheSize != DefaultPatternCacheSize {
		t.Errorf("unset pattern cache size lost its default: %d", cfg.PatternCacheSize)
	}
	if level, _ := cfg.LogLevel(); level != zerolog.DebugLevel {
		t.Errorf("log level = %v", level)
	}
	if !cfg.Log.Pretty || !cfg.Trace.Enabled || len(cfg.Trace.Filters) != 1 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.CacheSize != DefaultCacheSize {
		t.Errorf("empty document changed defaults: %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", "colour: red\n", "colour"},
		{"unknown debug flag", "debug: [loud]\n", `unknown debug flag "loud"`},
		{"bad level", "log: {level: shouting}\n", `unknown log level "shouting"`},
		{"negative cache", "cache_size: -1\n", "cache_size"},
		{"bad filter", "trace: {filters: ['[']}\n", "bad trace filter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadAndFindScript(t *testing.T) {
	dir := t.TempDir()
	scripts := filepath.Join(dir, "scripts")
	if err := os.Mkdir(scripts, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scripts, "hello.sl"), []byte("println('hi');"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "slumber.yaml")
	if err := os.WriteFile(path, []byte("script_paths: ["+scripts+"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	found, err := cfg.FindScript("hello.sl")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found != filepath.Join(scripts, "hello.sl") {
		t.Errorf("found %s", found)
	}
	if _, err := cfg.FindScript("missing.sl"); err == nil {
		t.Error("expected an error for a missing script")
	}
}
