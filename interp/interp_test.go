package interp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slumber/config"
	"slumber/types"
)

func newInterp(t *testing.T, out *bytes.Buffer) *Interpreter {
	t.Helper()
	var opts []Option
	if out != nil {
		opts = append(opts, WithOutput(out))
	}
	in, err := New(nil, opts...)
	if err != nil {
		t.Fatalf("new interpreter: %v", err)
	}
	return in
}

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2", "3"},
		{"'a' . 'b';", "ab"},
		{"@(1, 2)", "@(1, 2)"},
		{"size(%(a => 1))", "1"},
	}
	in := newInterp(t, nil)
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := in.Eval(nil, tt.expr)
			if err != nil {
				t.Fatalf("eval failed: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestLoadAndCall(t *testing.T) {
	var out bytes.Buffer
	in := newInterp(t, &out)
	src := `
$greeting = "hello";
sub greet { println("$greeting " . $1); return strlen($1); }
`
	s, err := in.Load("greet.sl", src)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	got, err := in.Call(s, "greet", types.NewString("world"))
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if got.String() != "5" {
		t.Errorf("result %q", got.String())
	}
	if out.String() != "hello world\n" {
		t.Errorf("output %q", out.String())
	}

	v, err := in.Eval(s, "$greeting")
	if err != nil || v.String() != "hello" {
		t.Errorf("script variable not visible to eval: %v %v", v, err)
	}

	if _, err := in.Call(s, "missing"); err == nil || !strings.Contains(err.Error(), "&missing") {
		t.Errorf("expected unknown function error, got %v", err)
	}
}

func TestUnload(t *testing.T) {
	in := newInterp(t, nil)
	s, err := in.Load("a.sl", "sub one { return 1; }")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, ok := in.Registry().Function("one"); !ok {
		t.Fatal("sub was not bound")
	}
	if !in.Unload("a.sl") {
		t.Fatal("unload reported nothing loaded")
	}
	if s.Loaded() {
		t.Error("script still marked loaded")
	}
	if _, ok := in.Registry().Function("one"); ok {
		t.Error("sub survived unload")
	}
	if in.Unload("a.sl") {
		t.Error("second unload should report false")
	}
	if len(in.Scripts()) != 0 {
		t.Errorf("scripts left: %v", in.Scripts())
	}
}

func TestReloadReplacesScript(t *testing.T) {
	in := newInterp(t, nil)
	first, err := in.Load("r.sl", "sub v { return 1; }")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	second, err := in.Load("r.sl", "sub v { return 2; }")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if first.Loaded() {
		t.Error("replaced script still loaded")
	}
	got, err := in.Call(second, "v")
	if err != nil || got.String() != "2" {
		t.Errorf("got %v, %v", got, err)
	}
	if s, ok := in.Script("r.sl"); !ok || s != second {
		t.Error("script lookup did not return the reloaded instance")
	}
}

func TestLoadRunError(t *testing.T) {
	in := newInterp(t, nil)
	if _, err := in.Load("boom.sl", `throw "boom";`); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected uncaught throw, got %v", err)
	}
	if _, ok := in.Script("boom.sl"); ok {
		t.Error("failed script stayed loaded")
	}
}

func TestBlockCache(t *testing.T) {
	in := newInterp(t, nil)
	for i := 0; i < 3; i++ {
		if _, err := in.Eval(nil, "1 + 1"); err != nil {
			t.Fatalf("eval failed: %v", err)
		}
	}
	hits, misses := in.Blocks().Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("hits=%d misses=%d", hits, misses)
	}

	if _, err := in.Compile("bad", "$x = ;"); err == nil {
		t.Fatal("expected compile error")
	}
	if n := in.Blocks().Len(); n != 1 {
		t.Errorf("failed compile was cached, len=%d", n)
	}

	in.Blocks().Clear()
	if in.Blocks().Len() != 0 {
		t.Error("clear left blocks behind")
	}
}

func TestBlockCacheEviction(t *testing.T) {
	c := NewBlockCache(1)
	in := newInterp(t, nil)
	a, _ := in.Compile("a", "return 1;")
	b, _ := in.Compile("b", "return 2;")
	c.Add("return 1;", a)
	c.Add("return 2;", b)
	if _, ok := c.Get("return 1;"); ok {
		t.Error("oldest block should have been evicted")
	}
	if got, ok := c.Get("return 2;"); !ok || got != b {
		t.Error("newest block missing")
	}
}

func TestCacheDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.CacheSize = 0
	in, err := New(cfg)
	if err != nil {
		t.Fatalf("new interpreter: %v", err)
	}
	if in.Blocks() != nil {
		t.Fatal("cache should be off")
	}
	if v, err := in.Eval(nil, "2 * 3"); err != nil || v.String() != "6" {
		t.Errorf("got %v, %v", v, err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Debug = []string{"loud"}
	if _, err := New(cfg); err == nil {
		t.Error("expected a validation error")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib.sl"), []byte("sub half { return $1 / 2; }"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.ScriptPaths = []string{dir}
	in, err := New(cfg)
	if err != nil {
		t.Fatalf("new interpreter: %v", err)
	}
	s, err := in.LoadFile("lib.sl")
	if err != nil {
		t.Fatalf("load file failed: %v", err)
	}
	if s.Name() != "lib.sl" {
		t.Errorf("script name %q", s.Name())
	}
	got, err := in.Call(s, "half", types.NewInt(8))
	if err != nil || got.String() != "4" {
		t.Errorf("got %v, %v", got, err)
	}
	if _, err := in.LoadFile("nope.sl"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
