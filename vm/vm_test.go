package vm

import (
	"errors"
	"strings"
	"testing"

	"slumber/types"
)

// testRegistry installs just enough operators, predicates and functions to
// exercise the runtime without the builtins package
func testRegistry() *Registry {
	r := NewRegistry()
	arith := OperatorFunc(func(op string, _ *ScriptInstance, args *Frame) (*types.Scalar, error) {
		left := args.Pop()
		right := args.Pop()
		return types.Arith(op, left, right)
	})
	for _, op := range []string{"+", "-", "*", "/", "%", "."} {
		r.RegisterOperator(op, arith)
	}
	compare := func(test func(int) bool) PredicateFunc {
		return func(_ string, _ *ScriptInstance, args *Frame) (bool, error) {
			a := args.Pop()
			b := args.Pop()
			return test(types.Compare(a, b)), nil
		}
	}
	r.RegisterPredicate("==", compare(func(c int) bool { return c == 0 }))
	r.RegisterPredicate("<", compare(func(c int) bool { return c < 0 }))
	r.RegisterPredicate("eq", PredicateFunc(func(_ string, _ *ScriptInstance, args *Frame) (bool, error) {
		return args.Pop().String() == args.Pop().String(), nil
	}))
	r.RegisterPredicate("-isnull", PredicateFunc(func(_ string, _ *ScriptInstance, args *Frame) (bool, error) {
		return args.Pop().IsNull(), nil
	}))

	r.RegisterFunc("local", func(_ string, s *ScriptInstance, args *Frame) (*types.Scalar, error) {
		for !args.IsEmpty() {
			for _, name := range strings.Fields(args.Pop().String()) {
				s.Declare(s.Scopes().Local(), name, nil)
			}
		}
		return types.NewNull(), nil
	})
	r.RegisterFunc("shift", func(_ string, _ *ScriptInstance, args *Frame) (*types.Scalar, error) {
		a := args.Pop().Array()
		if a == nil || a.Len() == 0 {
			return types.NewNull(), nil
		}
		return a.RemoveAt(0), nil
	})
	r.RegisterFunc("depth", func(_ string, s *ScriptInstance, _ *Frame) (*types.Scalar, error) {
		return types.NewInt(int32(s.Environment().IteratorDepth())), nil
	})
	r.RegisterFunc("mark", func(_ string, s *ScriptInstance, _ *Frame) (*types.Scalar, error) {
		meta := s.Environment().Meta()
		prev, _ := meta["mark"].(string)
		meta["mark"] = "set"
		if prev == "" {
			return types.NewNull(), nil
		}
		return types.NewString(prev), nil
	})
	r.RegisterFunc("fail", func(_ string, _ *ScriptInstance, args *Frame) (*types.Scalar, error) {
		return nil, Errorf("fail", "%s", args.Pop())
	})
	return r
}

func newTestScript(t *testing.T) *ScriptInstance {
	t.Helper()
	return NewScriptInstance("test", testRegistry())
}

func runSource(t *testing.T, s *ScriptInstance, src string) (*types.Scalar, error) {
	t.Helper()
	block, err := Compile("test", src, s.Registry().Parser())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return s.Run(block)
}

func TestRunValues(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"operator chain", "return 1 + 2 * 3;", "7"},
		{"left to right", "return 2 * 3 / 4;", "1"},
		{"double promotion", "return 1 + 1.5;", "2.5"},
		{"concat", `return "a" . 'b';`, "ab"},
		{"negate", "$x = 4; return -$x;", "-4"},
		{"group", "return (1 + 2) * 3;", "9"},
		{"tuple", "($a, $b) = @(1, 2); return $a + $b;", "3"},
		{"tuple scalar", "($a, $b) = 7; return $a . $b;", "77"},
		{"assign op", "$x = 5; $x += 2; $x++; return $x;", "8"},
		{"if else chain", `$x = 5; if ($x < 3) { return "small"; } else if ($x < 10) { return "medium"; } else { return "large"; }`, "medium"},
		{"while", "$i = 0; while ($i < 4) { $i++; } return $i;", "4"},
		{"unspaced if", "$x = 1; if($x == 1) { $y = 2; } else if($x == 2) { $y = 3; } return $y;", "2"},
		{"unspaced while", "$i = 0; while($i < 2) { $i++; } return $i;", "2"},
		{"unspaced for", "$n = 0; for($i = 0; $i < 3; $i++) { $n = $n + 1; } return $n;", "3"},
		{"assign while", "@a = @(1, 2, 3); $sum = 0; while $v (shift(@a)) { $sum = $sum + $v; } return $sum;", "6"},
		{"for continue", "$n = 0; for ($i = 0; $i < 5; $i++) { if ($i == 2) { continue; } $n = $n + 1; } return $n;", "4"},
		{"for empty", "$n = 0; for (;;) { $n++; if ($n == 3) { break; } } return $n;", "3"},
		{"index write", "@a[2] = 'x'; return @a;", "@(, , 'x')"},
		{"hash write", "%h['k'] = 1; return %h;", "%(k => 1)"},
		{"vivify", "$x['a'] = 1; $y[0] = 2; return $x . $y;", "%(a => 1)@(2)"},
		{"hash literal", "%h = %(a => 1, b => 2); return %h['b'];", "2"},
		{"array index", "@a = @(4, 5, 6); return @a[-1];", "6"},
		{"predicate value", "return 1 < 2;", "1"},
		{"not", "if (!-isnull $x) { return 'set'; } return 'unset';", "unset"},
		{"interpolate", `$x = "a"; return "<$x> <$[3]x> <$[-3]x> $";`, "<a> <a  > <  a> $"},
		{"interpolate index", `@a = @(1, 2); return "a@b @a[1]";`, "a@b 2"},
		{"escapes", `return "t\tn\\\$x";`, "t\tn\\$x"},
		{"single quote", `return 'it\'s';`, "it's"},
		{"named args", `$f = { return $a . $1; }; return [$f: $a => "x", "y"];`, "xy"},
		{"closure args", `$f = { return @_; }; return [$f: 1, 2];`, "@(1, 2)"},
		{"undeclared is global", "$f = { $z = 5; }; [$f]; return $z;", "5"},
		{"local shadows", "$x = 'g'; $f = { local('$x'); $x = 'l'; return $x; }; return [$f] . $x;", "lg"},
		{"catch", `try { throw "boom"; } catch $e { return "caught " . $e; }`, "caught boom"},
		{"native error", `try { fail("bad"); } catch $e { return $e; }`, "fail: bad"},
		{"handler popped first", `try { try { throw "a"; } catch $e { throw "b" . $e; } } catch $e2 { return $e2; }`, "ba"},
		{"done", "done; return 1;", ""},
		{"long", "return 2147483647 + 1L;", "2147483648"},
		{"int wrap", "return 2147483647 + 1;", "-2147483648"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScript(t)
			got, err := runSource(t, s, tt.src)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestHalt(t *testing.T) {
	s := newTestScript(t)
	got, err := runSource(t, s, "halt; return 1;")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !IsHalt(got) {
		t.Errorf("expected halt marker, got %s", got.Describe())
	}
}

func TestForeach(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"runs once per element", "$n = 0; foreach $v (@(1, 2, 3)) { $n = $n + 1; } return $n;", "3"},
		{"destroyed after loop", "foreach $v (@(1, 2, 3)) { } return depth();", "0"},
		{"live inside loop", "foreach $v (@(1)) { $d = depth(); } return $d;", "1"},
		{"destroyed after break", "$n = 0; foreach $v (@(1, 2, 3)) { $n++; if ($v == 2) { break; } } return $n . depth();", "20"},
		{"key value", "%h = %(a => 1, b => 2); $s = ''; foreach $k => $v (%h) { $s = $s . $k . $v; } return $s;", "a1b2"},
		{"skips null values", "%h = %(a => 1); $x = %h['missing']; $n = 0; foreach $k => $v (%h) { $n++; } return $n;", "1"},
		{"over null", "$n = 0; foreach $v ($nothing) { $n++; } return $n;", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScript(t)
			got, err := runSource(t, s, tt.src)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestUncaughtThrow(t *testing.T) {
	s := newTestScript(t)
	before := s.Environment().FrameDepth()
	_, err := runSource(t, s, `$f = { try { throw "inner"; } catch $e { throw "deep"; } }; 1 + [$f];`)
	var uncaught *UncaughtError
	if !errors.As(err, &uncaught) {
		t.Fatalf("expected UncaughtError, got %v", err)
	}
	if uncaught.Value.String() != "deep" {
		t.Errorf("thrown value = %q, want deep", uncaught.Value)
	}
	if after := s.Environment().FrameDepth(); after != before {
		t.Errorf("frame depth %d after failed call, want %d", after, before)
	}
	if s.Environment().HandlerDepth() != 0 {
		t.Errorf("handler stack not empty: %d", s.Environment().HandlerDepth())
	}
	if s.Environment().Signal() != SignalNone {
		t.Errorf("signal left set: %s", s.Environment().Signal())
	}
}

func TestNegativeIndexPastStart(t *testing.T) {
	s := newTestScript(t)
	got, err := runSource(t, s, `@a = @(1); try { @a[-5] = 9; } catch $e { return $e . " " . @a; }`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got.String() != "index: index out of range: -5 @(1)" {
		t.Errorf("got %q", got.String())
	}
}

func TestReadOnlyWriteThrows(t *testing.T) {
	s := newTestScript(t)
	s.Declare(s.Scopes().Global(), "@ro", types.NewArray(types.NewReadOnlyArray([]any{1})))
	got, err := runSource(t, s, `try { @ro[5] = 1; } catch $e { return "caught"; }`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got.String() != "caught" {
		t.Errorf("got %q, want caught", got)
	}
}

func closureVar(t *testing.T, s *ScriptInstance, name string) *Closure {
	t.Helper()
	c, ok := s.Variable(name).Object().(*Closure)
	if !ok {
		t.Fatalf("%s is not a closure", name)
	}
	return c
}

func TestCoroutineResume(t *testing.T) {
	s := newTestScript(t)
	src := `$gen = {
		local('$i');
		for ($i = 0; $i < 3; $i++) {
			yield $i;
		}
		return "done";
	};`
	if _, err := runSource(t, s, src); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	gen := closureVar(t, s, "$gen")

	for _, want := range []string{"0", "1", "2", "done"} {
		got, err := s.Call(gen, "gen", nil)
		if err != nil {
			t.Fatalf("call failed: %v", err)
		}
		if got.String() != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	if gen.Suspended() {
		t.Error("generator still suspended after finishing")
	}
	if got, _ := s.Call(gen, "gen", nil); got.String() != "0" {
		t.Errorf("restart got %q, want 0", got)
	}
}

func TestYieldInsideTry(t *testing.T) {
	s := newTestScript(t)
	src := `$f = {
		try {
			yield 1;
			throw "late";
		} catch $e {
			return "caught " . $e;
		}
	};`
	if _, err := runSource(t, s, src); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	f := closureVar(t, s, "$f")
	if got, _ := s.Call(f, "f", nil); got.String() != "1" {
		t.Fatalf("first call got %q", got)
	}
	if s.Environment().HandlerDepth() != 0 {
		t.Errorf("suspended handler leaked into environment")
	}
	got, err := s.Call(f, "f", nil)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if got.String() != "caught late" {
		t.Errorf("got %q, want caught late", got)
	}
}

// Metadata is tied to the loaded context and starts empty on every resume.
func TestMetadataNotPersistedAcrossYield(t *testing.T) {
	s := newTestScript(t)
	if _, err := runSource(t, s, `$f = { mark(); $m = mark(); yield $m; return mark(); };`); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	f := closureVar(t, s, "$f")
	first, _ := s.Call(f, "f", nil)
	if first.String() != "set" {
		t.Errorf("metadata within one context = %q, want set", first)
	}
	second, _ := s.Call(f, "f", nil)
	if !second.IsNull() {
		t.Errorf("metadata after resume = %q, want $null", second)
	}
}

func TestCallcc(t *testing.T) {
	s := newTestScript(t)
	src := `$f = {
		callcc { $k = $1; return "got " . [$k]; };
		return "after";
	};`
	if _, err := runSource(t, s, src); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	f := closureVar(t, s, "$f")
	got, err := s.Call(f, "f", nil)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if got.String() != "got after" {
		t.Errorf("got %q, want 'got after'", got)
	}
	if f.Suspended() {
		t.Error("capturing closure should not keep the context")
	}
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("bad", "$x = ;\nfoo bar baz;\n$y = 1;", nil)
	if err == nil {
		t.Fatal("expected compile error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "bad:1:") || !strings.Contains(msg, "bad:2:") {
		t.Errorf("errors should name both lines:\n%s", msg)
	}
}

func TestCompileUnbalanced(t *testing.T) {
	_, err := Compile("bad", "if ($x) {\n  $y = 1;\n", nil)
	if err == nil || !strings.Contains(err.Error(), "never closed") {
		t.Errorf("expected missing close error, got %v", err)
	}
}

func TestFlaggedError(t *testing.T) {
	s := newTestScript(t)
	s.FlagError(types.NewString("first"))
	s.FlagError(types.NewString("soft"))
	if got := s.CheckError(); got.String() != "soft" {
		t.Errorf("CheckError() = %q, want soft", got)
	}
	if got := s.CheckError(); !got.IsNull() {
		t.Errorf("second CheckError() = %q, want $null", got)
	}
}

func TestUnknownFunctionThrows(t *testing.T) {
	s := newTestScript(t)
	_, err := runSource(t, s, "nosuch(1);")
	if err == nil || !strings.Contains(err.Error(), "unknown function") {
		t.Errorf("expected unknown function error, got %v", err)
	}
}

func TestStrictWarnThrows(t *testing.T) {
	s := NewScriptInstance("strict", testRegistry(), WithDebug(DebugRequireStrict|DebugThrowWarnings))
	_, err := runSource(t, s, "return $undeclared;")
	if err == nil || !strings.Contains(err.Error(), "not declared") {
		t.Errorf("expected strict mode error, got %v", err)
	}
}
