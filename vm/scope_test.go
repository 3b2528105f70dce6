package vm

import (
	"testing"

	"slumber/types"
)

func TestScopePrecedence(t *testing.T) {
	m := NewScopeManager()
	m.Global().Put("$x", types.NewString("global"))

	closure := NewScope()
	closure.Put("$x", types.NewString("closure"))
	local := NewScope()
	local.Put("$x", types.NewString("local"))
	m.pushClosure(closure)
	m.pushLocal(local)

	steps := []string{"local", "closure", "global"}
	for i, want := range steps {
		v, ok := m.Find("$x")
		if !ok || v.String() != want {
			t.Fatalf("step %d: Find($x) = %v, want %s", i, v, want)
		}
		if i < len(steps)-1 && !m.Undeclare("$x") {
			t.Fatalf("step %d: Undeclare($x) found nothing", i)
		}
	}

	m.Undeclare("$x")
	if _, ok := m.Find("$x"); ok {
		t.Error("$x still visible after removing every declaration")
	}
}

func TestScopeTopLevel(t *testing.T) {
	m := NewScopeManager()
	if m.Local() != nil || m.Closure() != nil {
		t.Fatal("new manager should have no local or closure scope")
	}
	m.popLocal()
	m.popClosure()
	if _, ok := m.Find("$missing"); ok {
		t.Error("Find should miss on an empty manager")
	}
}

func TestEmptyValue(t *testing.T) {
	tests := []struct {
		name string
		want types.Kind
	}{
		{"$x", types.KindNull},
		{"@x", types.KindArray},
		{"%x", types.KindMap},
		{"", types.KindNull},
	}
	for _, tt := range tests {
		if got := EmptyValue(tt.name).Kind(); got != tt.want {
			t.Errorf("EmptyValue(%q) kind = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestFrameOrder(t *testing.T) {
	f := NewFrame(types.NewInt(1), types.NewInt(2), types.NewInt(3))
	args := f.Args()
	if len(args) != 3 || args[0].Int() != 1 || args[2].Int() != 3 {
		t.Fatalf("Args() = %v", args)
	}
	for want := int32(1); want <= 3; want++ {
		if got := f.Pop().Int(); got != want {
			t.Errorf("Pop() = %d, want %d", got, want)
		}
	}
	if !f.Pop().IsNull() {
		t.Error("empty frame should pop $null")
	}
}

func TestEnvironmentBaseFrame(t *testing.T) {
	env := NewEnvironment(nil)
	env.PopFrame()
	if env.FrameDepth() != 1 {
		t.Errorf("base frame removed, depth = %d", env.FrameDepth())
	}
	env.PushFrame()
	env.PushFrame()
	env.truncateFrames(1)
	if env.FrameDepth() != 1 {
		t.Errorf("truncate left depth %d", env.FrameDepth())
	}
}

func TestSignalString(t *testing.T) {
	if got := (SignalCallcc | SignalYield).String(); got != "yield|callcc" {
		t.Errorf("String() = %q", got)
	}
	if !(SignalCallcc | SignalYield).Has(SignalYield) {
		t.Error("callcc should imply yield")
	}
}
