package vm

import (
	"fmt"
	"sync"
	"testing"

	"slumber/types"
)

const countSource = "$n = 0; for ($i = 0; $i < 200; $i++) { $n = $n + 1; } return $n;"

func compileSource(t *testing.T, r *Registry, src string) *Block {
	t.Helper()
	block, err := Compile("test", src, r.Parser())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return block
}

// defineClosure runs `$name = { body };` in s and returns the closure
func defineClosure(t *testing.T, s *ScriptInstance, name, body string) *Closure {
	t.Helper()
	if _, err := s.Run(compileSource(t, s.Registry(), name+" = { "+body+" };")); err != nil {
		t.Fatalf("define %s: %v", name, err)
	}
	return closureVar(t, s, name)
}

// Run these with -race: every case drives several goroutines through
// instances that share one registry.
func TestConcurrentInstances(t *testing.T) {
	tests := []struct {
		name string
		// setup returns one call per goroutine; each must return want
		setup func(t *testing.T, r *Registry) []func() (*types.Scalar, error)
		want  string
	}{
		{
			name: "separate instances share registry and block",
			setup: func(t *testing.T, r *Registry) []func() (*types.Scalar, error) {
				block := compileSource(t, r, countSource)
				var calls []func() (*types.Scalar, error)
				for i := 0; i < 4; i++ {
					s := NewScriptInstance(fmt.Sprintf("s%d", i), r)
					calls = append(calls, func() (*types.Scalar, error) { return s.Run(block) })
				}
				return calls
			},
			want: "200",
		},
		{
			name: "host calls into one instance serialize",
			setup: func(t *testing.T, r *Registry) []func() (*types.Scalar, error) {
				s := NewScriptInstance("owner", r)
				f := defineClosure(t, s, "$f", countSource)
				var calls []func() (*types.Scalar, error)
				for i := 0; i < 4; i++ {
					calls = append(calls, func() (*types.Scalar, error) { return s.Call(f, "f", nil) })
				}
				return calls
			},
			want: "200",
		},
		{
			name: "closure called from another instance",
			setup: func(t *testing.T, r *Registry) []func() (*types.Scalar, error) {
				owner := NewScriptInstance("owner", r)
				f := defineClosure(t, owner, "$f", countSource)
				r.Register("count", f)
				block := compileSource(t, r, "return count();")
				a := NewScriptInstance("a", r)
				c := NewScriptInstance("c", r)
				return []func() (*types.Scalar, error){
					func() (*types.Scalar, error) { return a.Run(block) },
					func() (*types.Scalar, error) { return c.Run(block) },
					func() (*types.Scalar, error) { return owner.Call(f, "f", nil) },
					func() (*types.Scalar, error) { return a.Call(f, "f", nil) },
				}
			},
			want: "200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := tt.setup(t, testRegistry())
			const rounds = 50

			var wg sync.WaitGroup
			errs := make(chan error, len(calls)*rounds)
			for _, call := range calls {
				call := call
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < rounds; i++ {
						got, err := call()
						if err != nil {
							errs <- err
							return
						}
						if got.String() != tt.want {
							errs <- fmt.Errorf("got %q, want %q", got, tt.want)
							return
						}
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Error(err)
			}
		})
	}
}

func TestCrossScriptReentry(t *testing.T) {
	r := testRegistry()
	a := NewScriptInstance("a", r)
	b := NewScriptInstance("b", r)
	r.Register("inner", defineClosure(t, a, "$g", "return 7;"))
	r.Register("outer", defineClosure(t, b, "$h", "return inner() + 1;"))

	got, err := a.Run(compileSource(t, r, "return outer();"))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got.String() != "8" {
		t.Errorf("got %q, want 8", got)
	}
	if a.scopes.holder.Load() != nil || b.scopes.holder.Load() != nil {
		t.Error("lock still held after the call chain returned")
	}
}

func TestForeignThrowReleasesOwner(t *testing.T) {
	r := testRegistry()
	owner := NewScriptInstance("owner", r)
	r.Register("boom", defineClosure(t, owner, "$f", `throw "boom";`))
	a := NewScriptInstance("a", r)

	_, err := a.Run(compileSource(t, r, "return boom();"))
	if err == nil {
		t.Fatal("expected the throw to reach the host")
	}
	if owner.scopes.holder.Load() != nil {
		t.Fatal("owner lock leaked after a throw")
	}
	if got, err := owner.Run(compileSource(t, r, "return 1;")); err != nil || got.String() != "1" {
		t.Errorf("owner unusable after foreign throw: %v, %v", got, err)
	}
}
