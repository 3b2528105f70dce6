package trace

import (
	"bytes"
	"strings"
	"testing"

	"slumber/types"
)

func TestTracerFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters []string
		call    string
		want    bool
	}{
		{"no filters", nil, "&println", true},
		{"exact", []string{"println"}, "&println", true},
		{"glob", []string{"print*"}, "&println", true},
		{"sigil in filter", []string{"&size"}, "&size", true},
		{"no match", []string{"size"}, "&println", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tr := New(true, tt.filters, &buf)
			tr.Call("test.sl", tt.call, []*types.Scalar{types.NewString("hi")})
			got := strings.Contains(buf.String(), "CALL")
			if got != tt.want {
				t.Errorf("traced = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestTracerDisabled(t *testing.T) {
	var buf bytes.Buffer
	tr := New(false, nil, &buf)
	tr.Call("s", "&f", nil)
	tr.Return("s", "&f", types.NewInt(1))
	if buf.Len() != 0 {
		t.Errorf("disabled tracer wrote %q", buf.String())
	}
	var nilTracer *Tracer
	if nilTracer.IsEnabled() {
		t.Error("nil tracer should report disabled")
	}
}

func TestTracerReturnAndException(t *testing.T) {
	var buf bytes.Buffer
	tr := New(true, nil, &buf)
	tr.Return("s", "&f", types.NewString("ok"))
	tr.Exception("s", "&f", types.NewString("boom"))
	out := buf.String()
	if !strings.Contains(out, `"result":"'ok'"`) {
		t.Errorf("missing result in %q", out)
	}
	if !strings.Contains(out, `"value":"boom"`) {
		t.Errorf("missing exception value in %q", out)
	}
}

func TestTracerWarning(t *testing.T) {
	var buf bytes.Buffer
	tr := New(true, []string{"println"}, &buf)
	tr.Warning("test.sl", 7, "variable $x not declared")
	out := buf.String()
	if !strings.Contains(out, `"line":7`) || !strings.Contains(out, "not declared") {
		t.Errorf("unexpected warning output %q", out)
	}
}
