package builtins

import "testing"

func TestPatternCache(t *testing.T) {
	p := NewPatternCache(2)
	first, err := p.Compile(`a+`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	again, _ := p.Compile(`a+`)
	if first != again {
		t.Error("second compile did not hit the cache")
	}
	p.Compile(`b`)
	p.Compile(`c`)
	if p.Len() != 2 {
		t.Errorf("cache holds %d patterns, want 2", p.Len())
	}
	if _, err := p.Compile(`(`); err == nil {
		t.Error("expected an error for an unbalanced group")
	}
	if p.Len() != 2 {
		t.Error("failed pattern was cached")
	}
}

func TestWildcardMatch(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"*", "", true},
		{"*", "anything", true},
		{"a*c", "abbbc", true},
		{"a*c", "abbb", false},
		{"?b", "ab", true},
		{"?b", "b", false},
		{"*.go", "main.go", true},
		{"a*b*c", "aXbYc", true},
		{"a*b*c", "aXcYb", false},
		{"", "", true},
	}
	for _, tt := range tests {
		if got := wildcardMatch(tt.pattern, tt.s); got != tt.want {
			t.Errorf("wildcardMatch(%q, %q) = %v, want %v", tt.pattern, tt.s, got, tt.want)
		}
	}
}
