package types

import (
	"errors"
	"math"
	"testing"
)

func TestArithPromotion(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		a, b     *Scalar
		want     string
		wantKind Kind
	}{
		{"int plus double", "+", NewInt(1), NewDouble(1.5), "2.5", KindDouble},
		{"int plus int", "+", NewInt(2), NewInt(3), "5", KindInt},
		{"int32 wraps", "+", NewInt(math.MaxInt32), NewInt(1), "-2147483648", KindInt},
		{"long does not wrap", "+", NewLong(math.MaxInt32), NewInt(1), "2147483648", KindLong},
		{"modulus", "%", NewInt(5), NewInt(3), "2", KindInt},
		{"negative modulus truncates", "%", NewInt(-5), NewInt(3), "-2", KindInt},
		{"integer division", "/", NewInt(7), NewInt(2), "3", KindInt},
		{"power", "**", NewInt(2), NewInt(10), "1024", KindInt},
		{"shift", "<<", NewInt(1), NewInt(4), "16", KindInt},
		{"string operand", "+", NewString("4"), NewInt(1), "5", KindInt},
		{"concat", ".", NewInt(1), NewString("a"), "1a", KindString},
		{"repeat", "x", NewString("ab"), NewInt(3), "ababab", KindString},
		{"cmp", "cmp", NewString("a"), NewString("b"), "-1", KindInt},
		{"spaceship", "<=>", NewInt(10), NewInt(9), "1", KindInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Arith(tt.op, tt.a, tt.b)
			if err != nil {
				t.Fatalf("Arith() error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("Arith() = %s, want %s", got, tt.want)
			}
			if got.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", got.Kind(), tt.wantKind)
			}
		})
	}
}

func TestArithDivideByZero(t *testing.T) {
	if _, err := Arith("/", NewInt(1), NewInt(0)); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("int division: err = %v", err)
	}
	if _, err := Arith("%", NewLong(1), NewLong(0)); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("long modulus: err = %v", err)
	}
	got, err := Arith("/", NewDouble(1), NewInt(0))
	if err != nil || !math.IsInf(got.Double(), 1) {
		t.Errorf("double division should give +Inf, got %v, %v", got, err)
	}
}

func TestCompare(t *testing.T) {
	if Compare(NewInt(2), NewDouble(2.5)) != -1 {
		t.Error("2 < 2.5")
	}
	if Compare(NewString("10"), NewInt(9)) != 1 {
		t.Error("numeric compare should parse strings")
	}
	if Compare(NewNull(), NewInt(0)) != 0 {
		t.Error("null compares as 0")
	}
}

func TestNumberFromString(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
		want string
	}{
		{"12", KindInt, "12"},
		{"3000000000", KindLong, "3000000000"},
		{"1.5", KindDouble, "1.5"},
		{"12abc", KindInt, "12"},
		{"abc", KindInt, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := NumberFromString(tt.in)
			if v.Kind() != tt.kind || v.String() != tt.want {
				t.Errorf("NumberFromString(%q) = %v %s", tt.in, v.Kind(), v)
			}
		})
	}
}
