package types

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrDivideByZero is returned by integer / and % with a zero divisor
var ErrDivideByZero = errors.New("divide by zero")

// numericKind picks the arithmetic width for a pair of operands:
// double beats long, long beats int.
func numericKind(a, b *Scalar) Kind {
	ka, kb := effectiveKind(a), effectiveKind(b)
	if ka == KindDouble || kb == KindDouble {
		return KindDouble
	}
	if ka == KindLong || kb == KindLong {
		return KindLong
	}
	return KindInt
}

func effectiveKind(s *Scalar) Kind {
	k := s.Kind()
	if k == KindString {
		return NumberFromString(s.String()).Kind()
	}
	if k.IsNumber() {
		return k
	}
	return KindInt
}

// Arith applies a numeric or string operator to two operands
func Arith(op string, a, b *Scalar) (*Scalar, error) {
	switch op {
	case ".":
		return NewString(a.String() + b.String()), nil
	case "x":
		n := int(b.Int())
		if n < 0 {
			n = 0
		}
		return NewString(strings.Repeat(a.String(), n)), nil
	case "cmp":
		return NewInt(int32(strings.Compare(a.String(), b.String()))), nil
	case "<=>":
		return NewInt(int32(Compare(a, b))), nil
	}

	switch numericKind(a, b) {
	case KindDouble:
		return doubleArith(op, a.Double(), b.Double())
	case KindLong:
		return longArith(op, a.Long(), b.Long())
	default:
		return intArith(op, a.Int(), b.Int())
	}
}

func intArith(op string, x, y int32) (*Scalar, error) {
	switch op {
	case "+":
		return NewInt(x + y), nil
	case "-":
		return NewInt(x - y), nil
	case "*":
		return NewInt(x * y), nil
	case "/":
		if y == 0 {
			return nil, ErrDivideByZero
		}
		return NewInt(x / y), nil
	case "%":
		if y == 0 {
			return nil, ErrDivideByZero
		}
		return NewInt(x % y), nil
	case "**":
		return NewInt(int32(intPow(int64(x), int64(y)))), nil
	case "<<":
		return NewInt(x << (uint32(y) & 31)), nil
	case ">>":
		return NewInt(x >> (uint32(y) & 31)), nil
	case "&":
		return NewInt(x & y), nil
	case "|":
		return NewInt(x | y), nil
	case "^":
		return NewInt(x ^ y), nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

func longArith(op string, x, y int64) (*Scalar, error) {
	switch op {
	case "+":
		return NewLong(x + y), nil
	case "-":
		return NewLong(x - y), nil
	case "*":
		return NewLong(x * y), nil
	case "/":
		if y == 0 {
			return nil, ErrDivideByZero
		}
		return NewLong(x / y), nil
	case "%":
		if y == 0 {
			return nil, ErrDivideByZero
		}
		return NewLong(x % y), nil
	case "**":
		return NewLong(intPow(x, y)), nil
	case "<<":
		return NewLong(x << (uint64(y) & 63)), nil
	case ">>":
		return NewLong(x >> (uint64(y) & 63)), nil
	case "&":
		return NewLong(x & y), nil
	case "|":
		return NewLong(x | y), nil
	case "^":
		return NewLong(x ^ y), nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

func doubleArith(op string, x, y float64) (*Scalar, error) {
	switch op {
	case "+":
		return NewDouble(x + y), nil
	case "-":
		return NewDouble(x - y), nil
	case "*":
		return NewDouble(x * y), nil
	case "/":
		return NewDouble(x / y), nil
	case "%":
		return NewDouble(math.Mod(x, y)), nil
	case "**":
		return NewDouble(math.Pow(x, y)), nil
	case "<<", ">>", "&", "|", "^":
		return longArith(op, int64(x), int64(y))
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

// intPow wraps on overflow like the rest of integer arithmetic
func intPow(base, exp int64) int64 {
	if exp < 0 {
		switch base {
		case 1:
			return 1
		case -1:
			if exp%2 == 0 {
				return 1
			}
			return -1
		}
		return 0
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// Negate flips the sign within the operand's own width
func Negate(a *Scalar) *Scalar {
	switch effectiveKind(a) {
	case KindDouble:
		return NewDouble(-a.Double())
	case KindLong:
		return NewLong(-a.Long())
	default:
		return NewInt(-a.Int())
	}
}

// Compare orders two scalars numerically using the promotion rule
func Compare(a, b *Scalar) int {
	switch numericKind(a, b) {
	case KindDouble:
		x, y := a.Double(), b.Double()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case KindLong:
		x, y := a.Long(), b.Long()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	default:
		x, y := a.Int(), b.Int()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
}
