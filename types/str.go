package types

import (
	"strconv"
	"strings"
)

// StrValue is a string
type StrValue struct {
	Val string
}

func (s StrValue) Kind() Kind     { return KindString }
func (s StrValue) String() string { return s.Val }

// Int parses the string the way arithmetic sees it: unparseable text is 0
func (s StrValue) Int() int32 {
	return NumberFromString(s.Val).Int()
}

func (s StrValue) Long() int64 {
	return NumberFromString(s.Val).Long()
}

func (s StrValue) Double() float64 {
	return NumberFromString(s.Val).Double()
}

// Truthy: both "" and "0" are false
func (s StrValue) Truthy() bool {
	return s.Val != "" && s.Val != "0"
}

// NumberFromString picks the narrowest numeric Value that represents text.
// Text that is not a number becomes IntValue{0}.
func NumberFromString(text string) Value {
	t := strings.TrimSpace(text)
	if t == "" {
		return IntValue{0}
	}
	if n, err := strconv.ParseInt(t, 10, 32); err == nil {
		return IntValue{int32(n)}
	}
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		return LongValue{n}
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return DoubleValue{f}
	}
	// leading digits only, e.g. "12abc"
	end := 0
	if end < len(t) && (t[end] == '-' || t[end] == '+') {
		end++
	}
	for end < len(t) && t[end] >= '0' && t[end] <= '9' {
		end++
	}
	if n, err := strconv.ParseInt(t[:end], 10, 64); err == nil {
		if n >= -1<<31 && n < 1<<31 {
			return IntValue{int32(n)}
		}
		return LongValue{n}
	}
	return IntValue{0}
}
