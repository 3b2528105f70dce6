package types

import (
	"math"
	"strconv"
	"strings"
)

// DoubleValue is a 64-bit float
type DoubleValue struct {
	Val float64
}

func (d DoubleValue) Kind() Kind { return KindDouble }

// String renders whole numbers with a trailing ".0" so 3.0 never prints as 3
func (d DoubleValue) String() string {
	if math.IsNaN(d.Val) {
		return "NaN"
	}
	if math.IsInf(d.Val, 1) {
		return "Infinity"
	}
	if math.IsInf(d.Val, -1) {
		return "-Infinity"
	}
	s := strconv.FormatFloat(d.Val, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (d DoubleValue) Int() int32      { return int32(int64(d.Val)) }
func (d DoubleValue) Long() int64     { return int64(d.Val) }
func (d DoubleValue) Double() float64 { return d.Val }
func (d DoubleValue) Truthy() bool    { return d.Val != 0 }
