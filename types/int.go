package types

import "strconv"

// IntValue is a 32-bit integer
type IntValue struct {
	Val int32
}

func (i IntValue) Kind() Kind      { return KindInt }
func (i IntValue) String() string  { return strconv.FormatInt(int64(i.Val), 10) }
func (i IntValue) Int() int32      { return i.Val }
func (i IntValue) Long() int64     { return int64(i.Val) }
func (i IntValue) Double() float64 { return float64(i.Val) }
func (i IntValue) Truthy() bool    { return i.Val != 0 }

// LongValue is a 64-bit integer, written 42L in source
type LongValue struct {
	Val int64
}

func (l LongValue) Kind() Kind      { return KindLong }
func (l LongValue) String() string  { return strconv.FormatInt(l.Val, 10) }
func (l LongValue) Int() int32      { return int32(l.Val) }
func (l LongValue) Long() int64     { return l.Val }
func (l LongValue) Double() float64 { return float64(l.Val) }
func (l LongValue) Truthy() bool    { return l.Val != 0 }
