package types

// NullValue is $null. It reads as "" and 0.
type NullValue struct{}

func (NullValue) Kind() Kind      { return KindNull }
func (NullValue) String() string  { return "" }
func (NullValue) Int() int32      { return 0 }
func (NullValue) Long() int64     { return 0 }
func (NullValue) Double() float64 { return 0 }
func (NullValue) Truthy() bool    { return false }
