package vm

import (
	"fmt"

	"slumber/types"
)

// ScriptError is a native contract violation: wrong argument kind,
// missing operand and the like. It is thrown as its message.
type ScriptError struct {
	Function string
	Err      error
}

func (e *ScriptError) Error() string {
	if e.Function == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Function, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// Errorf builds a ScriptError for function
func Errorf(function, format string, args ...any) *ScriptError {
	return &ScriptError{Function: function, Err: fmt.Errorf(format, args...)}
}

// ThrowError lets a native function throw an arbitrary value
type ThrowError struct {
	Value *types.Scalar
}

func (e *ThrowError) Error() string { return e.Value.String() }

// UncaughtError is a throw that escaped to the host
type UncaughtError struct {
	Value  *types.Scalar
	Script string
	Line   int
}

func (e *UncaughtError) Error() string {
	return fmt.Sprintf("%s:%d: uncaught exception: %s", e.Script, e.Line, e.Value)
}

// thrownValue converts a native error into the value a script catches
func thrownValue(err error) *types.Scalar {
	switch e := err.(type) {
	case *ThrowError:
		return e.Value
	case *UncaughtError:
		return e.Value
	default:
		return types.NewString(err.Error())
	}
}
