package builtins

import (
	"slumber/types"
	"slumber/vm"
)

// ============================================================================
// NUMBERS
// ============================================================================

// builtinInt converts to a 32 bit integer, truncating doubles and parsing
// strings
// int(value) -> int
func builtinInt(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	return types.NewInt(popArg(args).Int()), nil
}

// builtinLong converts to a 64 bit integer
// long(value) -> long
func builtinLong(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	return types.NewLong(popArg(args).Long()), nil
}

// builtinDouble converts to a double
// double(value) -> double
func builtinDouble(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	return types.NewDouble(popArg(args).Double()), nil
}
