package builtins

import (
	"fmt"
	"strings"

	"slumber/types"
	"slumber/vm"
)

// ============================================================================
// OUTPUT
// ============================================================================

// builtinPrintln writes its arguments and a newline to the script's output
// println(value...) -> $null
func builtinPrintln(_ string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	fmt.Fprintln(s.Output(), joinArgs(args))
	return null(), nil
}

// builtinPrint is println without the newline
// print(value...) -> $null
func builtinPrint(_ string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	fmt.Fprint(s.Output(), joinArgs(args))
	return null(), nil
}

// builtinWarn logs a warning tagged with the script and line. It goes to
// the logger regardless of the script's debug flags.
// warn(message) -> $null
func builtinWarn(_ string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	logger := s.Logger()
	logger.Warn().
		Str("script", s.Name()).
		Int("line", s.Environment().Line()).
		Msg(joinArgs(args))
	return null(), nil
}

func joinArgs(args *vm.Frame) string {
	var sb strings.Builder
	for !args.IsEmpty() {
		sb.WriteString(args.Pop().String())
	}
	return sb.String()
}
