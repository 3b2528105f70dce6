package builtins

import (
	"errors"

	"slumber/types"
	"slumber/vm"
)

// ============================================================================
// OPERATORS
// ============================================================================

// arithmeticOps are the infix operators handled by types.Arith
var arithmeticOps = []string{
	"+", "-", "*", "/", "%", "**",
	"<<", ">>", "&", "|", "^",
	".", "x", "<=>", "cmp",
}

func registerOperators(r *vm.Registry) {
	for _, op := range arithmeticOps {
		r.RegisterOperator(op, vm.OperatorFunc(operateArith))
	}
}

// operateArith applies op to the left and right operands. Integer division
// by zero is thrown as "op: divide by zero".
func operateArith(op string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	left := popArg(args)
	right := popArg(args)
	v, err := types.Arith(op, left, right)
	if err != nil {
		if errors.Is(err, types.ErrDivideByZero) {
			return nil, vm.Errorf(op, "divide by zero")
		}
		return nil, vm.Errorf(op, "%v", err)
	}
	return v, nil
}
