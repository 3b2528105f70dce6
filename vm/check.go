package vm

import (
	"slumber/types"
)

// Check is a compiled predicate. A check that throws leaves the signal set
// and reports false; callers test the signal before branching.
type Check interface {
	Test(env *Environment) bool
}

// BinaryCheck is `left name right`
type BinaryCheck struct {
	Name   string
	Negate bool
	Left   *Block
	Right  *Block
}

func (c *BinaryCheck) Test(env *Environment) bool {
	left := env.evalBlock(c.Left)
	if env.signal != SignalNone {
		return false
	}
	right := env.evalBlock(c.Right)
	if env.signal != SignalNone {
		return false
	}
	return c.Negate != decide(env, c.Name, left, right)
}

// UnaryCheck is `-name value`
type UnaryCheck struct {
	Name   string
	Negate bool
	Value  *Block
}

func (c *UnaryCheck) Test(env *Environment) bool {
	v := env.evalBlock(c.Value)
	if env.signal != SignalNone {
		return false
	}
	return c.Negate != decide(env, c.Name, v)
}

// decide looks up and runs a registered predicate, throwing when the
// predicate is unknown or fails
func decide(env *Environment, name string, args ...*types.Scalar) bool {
	script := env.script
	p, ok := script.registry.Predicate(name)
	if !ok {
		env.Throw(types.NewString(Errorf(name, "unknown predicate").Error()))
		return false
	}
	ok, err := p.Decide(name, script, NewFrame(args...))
	if err != nil {
		env.Throw(thrownValue(err))
		return false
	}
	return ok
}

// NotCheck inverts another check
type NotCheck struct {
	Check Check
}

func (c *NotCheck) Test(env *Environment) bool {
	ok := c.Check.Test(env)
	if env.signal != SignalNone {
		return false
	}
	return !ok
}

// AndCheck short circuits on the first false
type AndCheck struct {
	Left, Right Check
}

func (c *AndCheck) Test(env *Environment) bool {
	if !c.Left.Test(env) || env.signal != SignalNone {
		return false
	}
	return c.Right.Test(env)
}

// OrCheck short circuits on the first true
type OrCheck struct {
	Left, Right Check
}

func (c *OrCheck) Test(env *Environment) bool {
	if c.Left.Test(env) {
		return true
	}
	if env.signal != SignalNone {
		return false
	}
	return c.Right.Test(env)
}

// ValueCheck tests a value for truth
type ValueCheck struct {
	Value *Block
}

func (c *ValueCheck) Test(env *Environment) bool {
	v := env.evalBlock(c.Value)
	if env.signal != SignalNone {
		return false
	}
	return v.Truthy()
}

// constCheck always answers the same; an empty for condition is true
type constCheck bool

func (c constCheck) Test(*Environment) bool { return bool(c) }

// IterCheck advances the innermost iterator and assigns its item
type IterCheck struct {
	Key   string
	Value string
}

func (c *IterCheck) Test(env *Environment) bool {
	it := env.CurrentIterator()
	if it == nil || !it.HasNext(env) {
		return false
	}
	key, value := it.Next()
	script := env.script
	if c.Key != "" {
		script.SetVariable(c.Key, key)
	}
	script.SetVariable(c.Value, value)
	return true
}

// AssignWhileCheck assigns an expression and continues while it is not $null
type AssignWhileCheck struct {
	Target string
	Value  *Block
}

func (c *AssignWhileCheck) Test(env *Environment) bool {
	v := env.evalBlock(c.Value)
	if env.signal != SignalNone {
		return false
	}
	env.script.SetVariable(c.Target, v)
	return !v.IsNull()
}
