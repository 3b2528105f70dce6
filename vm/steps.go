package vm

import (
	"strings"

	"slumber/types"
)

// PushFrameStep opens a frame for a statement or an argument list
type PushFrameStep struct{}

func (PushFrameStep) Evaluate(env *Environment) { env.PushFrame() }

// PopFrameStep discards the current frame
type PopFrameStep struct{}

func (PopFrameStep) Evaluate(env *Environment) { env.PopFrame() }

// LiteralStep pushes a constant
type LiteralStep struct {
	Value *types.Scalar
}

func (s *LiteralStep) Evaluate(env *Environment) {
	env.CurrentFrame().Push(s.Value.Fresh())
}

// VariableStep pushes the value of a variable
type VariableStep struct {
	Name string
}

func (s *VariableStep) Evaluate(env *Environment) {
	v := env.script.Variable(s.Name)
	env.CurrentFrame().Push(v.Fresh())
}

// IndexStep pops an index and a base and pushes base[index]. Reading a map
// creates the key with $null.
type IndexStep struct{}

func (IndexStep) Evaluate(env *Environment) {
	frame := env.CurrentFrame()
	index := frame.Pop()
	base := frame.Pop()
	switch base.Kind() {
	case types.KindArray:
		v := base.Array().Get(int(index.Int()))
		if v == nil {
			v = types.NewNull()
		}
		frame.Push(v.Fresh())
	case types.KindMap:
		frame.Push(base.Map().At(index.String()).Fresh())
	case types.KindNull:
		frame.Push(types.NewNull())
	default:
		env.Throw(types.NewString(Errorf("index", "%s is not an array or a hash", base.Describe()).Error()))
	}
}

// OperatorStep pops right and left and pushes left op right
type OperatorStep struct {
	Op string
}

func (s *OperatorStep) Evaluate(env *Environment) {
	frame := env.CurrentFrame()
	right := frame.Pop()
	left := frame.Pop()
	result, ok := operate(env, s.Op, left, right)
	if ok {
		frame.Push(result)
	}
}

func operate(env *Environment, op string, left, right *types.Scalar) (*types.Scalar, bool) {
	script := env.script
	o, found := script.registry.Operator(op)
	if !found {
		env.Throw(types.NewString(Errorf(op, "unknown operator").Error()))
		return nil, false
	}
	result, err := o.Operate(op, script, NewFrame(left, right))
	if err != nil {
		env.Throw(thrownValue(err))
		return nil, false
	}
	if result == nil {
		result = types.NewNull()
	}
	return result, true
}

// NegateStep replaces the top value with its negation
type NegateStep struct{}

func (NegateStep) Evaluate(env *Environment) {
	frame := env.CurrentFrame()
	frame.Push(types.Negate(frame.Pop()))
}

// popArgs removes a frame filled in evaluation order and arranges it so
// Pop yields the first argument
func popArgs(env *Environment) *Frame {
	args := env.PopFrame()
	args.reverse()
	return args
}

// CallStep pops the argument frame and calls &Name, pushing the result
type CallStep struct {
	Name string
}

func (s *CallStep) Evaluate(env *Environment) {
	args := popArgs(env)
	script := env.script
	fn, ok := script.registry.Function(s.Name)
	if !ok {
		env.Throw(types.NewString(Errorf(s.Name, "unknown function &%s", s.Name).Error()))
		return
	}
	result, err := script.callFunction(s.Name, fn, args)
	if err != nil {
		env.Throw(thrownValue(err))
		return
	}
	if env.signal != SignalNone {
		return
	}
	if result == nil {
		result = types.NewNull()
	}
	env.CurrentFrame().Push(result)
}

// FunctionRefStep pushes &name, or $null when nothing is registered
type FunctionRefStep struct {
	Name string
}

func (s *FunctionRefStep) Evaluate(env *Environment) {
	fn, ok := env.script.registry.Function(s.Name)
	if !ok {
		env.CurrentFrame().Push(types.NewNull())
		return
	}
	env.CurrentFrame().Push(types.NewObject(fn))
}

// ClosureStep captures a block as a new closure value
type ClosureStep struct {
	Block *Block
}

func (s *ClosureStep) Evaluate(env *Environment) {
	env.CurrentFrame().Push(types.NewObject(NewClosure(env.script, "", s.Block)))
}

// PredicateValueStep pushes 1 or 0 for a check
type PredicateValueStep struct {
	Check Check
}

func (s *PredicateValueStep) Evaluate(env *Environment) {
	ok := s.Check.Test(env)
	if env.signal != SignalNone {
		return
	}
	env.CurrentFrame().Push(types.NewBool(ok))
}

// MakeArrayStep pops the element frame into a new array
type MakeArrayStep struct{}

func (MakeArrayStep) Evaluate(env *Environment) {
	items := popArgs(env).Args()
	env.CurrentFrame().Push(types.NewArray(types.NewListArray(items...)))
}

// MakePairStep pops a value and a key and pushes a KeyValuePair
type MakePairStep struct{}

func (MakePairStep) Evaluate(env *Environment) {
	frame := env.CurrentFrame()
	value := frame.Pop()
	key := frame.Pop()
	frame.Push(types.NewObject(&KeyValuePair{Key: key.String(), Value: value}))
}

// MakeHashStep pops a frame of pairs into a new insertion ordered map
type MakeHashStep struct{}

func (MakeHashStep) Evaluate(env *Environment) {
	items := popArgs(env).Args()
	m := types.NewOrderedMap(false)
	for _, item := range items {
		kv, ok := item.Object().(*KeyValuePair)
		if !ok {
			env.Throw(types.NewString(Errorf("hash", "%s is not a key => value pair", item.Describe()).Error()))
			return
		}
		m.Put(kv.Key, kv.Value)
	}
	env.CurrentFrame().Push(types.NewMap(m))
}

// StringPart is one piece of an interpolated string: literal text, or a
// value block with an optional alignment width
type StringPart struct {
	Text  string
	Value *Block
	Width int
}

// BuildStringStep assembles an interpolated string in source order
type BuildStringStep struct {
	Parts []StringPart
}

func (s *BuildStringStep) Evaluate(env *Environment) {
	var b strings.Builder
	for _, part := range s.Parts {
		if part.Value == nil {
			b.WriteString(part.Text)
			continue
		}
		v := env.evalBlock(part.Value)
		if env.signal != SignalNone {
			return
		}
		b.WriteString(align(v.String(), part.Width))
	}
	env.CurrentFrame().Push(types.NewString(b.String()))
}

// align pads text to width: positive pads on the right, negative on the left
func align(text string, width int) string {
	switch {
	case width > 0 && len(text) < width:
		return text + strings.Repeat(" ", width-len(text))
	case width < 0 && len(text) < -width:
		return strings.Repeat(" ", -width-len(text)) + text
	}
	return text
}

// ClassStep pushes the host's class object for ^Name
type ClassStep struct {
	Name string
}

func (s *ClassStep) Evaluate(env *Environment) {
	script := env.script
	if script.host == nil {
		env.Throw(types.NewString(Errorf("^"+s.Name, "%v", ErrNoHost).Error()))
		return
	}
	v, err := script.host.Class(s.Name)
	if v = script.hostResult(env, v, err); env.signal == SignalNone {
		env.CurrentFrame().Push(v)
	}
}

// ObjectNewStep pops the argument frame and asks the host for a new object
type ObjectNewStep struct {
	Class string
}

func (s *ObjectNewStep) Evaluate(env *Environment) {
	args := popArgs(env)
	script := env.script
	if script.host == nil {
		env.Throw(types.NewString(Errorf("new "+s.Class, "%v", ErrNoHost).Error()))
		return
	}
	v, err := script.host.New(s.Class, args.Args())
	if v = script.hostResult(env, v, err); env.signal == SignalNone {
		env.CurrentFrame().Push(v)
	}
}

// ObjectAccessStep pops the argument frame, then the target, and sends
// Message to it
type ObjectAccessStep struct {
	Message string
}

func (s *ObjectAccessStep) Evaluate(env *Environment) {
	args := popArgs(env)
	target := env.CurrentFrame().Pop()
	v := env.script.sendObject(env, target, s.Message, args)
	if env.signal == SignalNone {
		env.CurrentFrame().Push(v)
	}
}

// ObjectStaticStep sends Message to a class by name. A registered function
// of that name takes precedence over the host.
type ObjectStaticStep struct {
	Class   string
	Message string
}

func (s *ObjectStaticStep) Evaluate(env *Environment) {
	args := popArgs(env)
	script := env.script
	if fn, ok := script.registry.Function(s.Class); ok {
		v := script.invokeValue(env, types.NewObject(fn), s.Message, args)
		if env.signal == SignalNone {
			env.CurrentFrame().Push(v)
		}
		return
	}
	if script.host == nil {
		env.Throw(types.NewString(Errorf(s.Class, "%v", ErrNoHost).Error()))
		return
	}
	v, err := script.host.Static(s.Class, s.Message, args.Args())
	if v = script.hostResult(env, v, err); env.signal == SignalNone {
		env.CurrentFrame().Push(v)
	}
}
