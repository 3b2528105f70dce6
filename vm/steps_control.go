package vm

import (
	"slumber/types"
)

// Target is the storage side of an assignment
type Target interface {
	// Resolve returns the slot to write, or nil after throwing
	Resolve(env *Environment) *types.Scalar
}

// VarTarget is a plain variable
type VarTarget struct {
	Name string
}

func (t *VarTarget) Resolve(env *Environment) *types.Scalar {
	return env.script.Variable(t.Name)
}

// IndexTarget is base[index]. A $null base becomes an array for numeric
// indexes and a hash otherwise; @ and % bases keep their sigil's kind.
type IndexTarget struct {
	Base  Target
	Index *Block
}

func (t *IndexTarget) Resolve(env *Environment) *types.Scalar {
	slot := t.Base.Resolve(env)
	if slot == nil || env.signal != SignalNone {
		return nil
	}
	index := env.evalBlock(t.Index)
	if env.signal != SignalNone {
		return nil
	}
	if slot.IsNull() {
		useMap := !index.Kind().IsNumber()
		if v, ok := t.Base.(*VarTarget); ok && v.Name != "" {
			switch v.Name[0] {
			case '@':
				useMap = false
			case '%':
				useMap = true
			}
		}
		if useMap {
			slot.SetMap(types.NewOrderedMap(false))
		} else {
			slot.SetArray(types.NewListArray())
		}
	}
	switch slot.Kind() {
	case types.KindArray:
		arr, i := slot.Array(), int(index.Int())
		if i < 0 && i+arr.Len() < 0 {
			env.Throw(types.NewString(Errorf("index", "index out of range: %d", i).Error()))
			return nil
		}
		return arr.At(i)
	case types.KindMap:
		return slot.Map().At(index.String())
	}
	env.Throw(types.NewString(Errorf("index", "cannot index %s", slot.Describe()).Error()))
	return nil
}

// ExprTarget writes through the value of an expression, e.g. f()[0]
type ExprTarget struct {
	Value *Block
}

func (t *ExprTarget) Resolve(env *Environment) *types.Scalar {
	v := env.evalBlock(t.Value)
	if env.signal != SignalNone {
		return nil
	}
	return v
}

// store writes v into the slot for target, keeping @ and % variables holding
// their container kind
func store(env *Environment, target Target, v *types.Scalar) {
	slot := target.Resolve(env)
	if slot == nil || env.signal != SignalNone {
		return
	}
	if vt, ok := target.(*VarTarget); ok && len(vt.Name) > 0 {
		want := types.KindNull
		switch vt.Name[0] {
		case '@':
			want = types.KindArray
		case '%':
			want = types.KindMap
		}
		if want != types.KindNull {
			switch {
			case v.IsNull():
				v = EmptyValue(vt.Name)
			case v.Kind() != want:
				env.Throw(types.NewString(Errorf("assign", "cannot assign %s to %s", v.Kind(), vt.Name).Error()))
				return
			}
		}
	}
	slot.SetValue(v)
}

// AssignStep pops a value and stores it. The value is evaluated before the
// target is resolved.
type AssignStep struct {
	Target Target
}

func (s *AssignStep) Evaluate(env *Environment) {
	v := env.CurrentFrame().Pop()
	store(env, s.Target, v)
}

// AssignTupleStep spreads an array over several targets. A non-array value
// is given to every target.
type AssignTupleStep struct {
	Targets []Target
}

func (s *AssignTupleStep) Evaluate(env *Environment) {
	v := env.CurrentFrame().Pop()
	var values []*types.Scalar
	spread := v.Kind() == types.KindArray
	if spread {
		values = v.Array().Values()
	}
	for i, t := range s.Targets {
		item := v
		if spread {
			item = types.NewNull()
			if i < len(values) {
				item = values[i]
			}
		}
		store(env, t, item.Fresh())
		if env.signal != SignalNone {
			return
		}
	}
}

// ReturnStep pops the value and its frame and raises Flag
type ReturnStep struct {
	Flag Signal
}

func (s *ReturnStep) Evaluate(env *Environment) {
	v := env.CurrentFrame().Pop()
	env.PopFrame()
	env.SetSignal(s.Flag, v)
}

// DecideStep branches on a check
type DecideStep struct {
	Check Check
	Then  *Block
	Else  *Block
}

func (s *DecideStep) Evaluate(env *Environment) {
	ok := s.Check.Test(env)
	if env.signal != SignalNone {
		return
	}
	switch {
	case ok:
		s.Then.run(env, 0)
	case s.Else != nil:
		s.Else.run(env, 0)
	}
}

// LoopStep re-tests Check before every pass. Incr runs after each pass,
// including one ended by continue.
type LoopStep struct {
	Check Check
	Body  *Block
	Incr  *Block
}

func (s *LoopStep) Evaluate(env *Environment) {
	s.loop(env)
}

func (s *LoopStep) loop(env *Environment) {
	for {
		ok := s.Check.Test(env)
		if env.signal != SignalNone || !ok {
			return
		}
		s.Body.run(env, 0)
		if !s.afterBody(env) {
			return
		}
	}
}

// afterBody settles the signal left by one pass and reports whether to
// keep looping
func (s *LoopStep) afterBody(env *Environment) bool {
	switch {
	case env.signal&SignalYield != 0:
		env.addResume(loopPoint{loop: s})
		return false
	case env.signal&SignalBreak != 0:
		env.ClearSignal()
		return false
	case env.signal&SignalContinue != 0:
		env.ClearSignal()
	case env.signal != SignalNone:
		return false
	}
	if s.Incr != nil {
		s.Incr.run(env, 0)
		if env.signal != SignalNone {
			return false
		}
	}
	return true
}

type loopPoint struct {
	loop *LoopStep
}

func (p loopPoint) resume(env *Environment) {
	if p.loop.afterBody(env) {
		p.loop.loop(env)
	}
}

// TryStep installs a handler for Body and runs Catch with the thrown value
// bound to Var. The handler is removed before Catch runs.
type TryStep struct {
	Body  *Block
	Var   string
	Catch *Block
}

func (s *TryStep) Evaluate(env *Environment) {
	h := env.installHandler(s.Body)
	s.guard(env)
	s.finish(env, h)
}

func (s *TryStep) guard(env *Environment) {
	defer recoverReadOnly(env)
	s.Body.run(env, 0)
}

func (s *TryStep) finish(env *Environment, h *Handler) {
	if env.signal&SignalYield != 0 {
		env.addResume(tryPoint{try: s, handler: h})
		return
	}
	env.removeHandler(h)
	if env.signal&SignalThrow == 0 {
		return
	}
	env.truncateFrames(h.frameDepth)
	if len(env.iterators) > h.iteratorDepth {
		env.iterators = env.iterators[:h.iteratorDepth]
	}
	v := env.thrown
	env.ClearSignal()
	env.script.SetVariable(s.Var, v)
	s.Catch.run(env, 0)
}

type tryPoint struct {
	try     *TryStep
	handler *Handler
}

func (p tryPoint) resume(env *Environment) {
	p.try.finish(env, p.handler)
}

// IterCreateStep pops a value and its frame and starts iterating it
type IterCreateStep struct{}

func (IterCreateStep) Evaluate(env *Environment) {
	v := env.CurrentFrame().Pop()
	env.PopFrame()
	it := NewIterator(v)
	if _, empty := it.(emptyIterator); empty && !v.IsNull() {
		env.script.Warn("foreach over %s", v.Kind())
		if env.signal != SignalNone {
			return
		}
	}
	env.PushIterator(it)
}

// IterDestroyStep drops the innermost iterator
type IterDestroyStep struct{}

func (IterDestroyStep) Evaluate(env *Environment) {
	env.PopIterator()
}

// BindStep hands `keyword name {block}` to its binder
type BindStep struct {
	Keyword string
	Name    string
	Body    *Block
}

func (s *BindStep) Evaluate(env *Environment) {
	b, _ := env.script.registry.Environment(s.Keyword)
	binder, ok := b.(Binder)
	if !ok {
		env.Throw(types.NewString(Errorf(s.Keyword, "keyword does not bind names").Error()))
		return
	}
	if err := binder.Bind(env.script, s.Keyword, s.Name, s.Body); err != nil {
		env.Throw(thrownValue(err))
	}
}

// BindPredicateStep hands `keyword (predicate) {block}` to its binder
type BindPredicateStep struct {
	Keyword string
	Check   Check
	Body    *Block
}

func (s *BindPredicateStep) Evaluate(env *Environment) {
	b, _ := env.script.registry.Environment(s.Keyword)
	binder, ok := b.(PredicateBinder)
	if !ok {
		env.Throw(types.NewString(Errorf(s.Keyword, "keyword does not bind predicates").Error()))
		return
	}
	if err := binder.BindPredicate(env.script, s.Keyword, s.Check, s.Body); err != nil {
		env.Throw(thrownValue(err))
	}
}

// BindFilterStep hands `keyword name filter {block}` to its binder
type BindFilterStep struct {
	Keyword string
	Name    string
	Filter  string
	Body    *Block
}

func (s *BindFilterStep) Evaluate(env *Environment) {
	b, _ := env.script.registry.Environment(s.Keyword)
	binder, ok := b.(FilterBinder)
	if !ok {
		env.Throw(types.NewString(Errorf(s.Keyword, "keyword does not bind filters").Error()))
		return
	}
	if err := binder.BindFilter(env.script, s.Keyword, s.Name, s.Filter, s.Body); err != nil {
		env.Throw(thrownValue(err))
	}
}
