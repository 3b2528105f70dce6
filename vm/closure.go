package vm

import (
	"fmt"
	"strconv"
	"strings"

	"slumber/types"
)

// Closure is a block bound to its owning script, a captured scope and the
// saved contexts of suspended invocations. An empty context stack means the
// next call starts the block from the top.
type Closure struct {
	name     string
	block    *Block
	owner    *ScriptInstance
	scope    *Scope
	meta     map[string]any
	contexts []*SavedFrame
}

// SavedFrame is a suspended invocation: the resume points innermost first,
// the local scope, and the iterators and handlers that were live inside the
// closure. Handler depths are stored relative to the closure's entry.
type SavedFrame struct {
	points    []resumePoint
	locals    *Scope
	iterators []Iterator
	handlers  []*Handler
}

// NewClosure binds block to script with a fresh closure scope
func NewClosure(script *ScriptInstance, name string, block *Block) *Closure {
	return &Closure{
		name:  name,
		block: block,
		owner: script,
		scope: NewScope(),
		meta:  make(map[string]any),
	}
}

func (c *Closure) String() string {
	if c.name != "" {
		return "&" + strings.TrimPrefix(c.name, "&")
	}
	return fmt.Sprintf("&closure[%s:%d]", c.owner.Name(), c.block.Line(0))
}

// Name returns the name the closure was bound under, if any
func (c *Closure) Name() string { return c.name }

// Owner returns the script the closure runs in
func (c *Closure) Owner() *ScriptInstance { return c.owner }

// Scope returns the captured closure scope
func (c *Closure) Scope() *Scope { return c.scope }

// Block returns the compiled body
func (c *Closure) Block() *Block { return c.block }

// Meta is the closure's own metadata table
func (c *Closure) Meta() map[string]any { return c.meta }

// Suspended reports whether the next call resumes a saved context
func (c *Closure) Suspended() bool { return len(c.contexts) > 0 }

// Evaluate runs the closure in its owner's environment. A throw stays on
// the signal register when the caller is the owner; across scripts it is
// returned as a ThrowError. A call from another script takes the owner's
// lock under the caller's chain.
func (c *Closure) Evaluate(message string, caller *ScriptInstance, args *Frame) (*types.Scalar, error) {
	if caller != c.owner {
		var chain *callChain
		if caller != nil {
			chain = caller.chain
		}
		if chain == nil {
			chain = &callChain{}
		}
		exit := c.owner.enter(chain)
		defer exit()
	}
	env := c.owner.env
	result := c.invoke(env, message, args)
	if env.signal&SignalThrow != 0 && caller != c.owner {
		v := env.thrown
		env.ClearSignal()
		return nil, &ThrowError{Value: v}
	}
	return result, nil
}

// invoke loads a context (fresh or saved), runs it, and either completes,
// suspends or leaves a throw on the signal register
func (c *Closure) invoke(env *Environment, message string, args *Frame) *types.Scalar {
	scopes := c.owner.scopes
	frameDepth := env.FrameDepth()
	iterDepth := env.IteratorDepth()
	handlerDepth := env.HandlerDepth()
	meta, line := env.meta, env.line
	env.meta = make(map[string]any)

	var saved *SavedFrame
	if n := len(c.contexts); n > 0 {
		saved = c.contexts[n-1]
		c.contexts = c.contexts[:n-1]
	}
	locals := NewScope()
	if saved != nil {
		locals = saved.locals
		env.iterators = append(env.iterators, saved.iterators...)
		for _, h := range saved.handlers {
			h.frameDepth += frameDepth
			h.iteratorDepth += iterDepth
			env.handlers = append(env.handlers, h)
		}
	}
	scopes.pushClosure(c.scope)
	scopes.pushLocal(locals)
	c.bindArgs(locals, message, args)

	c.runBody(env, saved)

	signal := env.signal
	var suspended *SavedFrame
	if signal&SignalYield != 0 {
		suspended = &SavedFrame{
			points:    env.takeResume(),
			locals:    locals,
			iterators: append([]Iterator(nil), env.iterators[iterDepth:]...),
			handlers:  append([]*Handler(nil), env.handlers[handlerDepth:]...),
		}
		for _, h := range suspended.handlers {
			h.frameDepth -= frameDepth
			h.iteratorDepth -= iterDepth
		}
	}

	scopes.popLocal()
	scopes.popClosure()
	env.truncateFrames(frameDepth)
	if len(env.iterators) > iterDepth {
		env.iterators = env.iterators[:iterDepth]
	}
	if len(env.handlers) > handlerDepth {
		env.handlers = env.handlers[:handlerDepth]
	}
	env.resume = nil
	env.meta, env.line = meta, line

	switch {
	case signal&SignalCallcc != 0:
		env.ClearSignal()
		k := &Closure{
			name:     c.name,
			block:    c.block,
			owner:    c.owner,
			scope:    c.scope,
			meta:     c.meta,
			contexts: []*SavedFrame{suspended},
		}
		return c.owner.invokeValue(env, env.value, "callcc", NewFrame(types.NewObject(k)))
	case signal&SignalYield != 0:
		env.ClearSignal()
		c.contexts = append(c.contexts, suspended)
		return env.value
	case signal&SignalReturn != 0:
		env.ClearSignal()
		return env.value
	case signal&(SignalBreak|SignalContinue) != 0:
		env.ClearSignal()
	}
	return types.NewNull()
}

// runBody starts or resumes the block. A write to a read-only container
// becomes a throw.
func (c *Closure) runBody(env *Environment, saved *SavedFrame) {
	defer recoverReadOnly(env)
	if saved != nil {
		env.runPoints(saved.points)
		return
	}
	c.block.run(env, 0)
}

// bindArgs sets $0, $this, $1..$n and @_. Key/value pair arguments bind
// $key instead of taking a position.
func (c *Closure) bindArgs(locals *Scope, message string, args *Frame) {
	locals.Put("$0", types.NewString(message))
	locals.Put("$this", types.NewObject(c))
	all := types.NewListArray()
	n := 0
	if args != nil {
		for !args.IsEmpty() {
			a := args.Pop()
			if kv, ok := a.Object().(*KeyValuePair); ok {
				name := kv.Key
				if !strings.HasPrefix(name, "$") {
					name = "$" + name
				}
				locals.Put(name, kv.Value.Fresh())
				continue
			}
			n++
			locals.Put("$"+strconv.Itoa(n), a.Fresh())
			all.Push(a.Fresh())
		}
	}
	locals.Put("@_", types.NewArray(all))
}

func recoverReadOnly(env *Environment) {
	if r := recover(); r != nil {
		e, ok := r.(*types.ReadOnlyError)
		if !ok {
			panic(r)
		}
		env.resume = nil
		env.Throw(types.NewString(e.Error()))
	}
}

// KeyValuePair is a `key => value` expression result. It is a named
// argument in calls and an entry in %() literals.
type KeyValuePair struct {
	Key   string
	Value *types.Scalar
}

func (kv *KeyValuePair) String() string {
	return kv.Key + "=" + kv.Value.String()
}
