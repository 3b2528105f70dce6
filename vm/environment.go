package vm

import "slumber/types"

// Environment is the execution state of one script instance: the frame
// stack, the signal register, installed handlers, live iterators and the
// per-context metadata map.
type Environment struct {
	script *ScriptInstance

	frames    []*Frame
	signal    Signal
	value     *types.Scalar // return, yield or callcc operand
	thrown    *types.Scalar
	handlers  []*Handler
	iterators []Iterator
	resume    []resumePoint
	meta      map[string]any
	line      int
}

// NewEnvironment returns an environment with one base frame
func NewEnvironment(script *ScriptInstance) *Environment {
	return &Environment{
		script: script,
		frames: []*Frame{{}},
		meta:   make(map[string]any),
	}
}

// Script returns the owning script instance
func (e *Environment) Script() *ScriptInstance { return e.script }

// PushFrame opens a new value stack
func (e *Environment) PushFrame() {
	e.frames = append(e.frames, &Frame{})
}

// PopFrame removes and returns the current frame. The base frame is never
// removed; popping it returns an empty frame.
func (e *Environment) PopFrame() *Frame {
	if len(e.frames) <= 1 {
		return &Frame{}
	}
	f := e.frames[len(e.frames)-1]
	e.frames = e.frames[:len(e.frames)-1]
	return f
}

// CurrentFrame returns the frame steps push onto
func (e *Environment) CurrentFrame() *Frame {
	return e.frames[len(e.frames)-1]
}

// FrameDepth is the number of live frames
func (e *Environment) FrameDepth() int { return len(e.frames) }

func (e *Environment) truncateFrames(depth int) {
	if depth < 1 {
		depth = 1
	}
	if depth < len(e.frames) {
		e.frames = e.frames[:depth]
	}
}

// Signal returns the flow control register
func (e *Environment) Signal() Signal { return e.signal }

// SetSignal raises flag carrying v
func (e *Environment) SetSignal(flag Signal, v *types.Scalar) {
	if v == nil {
		v = types.NewNull()
	}
	if flag&SignalThrow != 0 {
		e.thrown = v
	} else {
		e.value = v
	}
	e.signal = flag
}

// ClearSignal resets the register
func (e *Environment) ClearSignal() {
	e.signal = SignalNone
}

// Throw raises v as an exception
func (e *Environment) Throw(v *types.Scalar) {
	e.SetSignal(SignalThrow, v)
}

// IsThrowing reports whether an exception is unwinding
func (e *Environment) IsThrowing() bool { return e.signal&SignalThrow != 0 }

// Thrown returns the value of the current or last exception
func (e *Environment) Thrown() *types.Scalar { return e.thrown }

// Line is the source line of the step running now
func (e *Environment) Line() int { return e.line }

// Meta returns the per-context metadata map. It is replaced on every
// context load and is not saved across a yield.
func (e *Environment) Meta() map[string]any { return e.meta }

// addResume records a suspended level while a yield unwinds
func (e *Environment) addResume(p resumePoint) {
	e.resume = append(e.resume, p)
}

// takeResume hands over the points recorded by the last yield
func (e *Environment) takeResume() []resumePoint {
	points := e.resume
	e.resume = nil
	return points
}

// runPoints replays a suspended execution innermost first. If it yields
// again, the points that never ran are kept after the new ones.
func (e *Environment) runPoints(points []resumePoint) {
	for i, p := range points {
		p.resume(e)
		if e.signal&SignalYield != 0 {
			e.resume = append(e.resume, points[i+1:]...)
			return
		}
	}
}

// evalBlock runs a value block in a scratch frame and returns its result
func (e *Environment) evalBlock(b *Block) *types.Scalar {
	depth := len(e.frames)
	e.PushFrame()
	b.run(e, 0)
	v := e.CurrentFrame().Peek()
	e.truncateFrames(depth)
	if v == nil {
		return types.NewNull()
	}
	return v
}

// PushIterator registers a live foreach iterator
func (e *Environment) PushIterator(it Iterator) {
	e.iterators = append(e.iterators, it)
}

// PopIterator removes the innermost iterator
func (e *Environment) PopIterator() Iterator {
	if len(e.iterators) == 0 {
		return nil
	}
	it := e.iterators[len(e.iterators)-1]
	e.iterators = e.iterators[:len(e.iterators)-1]
	return it
}

// CurrentIterator returns the innermost live iterator, or nil
func (e *Environment) CurrentIterator() Iterator {
	if len(e.iterators) == 0 {
		return nil
	}
	return e.iterators[len(e.iterators)-1]
}

// IteratorDepth is the number of live iterators
func (e *Environment) IteratorDepth() int { return len(e.iterators) }

// HandlerDepth is the number of installed exception handlers
func (e *Environment) HandlerDepth() int { return len(e.handlers) }

// Handler is an installed catch block. Depths are restored when it fires.
type Handler struct {
	owner         *Block
	frameDepth    int
	iteratorDepth int
}

func (e *Environment) installHandler(owner *Block) *Handler {
	h := &Handler{owner: owner, frameDepth: len(e.frames), iteratorDepth: len(e.iterators)}
	e.handlers = append(e.handlers, h)
	return h
}

// removeHandler drops h and anything installed above it
func (e *Environment) removeHandler(h *Handler) {
	for i := len(e.handlers) - 1; i >= 0; i-- {
		if e.handlers[i] == h {
			e.handlers = e.handlers[:i]
			return
		}
	}
}
