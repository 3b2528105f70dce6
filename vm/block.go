package vm

import "slumber/types"

// Step is one primitive operation. Steps communicate through the current
// frame and the environment's signal register.
type Step interface {
	Evaluate(env *Environment)
}

// Block is an ordered sequence of steps, each tagged with a source line.
// Blocks are immutable after compilation and may be entered concurrently
// by recursion and suspended coroutines.
type Block struct {
	steps []Step
	lines []int
}

// NewBlock returns an empty block
func NewBlock() *Block {
	return &Block{}
}

// Add appends a step
func (b *Block) Add(step Step, line int) {
	b.steps = append(b.steps, step)
	b.lines = append(b.lines, line)
}

// Len returns the number of steps
func (b *Block) Len() int { return len(b.steps) }

// Steps exposes the step list for inspection
func (b *Block) Steps() []Step { return b.steps }

// Line returns the line of the step at pc
func (b *Block) Line(pc int) int {
	if pc < 0 || pc >= len(b.lines) {
		return 0
	}
	return b.lines[pc]
}

// run executes the block from pc until it finishes or a signal is raised.
// A yield records where to pick up again.
func (b *Block) run(env *Environment, pc int) {
	for ; pc < len(b.steps); pc++ {
		env.line = b.lines[pc]
		b.steps[pc].Evaluate(env)
		if env.signal != SignalNone {
			if env.signal&SignalYield != 0 {
				env.addResume(blockPoint{block: b, pc: pc + 1})
			}
			return
		}
	}
}

// Evaluate runs b in its own frame and returns the value left on top
func (b *Block) Evaluate(env *Environment) *types.Scalar {
	return env.evalBlock(b)
}

// resumePoint is one level of a suspended execution. Points are stored
// innermost first and replayed in that order.
type resumePoint interface {
	resume(env *Environment)
}

// blockPoint continues a block after the step that suspended it
type blockPoint struct {
	block *Block
	pc    int
}

func (p blockPoint) resume(env *Environment) {
	if env.signal != SignalNone {
		return
	}
	p.block.run(env, p.pc)
}
