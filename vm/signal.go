package vm

// Signal is the flow control register. Flags combine: a continuation
// capture is raised as SignalCallcc|SignalYield.
type Signal int

const (
	SignalNone        Signal = 0
	SignalReturn      Signal = 1
	SignalBreak       Signal = 2
	SignalContinue    Signal = 4
	SignalYield       Signal = 8
	SignalThrow       Signal = 16
	SignalCallcc      Signal = 32
	SignalPassControl Signal = 64
)

// Has reports whether every flag in f is set
func (s Signal) Has(f Signal) bool { return s&f == f && f != 0 }

func (s Signal) String() string {
	if s == SignalNone {
		return "none"
	}
	names := []struct {
		flag Signal
		name string
	}{
		{SignalReturn, "return"},
		{SignalBreak, "break"},
		{SignalContinue, "continue"},
		{SignalYield, "yield"},
		{SignalThrow, "throw"},
		{SignalCallcc, "callcc"},
		{SignalPassControl, "pass"},
	}
	out := ""
	for _, n := range names {
		if s&n.flag != 0 {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	return out
}

// Debug flags for a script instance
const (
	DebugNone          = 0
	DebugShowErrors    = 1
	DebugShowWarnings  = 2
	DebugRequireStrict = 4
	DebugTraceCalls    = 8
	DebugThrowWarnings = 34
)
