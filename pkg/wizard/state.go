package wizard

// DefaultTotalSteps is the step count of the built-in laptop wizard.
const DefaultTotalSteps = 3

// State tracks the active step. The current step is always clamped into
// [1, Total]; moves past either end saturate.
type State struct {
	current int
	total   int
}

// NewState returns a state positioned on step 1. Totals below one are raised
// to one so the clamp range is never empty.
func NewState(total int) *State {
	if total < 1 {
		total = 1
	}
	return &State{current: 1, total: total}
}

// Current reports the active step.
func (s *State) Current() int { return s.current }

// Total reports the number of steps.
func (s *State) Total() int { return s.total }

// IsFirst reports whether the active step is the first one.
func (s *State) IsFirst() bool { return s.current == 1 }

// IsLast reports whether the active step is the final one.
func (s *State) IsLast() bool { return s.current == s.total }

// Set moves to step, clamped into range, and returns the resulting step.
func (s *State) Set(step int) int {
	s.current = clamp(step, 1, s.total)
	return s.current
}

func (s *State) increment() int { return s.Set(s.current + 1) }

func (s *State) decrement() int { return s.Set(s.current - 1) }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
