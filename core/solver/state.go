package solver

import "fmt"

// State is the lifecycle stage of one solver run.
type State int

const (
	Built State = iota
	Submitted
	Optimal
	Feasible
	Infeasible
	Timeout
	Error
)

var stateNames = map[State]string{
	Built:      "built",
	Submitted:  "submitted",
	Optimal:    "optimal",
	Feasible:   "feasible",
	Infeasible: "infeasible",
	Timeout:    "timeout",
	Error:      "error",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s > Submitted }

// HasSolution reports whether a run in this state carries solved values.
func (s State) HasSolution() bool { return s == Optimal || s == Feasible }

// CanTransition reports whether next may follow s.
func (s State) CanTransition(next State) bool {
	switch s {
	case Built:
		return next == Submitted || next == Error
	case Submitted:
		return next.Terminal()
	default:
		return false
	}
}

// Classify maps a backend status to the terminal state of the run.
func Classify(st Status) State {
	switch st {
	case StatusOptimal:
		return Optimal
	case StatusFeasible:
		return Feasible
	case StatusInfeasible:
		return Infeasible
	case StatusLimit:
		return Timeout
	default:
		return Error
	}
}
