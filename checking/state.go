package checking

import "github.com/andreabedini/quickcheck-contractmodel/state"

// The state of the model at the current point of a run
type State[S any] struct {
	// The model state reached by the steps so far
	Model state.ModelState[S]
	// The number of steps evaluated to reach the state
	Step int
	// True if this is the last state of the run. False otherwise.
	IsTerminal bool
	// The sequence of model states that lead to this State, the state itself included.
	Sequence []state.ModelState[S]
}
