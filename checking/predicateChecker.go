package checking

import (
	"fmt"

	"github.com/andreabedini/quickcheck-contractmodel/state"
)

// A function to be evaluated on the states
// It returns true if the predicate holds for the state and false otherwise
type Predicate[S any] func(s State[S]) bool

// Returned by the PredicateChecker when a predicate does not hold
type PredicateError struct {
	// The index of the failing predicate
	Test int
	// The number of steps evaluated when it failed
	Step int
}

func (pe PredicateError) Error() string {
	return fmt.Sprintf("Predicate broken. Predicate: %v. Step: %v", pe.Test, pe.Step)
}

// Checks that a set of predicates hold for every state of a run
type PredicateChecker[S any] struct {
	// A slice of predicates that returns true if the predicate holds.
	predicates []Predicate[S]
}

func NewPredicateChecker[S any](predicates ...Predicate[S]) *PredicateChecker[S] {
	return &PredicateChecker[S]{
		predicates: predicates,
	}
}

// Check the states of a run, in order.
//
// Stops at the first state breaking a predicate and returns a PredicateError.
// Returns nil if all predicates hold for all states.
func (pc *PredicateChecker[S]) Check(states []state.ModelState[S]) error {
	for i, s := range states {
		if ok, index := pc.checkState(s, i, i == len(states)-1, states[:i+1]); !ok {
			return PredicateError{Test: index, Step: i}
		}
	}
	return nil
}

func (pc *PredicateChecker[S]) checkState(s state.ModelState[S], step int, terminalState bool, sequence []state.ModelState[S]) (bool, int) {
	for index, pred := range pc.predicates {
		if !pred(State[S]{
			Model:      s,
			Step:       step,
			IsTerminal: terminalState,
			Sequence:   sequence,
		}) {
			return false, index
		}
	}
	return true, -1
}
