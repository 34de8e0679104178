package engine

import (
	"github.com/pkg/errors"
)

// Validate checks that every step of the sequence is admissible in the state reached by the steps before it.
//
// Returns an error wrapping ErrReplayDiverged naming the first step that is not admissible.
func Validate[S any](sm StateModel[S], acts Actions) error {
	s := sm.Init()
	for i, st := range acts.Steps {
		if !sm.Precondition(s, st.Action) {
			return errors.Wrapf(ErrReplayDiverged, "step %d (%v)", i, st)
		}
		s = sm.NextState(s, st.Action, st.Var)
	}
	return nil
}

// Replay checks the property against the provided sequence, instead of a generated one.
//
// The sequence is validated first: it is never pruned or repaired.
// Used to reproduce an exported counterexample or to run a handwritten scenario.
func Replay[S any](sm StateModel[S], acts Actions, prop Property) error {
	if err := Validate(sm, acts); err != nil {
		return err
	}
	return prop(acts)
}
