package engine

import (
	"fmt"
	"strings"

	"pgregory.net/rand"
)

// A fresh variable. Every step of a sequence is bound to its own variable, numbered from 1.
type Var int

// An action of some state model. The engine only needs to render it.
type Action interface {
	fmt.Stringer
}

// One step of a sequence: the variable the result of the action is bound to, and the action
type Step struct {
	Var    Var
	Action Action
}

func (st Step) String() string {
	return fmt.Sprintf("var%d := %v", st.Var, st.Action)
}

// A sequence of steps.
type Actions struct {
	Steps []Step

	// The names of the actions that were rejected by the precondition during generation
	Rejected []string

	// The size the sequence was generated with
	Size int
}

func (acts Actions) Len() int {
	return len(acts.Steps)
}

func (acts Actions) String() string {
	if len(acts.Steps) == 0 {
		return "Actions []"
	}
	lines := []string{}
	for _, st := range acts.Steps {
		lines = append(lines, "  "+st.String())
	}
	return fmt.Sprintf("Actions [\n%s]", strings.Join(lines, ",\n"))
}

// The model the engine generates sequences for.
//
// S is the state of the model. The engine threads it through a sequence, starting from Init,
// and never modifies a state it has been given.
type StateModel[S any] interface {
	// The state every sequence starts in
	Init() S

	// Generate an action for the state
	Arbitrary(rnd *rand.Rand, s S) Action

	// Decide whether the action may follow the state
	Precondition(s S, a Action) bool

	// The state after the action, with the result of the action bound to v
	NextState(s S, a Action, v Var) S

	// Simpler versions of the action
	Shrink(s S, a Action) []Action

	// The name of the action, used to report rejected actions
	ActionName(a Action) string
}

// Returns the state after every step of the sequence, starting with the initial state.
//
// The steps are not checked against the precondition.
func States[S any](sm StateModel[S], acts Actions) []S {
	s := sm.Init()
	out := []S{s}
	for _, st := range acts.Steps {
		s = sm.NextState(s, st.Action, st.Var)
		out = append(out, s)
	}
	return out
}
