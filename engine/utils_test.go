package engine

import (
	"fmt"

	"pgregory.net/rand"
)

// A model of a counter, used to test the engine without the contract model

type add struct {
	N int
}

func (a add) String() string {
	return fmt.Sprintf("Add %d", a.N)
}

type reset struct{}

func (reset) String() string {
	return "Reset"
}

type counterModel struct{}

func (counterModel) Init() int { return 0 }

func (counterModel) Arbitrary(rnd *rand.Rand, s int) Action {
	if rnd.Intn(10) == 0 {
		return reset{}
	}
	return add{N: rnd.Intn(6)}
}

func (counterModel) Precondition(s int, a Action) bool {
	switch t := a.(type) {
	case add:
		return t.N > 0
	case reset:
		return s > 0
	}
	return false
}

func (counterModel) NextState(s int, a Action, v Var) int {
	switch t := a.(type) {
	case add:
		return s + t.N
	case reset:
		return 0
	}
	return s
}

func (counterModel) Shrink(s int, a Action) []Action {
	if t, ok := a.(add); ok && t.N > 1 {
		return []Action{add{N: t.N - 1}}
	}
	return nil
}

func (counterModel) ActionName(a Action) string {
	return fmt.Sprintf("%T", a)
}

// Violated once the counter reaches 10
func belowTen(acts Actions) error {
	states := States[int](counterModel{}, acts)
	if last := states[len(states)-1]; last >= 10 {
		return fmt.Errorf("counter reached %v", last)
	}
	return nil
}

func steps(actions ...Action) []Step {
	out := []Step{}
	for i, a := range actions {
		out = append(out, Step{Var: Var(i + 1), Action: a})
	}
	return out
}
