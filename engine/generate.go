package engine

import (
	"pgregory.net/rand"
)

// Generate a sequence of admissible actions.
//
// The sequence has at most size steps, and about size/2 on average.
// Every step is generated from the state reached by the previous steps. An action rejected by the
// precondition is generated again, up to 2*size+10 times, and its name recorded in Rejected.
// The sequence ends early if no admissible action is found.
func Generate[S any](rnd *rand.Rand, sm StateModel[S], size int) Actions {
	if size < 0 {
		size = 0
	}
	acts := Actions{
		Steps:    []Step{},
		Rejected: []string{},
		Size:     size,
	}
	s := sm.Init()
	for v := Var(1); int(v) <= size; v++ {
		// Stop with weight 1 against continuing with weight size/2+1
		if rnd.Intn(size/2+2) == 0 {
			break
		}
		a, ok := satisfyPrecondition(rnd, sm, s, 2*size+10, &acts.Rejected)
		if !ok {
			break
		}
		acts.Steps = append(acts.Steps, Step{Var: v, Action: a})
		s = sm.NextState(s, a, v)
	}
	return acts
}

func satisfyPrecondition[S any](rnd *rand.Rand, sm StateModel[S], s S, tries int, rejected *[]string) (Action, bool) {
	for i := 0; i < tries; i++ {
		a := sm.Arbitrary(rnd, s)
		if sm.Precondition(s, a) {
			return a, true
		}
		*rejected = append(*rejected, sm.ActionName(a))
	}
	return nil, false
}
