package engine

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/exp/slices"
)

var stepsEqual = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.EquateEmpty(),
}

// ShrinkActions returns sequences that are simpler than acts, the most aggressive first.
//
// The candidates are built in two ways:
//   - removing a chunk of steps, for chunks of half the length, a quarter of the length and so on down to single steps
//   - replacing a single step by one of the simpler actions returned by the model, keeping its variable.
//
// Every candidate is pruned, so that it only contains steps whose precondition holds.
// Steps keep the variable they were generated with. Rejected and Size are carried over.
func ShrinkActions[S any](sm StateModel[S], acts Actions) []Actions {
	steps := acts.Steps
	n := len(steps)
	candidates := [][]Step{}

	for k := n; k > 0; k /= 2 {
		for start := 0; start+k <= n; start += k {
			c := slices.Clone(steps[:start])
			c = append(c, steps[start+k:]...)
			candidates = append(candidates, c)
		}
	}

	states := States(sm, acts)
	for i, st := range steps {
		for _, a := range sm.Shrink(states[i], st.Action) {
			c := slices.Clone(steps)
			c[i] = Step{Var: st.Var, Action: a}
			candidates = append(candidates, c)
		}
	}

	out := []Actions{}
	seen := [][]Step{steps}
	for _, c := range candidates {
		pruned := Prune(sm, c)
		if containsSteps(seen, pruned) {
			continue
		}
		seen = append(seen, pruned)
		out = append(out, Actions{
			Steps:    pruned,
			Rejected: acts.Rejected,
			Size:     acts.Size,
		})
	}
	return out
}

// Prune drops the steps whose precondition does not hold in the state reached by the steps kept before them.
func Prune[S any](sm StateModel[S], steps []Step) []Step {
	s := sm.Init()
	out := []Step{}
	for _, st := range steps {
		if !sm.Precondition(s, st.Action) {
			continue
		}
		out = append(out, st)
		s = sm.NextState(s, st.Action, st.Var)
	}
	return out
}

func containsSteps(seen [][]Step, steps []Step) bool {
	for _, other := range seen {
		if len(other) == len(steps) && cmp.Equal(other, steps, stepsEqual...) {
			return true
		}
	}
	return false
}
