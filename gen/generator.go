package gen

import (
	"math/bits"

	"github.com/andreabedini/quickcheck-contractmodel/action"
	"github.com/andreabedini/quickcheck-contractmodel/model"
	"github.com/andreabedini/quickcheck-contractmodel/spec"
	"github.com/andreabedini/quickcheck-contractmodel/state"
	"pgregory.net/rand"
)

// The probability of generating a WaitUntil action when neither the model nor the configuration sets one
const DefaultWaitProbability = 0.1

// Generates and shrinks the actions of a model.
//
// A Generator holds no state of its own and can be shared between goroutines.
// Randomness only comes from the random source passed to Generate,
// so the generated actions are determined by the seed of the source.
type Generator[S any, A action.Domain] struct {
	Model model.ContractModel[S, A]

	// Probability of generating a WaitUntil action.
	// Ignored if the model implements model.WaitProbabilityModel.
	WaitProbability float64
}

// Create a Generator for the model using the default wait probability
func New[S any, A action.Domain](m model.ContractModel[S, A]) *Generator[S, A] {
	return &Generator[S, A]{
		Model:           m,
		WaitProbability: DefaultWaitProbability,
	}
}

// Generate the next action for the state.
//
// Returns a WaitUntil with the wait probability and a ContractAction otherwise.
// The action is not guaranteed to be admissible: callers must check it with model.Admissible
// and generate again if it is not.
func (g *Generator[S, A]) Generate(rnd *rand.Rand, s state.ModelState[S]) action.Action[A] {
	p := g.waitProbability(s)
	return Frequency(rnd, []Weighted[action.Action[A]]{
		{
			Weight: p,
			Gen: func() action.Action[A] {
				return action.WaitUntil[A]{Target: s.CurrentSlot + g.waitInterval(rnd, s)}
			},
		},
		{
			Weight: 1 - p,
			Gen: func() action.Action[A] {
				return model.Tag(g.Model, s, g.Model.Arbitrary(rnd, s))
			},
		},
	})
}

func (g *Generator[S, A]) waitProbability(s state.ModelState[S]) float64 {
	p := g.WaitProbability
	if wp, ok := g.Model.(model.WaitProbabilityModel[S]); ok {
		p = wp.WaitProbability(s)
	}
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

func (g *Generator[S, A]) waitInterval(rnd *rand.Rand, s state.ModelState[S]) state.Slot {
	if wi, ok := g.Model.(model.WaitIntervalModel[S]); ok {
		if n := wi.ArbitraryWaitInterval(rnd, s); n > 0 {
			return n
		}
		return 1
	}
	return ArbitraryWaitInterval(rnd, s.CurrentSlot)
}

// The default number of slots to wait from the current slot.
//
// Uniform over [1, max(10, 5*(k-1))] where k is the smallest integer with 2^k > current,
// so the waits get longer as time passes.
func ArbitraryWaitInterval(rnd *rand.Rand, current state.Slot) state.Slot {
	return 1 + state.Slot(rnd.Intn(int(MaxWaitInterval(current))))
}

// The upper bound of ArbitraryWaitInterval
func MaxWaitInterval(current state.Slot) state.Slot {
	k := 0
	if current > 0 {
		k = bits.Len64(uint64(current))
	}
	if n := state.Slot(5 * (k - 1)); n > 10 {
		return n
	}
	return 10
}

// Shrink returns simpler alternatives to the action in the state.
//
// For a ContractAction the candidates are, in order:
//   - a WaitUntil to the slot the action itself advances time to, and to every simpler slot,
//     as long as the slot is after the current slot,
//   - every simpler action returned by the model, with CreatesTokens computed again.
//
// For a WaitUntil the candidates are the simpler targets after the current slot.
// The candidates are not guaranteed to be admissible and must be checked by the caller.
func (g *Generator[S, A]) Shrink(s state.ModelState[S], act action.Action[A]) []action.Action[A] {
	out := []action.Action[A]{}
	switch t := act.(type) {
	case action.ContractAction[A]:
		next, _ := model.Evaluate(g.Model, s, act, spec.Placeholder)
		slot := next.CurrentSlot
		for _, target := range append([]state.Slot{slot}, ShrinkInt(slot)...) {
			if target > s.CurrentSlot {
				out = append(out, action.WaitUntil[A]{Target: target})
			}
		}
		for _, a := range g.Model.Shrink(s, t.Payload) {
			out = append(out, model.Tag(g.Model, s, a))
		}
	case action.WaitUntil[A]:
		for _, target := range ShrinkInt(t.Target) {
			if target > s.CurrentSlot {
				out = append(out, action.WaitUntil[A]{Target: target})
			}
		}
	}
	return out
}
