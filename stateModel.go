package contractmodel

import (
	"github.com/andreabedini/quickcheck-contractmodel/action"
	"github.com/andreabedini/quickcheck-contractmodel/engine"
	"github.com/andreabedini/quickcheck-contractmodel/gen"
	"github.com/andreabedini/quickcheck-contractmodel/model"
	"github.com/andreabedini/quickcheck-contractmodel/spec"
	"github.com/andreabedini/quickcheck-contractmodel/state"
	"pgregory.net/rand"
)

// Binds a contract model to the engine.
//
// The engine only sees engine.Action values. Actions that are not actions of the model
// are never admissible and do not change the state.
type stateModel[S any, A action.Domain] struct {
	m model.ContractModel[S, A]
	g *gen.Generator[S, A]
}

// The contract model as a state model of the engine, generating WaitUntil actions with probability waitProbability
func StateModel[S any, A action.Domain](m model.ContractModel[S, A], waitProbability float64) engine.StateModel[state.ModelState[S]] {
	g := gen.New(m)
	g.WaitProbability = waitProbability
	return stateModel[S, A]{m: m, g: g}
}

func (sm stateModel[S, A]) Init() state.ModelState[S] {
	return model.Initial(sm.m)
}

func (sm stateModel[S, A]) Arbitrary(rnd *rand.Rand, s state.ModelState[S]) engine.Action {
	return sm.g.Generate(rnd, s)
}

func (sm stateModel[S, A]) Precondition(s state.ModelState[S], a engine.Action) bool {
	act, ok := a.(action.Action[A])
	if !ok {
		return false
	}
	return model.Admissible(sm.m, s, act)
}

func (sm stateModel[S, A]) NextState(s state.ModelState[S], a engine.Action, v engine.Var) state.ModelState[S] {
	act, ok := a.(action.Action[A])
	if !ok {
		return s
	}
	next, _ := model.Evaluate(sm.m, s, act, spec.Var(v))
	return next
}

func (sm stateModel[S, A]) Shrink(s state.ModelState[S], a engine.Action) []engine.Action {
	act, ok := a.(action.Action[A])
	if !ok {
		return nil
	}
	out := []engine.Action{}
	for _, c := range sm.g.Shrink(s, act) {
		out = append(out, c)
	}
	return out
}

func (sm stateModel[S, A]) ActionName(a engine.Action) string {
	if act, ok := a.(action.Action[A]); ok {
		return model.ActionName(sm.m, act)
	}
	return action.Name(a)
}
