package model

import (
	"github.com/andreabedini/quickcheck-contractmodel/action"
	"github.com/andreabedini/quickcheck-contractmodel/spec"
	"github.com/andreabedini/quickcheck-contractmodel/state"
	"github.com/andreabedini/quickcheck-contractmodel/token"
	"pgregory.net/rand"
)

// An abstract model of a contract.
//
// S is the domain state of the model and A the type of its actions.
// The generator only relies on the methods below. Implementations must be deterministic
// apart from the provided random source, and safe to use from several goroutines at once
// as long as each call gets its own state.
type ContractModel[S any, A action.Domain] interface {
	// The domain state every run starts in
	InitialState() S

	// Generate an action for the state.
	//
	// It should prefer admissible actions but the generator checks admissibility itself.
	Arbitrary(rnd *rand.Rand, s state.ModelState[S]) A

	// The domain precondition of the action.
	//
	// It is evaluated before the symbolic tokens of the action are checked,
	// so it may not assume that the tokens of the action exist.
	Precondition(s state.ModelState[S], a A) bool

	// Describe the expected effect of the action.
	//
	// Must be deterministic: it is evaluated several times for the same action,
	// e.g. to find out whether the action creates tokens.
	NextState(sp *spec.Spec[S], a A)

	// Return simpler versions of the action. May return nil.
	Shrink(s state.ModelState[S], a A) []A

	// Describe changes of the state caused by time passing.
	//
	// Called once with the target slot every time the slot is advanced.
	NextReactiveState(sp *spec.Spec[S], target state.Slot)
}

// Optional interface of a ContractModel, overriding the probability of generating a WaitUntil action.
//
// The default is the configured wait probability, 0.1 unless changed.
type WaitProbabilityModel[S any] interface {
	WaitProbability(s state.ModelState[S]) float64
}

// Optional interface of a ContractModel, overriding the number of slots a generated WaitUntil waits.
//
// Must return a positive number.
type WaitIntervalModel[S any] interface {
	ArbitraryWaitInterval(rnd *rand.Rand, s state.ModelState[S]) state.Slot
}

// Optional interface of a ContractModel, overriding the name of its actions.
//
// The default name is the first word of the rendering of the action.
type Namer[A action.Domain] interface {
	ActionName(a A) string
}

// Base provides defaults for the methods of ContractModel that many models do not need.
//
// Embed it in a model: every action is allowed by the domain precondition,
// actions do not shrink and time passing does not change the state.
type Base[S any, A action.Domain] struct{}

func (Base[S, A]) Precondition(state.ModelState[S], A) bool {
	return true
}

func (Base[S, A]) Shrink(state.ModelState[S], A) []A {
	return nil
}

func (Base[S, A]) NextReactiveState(*spec.Spec[S], state.Slot) {}

// The state a run of the model starts in
func Initial[S any, A action.Domain](m ContractModel[S, A]) state.ModelState[S] {
	return state.New(m.InitialState())
}

// Evaluate the effect of an action without performing it.
//
// Returns the next state and the symbolic tokens created by the action.
// v is the variable the step of the action is bound to.
func Evaluate[S any, A action.Domain](m ContractModel[S, A], s state.ModelState[S], act action.Action[A], v spec.Var) (state.ModelState[S], token.Set) {
	return spec.Run(m.NextReactiveState, v, s, func(sp *spec.Spec[S]) {
		switch t := act.(type) {
		case action.ContractAction[A]:
			m.NextState(sp, t.Payload)
		case action.WaitUntil[A]:
			sp.WaitUntil(t.Target)
		}
	})
}

// Find out whether the action creates symbolic tokens when evaluated in the state.
//
// The action is evaluated with the placeholder variable and the result discarded.
func CreatesTokens[S any, A action.Domain](m ContractModel[S, A], s state.ModelState[S], a A) bool {
	_, created := spec.Run(m.NextReactiveState, spec.Placeholder, s, func(sp *spec.Spec[S]) {
		m.NextState(sp, a)
	})
	return created.Len() > 0
}

// Package a domain action, computing whether it creates tokens
func Tag[S any, A action.Domain](m ContractModel[S, A], s state.ModelState[S], a A) action.ContractAction[A] {
	return action.ContractAction[A]{
		CreatesTokens: CreatesTokens(m, s, a),
		Payload:       a,
	}
}

// Admissible decides whether the action may follow the state.
//
// A WaitUntil is admissible if it moves time forward.
// A ContractAction is admissible if, in this order:
//  1. every assertion of the run has passed so far,
//  2. the domain precondition holds,
//  3. every symbolic token referenced by the action has been created.
//
// The order is part of the contract: the domain precondition is always evaluated before
// the token check, and never when an assertion has failed.
func Admissible[S any, A action.Domain](m ContractModel[S, A], s state.ModelState[S], act action.Action[A]) bool {
	switch t := act.(type) {
	case action.ContractAction[A]:
		return s.AssertionsOk &&
			m.Precondition(s, t.Payload) &&
			s.SymTokens.ContainsAll(action.Tokens[A](t))
	case action.WaitUntil[A]:
		return t.Target > s.CurrentSlot
	}
	return false
}

// The name of the action, used when reporting
func ActionName[S any, A action.Domain](m ContractModel[S, A], act action.Action[A]) string {
	if n, ok := m.(Namer[A]); ok {
		if ca, ok := act.(action.ContractAction[A]); ok {
			return n.ActionName(ca.Payload)
		}
	}
	return action.Name(act)
}
