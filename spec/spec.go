package spec

import (
	"github.com/andreabedini/quickcheck-contractmodel/ledger"
	"github.com/andreabedini/quickcheck-contractmodel/state"
	"github.com/andreabedini/quickcheck-contractmodel/token"
)

// A fresh variable.
//
// Every step of an action sequence is bound to its own variable.
// The variables are handed out by the engine when the step is created.
type Var int

// The variable used when a spec is only run to inspect its effects, e.g. to find out
// whether an action creates tokens. Steps are numbered from 1, so it never clashes with a real step.
const Placeholder Var = 0

// Describes how the model reacts to time passing.
//
// Called once every time the slot is advanced, with the slot being advanced to,
// before the current slot is updated.
type Hook[S any] func(s *Spec[S], target state.Slot)

// The spec evaluator.
//
// A Spec describes the expected effect of one action on the model state.
// It does not perform any effect: the operations only update a private copy of the state
// and log the symbolic tokens that are created.
// A Spec is used by a single goroutine during one call to Run.
type Spec[S any] struct {
	v       Var
	model   state.ModelState[S]
	created token.Set
	hook    Hook[S]
}

// Run evaluates f on a copy of s.
//
// v is the variable the step is bound to and names the tokens created by f.
// hook is called when time is advanced and may be nil.
// Returns the next state and the tokens created by f. s is never modified.
func Run[S any](hook Hook[S], v Var, s state.ModelState[S], f func(*Spec[S])) (state.ModelState[S], token.Set) {
	sp := &Spec[S]{
		v:       v,
		model:   s.Clone(),
		created: token.Set{},
		hook:    hook,
	}
	f(sp)
	return sp.model, sp.created
}

// The variable the evaluated step is bound to
func (s *Spec[S]) Var() Var {
	return s.v
}

// A snapshot of the model state as it is at this point of the evaluation
func (s *Spec[S]) Model() state.ModelState[S] {
	return s.model.Clone()
}

func (s *Spec[S]) Slot() state.Slot {
	return s.model.CurrentSlot
}

// The domain state of the user model
func (s *Spec[S]) State() S {
	return s.model.Domain
}

func (s *Spec[S]) SetState(d S) {
	s.model.Domain = d
}

func (s *Spec[S]) ModifyState(f func(S) S) {
	s.model.Domain = f(s.model.Domain)
}

// Advance time by n slots.
//
// Waiting for 0 slots, or less, does nothing.
// Otherwise the hook is called once with the target slot before the slot is updated.
func (s *Spec[S]) Wait(n state.Slot) {
	if n <= 0 {
		return
	}
	target := s.model.CurrentSlot + n
	if s.hook != nil {
		s.hook(s, target)
	}
	// The hook may itself have waited past the target
	if target > s.model.CurrentSlot {
		s.model.CurrentSlot = target
	}
}

// Advance time until the slot is reached.
//
// Does nothing if the slot has already been reached.
func (s *Spec[S]) WaitUntil(slot state.Slot) {
	if slot <= s.model.CurrentSlot {
		return
	}
	s.Wait(slot - s.model.CurrentSlot)
}

// Create a new symbolic token.
//
// The token is named after the variable of the step and the label.
// Creating the same label twice in one step returns the same token.
func (s *Spec[S]) CreateToken(label string) token.Id {
	tok := token.Id{Var: int(s.v), Label: label}
	s.created.Add(tok)
	s.model.SymTokens.Add(tok)
	return tok
}

// Record the value as minted
func (s *Spec[S]) Mint(v ledger.Value) {
	s.model.Minted = s.model.Minted.Plus(v)
}

// Record the value as burned
func (s *Spec[S]) Burn(v ledger.Value) {
	s.model.Minted = s.model.Minted.Minus(v)
}

// The wallet pays the value to the contract
func (s *Spec[S]) Deposit(w ledger.Wallet, v ledger.Value) {
	s.model.BalanceChanges[w] = s.model.BalanceChange(w).Minus(v)
}

// The contract pays the value to the wallet
func (s *Spec[S]) Withdraw(w ledger.Wallet, v ledger.Value) {
	s.model.BalanceChanges[w] = s.model.BalanceChange(w).Plus(v)
}

// Move the value directly between two wallets
func (s *Spec[S]) Transfer(from, to ledger.Wallet, v ledger.Value) {
	s.Deposit(from, v)
	s.Withdraw(to, v)
}

// Record the result of an assertion.
//
// A failing assertion makes every later domain action of the run inadmissible.
func (s *Spec[S]) Assert(name string, ok bool) {
	s.model.Assertions = append(s.model.Assertions, state.AssertionResult{Name: name, Ok: ok})
	s.model.AssertionsOk = s.model.AssertionsOk && ok
}
