package checking

import (
	"github.com/andreabedini/quickcheck-contractmodel/ledger"
)

// Check that the predicate happens eventually.
//
// Return a predicate that run the provided predicate on terminal states.
// Returns the value of the original predicate if the state is terminal.
// Otherwise, it always returns true.
func Eventually[S any](pred Predicate[S]) Predicate[S] {
	return func(s State[S]) bool {
		if !s.IsTerminal {
			return true
		}
		return pred(s)
	}
}

// Check that every assertion made by the model so far has passed
func AssertionsHold[S any]() Predicate[S] {
	return func(s State[S]) bool {
		return s.Model.AssertionsOk
	}
}

// Check that time never moves backwards
func SlotsIncrease[S any]() Predicate[S] {
	return func(s State[S]) bool {
		if len(s.Sequence) < 2 {
			return true
		}
		return s.Sequence[len(s.Sequence)-2].CurrentSlot <= s.Model.CurrentSlot
	}
}

// Check that the symbolic tokens of the previous state are still known
func TokensAccumulate[S any]() Predicate[S] {
	return func(s State[S]) bool {
		if len(s.Sequence) < 2 {
			return true
		}
		return s.Sequence[len(s.Sequence)-2].SymTokens.IsSubsetOf(s.Model.SymTokens)
	}
}

// Check that cond returns true for the balance change of every wallet in the provided state
//
// Returns false if cond returns false for some wallet.
// Returns true otherwise.
// If skipZero is true, wallets whose balance did not change are not checked.
func ForAllWallets[S any](cond func(ledger.Wallet, ledger.Value) bool, s State[S], skipZero bool) bool {
	for w, v := range s.Model.BalanceChanges {
		if skipZero && v.IsZero() {
			continue
		}
		if !cond(w, v) {
			return false
		}
	}
	return true
}
