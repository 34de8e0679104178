package state

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andreabedini/quickcheck-contractmodel/ledger"
	"github.com/andreabedini/quickcheck-contractmodel/token"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Logical time of the ledger
type Slot int64

// The slot every run starts in
const InitialSlot Slot = 1

// The result of one assertion made while evaluating the model
type AssertionResult struct {
	Name string
	Ok   bool
}

func (ar AssertionResult) String() string {
	if ar.Ok {
		return fmt.Sprintf("%v: ok", ar.Name)
	}
	return fmt.Sprintf("%v: failed", ar.Name)
}

// The state of the model at one point of a run.
//
// A ModelState is owned by a single run and is threaded through generation,
// precondition checking and shrinking.
// It is only modified by the spec evaluator, which works on a clone,
// so values handed out to callers can be treated as immutable snapshots.
type ModelState[S any] struct {
	// Never decreases. Only moves forward when time is advanced.
	CurrentSlot Slot

	// The expected change of the balance of each wallet since the start of the run
	BalanceChanges map[ledger.Wallet]ledger.Value

	// The value minted, minus the value burned, since the start of the run
	Minted ledger.Value

	// The assertions made so far, in order
	Assertions []AssertionResult

	// True while every assertion has passed.
	// Once false it stays false for the rest of the run.
	AssertionsOk bool

	// The symbolic tokens created so far. Only grows during a run.
	SymTokens token.Set

	// The state of the user model
	Domain S
}

// Implemented by domain states holding references that must not be shared between snapshots
type Cloner[S any] interface {
	Clone() S
}

// Create the state a run starts in
func New[S any](initial S) ModelState[S] {
	return ModelState[S]{
		CurrentSlot:    InitialSlot,
		BalanceChanges: map[ledger.Wallet]ledger.Value{},
		Minted:         ledger.Value{},
		Assertions:     []AssertionResult{},
		AssertionsOk:   true,
		SymTokens:      token.Set{},
		Domain:         initial,
	}
}

// Deep copy of the state.
//
// The domain state is copied by value, unless it implements Cloner.
func (ms ModelState[S]) Clone() ModelState[S] {
	balances := make(map[ledger.Wallet]ledger.Value, len(ms.BalanceChanges))
	for w, v := range ms.BalanceChanges {
		balances[w] = v.Clone()
	}
	domain := ms.Domain
	if c, ok := any(ms.Domain).(Cloner[S]); ok {
		domain = c.Clone()
	}
	assertions := slices.Clone(ms.Assertions)
	if assertions == nil {
		assertions = []AssertionResult{}
	}
	return ModelState[S]{
		CurrentSlot:    ms.CurrentSlot,
		BalanceChanges: balances,
		Minted:         ms.Minted.Clone(),
		Assertions:     assertions,
		AssertionsOk:   ms.AssertionsOk,
		SymTokens:      ms.SymTokens.Clone(),
		Domain:         domain,
	}
}

// The expected balance change of the wallet. Never nil.
func (ms ModelState[S]) BalanceChange(w ledger.Wallet) ledger.Value {
	if v, ok := ms.BalanceChanges[w]; ok {
		return v
	}
	return ledger.Value{}
}

func (ms ModelState[S]) String() string {
	wallets := maps.Keys(ms.BalanceChanges)
	sort.Slice(wallets, func(i, j int) bool { return wallets[i] < wallets[j] })
	balances := []string{}
	for _, w := range wallets {
		balances = append(balances, fmt.Sprintf("%v: %v", w, ms.BalanceChanges[w]))
	}
	return fmt.Sprintf("Slot: %v\t Balances: {%v}\t Minted: %v\t Tokens: %v\t AssertionsOk: %v\t State: %v",
		ms.CurrentSlot, strings.Join(balances, ", "), ms.Minted, ms.SymTokens, ms.AssertionsOk, ms.Domain)
}
