package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andreabedini/quickcheck-contractmodel/token"
	"golang.org/x/exp/maps"
)

// A participant of the contract
type Wallet string

// An asset class.
//
// An asset is either concrete, identified by its Class, or symbolic, identified by the
// token that will be resolved when the sequence is executed.
type Asset struct {
	Class    string
	Token    token.Id
	Symbolic bool
}

// The native currency of the ledger
var Ada = Asset{Class: "ada"}

func Class(name string) Asset {
	return Asset{Class: name}
}

func Sym(tok token.Id) Asset {
	return Asset{Token: tok, Symbolic: true}
}

func (a Asset) String() string {
	if a.Symbolic {
		return a.Token.String()
	}
	return a.Class
}

// SymTokens lets asset references be found without traversing the unused fields.
func (a Asset) SymTokens() []token.Id {
	if a.Symbolic {
		return []token.Id{a.Token}
	}
	return nil
}

// An amount of several assets.
//
// The zero amount of an asset is never stored.
type Value map[Asset]int64

func Singleton(a Asset, n int64) Value {
	v := Value{}
	v.add(a, n)
	return v
}

func (v Value) add(a Asset, n int64) {
	if sum := v[a] + n; sum != 0 {
		v[a] = sum
	} else {
		delete(v, a)
	}
}

// Returns a new value holding the sum of both values
func (v Value) Plus(other Value) Value {
	out := v.Clone()
	for a, n := range other {
		out.add(a, n)
	}
	return out
}

func (v Value) Negate() Value {
	out := Value{}
	for a, n := range v {
		out[a] = -n
	}
	return out
}

func (v Value) Minus(other Value) Value {
	return v.Plus(other.Negate())
}

func (v Value) IsZero() bool {
	return len(v) == 0
}

// Returns the amount of the asset held by the value
func (v Value) Of(a Asset) int64 {
	return v[a]
}

func (v Value) Clone() Value {
	if v == nil {
		return Value{}
	}
	return maps.Clone(v)
}

func (v Value) String() string {
	assets := maps.Keys(v)
	sort.Slice(assets, func(i, j int) bool { return assets[i].String() < assets[j].String() })
	parts := []string{}
	for _, a := range assets {
		parts = append(parts, fmt.Sprintf("%v: %d", a, v[a]))
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
