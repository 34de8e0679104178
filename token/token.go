package token

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// A symbolic token.
//
// It stands for an asset whose concrete identity is only known once the action sequence
// is executed against a ledger.
// Var is the index of the step that created the token and Label tells apart the tokens
// created by the same step.
type Id struct {
	Var   int
	Label string
}

func (id Id) String() string {
	return fmt.Sprintf("tok%d.%q", id.Var, id.Label)
}

// Orders ids by variable first and label second
func Less(a, b Id) bool {
	if a.Var != b.Var {
		return a.Var < b.Var
	}
	return a.Label < b.Label
}

// A set of symbolic tokens
type Set map[Id]struct{}

func NewSet(ids ...Id) Set {
	s := make(Set, len(ids))
	s.Add(ids...)
	return s
}

func (s Set) Add(ids ...Id) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s Set) Contains(id Id) bool {
	_, ok := s[id]
	return ok
}

// Returns true if every id is a member of the set.
// An empty list of ids is always contained.
func (s Set) ContainsAll(ids []Id) bool {
	for _, id := range ids {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

func (s Set) IsSubsetOf(other Set) bool {
	for id := range s {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

func (s Set) Clone() Set {
	if s == nil {
		return Set{}
	}
	return maps.Clone(s)
}

// Returns a new set containing the members of both sets
func (s Set) Union(other Set) Set {
	out := s.Clone()
	for id := range other {
		out.Add(id)
	}
	return out
}

// Returns the members of the set in a deterministic order
func (s Set) Sorted() []Id {
	ids := maps.Keys(s)
	sort.Slice(ids, func(i, j int) bool { return Less(ids[i], ids[j]) })
	return ids
}

func (s Set) String() string {
	parts := []string{}
	for _, id := range s.Sorted() {
		parts = append(parts, id.String())
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

func (s Set) Len() int {
	return len(s)
}
