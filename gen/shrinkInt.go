package gen

import (
	"golang.org/x/exp/constraints"
)

// ShrinkInt returns the integers that are simpler than x, simplest first.
//
// The candidates move towards 0: 0 itself, then x minus halves of x, i.e. for 10: 0, 5, 8, 9.
// A negative x is first shrunk to its absolute value. The result never contains x.
func ShrinkInt[T constraints.Signed](x T) []T {
	out := []T{}
	seen := map[T]bool{}
	add := func(v T) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	if x < 0 && -x > x {
		add(-x)
	}
	if !closerToZero(0, x) {
		return out
	}
	add(0)
	for i := x / 2; ; i /= 2 {
		candidate := x - i
		if !closerToZero(candidate, x) {
			break
		}
		add(candidate)
	}
	return out
}

// Returns true if a is strictly closer to zero than b
func closerToZero[T constraints.Signed](a, b T) bool {
	switch {
	case a >= 0 && b >= 0:
		return a < b
	case a < 0 && b < 0:
		return a > b
	case a >= 0 && b < 0:
		return a+b < 0
	default:
		return a+b > 0
	}
}
