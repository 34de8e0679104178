package gen

import (
	"pgregory.net/rand"
)

// A weighted choice
type Weighted[T any] struct {
	Weight float64
	Gen    func() T
}

// Frequency picks one of the choices with a probability proportional to its weight and runs its generator.
//
// Choices with a weight of 0 or less are never picked, and only the picked generator is run.
// Panics if no choice has a positive weight.
func Frequency[T any](rnd *rand.Rand, choices []Weighted[T]) T {
	total := 0.0
	for _, c := range choices {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		panic("gen: Frequency needs at least one choice with a positive weight")
	}

	x := rnd.Float64() * total
	last := -1
	for i, c := range choices {
		if c.Weight <= 0 {
			continue
		}
		last = i
		if x < c.Weight {
			return c.Gen()
		}
		x -= c.Weight
	}
	// Only reached through rounding errors
	return choices[last].Gen()
}
