package config

import "io"

// An option used to configure a check of a contract model
type Option interface {
	// noop method
	CheckOpt()
}

// Configures the seed of the random sources of the runs

// Default value is derived from the current time and logged, so that the check can be repeated.
type SeedOption struct{ Seed uint64 }

func (so SeedOption) CheckOpt() {}

// Configures how many runs are executed

// Default value is 100
type MaxRunsOption struct{ MaxRuns int }

func (mro MaxRunsOption) CheckOpt() {}

// Configures the maximum size of a generated action sequence

// Default value is 100
type MaxSizeOption struct{ MaxSize int }

func (mso MaxSizeOption) CheckOpt() {}

// Configures how many shrinking steps are taken on a failing sequence

// Default value is 1000
type MaxShrinksOption struct{ MaxShrinks int }

func (mso MaxShrinksOption) CheckOpt() {}

// Configures how many runs are executed at the same time

// Default value is GOMAXPROCS
type NumConcurrentOption struct{ N int }

func (nco NumConcurrentOption) CheckOpt() {}

// Configures the probability of generating a WaitUntil action

// Models implementing model.WaitProbabilityModel override it.
// Default value is 0.1
type WaitProbabilityOption struct{ P float64 }

func (wpo WaitProbabilityOption) CheckOpt() {}

type IgnorePanicOption struct{}

func (ipo IgnorePanicOption) CheckOpt() {}

type IgnoreErrorOption struct{}

func (ieo IgnoreErrorOption) CheckOpt() {}

// Configures io.writers that the counterexample will be exported to

// Can be applied multiple times to add multiple io.writers.
// Default value is no writers.
type ExportOption struct {
	W io.Writer
}

func (eo ExportOption) CheckOpt() {}
