package contractmodel

import (
	"io"

	"github.com/andreabedini/quickcheck-contractmodel/config"
)

// A option used to configure a check
type CheckOption = config.Option

// Configure the seed of the check.
//
// Default value is derived from the current time. The seed used is logged and
// returned by Checker.Seed, so that a failing check can be repeated.
func Seed(seed uint64) CheckOption {
	return config.SeedOption{Seed: seed}
}

// Configure the number of runs
//
// Default value is 100
func MaxRuns(maxRuns int) CheckOption {
	return config.MaxRunsOption{MaxRuns: maxRuns}
}

// Configure the maximum size of the generated action sequences.
//
// Run i is generated with size i%maxSize+1, so sizes grow as the check goes on.
// Default value is 100.
func MaxSize(maxSize int) CheckOption {
	return config.MaxSizeOption{MaxSize: maxSize}
}

// Configure the maximum number of shrinking steps taken on a failing sequence.
//
// Default value is 1000
func MaxShrinks(maxShrinks int) CheckOption {
	return config.MaxShrinksOption{MaxShrinks: maxShrinks}
}

// Configure the number of runs that will be executed concurrently.
//
// Default value is GOMAXPROCS
func NumConcurrent(n int) CheckOption {
	return config.NumConcurrentOption{N: n}
}

// Configure the probability of generating a WaitUntil action.
//
// Models implementing model.WaitProbabilityModel override it.
// Default value is 0.1
func WaitProbability(p float64) CheckOption {
	return config.WaitProbabilityOption{P: p}
}

// Set the ignorePanic flag to true.
//
// If true will ignore panics that occur during the check and let them execute as normal, stopping the check.
// If false will catch the panic and report it as a violation of the property.
// Ignoring the panic will make it easier to troubleshoot the error since you can use the debugger to inspect the state when it panics.
func IgnorePanic() CheckOption {
	return config.IgnorePanicOption{}
}

// Set the ignoreError flag to true.
//
// If true will keep executing runs after a failing run and report every failing run.
// If false will stop at the first failing run.
func IgnoreError() CheckOption {
	return config.IgnoreErrorOption{}
}

// Add a writer that the counterexample will be exported to
//
// Can be called multiple times.
// Default value is no writers
func Export(w io.Writer) CheckOption {
	return config.ExportOption{W: w}
}
