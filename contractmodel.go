package contractmodel

import (
	"io"
	"runtime"
	"time"

	"github.com/andreabedini/quickcheck-contractmodel/action"
	"github.com/andreabedini/quickcheck-contractmodel/checking"
	"github.com/andreabedini/quickcheck-contractmodel/config"
	"github.com/andreabedini/quickcheck-contractmodel/engine"
	"github.com/andreabedini/quickcheck-contractmodel/gen"
	"github.com/andreabedini/quickcheck-contractmodel/model"
	"github.com/andreabedini/quickcheck-contractmodel/sequence"
	"github.com/andreabedini/quickcheck-contractmodel/state"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// A property of the runs of a contract model.
//
// states holds the model state before the first step and after every step of acts.
// Returns nil if the property holds, and an error describing the violation otherwise.
type Property[S any, A action.Domain] func(acts sequence.Actions[A], states []state.ModelState[S]) error

// A property requiring the predicates to hold for every state of a run
func Predicates[S any, A action.Domain](predicates ...checking.Predicate[S]) Property[S, A] {
	pc := checking.NewPredicateChecker(predicates...)
	return func(_ sequence.Actions[A], states []state.ModelState[S]) error {
		return pc.Check(states)
	}
}

// Prepare a check of the model with initial configuration.
//
// See the config options for a full overview of possible options.
// Default values will be used if no value is provided.
func Prepare[S any, A action.Domain](m model.ContractModel[S, A], opts ...CheckOption) Checker[S, A] {
	var (
		// Seeds the random sources of the runs. Derived from the time if not provided.
		seed    uint64
		seedSet bool

		// Number of runs executed
		maxRuns = 100

		// Maximum size of a generated sequence
		maxSize = 100

		// Maximum number of shrinking steps of a failing sequence
		maxShrinks = 1000

		// Number of runs that are executed at the same time
		numConcurrent = runtime.GOMAXPROCS(0) // Will not change GOMAXPROCS but only return the current value

		waitProbability = gen.DefaultWaitProbability

		// If true will keep executing runs after a failure and report every failing run
		ignoreErrors = false

		// If true will let panics of the model or the property propagate, stopping the check.
		// If false will catch the panic and report it as a violation of the property.
		ignorePanics = false

		export []io.Writer
	)

	for _, opt := range opts {
		switch t := opt.(type) {
		case config.SeedOption:
			seed, seedSet = t.Seed, true
		case config.MaxRunsOption:
			maxRuns = t.MaxRuns
		case config.MaxSizeOption:
			maxSize = t.MaxSize
		case config.MaxShrinksOption:
			maxShrinks = t.MaxShrinks
		case config.NumConcurrentOption:
			numConcurrent = t.N
		case config.WaitProbabilityOption:
			waitProbability = t.P
		case config.IgnoreErrorOption:
			ignoreErrors = true
		case config.IgnorePanicOption:
			ignorePanics = true
		case config.ExportOption:
			export = append(export, t.W)
		}
	}
	if !seedSet {
		seed = uint64(time.Now().UnixNano())
	}

	sm := StateModel(m, waitProbability)
	return Checker[S, A]{
		m:      m,
		sm:     sm,
		seed:   seed,
		export: export,
		runner: engine.NewRunner(sm, seed, ignoreErrors, ignorePanics, maxRuns, maxSize, maxShrinks, numConcurrent),
	}
}

// Stores a configured check of a model.
//
// Can be used to check multiple properties.
// A check is started by calling the Check method.
type Checker[S any, A action.Domain] struct {
	m      model.ContractModel[S, A]
	sm     engine.StateModel[state.ModelState[S]]
	seed   uint64
	export []io.Writer
	runner *engine.Runner[state.ModelState[S]]
}

// The seed of the check. Pass it with the Seed option to repeat the check.
func (c Checker[S, A]) Seed() uint64 {
	return c.seed
}

// Check the property against generated action sequences.
//
// Returns a checking.Result with the shrunk counterexample of the first failing run, if any.
// If export writers are configured the counterexample is exported to them.
func (c Checker[S, A]) Check(prop Property[S, A]) checking.Result[S, A] {
	log.Infof("Checking contract model with seed %v", c.seed)
	out, err := c.runner.Check(c.property(prop))
	if err != nil {
		log.Panicf("Received an error while checking the model: %v", err)
	}

	res := checking.Result[S, A]{
		CheckId:  out.CheckId,
		Seed:     c.seed,
		Runs:     out.Runs,
		Failures: []checking.Failure[S, A]{},
	}
	for _, f := range out.Failures {
		shrunk := sequence.FromExternal[A](f.Shrunk)
		res.Failures = append(res.Failures, checking.Failure[S, A]{
			Run:      f.Run,
			Seed:     f.Seed,
			Size:     f.Size,
			Shrinks:  f.Shrinks,
			Original: sequence.FromExternal[A](f.Original),
			Shrunk:   shrunk,
			States:   States(c.m, shrunk),
			Err:      f.Err,
		})
	}

	if !res.Ok() && len(c.export) > 0 {
		data, err := res.Export()
		if err != nil {
			log.Errorf("Unable to export the counterexample: %v", err)
			return res
		}
		for _, w := range c.export {
			if _, err := w.Write(data); err != nil {
				log.Errorf("Unable to export the counterexample: %v", err)
			}
		}
	}
	return res
}

func (c Checker[S, A]) property(prop Property[S, A]) engine.Property {
	return func(acts engine.Actions) error {
		return prop(sequence.FromExternal[A](acts), engine.States(c.sm, acts))
	}
}

// Check the property of the model with the provided options
func Check[S any, A action.Domain](m model.ContractModel[S, A], prop Property[S, A], opts ...CheckOption) checking.Result[S, A] {
	return Prepare(m, opts...).Check(prop)
}

// Validate checks that every step of a sequence written by hand is admissible.
//
// Returns an error wrapping ErrPreconditionViolation naming the first step that is not.
// A sequence that is not admissible is an ill formed scenario and is never repaired.
func Validate[S any, A action.Domain](m model.ContractModel[S, A], acts sequence.Actions[A]) error {
	s := model.Initial(m)
	for i, st := range acts.Steps {
		act := st.Action()
		if !model.Admissible(m, s, act) {
			return errors.Wrapf(ErrPreconditionViolation, "step %d (%v) in state %v", i, st, s)
		}
		s, _ = model.Evaluate(m, s, act, st.Var)
	}
	return nil
}

// The model state before the first step and after every step of the sequence.
//
// The steps are not checked for admissibility.
func States[S any, A action.Domain](m model.ContractModel[S, A], acts sequence.Actions[A]) []state.ModelState[S] {
	s := model.Initial(m)
	out := []state.ModelState[S]{s}
	for _, st := range acts.Steps {
		s, _ = model.Evaluate(m, s, st.Action(), st.Var)
		out = append(out, s)
	}
	return out
}

// Replay checks the property against the sequence, after validating it
func Replay[S any, A action.Domain](m model.ContractModel[S, A], acts sequence.Actions[A], prop Property[S, A]) error {
	if err := Validate(m, acts); err != nil {
		return err
	}
	return prop(acts, States(m, acts))
}

// ReplayReport replays the counterexample of a report produced by checking.Result.Export
func ReplayReport[S any, A action.Domain](m model.ContractModel[S, A], data []byte, prop Property[S, A]) error {
	rep, err := checking.Import[A](data)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"check": rep.Check, "run": rep.Run}).Debugf("Replaying counterexample: %v", rep.Error)
	return Replay(m, rep.Actions(), prop)
}
