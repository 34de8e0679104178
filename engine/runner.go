package engine

import (
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"pgregory.net/rand"
)

// Checks a property of a sequence.
//
// Returns nil if the property holds, and an error describing the violation otherwise.
type Property func(acts Actions) error

// A run in which the property was violated
type Failure struct {
	// The index of the run, starting from 0
	Run int

	// The seed and size the sequence of the run was generated with
	Seed uint64
	Size int

	// The sequence as it was generated
	Original Actions

	// The simplest sequence found that still violates the property
	Shrunk Actions

	// The number of successful shrinking steps
	Shrinks int

	// The violation reported for the shrunk sequence
	Err error
}

// The result of checking a property
type Outcome struct {
	// Identifies the check in the logs
	CheckId uuid.UUID

	// The number of runs executed
	Runs int

	// The runs that failed, ordered by run index
	Failures []Failure
}

func (o Outcome) Ok() bool {
	return len(o.Failures) == 0
}

// The failure of the first failing run
func (o Outcome) First() (Failure, bool) {
	if len(o.Failures) == 0 {
		return Failure{}, false
	}
	return o.Failures[0], true
}

// Returns nil if every run passed.
// Otherwise returns the error of the failing run, or an aggregate if several runs failed.
func (o Outcome) Err() error {
	switch len(o.Failures) {
	case 0:
		return nil
	case 1:
		f := o.Failures[0]
		return errors.Wrapf(f.Err, "run %v (seed %v) failed", f.Run, f.Seed)
	}
	return runError{failures: o.Failures}
}

// Runs a property against many generated sequences.
//
// Generates sequences of growing size, checks the property and shrinks the sequences that violate it.
// Several runs are executed concurrently. Every run gets its own random source, seeded from the
// seed of the runner, so the outcome only depends on the seed and not on the scheduling of the runs.
type Runner[S any] struct {
	sm StateModel[S]

	seed uint64

	// If true will keep executing runs after a failure, and report every failure.
	// If false will stop executing new runs after the first failure.
	ignoreErrors bool

	// If true will let panics raised by the model or the property propagate.
	// If false will recover them and report them as a violation of the property.
	ignorePanics bool

	maxRuns       int
	maxSize       int
	maxShrinks    int
	numConcurrent int
}

// Create a new Runner
//
// seed seeds the random sources of the runs.
//
// ignoreErrors specifies whether to keep executing runs after a failure.
//
// ignorePanics specifies whether to let panics propagate instead of reporting them as failures.
//
// maxRuns specifies the number of runs to execute.
//
// maxSize specifies the maximum size of a generated sequence. Run i uses size i%maxSize+1.
//
// maxShrinks specifies the maximum number of shrinking steps of a failing sequence.
//
// numConcurrent specifies the maximum number of runs executed concurrently.
func NewRunner[S any](sm StateModel[S], seed uint64, ignoreErrors bool, ignorePanics bool, maxRuns int, maxSize int, maxShrinks int, numConcurrent int) *Runner[S] {
	if maxSize < 1 {
		maxSize = 1
	}
	if numConcurrent < 1 {
		numConcurrent = 1
	}
	return &Runner[S]{
		sm:   sm,
		seed: seed,

		ignoreErrors: ignoreErrors,
		ignorePanics: ignorePanics,

		maxRuns:       maxRuns,
		maxSize:       maxSize,
		maxShrinks:    maxShrinks,
		numConcurrent: numConcurrent,
	}
}

// Check the property.
//
// Returns ErrNoRuns if the runner is configured with no runs.
// Violations of the property are reported in the Outcome, not as errors.
func (r *Runner[S]) Check(prop Property) (Outcome, error) {
	if r.maxRuns < 1 {
		return Outcome{}, ErrNoRuns
	}
	out := Outcome{
		CheckId:  uuid.New(),
		Failures: []Failure{},
	}
	logger := log.WithFields(log.Fields{"check": out.CheckId, "seed": r.seed})
	logger.Debugf("Checking property with %v runs", r.maxRuns)

	// Seeds are drawn in run order so that run i always gets the same seed
	seeds := rand.New(r.seed)

	// Used to hand out the next run
	nextRun := make(chan runParameters)
	// Used by the workers to report a completed run
	status := make(chan runStatus)
	// Used by the workers to signal that they have stopped
	closing := make(chan bool)

	ongoing := 0
	startedRuns := 0
	for ongoing < r.numConcurrent {
		ongoing++
		w := &runWorker[S]{r: r, prop: prop}
		go w.simulateRuns(nextRun, status, closing)

		nextRun <- r.runParameters(startedRuns, seeds.Uint64())
		startedRuns++

		if startedRuns >= r.maxRuns {
			break
		}
	}

	r.mainLoop(&out, seeds, ongoing, startedRuns, nextRun, status, closing)

	sort.Slice(out.Failures, func(i, j int) bool { return out.Failures[i].Run < out.Failures[j].Run })
	if !r.ignoreErrors && len(out.Failures) > 1 {
		// Runs started before the failure was noticed may fail too. Only the first run is relevant.
		out.Failures = out.Failures[:1]
	}
	if f, ok := out.First(); ok {
		logger.WithFields(log.Fields{"run": f.Run, "shrinks": f.Shrinks}).Infof("Property violated: %v\n%v", f.Err, f.Shrunk)
	} else {
		logger.Debugf("Property held for %v runs", out.Runs)
	}
	return out, nil
}

// The main loop of the runner.
//
// Receives the status of every completed run and hands out the next run.
// Stops handing out runs after maxRuns runs, or after the first failure unless errors are ignored.
// Returns when all workers have stopped.
func (r *Runner[S]) mainLoop(out *Outcome, seeds *rand.Rand, ongoing int, startedRuns int, nextRun chan runParameters, status chan runStatus, closing chan bool) {
	stopped := false
	stop := func() {
		if !stopped {
			stopped = true
			close(nextRun)
		}
	}
	if startedRuns >= r.maxRuns {
		stop()
	}

	for ongoing > 0 {
		select {
		case st := <-status:
			out.Runs++
			if st.failure != nil {
				out.Failures = append(out.Failures, *st.failure)
				if !r.ignoreErrors {
					stop()
				}
			}
			if stopped {
				continue
			}
			if startedRuns < r.maxRuns {
				nextRun <- r.runParameters(startedRuns, seeds.Uint64())
				startedRuns++
			} else {
				stop()
			}
		case <-closing:
			ongoing--
		}
	}
	stop()

	// All workers have stopped, so nothing will be sent on the channels
	close(closing)
	close(status)
}

func (r *Runner[S]) runParameters(index int, seed uint64) runParameters {
	return runParameters{
		index: index,
		seed:  seed,
		size:  index%r.maxSize + 1,
	}
}

// The parameters of one run. Read only.
type runParameters struct {
	index int
	seed  uint64
	size  int
}

type runStatus struct {
	index   int
	failure *Failure
}

// Executes runs on its own goroutine
type runWorker[S any] struct {
	r    *Runner[S]
	prop Property
}

// Continuously receives runs on nextRun and executes them, until nextRun is closed.
// Sends the status of each run on the status channel.
// When it stops it sends an indication on the closing channel.
func (w *runWorker[S]) simulateRuns(nextRun chan runParameters, status chan runStatus, closing chan bool) {
	for p := range nextRun {
		status <- w.simulateRun(p)
	}
	closing <- true
}

func (w *runWorker[S]) simulateRun(p runParameters) runStatus {
	var acts Actions
	err := w.protect(func() error {
		acts = Generate(rand.New(p.seed), w.r.sm, p.size)
		return nil
	})
	if err == nil {
		err = w.check(acts)
	}
	if err == nil {
		return runStatus{index: p.index}
	}

	shrunk, shrinks, shrunkErr := w.shrink(acts, err)
	log.WithFields(log.Fields{"run": p.index, "seed": p.seed}).Debugf("Run failed, shrunk from %v to %v steps in %v shrinks", acts.Len(), shrunk.Len(), shrinks)
	return runStatus{
		index: p.index,
		failure: &Failure{
			Run:      p.index,
			Seed:     p.seed,
			Size:     p.size,
			Original: acts,
			Shrunk:   shrunk,
			Shrinks:  shrinks,
			Err:      shrunkErr,
		},
	}
}

// Greedily replaces the failing sequence by its first simpler candidate that also fails,
// until no candidate fails or maxShrinks steps have been taken.
func (w *runWorker[S]) shrink(acts Actions, err error) (Actions, int, error) {
	shrinks := 0
	for shrinks < w.r.maxShrinks {
		progress := false
		var candidates []Actions
		if perr := w.protect(func() error {
			candidates = ShrinkActions(w.r.sm, acts)
			return nil
		}); perr != nil {
			break
		}
		for _, c := range candidates {
			if cerr := w.check(c); cerr != nil {
				acts, err = c, cerr
				progress = true
				shrinks++
				break
			}
		}
		if !progress {
			break
		}
	}
	return acts, shrinks, err
}

func (w *runWorker[S]) check(acts Actions) error {
	return w.protect(func() error {
		return w.prop(acts)
	})
}

// Runs f, turning a panic into an error unless panics are ignored
func (w *runWorker[S]) protect(f func() error) (err error) {
	if !w.r.ignorePanics {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v \nStack Trace:\n %s", p, debug.Stack())
			}
		}()
	}
	return f()
}
