package checking

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/andreabedini/quickcheck-contractmodel/action"
	"github.com/andreabedini/quickcheck-contractmodel/sequence"
	"github.com/andreabedini/quickcheck-contractmodel/state"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// Export was called on a result without failures
	ErrNoCounterexample = errors.New("checking: the property holds, there is no counterexample to export")
)

// A run in which the property was violated
type Failure[S any, A action.Domain] struct {
	// The index of the run
	Run int
	// The seed and size the run was generated with
	Seed uint64
	Size int
	// The number of successful shrinking steps
	Shrinks int
	// The sequence as it was generated
	Original sequence.Actions[A]
	// The simplest sequence found that still violates the property
	Shrunk sequence.Actions[A]
	// The model states of the shrunk sequence, starting with the initial state
	States []state.ModelState[S]
	// The violation reported for the shrunk sequence
	Err error
}

// The result of checking a property of a contract model
type Result[S any, A action.Domain] struct {
	CheckId uuid.UUID
	// The seed of the check
	Seed uint64
	// The number of runs executed
	Runs int
	// The failing runs, ordered by run index. Empty if the property holds.
	Failures []Failure[S, A]
}

func (r Result[S, A]) Ok() bool {
	return len(r.Failures) == 0
}

// Returns nil if the property holds, and the violation of the first failing run otherwise
func (r Result[S, A]) Err() error {
	if r.Ok() {
		return nil
	}
	f := r.Failures[0]
	return errors.Wrapf(f.Err, "run %v (seed %v) failed", f.Run, f.Seed)
}

// Generate a response
// Returns two parameters, result, and description.
// Result is true if the property holds, false otherwise.
// Description is a formatted string providing a detailed description of the result.
// If result is false the description contain the shrunk sequence of the first failing run,
// with the state reached after every step
func (r Result[S, A]) Response() (bool, string) {
	if r.Ok() {
		return true, fmt.Sprintf("Property holds for %v runs", r.Runs)
	}
	f := r.Failures[0]
	var buffer bytes.Buffer
	wrt := tabwriter.NewWriter(&buffer, 4, 4, 0, ' ', 0)
	out := ""
	if len(r.Failures) > 1 {
		out += fmt.Sprintf("%v of %v runs failed. ", len(r.Failures), r.Runs)
	}
	out += fmt.Sprintf("Property broken: %v. Run: %v. Seed: %v. Shrinks: %v. Sequence: \n", f.Err, f.Run, f.Seed, f.Shrinks)
	if len(f.States) > 0 {
		fmt.Fprintf(wrt, "->\t%v \n", f.States[0])
	}
	for i, st := range f.Shrunk.Steps {
		if i+1 < len(f.States) {
			fmt.Fprintf(wrt, "-> %v\t%v \n", st, f.States[i+1])
		} else {
			fmt.Fprintf(wrt, "-> %v\t \n", st)
		}
	}
	wrt.Flush()
	out += buffer.String()
	return false, out
}

// Export the shrunk sequence of the first failing run, so that it can be replayed.
//
// Returns ErrNoCounterexample if the property holds.
func (r Result[S, A]) Export() ([]byte, error) {
	if r.Ok() {
		return nil, ErrNoCounterexample
	}
	f := r.Failures[0]
	return NewReport(r.CheckId, r.Seed, f).Marshal()
}
