package engine

import (
	"errors"
	"fmt"
)

var (
	// A step of a replayed sequence is not admissible in the state reached by the steps before it
	ErrReplayDiverged = errors.New("engine: the replayed sequence is not admissible")

	// The runner was configured with no runs to execute
	ErrNoRuns = errors.New("engine: at least one run must be executed")
)

// Aggregates the failures found when the runner is configured to ignore errors
type runError struct {
	failures []Failure
}

func (re runError) Error() string {
	return fmt.Sprintf("Runner: %v runs failed. \nFailure 1: %v", len(re.failures), re.failures[0].Err)
}

// The failures aggregated in the error, if it was returned by a runner ignoring errors
func Failures(err error) []Failure {
	var re runError
	if errors.As(err, &re) {
		return re.failures
	}
	return nil
}
