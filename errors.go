package contractmodel

import "errors"

// A step of a sequence written by hand is not admissible in the state reached by the steps before it
var ErrPreconditionViolation = errors.New("contractmodel: precondition violated")
