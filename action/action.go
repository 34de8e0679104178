package action

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/andreabedini/quickcheck-contractmodel/state"
	"github.com/andreabedini/quickcheck-contractmodel/token"
	"github.com/google/go-cmp/cmp"
)

// A domain action, supplied by the user model.
//
// The payload is opaque to the generator except for these capabilities:
//   - display, through String
//   - equality, through Equal
//   - extraction of the symbolic tokens it references, through token.Collect.
//     Payloads the structural traversal can not inspect must implement token.Referencer.
type Domain interface {
	fmt.Stringer
}

// An action of an action sequence.
//
// The set of actions is closed: an Action is either a ContractAction or a WaitUntil.
type Action[A Domain] interface {
	fmt.Stringer

	// Restricts the implementations to this package
	sealed(A)
}

// An action of the user model.
//
// CreatesTokens records whether evaluating the action creates symbolic tokens.
// It is always computed by evaluating the action, never copied from another action.
type ContractAction[A Domain] struct {
	CreatesTokens bool
	Payload       A
}

func (ContractAction[A]) sealed(A) {}

func (ca ContractAction[A]) String() string {
	return ca.Payload.String()
}

// The built-in action advancing time to the target slot
type WaitUntil[A Domain] struct {
	Target state.Slot
}

func (WaitUntil[A]) sealed(A) {}

func (wu WaitUntil[A]) String() string {
	return fmt.Sprintf("WaitUntil %d", wu.Target)
}

// Returns the symbolic tokens referenced by the action
func Tokens[A Domain](act Action[A]) []token.Id {
	if ca, ok := act.(ContractAction[A]); ok {
		return token.Collect(ca.Payload)
	}
	return nil
}

var allUnexported = cmp.Exporter(func(reflect.Type) bool { return true })

// Structural equality of two actions, unexported fields included
func Equal[A Domain](a, b Action[A]) bool {
	return cmp.Equal(a, b, allUnexported)
}

// Structural equality of two payloads
func EqualPayload[A Domain](a, b A) bool {
	return cmp.Equal(a, b, allUnexported)
}

// The default name of an action: the first word of its rendering.
//
// Used to group actions, e.g. when reporting the actions rejected during generation.
func Name(a fmt.Stringer) string {
	fields := strings.Fields(a.String())
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
