package sequence

import (
	"fmt"
	"strings"

	"github.com/andreabedini/quickcheck-contractmodel/action"
	"github.com/andreabedini/quickcheck-contractmodel/engine"
	"github.com/andreabedini/quickcheck-contractmodel/spec"
	"github.com/andreabedini/quickcheck-contractmodel/state"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// The name of a step kind is not known
var ErrUnknownStepKind = errors.New("sequence: unknown step kind")

// The kind of a step
type StepKind int

const (
	// A domain action whose result may be referenced by later steps
	Bind StepKind = iota
	// A domain action whose result is not referenced by later steps
	NoBind
	// Time advancing to the target slot
	Wait
)

func (k StepKind) String() string {
	switch k {
	case Bind:
		return "Bind"
	case NoBind:
		return "NoBind"
	case Wait:
		return "Wait"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// Parse the name of a step kind, as returned by String
func ParseStepKind(name string) (StepKind, error) {
	for _, k := range []StepKind{Bind, NoBind, Wait} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownStepKind, "%q", name)
}

func (k StepKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *StepKind) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseStepKind(name)
	if err != nil {
		return errors.WithMessagef(err, "line %d", node.Line)
	}
	*k = parsed
	return nil
}

// One step of an action sequence.
//
// Payload is only set for Bind and NoBind steps, Target only for Wait steps.
type Step[A action.Domain] struct {
	Var     spec.Var
	Kind    StepKind
	Payload A
	Target  state.Slot
}

// Create the step binding v to the action
func FromAction[A action.Domain](v spec.Var, act action.Action[A]) (Step[A], bool) {
	switch t := act.(type) {
	case action.ContractAction[A]:
		kind := NoBind
		if t.CreatesTokens {
			kind = Bind
		}
		return Step[A]{Var: v, Kind: kind, Payload: t.Payload}, true
	case action.WaitUntil[A]:
		return Step[A]{Var: v, Kind: Wait, Target: t.Target}, true
	}
	return Step[A]{}, false
}

// The action of the step.
//
// Bind and NoBind steps only differ in how they are rendered: both give the same ContractAction.
func (st Step[A]) Action() action.Action[A] {
	if st.Kind == Wait {
		return action.WaitUntil[A]{Target: st.Target}
	}
	return action.ContractAction[A]{CreatesTokens: st.Kind == Bind, Payload: st.Payload}
}

func (st Step[A]) String() string {
	if st.Kind == Bind {
		return fmt.Sprintf("tok%d := %v", st.Var, st.Action())
	}
	return st.Action().String()
}

// An action sequence of a contract model
type Actions[A action.Domain] struct {
	Steps []Step[A]

	// The names of the actions rejected during generation
	Rejected []string

	// The size the sequence was generated with
	Size int
}

func (acts Actions[A]) Len() int {
	return len(acts.Steps)
}

// Renders the sequence one action per line. Actions creating tokens are prefixed by the variable
// naming their tokens.
func (acts Actions[A]) String() string {
	if len(acts.Steps) == 0 {
		return "Actions []"
	}
	lines := []string{}
	for _, st := range acts.Steps {
		lines = append(lines, "  "+st.String())
	}
	return fmt.Sprintf("Actions [\n%s]", strings.Join(lines, ",\n"))
}

// Convert the sequence to the representation of the engine.
//
// The rejected action names are not carried over.
func ToExternal[A action.Domain](acts Actions[A]) engine.Actions {
	out := engine.Actions{
		Steps:    make([]engine.Step, 0, len(acts.Steps)),
		Rejected: []string{},
		Size:     acts.Size,
	}
	for _, st := range acts.Steps {
		out.Steps = append(out.Steps, engine.Step{Var: engine.Var(st.Var), Action: st.Action()})
	}
	return out
}

// Convert a sequence of the engine back.
//
// Steps whose action is not an action of the model are dropped.
// The rejected action names are reset to an empty list.
func FromExternal[A action.Domain](acts engine.Actions) Actions[A] {
	out := Actions[A]{
		Steps:    make([]Step[A], 0, len(acts.Steps)),
		Rejected: []string{},
		Size:     acts.Size,
	}
	for _, st := range acts.Steps {
		act, ok := st.Action.(action.Action[A])
		if !ok {
			continue
		}
		if s, ok := FromAction(spec.Var(st.Var), act); ok {
			out.Steps = append(out.Steps, s)
		}
	}
	return out
}

// Create a sequence of the actions, binding them to the variables 1, 2, ...
//
// Used to write scenarios by hand.
func Of[A action.Domain](acts ...action.Action[A]) Actions[A] {
	out := Actions[A]{
		Steps:    make([]Step[A], 0, len(acts)),
		Rejected: []string{},
		Size:     len(acts),
	}
	for i, act := range acts {
		if st, ok := FromAction(spec.Var(i+1), act); ok {
			out.Steps = append(out.Steps, st)
		}
	}
	return out
}
