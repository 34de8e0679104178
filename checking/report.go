package checking

import (
	"github.com/andreabedini/quickcheck-contractmodel/action"
	"github.com/andreabedini/quickcheck-contractmodel/sequence"
	"github.com/andreabedini/quickcheck-contractmodel/spec"
	"github.com/andreabedini/quickcheck-contractmodel/state"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A step of an imported report does not describe an action
var ErrMalformedReport = errors.New("checking: malformed report")

// An exported counterexample
type Report[A action.Domain] struct {
	Check   string          `yaml:"check"`
	Seed    uint64          `yaml:"seed"`
	Run     int             `yaml:"run"`
	RunSeed uint64          `yaml:"runSeed"`
	Size    int             `yaml:"size"`
	Error   string          `yaml:"error"`
	Steps   []ReportStep[A] `yaml:"steps"`
}

type ReportStep[A action.Domain] struct {
	Var     spec.Var          `yaml:"var"`
	Kind    sequence.StepKind `yaml:"kind"`
	Payload *A                `yaml:"payload,omitempty"`
	Target  state.Slot        `yaml:"target,omitempty"`
}

// Create the report of the failure
func NewReport[S any, A action.Domain](checkId uuid.UUID, seed uint64, f Failure[S, A]) Report[A] {
	rep := Report[A]{
		Check:   checkId.String(),
		Seed:    seed,
		Run:     f.Run,
		RunSeed: f.Seed,
		Size:    f.Size,
		Steps:   []ReportStep[A]{},
	}
	if f.Err != nil {
		rep.Error = f.Err.Error()
	}
	for _, st := range f.Shrunk.Steps {
		rs := ReportStep[A]{Var: st.Var, Kind: st.Kind}
		if st.Kind == sequence.Wait {
			rs.Target = st.Target
		} else {
			payload := st.Payload
			rs.Payload = &payload
		}
		rep.Steps = append(rep.Steps, rs)
	}
	return rep
}

func (rep Report[A]) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(rep)
	if err != nil {
		return nil, errors.Wrap(err, "checking: exporting report")
	}
	return out, nil
}

// The sequence of the report
func (rep Report[A]) Actions() sequence.Actions[A] {
	acts := sequence.Actions[A]{
		Steps:    make([]sequence.Step[A], 0, len(rep.Steps)),
		Rejected: []string{},
		Size:     rep.Size,
	}
	for _, rs := range rep.Steps {
		st := sequence.Step[A]{Var: rs.Var, Kind: rs.Kind, Target: rs.Target}
		if rs.Payload != nil {
			st.Payload = *rs.Payload
		}
		acts.Steps = append(acts.Steps, st)
	}
	return acts
}

// Import a report produced by Export
func Import[A action.Domain](data []byte) (Report[A], error) {
	var rep Report[A]
	if err := yaml.Unmarshal(data, &rep); err != nil {
		return Report[A]{}, errors.Wrap(err, "checking: importing report")
	}
	for i, rs := range rep.Steps {
		if rs.Kind == sequence.Wait && rs.Payload != nil {
			return Report[A]{}, errors.Wrapf(ErrMalformedReport, "step %d: a wait has no payload", i)
		}
		if rs.Kind != sequence.Wait && rs.Payload == nil {
			return Report[A]{}, errors.Wrapf(ErrMalformedReport, "step %d: missing payload", i)
		}
	}
	return rep, nil
}
