package checking

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/andreabedini/quickcheck-contractmodel/ledger"
	"github.com/andreabedini/quickcheck-contractmodel/sequence"
	"github.com/andreabedini/quickcheck-contractmodel/state"
	"github.com/andreabedini/quickcheck-contractmodel/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAction struct {
	Name   string    `yaml:"name"`
	Amount int64     `yaml:"amount"`
	Ticket *token.Id `yaml:"ticket,omitempty"`
}

func (a testAction) String() string {
	return fmt.Sprintf("%v %v", a.Name, a.Amount)
}

func TestPredicateChecker(t *testing.T) {
	states := []state.ModelState[bool]{
		modelState(1, true, nil),
		modelState(3, true, nil),
		modelState(3, false, nil),
		modelState(8, false, nil),
	}
	pc := NewPredicateChecker(SlotsIncrease[bool](), AssertionsHold[bool]())
	err := pc.Check(states)
	var pe PredicateError
	require.True(t, errors.As(err, &pe), "expected a PredicateError. Got %v", err)
	assert.Equal(t, PredicateError{Test: 1, Step: 2}, pe)

	assert.NoError(t, pc.Check(states[:2]))
	assert.NoError(t, NewPredicateChecker[bool]().Check(states))
}

func TestPredicateCheckerTerminalState(t *testing.T) {
	terminal := []int{}
	pc := NewPredicateChecker(func(s State[bool]) bool {
		if s.IsTerminal {
			terminal = append(terminal, s.Step)
		}
		assert.Len(t, s.Sequence, s.Step+1)
		return true
	})
	require.NoError(t, pc.Check([]state.ModelState[bool]{modelState(1, true, nil), modelState(2, true, nil), modelState(5, true, nil)}))
	assert.Equal(t, []int{2}, terminal)
}

func failingResult() Result[bool, testAction] {
	ticket := token.Id{Var: 1, Label: "ticket"}
	shrunk := sequence.Actions[testAction]{
		Steps: []sequence.Step[testAction]{
			{Var: 1, Kind: sequence.Bind, Payload: testAction{Name: "Open", Amount: 10}},
			{Var: 2, Kind: sequence.Wait, Target: 20},
			{Var: 3, Kind: sequence.NoBind, Payload: testAction{Name: "Redeem", Amount: 10, Ticket: &ticket}},
		},
		Rejected: []string{},
		Size:     6,
	}
	s0 := state.New(true)
	s1 := s0.Clone()
	s1.SymTokens.Add(ticket)
	s1.BalanceChanges["alice"] = ledger.Singleton(ledger.Ada, -10)
	s2 := s1.Clone()
	s2.CurrentSlot = 20
	s3 := s2.Clone()
	s3.AssertionsOk = false
	return Result[bool, testAction]{
		CheckId: uuid.MustParse("0b8f2f3e-6f0c-4a53-9b9b-1d1c3f3b5a11"),
		Seed:    42,
		Runs:    17,
		Failures: []Failure[bool, testAction]{{
			Run:      16,
			Seed:     1234,
			Size:     6,
			Shrinks:  3,
			Original: shrunk,
			Shrunk:   shrunk,
			States:   []state.ModelState[bool]{s0, s1, s2, s3},
			Err:      PredicateError{Test: 0, Step: 3},
		}},
	}
}

func TestResponse(t *testing.T) {
	ok, desc := Result[bool, testAction]{Runs: 100, Failures: []Failure[bool, testAction]{}}.Response()
	assert.True(t, ok)
	assert.Equal(t, "Property holds for 100 runs", desc)

	res := failingResult()
	ok, desc = res.Response()
	assert.False(t, ok)
	assert.True(t, strings.HasPrefix(desc, "Property broken: Predicate broken. Predicate: 0. Step: 3. Run: 16. Seed: 1234. Shrinks: 3. Sequence: \n"), desc)
	lines := strings.Split(strings.TrimSpace(desc), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[2], "tok1 := Open 10")
	assert.Contains(t, lines[3], "WaitUntil 20")
	assert.Contains(t, lines[4], "AssertionsOk: false")
	assert.ErrorContains(t, res.Err(), "run 16 (seed 1234) failed")
}

func TestExportImport(t *testing.T) {
	res := failingResult()
	data, err := res.Export()
	require.NoError(t, err)

	rep, err := Import[testAction](data)
	require.NoError(t, err)
	assert.Equal(t, "0b8f2f3e-6f0c-4a53-9b9b-1d1c3f3b5a11", rep.Check)
	assert.Equal(t, uint64(42), rep.Seed)
	assert.Equal(t, 16, rep.Run)
	assert.Equal(t, uint64(1234), rep.RunSeed)
	assert.Equal(t, "Predicate broken. Predicate: 0. Step: 3", rep.Error)
	assert.Equal(t, res.Failures[0].Shrunk, rep.Actions())
}

func TestExportWithoutFailure(t *testing.T) {
	_, err := Result[bool, testAction]{Runs: 1}.Export()
	assert.ErrorIs(t, err, ErrNoCounterexample)
}

func TestImportMalformed(t *testing.T) {
	for i, test := range malformedTest {
		_, err := Import[testAction]([]byte(test.data))
		if test.malformed {
			assert.ErrorIs(t, err, ErrMalformedReport, "test %v", i)
		} else {
			assert.Error(t, err, "test %v", i)
		}
	}
}

var malformedTest = []struct {
	data      string
	malformed bool
}{
	{"steps:\n  - var: 1\n    kind: Bind\n", true},
	{"steps:\n  - var: 1\n    kind: Wait\n    target: 3\n    payload:\n      name: Open\n", true},
	{"steps:\n  - var: 1\n    kind: Mint\n", false},
	{"steps: [", false},
}
