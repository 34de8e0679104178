package model

import (
	"fmt"
	"testing"

	"github.com/andreabedini/quickcheck-contractmodel/action"
	"github.com/andreabedini/quickcheck-contractmodel/spec"
	"github.com/andreabedini/quickcheck-contractmodel/state"
	"github.com/andreabedini/quickcheck-contractmodel/token"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rand"
)

// Records the order in which the model is consulted
type callLog struct {
	calls []string
}

type testAction struct {
	Kind  string
	Tok   token.Id
	Slots state.Slot
	log   *callLog
}

func (ta testAction) String() string {
	return fmt.Sprintf("%v %v", ta.Kind, ta.Tok)
}

func (ta testAction) SymTokens() []token.Id {
	if ta.log != nil {
		ta.log.calls = append(ta.log.calls, "tokens")
	}
	if ta.Kind == "Use" {
		return []token.Id{ta.Tok}
	}
	return nil
}

type testModel struct {
	Base[int, testAction]
	allow bool
}

func (tm testModel) InitialState() int { return 0 }

func (tm testModel) Arbitrary(rnd *rand.Rand, s state.ModelState[int]) testAction {
	return testAction{Kind: "Create"}
}

func (tm testModel) Precondition(s state.ModelState[int], a testAction) bool {
	if a.log != nil {
		a.log.calls = append(a.log.calls, "precondition")
	}
	return tm.allow
}

func (tm testModel) NextState(sp *spec.Spec[int], a testAction) {
	switch a.Kind {
	case "Create":
		sp.CreateToken("t")
	case "Sleep":
		sp.Wait(a.Slots)
	}
	sp.ModifyState(func(n int) int { return n + 1 })
}

type namedModel struct {
	testModel
}

func (namedModel) ActionName(a testAction) string { return "named-" + a.Kind }

func TestAdmissibleTokenSafety(t *testing.T) {
	m := testModel{allow: true}
	s := Initial[int, testAction](m)
	use := action.ContractAction[testAction]{Payload: testAction{Kind: "Use", Tok: token.Id{Var: 1, Label: "t"}}}

	if Admissible[int, testAction](m, s, use) {
		t.Errorf("An action referencing an unknown token must not be admissible")
	}

	next, _ := Evaluate[int, testAction](m, s, Tag[int, testAction](m, s, testAction{Kind: "Create"}), 1)
	if !Admissible[int, testAction](m, next, use) {
		t.Errorf("An action referencing a created token should be admissible")
	}
}

func TestAdmissibleOrdering(t *testing.T) {
	for i, test := range orderingTest {
		log := &callLog{}
		m := testModel{allow: test.allow}
		s := Initial[int, testAction](m)
		s.AssertionsOk = test.assertionsOk
		act := action.ContractAction[testAction]{Payload: testAction{Kind: "Create", log: log}}

		got := Admissible[int, testAction](m, s, act)
		if got != test.expected {
			t.Errorf("Test %v: unexpected admissibility. Got %v", i, got)
		}
		assert.Equal(t, test.expectedCalls, log.calls, "Test %v: unexpected call order", i)
	}
}

var orderingTest = []struct {
	assertionsOk  bool
	allow         bool
	expected      bool
	expectedCalls []string
}{
	{assertionsOk: true, allow: true, expected: true, expectedCalls: []string{"precondition", "tokens"}},
	{assertionsOk: true, allow: false, expected: false, expectedCalls: []string{"precondition"}},
	{assertionsOk: false, allow: true, expected: false, expectedCalls: nil},
}

func TestAdmissibleWait(t *testing.T) {
	m := testModel{allow: true}
	s := Initial[int, testAction](m)
	s.CurrentSlot = 5
	for target, expected := range map[state.Slot]bool{3: false, 5: false, 6: true} {
		if got := Admissible[int, testAction](m, s, action.WaitUntil[testAction]{Target: target}); got != expected {
			t.Errorf("WaitUntil %v from slot 5: got %v. Expected %v", target, got, expected)
		}
	}
}

func TestCreatesTokens(t *testing.T) {
	m := testModel{allow: true}
	s := Initial[int, testAction](m)
	assert.True(t, CreatesTokens[int, testAction](m, s, testAction{Kind: "Create"}))
	assert.False(t, CreatesTokens[int, testAction](m, s, testAction{Kind: "Sleep", Slots: 3}))
	assert.Equal(t, 0, s.SymTokens.Len(), "a dry run must not change the state")
	assert.Equal(t, 0, s.Domain)
}

func TestEvaluate(t *testing.T) {
	m := testModel{allow: true}
	s := Initial[int, testAction](m)

	next, created := Evaluate[int, testAction](m, s, action.ContractAction[testAction]{Payload: testAction{Kind: "Sleep", Slots: 4}}, 2)
	assert.Equal(t, state.Slot(5), next.CurrentSlot)
	assert.Equal(t, 1, next.Domain)
	assert.Equal(t, 0, created.Len())

	next, created = Evaluate[int, testAction](m, next, action.WaitUntil[testAction]{Target: 9}, 3)
	assert.Equal(t, state.Slot(9), next.CurrentSlot)
	assert.Equal(t, 1, next.Domain, "waiting must not evaluate the domain action")
	assert.Equal(t, 0, created.Len())

	next, created = Evaluate[int, testAction](m, next, action.ContractAction[testAction]{Payload: testAction{Kind: "Create"}}, 4)
	assert.Equal(t, token.NewSet(token.Id{Var: 4, Label: "t"}), created)
	assert.True(t, next.SymTokens.Contains(token.Id{Var: 4, Label: "t"}))
}

func TestActionName(t *testing.T) {
	act := action.ContractAction[testAction]{Payload: testAction{Kind: "Create"}}
	wait := action.WaitUntil[testAction]{Target: 2}

	assert.Equal(t, "Create", ActionName[int, testAction](testModel{}, act))
	assert.Equal(t, "named-Create", ActionName[int, testAction](namedModel{}, act))
	assert.Equal(t, "WaitUntil", ActionName[int, testAction](namedModel{}, wait))
}
