package contractmodel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/andreabedini/quickcheck-contractmodel/action"
	"github.com/andreabedini/quickcheck-contractmodel/checking"
	"github.com/andreabedini/quickcheck-contractmodel/engine"
	"github.com/andreabedini/quickcheck-contractmodel/model"
	"github.com/andreabedini/quickcheck-contractmodel/sequence"
	"github.com/andreabedini/quickcheck-contractmodel/spec"
	"github.com/andreabedini/quickcheck-contractmodel/state"
	"github.com/andreabedini/quickcheck-contractmodel/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rand"
)

// Creates tokens and spends them
type tokenAction struct {
	Create bool
	Spend  token.Id
}

func (a tokenAction) String() string {
	if a.Create {
		return "Create"
	}
	return fmt.Sprintf("Spend %v", a.Spend)
}

type tokenModel struct {
	model.Base[int, tokenAction]
}

func (tokenModel) InitialState() int { return 0 }

func (tokenModel) Arbitrary(rnd *rand.Rand, s state.ModelState[int]) tokenAction {
	if rnd.Intn(2) == 0 {
		return tokenAction{Create: true}
	}
	return tokenAction{Spend: token.Id{Var: 1 + rnd.Intn(20), Label: "t"}}
}

// Spend an older token instead
func (tokenModel) Shrink(s state.ModelState[int], a tokenAction) []tokenAction {
	out := []tokenAction{}
	for _, tok := range s.SymTokens.Sorted() {
		if !a.Create && tok.Var < a.Spend.Var {
			out = append(out, tokenAction{Spend: tok})
		}
	}
	return out
}

type otherAction struct{}

func (otherAction) String() string {
	return "Other"
}

func (tokenModel) NextState(sp *spec.Spec[int], a tokenAction) {
	if a.Create {
		sp.CreateToken("t")
		sp.Wait(1)
		return
	}
	sp.ModifyState(func(n int) int { return n + 1 })
}

var monotonic = Predicates[int, tokenAction](
	checking.AssertionsHold[int](),
	checking.SlotsIncrease[int](),
	checking.TokensAccumulate[int](),
)

func TestGeneratedRunsAreMonotonic(t *testing.T) {
	res := Check[int, tokenAction](tokenModel{}, monotonic, Seed(5), MaxRuns(100), MaxSize(30), WaitProbability(0.3))
	ok, desc := res.Response()
	assert.True(t, ok, desc)
}

func TestGeneratedRunsOnlySpendKnownTokens(t *testing.T) {
	prop := func(acts sequence.Actions[tokenAction], states []state.ModelState[int]) error {
		for i, st := range acts.Steps {
			if st.Kind == sequence.NoBind && !states[i].SymTokens.Contains(st.Payload.Spend) {
				return fmt.Errorf("step %v spends an unknown token", i)
			}
			if st.Kind == sequence.Bind && !st.Payload.Create {
				return fmt.Errorf("step %v binds without creating", i)
			}
		}
		return nil
	}
	res := Check[int, tokenAction](tokenModel{}, prop, Seed(9), MaxRuns(100), MaxSize(30))
	ok, desc := res.Response()
	assert.True(t, ok, desc)
}

func TestCheckFindsCounterexample(t *testing.T) {
	prop := func(acts sequence.Actions[tokenAction], states []state.ModelState[int]) error {
		if states[len(states)-1].Domain >= 2 {
			return errors.New("spent twice")
		}
		return nil
	}
	c := Prepare[int, tokenAction](tokenModel{}, Seed(11), MaxRuns(200), MaxSize(30))
	assert.Equal(t, uint64(11), c.Seed())
	res := c.Check(prop)
	require.False(t, res.Ok())

	// Create, Spend, Spend
	f := res.Failures[0]
	assert.Equal(t, 3, f.Shrunk.Len(), "unexpected counterexample %v", f.Shrunk)
	assert.Len(t, f.States, 4)
	assert.Equal(t, sequence.Bind, f.Shrunk.Steps[0].Kind)
	assert.ErrorContains(t, res.Err(), "spent twice")
	assert.Error(t, Replay[int, tokenAction](tokenModel{}, f.Shrunk, prop))
}

func TestZeroSeedIsKept(t *testing.T) {
	c := Prepare[int, tokenAction](tokenModel{}, Seed(0), MaxRuns(5))
	assert.Equal(t, uint64(0), c.Seed())

	first := c.Check(func(sequence.Actions[tokenAction], []state.ModelState[int]) error { return nil })
	second := Prepare[int, tokenAction](tokenModel{}, Seed(0), MaxRuns(5)).Check(func(sequence.Actions[tokenAction], []state.ModelState[int]) error { return nil })
	assert.True(t, first.Ok())
	assert.Equal(t, first.Seed, second.Seed)
}

func TestValidate(t *testing.T) {
	created := action.ContractAction[tokenAction]{CreatesTokens: true, Payload: tokenAction{Create: true}}
	spend := func(v int) action.Action[tokenAction] {
		return action.ContractAction[tokenAction]{Payload: tokenAction{Spend: token.Id{Var: v, Label: "t"}}}
	}

	ok := sequence.Of[tokenAction](created, spend(1), action.WaitUntil[tokenAction]{Target: 10}, spend(1))
	assert.NoError(t, Validate[int, tokenAction](tokenModel{}, ok))

	for i, test := range validateTest {
		acts := sequence.Of[tokenAction](test.acts(created, spend)...)
		err := Validate[int, tokenAction](tokenModel{}, acts)
		assert.ErrorIs(t, err, ErrPreconditionViolation, "test %v", i)
		assert.ErrorContains(t, err, fmt.Sprintf("step %d", test.step), "test %v", i)
	}
}

var validateTest = []struct {
	acts func(created action.Action[tokenAction], spend func(int) action.Action[tokenAction]) []action.Action[tokenAction]
	step int
}{
	{
		// The token of step 2 is spent before it is created
		acts: func(created action.Action[tokenAction], spend func(int) action.Action[tokenAction]) []action.Action[tokenAction] {
			return []action.Action[tokenAction]{spend(2), created}
		},
		step: 0,
	},
	{
		// Creating advances time to slot 2, waiting until slot 2 does not move time forward
		acts: func(created action.Action[tokenAction], spend func(int) action.Action[tokenAction]) []action.Action[tokenAction] {
			return []action.Action[tokenAction]{created, action.WaitUntil[tokenAction]{Target: 2}}
		},
		step: 1,
	},
}

func TestStateModel(t *testing.T) {
	sm := StateModel[int, tokenAction](tokenModel{}, 0)
	s := sm.Init()
	assert.Equal(t, state.InitialSlot, s.CurrentSlot)

	create := model.Tag[int, tokenAction](tokenModel{}, s, tokenAction{Create: true})
	require.True(t, sm.Precondition(s, create))
	next := sm.NextState(s, create, 4)
	assert.True(t, next.SymTokens.Contains(token.Id{Var: 4, Label: "t"}))
	assert.Equal(t, "Create", sm.ActionName(create))

	// Actions of other models are ignored
	foreign := engine.Action(action.WaitUntil[otherAction]{Target: 5})
	assert.False(t, sm.Precondition(s, foreign))
	assert.Equal(t, s, sm.NextState(s, foreign, 1))
	assert.Nil(t, sm.Shrink(s, foreign))
	assert.Equal(t, "WaitUntil", sm.ActionName(foreign))

	// Without waits only domain actions are generated
	rnd := rand.New(1)
	for i := 0; i < 50; i++ {
		_, ok := sm.Arbitrary(rnd, s).(action.ContractAction[tokenAction])
		assert.True(t, ok)
	}
}

func TestCheckWithoutRunsPanics(t *testing.T) {
	assert.Panics(t, func() {
		Check[int, tokenAction](tokenModel{}, monotonic, MaxRuns(0))
	})
}
