package policies

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/rl-bandits/types"
)

type step struct {
	state, action string
	reward        float64
}

func traceOf(steps ...step) *types.Trace {
	trace := types.NewTrace()
	for _, s := range steps {
		trace.Append(&types.StringState{Name: s.state}, types.StringAction(s.action), s.reward)
	}
	return trace
}

func TestComputeReturnsExample(t *testing.T) {
	trace := traceOf(step{"0", "0", 0}, step{"0", "1", 1}, step{"1", "0", 1})
	returns, err := ComputeReturns(trace, 1.0)
	require.NoError(t, err)
	assert.Equal(t, ReturnTable{
		{State: "1", Action: "0"}: 1,
		{State: "0", Action: "1"}: 2,
		{State: "0", Action: "0"}: 2,
	}, returns)
}

func TestComputeReturnsDiscounted(t *testing.T) {
	gamma := 0.9
	rewards := []float64{1, 0, 2, 3}
	steps := make([]step, len(rewards))
	for i, r := range rewards {
		steps[i] = step{state: string(rune('a' + i)), action: "x", reward: r}
	}
	returns, err := ComputeReturns(traceOf(steps...), gamma)
	require.NoError(t, err)
	require.Len(t, returns, len(rewards))

	for k := range rewards {
		expected := 0.0
		for j := k; j < len(rewards); j++ {
			expected += math.Pow(gamma, float64(j-k)) * rewards[j]
		}
		assert.InDelta(t, expected, returns[StateAction{State: steps[k].state, Action: "x"}], 1e-12)
	}
}

func TestComputeReturnsKeepsEarliestOccurrence(t *testing.T) {
	// s/a occurs at positions 0 and 2
	trace := traceOf(step{"s", "a", 1}, step{"t", "b", 0}, step{"s", "a", 5})
	returns, err := ComputeReturns(trace, 0.5)
	require.NoError(t, err)
	require.Len(t, returns, 2)
	// position 2: 5, position 1: 0 + 0.5*5 = 2.5, position 0: 1 + 0.5*2.5 = 2.25
	assert.InDelta(t, 2.25, returns[StateAction{"s", "a"}], 1e-12)
	assert.InDelta(t, 2.5, returns[StateAction{"t", "b"}], 1e-12)
}

func TestComputeReturnsEmpty(t *testing.T) {
	_, err := ComputeReturns(types.NewTrace(), 1.0)
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = ComputeReturns(nil, 1.0)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestComputeReturnsBadDiscount(t *testing.T) {
	_, err := ComputeReturns(traceOf(step{"s", "a", 1}), 1.5)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestApplyReturnsIncrementalMean(t *testing.T) {
	q := NewQTable()
	visits := NewQTable()
	sa := StateAction{State: "s", Action: "a"}

	ApplyReturns(q, visits, ReturnTable{sa: 4})
	assert.Equal(t, 4.0, q.Get("s", "a", 0))
	assert.Equal(t, 1.0, visits.Get("s", "a", 0))

	ApplyReturns(q, visits, ReturnTable{sa: 10})
	assert.InDelta(t, 7.0, q.Get("s", "a", 0), 1e-12)
	assert.Equal(t, 2.0, visits.Get("s", "a", 0))

	ApplyReturns(q, visits, ReturnTable{sa: 1})
	assert.InDelta(t, 5.0, q.Get("s", "a", 0), 1e-12)
	assert.Equal(t, 3.0, visits.Get("s", "a", 0))
}

func TestApplyReturnsOnlyTouchesGivenPairs(t *testing.T) {
	q := NewQTable()
	visits := NewQTable()
	ApplyReturns(q, visits, ReturnTable{{"s", "a"}: 1, {"s", "b"}: -1})
	ApplyReturns(q, visits, ReturnTable{{"s", "a"}: 3})

	assert.Equal(t, 2.0, visits.Get("s", "a", 0))
	assert.Equal(t, 1.0, visits.Get("s", "b", 0))
	assert.Equal(t, -1.0, q.Get("s", "b", 0))
	assert.False(t, q.Has("t", "a"))
}
