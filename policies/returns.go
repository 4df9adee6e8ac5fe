package policies

import (
	"fmt"

	"github.com/zeu5/rl-bandits/types"
)

// StateAction identifies an entry of the action value table
type StateAction struct {
	State  string
	Action string
}

// ReturnTable holds the discounted return observed for each (state, action) pair of an episode
type ReturnTable map[StateAction]float64

// ComputeReturns backs up the discounted returns of a trace.
//
// The trace is scanned from the last step to the first keeping the running return
// C = reward + gamma*C. A pair that occurs more than once ends up with the return
// of its earliest occurrence in the episode.
func ComputeReturns(trace *types.Trace, gamma float64) (ReturnTable, error) {
	if trace == nil || trace.Len() == 0 {
		return nil, fmt.Errorf("empty trajectory: %w", types.ErrInvalidInput)
	}
	if gamma < 0 || gamma > 1 {
		return nil, fmt.Errorf("discount %f outside [0, 1]: %w", gamma, types.ErrInvalidInput)
	}
	returns := make(ReturnTable)
	c := 0.0
	for i := trace.Len() - 1; i >= 0; i-- { // going backwards in the episode
		state, action, reward, _ := trace.Get(i)
		c = reward + gamma*c
		returns[StateAction{State: state.Hash(), Action: action.Hash()}] = c
	}
	return returns, nil
}

// ApplyReturns folds the returns into the running means of q, counting each backup in visits
func ApplyReturns(q, visits *QTable, returns ReturnTable) {
	for sa, g := range returns {
		n := visits.Get(sa.State, sa.Action, 0) + 1
		visits.Set(sa.State, sa.Action, n)
		cur := q.Get(sa.State, sa.Action, 0)
		q.Set(sa.State, sa.Action, cur+(g-cur)/n)
	}
}
