package policies

import (
	"fmt"

	"github.com/zeu5/rl-bandits/types"
	"golang.org/x/exp/rand"
)

// MonteCarloPolicy is an on-policy Monte Carlo control agent.
// Actions are picked epsilon-greedily from the action values, which are
// updated with the returns of every completed episode.
type MonteCarloPolicy struct {
	qTable  *QTable
	visits  *QTable
	gamma   float64
	epsilon float64
	rand    *rand.Rand
}

var _ types.Policy = &MonteCarloPolicy{}

func NewMonteCarloPolicy(gamma, epsilon float64, src rand.Source) (*MonteCarloPolicy, error) {
	if gamma < 0 || gamma > 1 {
		return nil, fmt.Errorf("discount %f outside [0, 1]: %w", gamma, types.ErrInvalidConfiguration)
	}
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("epsilon %f outside [0, 1]: %w", epsilon, types.ErrInvalidConfiguration)
	}
	return &MonteCarloPolicy{
		qTable:  NewQTable(),
		visits:  NewQTable(),
		gamma:   gamma,
		epsilon: epsilon,
		rand:    rand.New(src),
	}, nil
}

// Q is the action value table, each entry the mean of the returns backed up for it
func (m *MonteCarloPolicy) Q() *QTable {
	return m.qTable
}

// Visits counts the backups applied per (state, action)
func (m *MonteCarloPolicy) Visits() *QTable {
	return m.visits
}

func (m *MonteCarloPolicy) Reset() {
	m.qTable = NewQTable()
	m.visits = NewQTable()
}

func (m *MonteCarloPolicy) NextAction(step int, state types.State, actions []types.Action) (types.Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	if m.epsilon > 0 && m.rand.Float64() < m.epsilon {
		return actions[m.rand.Intn(len(actions))], true
	}
	return m.Greedy(state, actions), true
}

// Greedy returns the action with the highest value, the first listed one on ties
func (m *MonteCarloPolicy) Greedy(state types.State, actions []types.Action) types.Action {
	if len(actions) == 0 {
		return nil
	}
	i := m.greedyIndex(state.Hash(), actions)
	return actions[i]
}

func (m *MonteCarloPolicy) greedyIndex(stateHash string, actions []types.Action) int {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Hash()
	}
	best, _ := m.qTable.MaxAmong(stateHash, names, 0)
	for i, n := range names {
		if n == best {
			return i
		}
	}
	return 0
}

// Probability of picking action in state under the epsilon-greedy policy
func (m *MonteCarloPolicy) Probability(state types.State, action types.Action, actions []types.Action) float64 {
	if len(actions) == 0 {
		return 0
	}
	p := m.epsilon / float64(len(actions))
	if actions[m.greedyIndex(state.Hash(), actions)].Hash() == action.Hash() {
		p += 1 - m.epsilon
	}
	return p
}

// UpdateIteration backs up the returns of the episode into the action values
func (m *MonteCarloPolicy) UpdateIteration(iteration int, trace *types.Trace) error {
	returns, err := ComputeReturns(trace, m.gamma)
	if err != nil {
		return err
	}
	ApplyReturns(m.qTable, m.visits, returns)
	return nil
}
