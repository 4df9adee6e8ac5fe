package types

// Trace of an episode as triplets (state, action, reward) in chronological order
type Trace struct {
	states  []State
	actions []Action
	rewards []float64
}

func NewTrace() *Trace {
	return &Trace{
		states:  make([]State, 0),
		actions: make([]Action, 0),
		rewards: make([]float64, 0),
	}
}

func (t *Trace) Slice(from, to int) *Trace {
	slicedTrace := NewTrace()
	for i := from; i < to; i++ {
		slicedTrace.Append(t.states[i], t.actions[i], t.rewards[i])
	}
	return slicedTrace
}

// Append records the reward obtained for taking action in state
func (t *Trace) Append(state State, action Action, reward float64) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.rewards = append(t.rewards, reward)
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (State, Action, float64, bool) {
	if i < 0 || i >= len(t.states) {
		return nil, nil, 0, false
	}
	return t.states[i], t.actions[i], t.rewards[i], true
}

func (t *Trace) Last() (State, Action, float64, bool) {
	if len(t.states) < 1 {
		return nil, nil, 0, false
	}
	lastIndex := len(t.states) - 1
	return t.states[lastIndex], t.actions[lastIndex], t.rewards[lastIndex], true
}

func (t *Trace) GetPrefix(i int) (*Trace, bool) {
	if i < 0 || i > len(t.states) {
		return nil, false
	}
	return &Trace{
		states:  t.states[0:i],
		actions: t.actions[0:i],
		rewards: t.rewards[0:i],
	}, true
}

// TotalReward is the undiscounted sum of the rewards in the trace
func (t *Trace) TotalReward() float64 {
	total := 0.0
	for _, r := range t.rewards {
		total += r
	}
	return total
}
