package types

import (
	"time"

	"golang.org/x/exp/rand"
)

type Policy interface {
	// called at the end of each episode with the recorded trace
	UpdateIteration(int, *Trace) error
	NextAction(int, State, []Action) (Action, bool)
	Reset()
}

// RandomPolicy picks uniformly among the available actions and never learns
type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy() *RandomPolicy {
	return NewRandomPolicyWithSource(rand.NewSource(uint64(time.Now().UnixNano())))
}

func NewRandomPolicyWithSource(src rand.Source) *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(src),
	}
}

func (r *RandomPolicy) Reset() {

}

func (r *RandomPolicy) UpdateIteration(_ int, _ *Trace) error {
	return nil
}

func (r *RandomPolicy) NextAction(step int, state State, actions []Action) (Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	i := r.rand.Intn(len(actions))
	return actions[i], true
}
