package types

// Environment produces episodes for the policies to learn from.
// Reset is called at the start of each episode.
type Environment interface {
	Reset() (State, error)
	Step(Action) (*StepResult, error)
}

// StepResult is the outcome of taking an action in the environment
type StepResult struct {
	State State
	// reward obtained for the transition
	Reward float64
	// the episode ends at this state
	Terminal bool
}

// State of the environment that RL policies observe
type State interface {
	// Indexed by the Hash
	// Should be deterministic
	Hash() string
	// Actions possible from the state
	Actions() []Action
}

// An Action that RL policy can take
type Action interface {
	// Index of the action
	// Should be deterministic
	Hash() string
}

// StringAction is an Action identified only by its name
type StringAction string

var _ Action = StringAction("")

func (s StringAction) Hash() string {
	return string(s)
}

// StringState is a State identified by a name with a fixed action set
type StringState struct {
	Name    string
	Choices []Action
}

var _ State = &StringState{}

func (s *StringState) Hash() string {
	return s.Name
}

func (s *StringState) Actions() []Action {
	return s.Choices
}
