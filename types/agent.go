package types

import "fmt"

type AgentConfig struct {
	Episodes    int
	Horizon     int
	Policy      Policy
	Environment Environment
}

// RL Agent configured with the corresponding
// policy and environment
type Agent struct {
	config *AgentConfig
	// collects the traces of the run
	// Only populated if the Run function is invoked
	traces      []*Trace
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		traces:      make([]*Trace, 0, config.Episodes),
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// Run the agent for the specified number of episodes and horizon
func (a *Agent) Run() error {
	for i := 0; i < a.config.Episodes; i++ {
		trace, err := a.RunEpisode(i)
		if err != nil {
			return err
		}
		a.traces = append(a.traces, trace)
	}
	return nil
}

// Traces collected by Run
func (a *Agent) Traces() []*Trace {
	return a.traces
}

// RunEpisode rolls out a single episode and hands the resulting trace to the policy.
// The episode ends at the horizon, at a terminal state or at a state with no actions.
func (a *Agent) RunEpisode(episode int) (*Trace, error) {
	state, err := a.environment.Reset()
	if err != nil {
		return nil, fmt.Errorf("resetting environment: %w", err)
	}
	trace := NewTrace()
	actions := state.Actions()

	for i := 0; i < a.config.Horizon; i++ {
		if len(actions) == 0 {
			break
		}
		nextAction, ok := a.policy.NextAction(i, state, actions)
		if !ok {
			break
		}
		res, err := a.environment.Step(nextAction)
		if err != nil {
			return trace, fmt.Errorf("episode %d step %d: %w", episode, i, err)
		}
		trace.Append(state, nextAction, res.Reward)
		if res.Terminal {
			break
		}
		state = res.State
		actions = state.Actions()
	}
	if trace.Len() == 0 {
		return trace, nil
	}
	if err := a.policy.UpdateIteration(episode, trace); err != nil {
		return trace, fmt.Errorf("updating policy after episode %d: %w", episode, err)
	}
	return trace, nil
}
