package types

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/exp/rand"
)

// chainEnv is a corridor of n cells. "right" moves forward, the last cell pays 1 and ends the episode.
type chainEnv struct {
	n   int
	pos int
}

func (c *chainEnv) state() State {
	return &StringState{Name: string(rune('a' + c.pos)), Choices: []Action{StringAction("left"), StringAction("right")}}
}

func (c *chainEnv) Reset() (State, error) {
	c.pos = 0
	return c.state(), nil
}

func (c *chainEnv) Step(a Action) (*StepResult, error) {
	switch a.Hash() {
	case "right":
		c.pos++
	case "left":
		if c.pos > 0 {
			c.pos--
		}
	default:
		return nil, ErrInvalidInput
	}
	if c.pos == c.n-1 {
		return &StepResult{State: c.state(), Reward: 1, Terminal: true}, nil
	}
	return &StepResult{State: c.state()}, nil
}

// alwaysRight records the traces it was updated with
type alwaysRight struct {
	updates []*Trace
}

func (a *alwaysRight) UpdateIteration(_ int, t *Trace) error {
	a.updates = append(a.updates, t)
	return nil
}

func (a *alwaysRight) NextAction(_ int, _ State, actions []Action) (Action, bool) {
	return actions[1], true
}

func (a *alwaysRight) Reset() {
	a.updates = nil
}

func TestAgentStopsAtTerminal(t *testing.T) {
	policy := &alwaysRight{}
	agent := NewAgent(&AgentConfig{Episodes: 3, Horizon: 10, Policy: policy, Environment: &chainEnv{n: 4}})
	if err := agent.Run(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(agent.Traces()) != 3 || len(policy.updates) != 3 {
		t.Fatalf("expected 3 traces and updates, got %d and %d", len(agent.Traces()), len(policy.updates))
	}
	trace := agent.Traces()[0]
	if trace.Len() != 3 {
		t.Errorf("expected 3 steps to the end of the chain, got %d", trace.Len())
	}
	s, a, r, ok := trace.Last()
	if !ok || s.Hash() != "c" || a.Hash() != "right" || r != 1 {
		t.Errorf("unexpected last step %v %v %f", s, a, r)
	}
	if trace.TotalReward() != 1 {
		t.Errorf("unexpected total reward %f", trace.TotalReward())
	}
}

func TestAgentHorizon(t *testing.T) {
	agent := NewAgent(&AgentConfig{Episodes: 1, Horizon: 2, Policy: &alwaysRight{}, Environment: &chainEnv{n: 10}})
	trace, err := agent.RunEpisode(0)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if trace.Len() != 2 {
		t.Errorf("expected the horizon to cut the episode at 2 steps, got %d", trace.Len())
	}
}

type badAction struct{}

func (badAction) UpdateIteration(int, *Trace) error { return nil }
func (badAction) NextAction(int, State, []Action) (Action, bool) {
	return StringAction("jump"), true
}
func (badAction) Reset() {}

func TestAgentPropagatesStepErrors(t *testing.T) {
	agent := NewAgent(&AgentConfig{Episodes: 1, Horizon: 2, Policy: badAction{}, Environment: &chainEnv{n: 3}})
	if err := agent.Run(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestTracePrefixAndSlice(t *testing.T) {
	trace := NewTrace()
	for i := 0; i < 4; i++ {
		trace.Append(&StringState{Name: string(rune('a' + i))}, StringAction("x"), float64(i))
	}
	prefix, ok := trace.GetPrefix(2)
	if !ok || prefix.Len() != 2 {
		t.Fatalf("unexpected prefix")
	}
	if _, ok := trace.GetPrefix(5); ok {
		t.Errorf("prefix longer than the trace should fail")
	}
	sliced := trace.Slice(1, 3)
	s, _, r, _ := sliced.Get(0)
	if sliced.Len() != 2 || s.Hash() != "b" || r != 1 {
		t.Errorf("unexpected slice")
	}
	if _, _, _, ok := trace.Get(-1); ok {
		t.Errorf("negative index should fail")
	}
}

func TestComparisonAnalyzers(t *testing.T) {
	dir := t.TempDir()
	c := NewComparison(&ComparisonConfig{
		Runs:         1,
		Episodes:     5,
		Horizon:      20,
		RecordPath:   dir,
		RecordTraces: true,
	})
	returns := NewEpisodeReturnAnalyzer()
	var got []DataSet
	c.AddAnalysis("returns", returns, func(_, _ int, _ []string, ds []DataSet) error {
		got = ds
		return nil
	})
	c.AddAnalysis("coverage", NewCoverageAnalyzer(), CoveragePlotter(filepath.Join(dir, "plots")))
	c.AddExperiment(NewExperiment("right", &alwaysRight{}, &chainEnv{n: 3}))
	c.AddExperiment(NewExperiment("random", NewRandomPolicyWithSource(rand.NewSource(1)), &chainEnv{n: 3}))

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected two datasets, got %d", len(got))
	}
	right := got[0].([]float64)
	if len(right) != 5 {
		t.Fatalf("expected 5 returns, got %d", len(right))
	}
	for _, r := range right {
		if r != 1 {
			t.Errorf("always moving right should reach the end, got %f", r)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "plots", "0_coverage.png")); err != nil {
		t.Errorf("coverage plot missing: %s", err)
	}
	bs, err := os.ReadFile(filepath.Join(dir, "traces", "right_0.jsonl"))
	if err != nil {
		t.Fatalf("traces missing: %s", err)
	}
	if strings.Count(string(bs), "\n") != 5 {
		t.Errorf("expected one line per episode")
	}
}

func TestComparisonValidation(t *testing.T) {
	c := NewComparison(&ComparisonConfig{Episodes: 0, Horizon: 1})
	if err := c.Run(context.Background()); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected invalid configuration, got %v", err)
	}
}
