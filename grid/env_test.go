package grid

import (
	"errors"
	"testing"

	"github.com/zeu5/rl-bandits/types"
)

func step(t *testing.T, g *GridEnvironment, m *Movement) *types.StepResult {
	t.Helper()
	res, err := g.Step(m)
	if err != nil {
		t.Fatalf("step %s failed: %s", m.Hash(), err)
	}
	return res
}

func TestGridMovements(t *testing.T) {
	g, err := NewGridEnvironment(3, 3, 1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	state, _ := g.Reset()
	if state.Hash() != "(0, 0, 0)" {
		t.Errorf("unexpected start %s", state.Hash())
	}
	// down and left are blocked at the origin
	if len(state.Actions()) != 4 {
		t.Errorf("expected 4 actions at the origin, got %d", len(state.Actions()))
	}

	res := step(t, g, MovementDown)
	if !res.State.(*Position).Eq(Position{}) {
		t.Errorf("moving down from the border should stay put")
	}
	step(t, g, MovementUp)
	res = step(t, g, MovementRight)
	if res.State.Hash() != "(1, 1, 0)" || res.Terminal || res.Reward != 0 {
		t.Errorf("unexpected result %s %v %f", res.State.Hash(), res.Terminal, res.Reward)
	}
	step(t, g, MovementUp)
	res = step(t, g, MovementRight)
	if !res.Terminal || res.Reward != 1 {
		t.Errorf("goal should be terminal with reward 1")
	}
}

func TestGridDoors(t *testing.T) {
	g, err := NewGridEnvironment(2, 2, 2, ChainedDoors(2, 2, 2)...)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	g.Reset()
	step(t, g, MovementUp)
	step(t, g, MovementRight)
	res := step(t, g, NextGridMovement)
	if res.State.Hash() != "(0, 0, 1)" {
		t.Errorf("door should lead to the next grid, got %s", res.State.Hash())
	}
	res = step(t, g, NextGridMovement)
	if res.State.Hash() != "(0, 0, 1)" {
		t.Errorf("next without a door should stay put, got %s", res.State.Hash())
	}
}

func TestGridValidation(t *testing.T) {
	if _, err := NewGridEnvironment(0, 3, 1); !errors.Is(err, types.ErrInvalidConfiguration) {
		t.Errorf("expected invalid configuration, got %v", err)
	}
	door := Door{From: Position{I: 5}, To: Position{}}
	if _, err := NewGridEnvironment(2, 2, 1, door); !errors.Is(err, types.ErrInvalidConfiguration) {
		t.Errorf("expected invalid configuration, got %v", err)
	}
	g, _ := NewGridEnvironment(2, 2, 1)
	if _, err := g.Step(types.StringAction("Up")); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}
