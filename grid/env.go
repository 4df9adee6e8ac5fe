package grid

import (
	"fmt"

	"github.com/zeu5/rl-bandits/types"
)

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// GridEnvironment is a stack of Height x Width grids connected by doors.
// Reaching the goal cell pays GoalReward and ends the episode, every other
// transition pays StepReward.
type GridEnvironment struct {
	Height int
	Width  int
	Grids  int
	CurPos *Position
	Doors  []Door
	Goal   Position

	GoalReward float64
	StepReward float64
}

type Door struct {
	From Position
	To   Position
}

var _ types.Environment = &GridEnvironment{}

// NewGridEnvironment creates the environment with the goal in the far corner of the last grid
func NewGridEnvironment(height, width, grids int, doors ...Door) (*GridEnvironment, error) {
	if height <= 0 || width <= 0 || grids <= 0 {
		return nil, fmt.Errorf("grid dimensions %dx%dx%d must be positive: %w", height, width, grids, types.ErrInvalidConfiguration)
	}
	g := &GridEnvironment{
		Height:     height,
		Width:      width,
		Grids:      grids,
		Doors:      doors,
		Goal:       Position{I: height - 1, J: width - 1, K: grids - 1},
		GoalReward: 1,
	}
	for _, d := range doors {
		if !g.contains(d.From) || !g.contains(d.To) {
			return nil, fmt.Errorf("door %s -> %s outside the grid: %w", d.From.Hash(), d.To.Hash(), types.ErrInvalidConfiguration)
		}
	}
	g.CurPos = g.position(0, 0, 0)
	return g, nil
}

// ChainedDoors connects the far corner of every grid to the origin of the next one
func ChainedDoors(height, width, grids int) []Door {
	doors := make([]Door, 0, grids)
	for k := 0; k < grids-1; k++ {
		doors = append(doors, Door{
			From: Position{I: height - 1, J: width - 1, K: k},
			To:   Position{I: 0, J: 0, K: k + 1},
		})
	}
	return doors
}

func (g *GridEnvironment) contains(p Position) bool {
	return p.I >= 0 && p.I < g.Height && p.J >= 0 && p.J < g.Width && p.K >= 0 && p.K < g.Grids
}

func (g *GridEnvironment) position(i, j, k int) *Position {
	return &Position{I: i, J: j, K: k, height: g.Height, width: g.Width}
}

func (g *GridEnvironment) Reset() (types.State, error) {
	g.CurPos = g.position(0, 0, 0)
	return g.CurPos, nil
}

func (g *GridEnvironment) Step(a types.Action) (*types.StepResult, error) {
	movement, ok := a.(*Movement)
	if !ok {
		return nil, fmt.Errorf("unknown action %s: %w", a.Hash(), types.ErrInvalidInput)
	}
	newPos := g.position(g.CurPos.I, g.CurPos.J, g.CurPos.K)

	switch movement.Direction {
	case "Nothing":
	case "Up":
		newPos.I = min(g.Height-1, g.CurPos.I+1)
	case "Down":
		newPos.I = max(0, g.CurPos.I-1)
	case "Left":
		newPos.J = max(0, g.CurPos.J-1)
	case "Right":
		newPos.J = min(g.Width-1, g.CurPos.J+1)
	case "Next":
		for _, d := range g.Doors {
			if d.From.Eq(*g.CurPos) {
				newPos = g.position(d.To.I, d.To.J, d.To.K)
				break
			}
		}
	default:
		return nil, fmt.Errorf("unknown direction %s: %w", movement.Direction, types.ErrInvalidInput)
	}
	g.CurPos = newPos

	if newPos.Eq(g.Goal) {
		return &types.StepResult{State: newPos, Reward: g.GoalReward, Terminal: true}, nil
	}
	return &types.StepResult{State: newPos, Reward: g.StepReward}, nil
}

type Position struct {
	I int
	J int
	K int

	height int
	width  int
}

var _ types.State = &Position{}

func (p *Position) Hash() string {
	return fmt.Sprintf("(%d, %d, %d)", p.I, p.J, p.K)
}

func (p *Position) Eq(other Position) bool {
	return p.I == other.I && p.J == other.J && p.K == other.K
}

// Actions leaves out the moves that would hit the border of the grid
func (p *Position) Actions() []types.Action {
	actions := []types.Action{NoMovement, NextGridMovement}
	if p.I < p.height-1 {
		actions = append(actions, MovementUp)
	}
	if p.I > 0 {
		actions = append(actions, MovementDown)
	}
	if p.J > 0 {
		actions = append(actions, MovementLeft)
	}
	if p.J < p.width-1 {
		actions = append(actions, MovementRight)
	}
	return actions
}

type Movement struct {
	Direction string
}

var _ types.Action = &Movement{}

func (m *Movement) Hash() string {
	return m.Direction
}

var (
	MovementUp                      = &Movement{"Up"}
	MovementDown                    = &Movement{"Down"}
	MovementLeft                    = &Movement{"Left"}
	MovementRight                   = &Movement{"Right"}
	NoMovement                      = &Movement{"Nothing"}
	NextGridMovement                = &Movement{"Next"}
	AllMovements     []types.Action = []types.Action{
		MovementUp,
		MovementDown,
		MovementLeft,
		MovementRight,
		NoMovement,
		NextGridMovement,
	}
)
