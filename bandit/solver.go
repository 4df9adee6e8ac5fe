package bandit

import (
	"fmt"

	"github.com/zeu5/rl-bandits/types"
)

// Strategy decides which arm to pull next and keeps its own beliefs about the arms
type Strategy interface {
	Name() string
	// Init sizes the belief state for the number of arms, discarding previous beliefs
	Init(arms int)
	SelectAction(*Stats) int
	ObserveReward(arm int, reward float64)
}

// Stats is the view of the solver state handed to the strategy. It must not be modified.
type Stats struct {
	Counts    []int
	Estimates []float64
	// number of completed steps
	Steps int
}

// Arms is the number of arms
func (s *Stats) Arms() int {
	return len(s.Counts)
}

type RunState int

const (
	Idle RunState = iota
	Running
	Finished
)

func (r RunState) String() string {
	switch r {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("RunState(%d)", int(r))
}

// Solver plays a bandit with a strategy and keeps track of the regret incurred
type Solver struct {
	name     string
	bandit   Bandit
	strategy Strategy

	stats       Stats
	regretLog   []float64
	regrets     []float64
	totalReward float64
	state       RunState
}

// NewSolver creates a solver named after its strategy
func NewSolver(b Bandit, strategy Strategy) (*Solver, error) {
	if b == nil || strategy == nil {
		return nil, fmt.Errorf("solver needs a bandit and a strategy: %w", types.ErrInvalidConfiguration)
	}
	if b.Arms() <= 0 {
		return nil, fmt.Errorf("bandit has %d arms: %w", b.Arms(), types.ErrInvalidConfiguration)
	}
	s := &Solver{
		name:     strategy.Name(),
		bandit:   b,
		strategy: strategy,
	}
	s.Reset()
	return s, nil
}

// WithName overrides the name used in reports
func (s *Solver) WithName(name string) *Solver {
	s.name = name
	return s
}

// Reset forgets everything learned and returns to Idle
func (s *Solver) Reset() {
	arms := s.bandit.Arms()
	s.stats = Stats{
		Counts:    make([]int, arms),
		Estimates: make([]float64, arms),
		Steps:     0,
	}
	s.regretLog = make([]float64, 0)
	s.regrets = make([]float64, 0)
	s.totalReward = 0
	s.strategy.Init(arms)
	s.state = Idle
}

// Step pulls one arm and returns its index
func (s *Solver) Step() int {
	i := s.strategy.SelectAction(&s.stats)
	r := s.bandit.Sample(i)

	s.stats.Counts[i] += 1
	s.stats.Estimates[i] += (r - s.stats.Estimates[i]) / float64(s.stats.Counts[i])
	s.stats.Steps += 1
	s.totalReward += r
	s.strategy.ObserveReward(i, r)

	regret := s.bandit.BestProbability() - s.bandit.Probability(i)
	s.regretLog = append(s.regretLog, regret)
	cumulative := regret
	if len(s.regrets) > 0 {
		cumulative += s.regrets[len(s.regrets)-1]
	}
	s.regrets = append(s.regrets, cumulative)
	return i
}

// Run plays n more steps. Consecutive runs accumulate.
func (s *Solver) Run(n int) error {
	if n < 0 {
		return fmt.Errorf("negative number of steps %d: %w", n, types.ErrInvalidInput)
	}
	s.state = Running
	for i := 0; i < n; i++ {
		s.Step()
	}
	s.state = Finished
	return nil
}

func (s *Solver) Name() string {
	return s.name
}

func (s *Solver) Strategy() Strategy {
	return s.strategy
}

func (s *Solver) State() RunState {
	return s.state
}

func (s *Solver) Steps() int {
	return s.stats.Steps
}

func (s *Solver) TotalReward() float64 {
	return s.totalReward
}

// Counts is the number of pulls per arm
func (s *Solver) Counts() []int {
	out := make([]int, len(s.stats.Counts))
	copy(out, s.stats.Counts)
	return out
}

// Estimates is the running mean reward per arm
func (s *Solver) Estimates() []float64 {
	out := make([]float64, len(s.stats.Estimates))
	copy(out, s.stats.Estimates)
	return out
}

// RegretLog is the regret of each individual step
func (s *Solver) RegretLog() []float64 {
	out := make([]float64, len(s.regretLog))
	copy(out, s.regretLog)
	return out
}

// Regrets is the cumulative regret after each step
func (s *Solver) Regrets() []float64 {
	out := make([]float64, len(s.regrets))
	copy(out, s.regrets)
	return out
}

// CumulativeRegret is the regret accumulated so far
func (s *Solver) CumulativeRegret() float64 {
	if len(s.regrets) == 0 {
		return 0
	}
	return s.regrets[len(s.regrets)-1]
}

// Result is a snapshot of a solver, used for reporting
type Result struct {
	Name        string    `json:"name"`
	Steps       int       `json:"steps"`
	TotalReward float64   `json:"total_reward"`
	FinalRegret float64   `json:"final_regret"`
	Counts      []int     `json:"counts"`
	Estimates   []float64 `json:"estimates"`
	Regrets     []float64 `json:"regrets"`
}

func (s *Solver) Result() *Result {
	r := &Result{
		Name:        s.name,
		Steps:       s.stats.Steps,
		TotalReward: s.totalReward,
		Counts:      s.Counts(),
		Estimates:   s.Estimates(),
		Regrets:     s.Regrets(),
		FinalRegret: s.CumulativeRegret(),
	}
	return r
}
