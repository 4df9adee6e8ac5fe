package bandit

import (
	"fmt"
	"math"

	"github.com/zeu5/rl-bandits/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// EpsilonGreedy explores a uniformly random arm with probability epsilon,
// otherwise exploits the arm with the highest estimate (lowest index on ties).
type EpsilonGreedy struct {
	epsilon float64
	rand    *rand.Rand
}

var _ Strategy = &EpsilonGreedy{}

func NewEpsilonGreedy(epsilon float64, src rand.Source) (*EpsilonGreedy, error) {
	if epsilon < 0 || epsilon > 1 || math.IsNaN(epsilon) {
		return nil, fmt.Errorf("epsilon %f outside [0, 1]: %w", epsilon, types.ErrInvalidConfiguration)
	}
	return &EpsilonGreedy{
		epsilon: epsilon,
		rand:    rand.New(src),
	}, nil
}

func (e *EpsilonGreedy) Name() string {
	return "epsilon-greedy"
}

func (e *EpsilonGreedy) Epsilon() float64 {
	return e.epsilon
}

func (e *EpsilonGreedy) Init(_ int) {}

func (e *EpsilonGreedy) SelectAction(stats *Stats) int {
	if e.epsilon > 0 && e.rand.Float64() < e.epsilon {
		return e.rand.Intn(stats.Arms())
	}
	return floats.MaxIdx(stats.Estimates)
}

func (e *EpsilonGreedy) ObserveReward(_ int, _ float64) {}

// UCB1 picks the arm maximising estimate + sqrt(2 ln t / pulls).
// Arms never pulled score +Inf so each one is tried once before any repeat.
type UCB1 struct {
	scores []float64
}

var _ Strategy = &UCB1{}

func NewUCB1() *UCB1 {
	return &UCB1{}
}

func (u *UCB1) Name() string {
	return "ucb1"
}

func (u *UCB1) Init(arms int) {
	u.scores = make([]float64, arms)
}

func (u *UCB1) SelectAction(stats *Stats) int {
	t := float64(stats.Steps + 1)
	for i, n := range stats.Counts {
		if n == 0 {
			u.scores[i] = math.Inf(1)
			continue
		}
		u.scores[i] = stats.Estimates[i] + math.Sqrt(2*math.Log(t)/float64(n))
	}
	return floats.MaxIdx(u.scores)
}

func (u *UCB1) ObserveReward(_ int, _ float64) {}

// BetaPosterior keeps a Beta(a, b) belief over the success probability of every arm
type BetaPosterior struct {
	initA  float64
	initB  float64
	alphas []float64
	betas  []float64
}

func newBetaPosterior(initA, initB float64) (BetaPosterior, error) {
	if initA <= 0 || initB <= 0 {
		return BetaPosterior{}, fmt.Errorf("beta prior (%f, %f) must be positive: %w", initA, initB, types.ErrInvalidConfiguration)
	}
	return BetaPosterior{initA: initA, initB: initB}, nil
}

func (p *BetaPosterior) Init(arms int) {
	p.alphas = make([]float64, arms)
	p.betas = make([]float64, arms)
	for i := 0; i < arms; i++ {
		p.alphas[i] = p.initA
		p.betas[i] = p.initB
	}
}

// ObserveReward counts a reward r in [0, 1] as r successes and 1-r failures
func (p *BetaPosterior) ObserveReward(arm int, reward float64) {
	p.alphas[arm] += reward
	p.betas[arm] += 1 - reward
}

// Posterior returns the current (a, b) of the arm
func (p *BetaPosterior) Posterior(arm int) (float64, float64) {
	return p.alphas[arm], p.betas[arm]
}

func (p *BetaPosterior) dist(arm int) distuv.Beta {
	return distuv.Beta{Alpha: p.alphas[arm], Beta: p.betas[arm]}
}

// BayesianUCB picks the arm maximising posterior mean + c * posterior std
type BayesianUCB struct {
	BetaPosterior
	c      float64
	scores []float64
}

var _ Strategy = &BayesianUCB{}

func NewBayesianUCB(c, initA, initB float64) (*BayesianUCB, error) {
	if c < 0 || math.IsNaN(c) {
		return nil, fmt.Errorf("negative confidence multiplier %f: %w", c, types.ErrInvalidConfiguration)
	}
	posterior, err := newBetaPosterior(initA, initB)
	if err != nil {
		return nil, err
	}
	return &BayesianUCB{BetaPosterior: posterior, c: c}, nil
}

func (b *BayesianUCB) Name() string {
	return "bayesian-ucb"
}

func (b *BayesianUCB) Init(arms int) {
	b.BetaPosterior.Init(arms)
	b.scores = make([]float64, arms)
}

func (b *BayesianUCB) SelectAction(stats *Stats) int {
	for i := range b.scores {
		d := b.dist(i)
		b.scores[i] = d.Mean() + b.c*d.StdDev()
	}
	return floats.MaxIdx(b.scores)
}

// ThompsonSampling draws one sample from every arm's posterior and plays the highest
type ThompsonSampling struct {
	BetaPosterior
	src     rand.Source
	samples []float64
}

var _ Strategy = &ThompsonSampling{}

func NewThompsonSampling(initA, initB float64, src rand.Source) (*ThompsonSampling, error) {
	posterior, err := newBetaPosterior(initA, initB)
	if err != nil {
		return nil, err
	}
	return &ThompsonSampling{BetaPosterior: posterior, src: src}, nil
}

func (t *ThompsonSampling) Name() string {
	return "thompson-sampling"
}

func (t *ThompsonSampling) Init(arms int) {
	t.BetaPosterior.Init(arms)
	t.samples = make([]float64, arms)
}

func (t *ThompsonSampling) SelectAction(stats *Stats) int {
	for i := range t.samples {
		d := t.dist(i)
		d.Src = t.src
		t.samples[i] = d.Rand()
	}
	return floats.MaxIdx(t.samples)
}
