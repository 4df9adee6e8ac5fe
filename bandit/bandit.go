// Package bandit implements multi-armed bandit solvers and the Bernoulli reward environment they are evaluated on.
package bandit

import (
	"fmt"

	"github.com/zeu5/rl-bandits/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// RewardSource returns a stochastic reward for the selected arm
type RewardSource interface {
	Arms() int
	Sample(arm int) float64
}

// Oracle knows the true success probability of every arm.
// Only the evaluation harness uses it, to measure regret.
type Oracle interface {
	Probability(arm int) float64
	BestProbability() float64
}

// Bandit is a reward source that can also be scored against
type Bandit interface {
	RewardSource
	Oracle
}

// BernoulliBandit pays 1 with a fixed probability per arm and 0 otherwise
type BernoulliBandit struct {
	probabilities []float64
	arms          []distuv.Bernoulli
	bestArm       int
}

var _ Bandit = &BernoulliBandit{}

// NewBernoulliBandit creates a bandit with the given success probabilities
func NewBernoulliBandit(probabilities []float64, src rand.Source) (*BernoulliBandit, error) {
	if len(probabilities) == 0 {
		return nil, fmt.Errorf("bandit needs at least one arm: %w", types.ErrInvalidConfiguration)
	}
	b := &BernoulliBandit{
		probabilities: make([]float64, len(probabilities)),
		arms:          make([]distuv.Bernoulli, len(probabilities)),
	}
	for i, p := range probabilities {
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("probability %f of arm %d outside [0, 1]: %w", p, i, types.ErrInvalidConfiguration)
		}
		b.probabilities[i] = p
		b.arms[i] = distuv.Bernoulli{P: p, Src: src}
	}
	b.bestArm = floats.MaxIdx(b.probabilities)
	return b, nil
}

// NewRandomBernoulliBandit draws the probability of each of the k arms uniformly from [0, 1)
func NewRandomBernoulliBandit(k int, src rand.Source) (*BernoulliBandit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("bandit needs at least one arm, got %d: %w", k, types.ErrInvalidConfiguration)
	}
	u := distuv.Uniform{Min: 0, Max: 1, Src: src}
	probabilities := make([]float64, k)
	for i := range probabilities {
		probabilities[i] = u.Rand()
	}
	return NewBernoulliBandit(probabilities, src)
}

func (b *BernoulliBandit) Arms() int {
	return len(b.probabilities)
}

// Sample pulls the arm. Panics if the arm does not exist.
func (b *BernoulliBandit) Sample(arm int) float64 {
	return b.arms[arm].Rand()
}

func (b *BernoulliBandit) Probability(arm int) float64 {
	return b.probabilities[arm]
}

// Probabilities returns a copy of the true success probabilities
func (b *BernoulliBandit) Probabilities() []float64 {
	out := make([]float64, len(b.probabilities))
	copy(out, b.probabilities)
	return out
}

func (b *BernoulliBandit) BestArm() int {
	return b.bestArm
}

func (b *BernoulliBandit) BestProbability() float64 {
	return b.probabilities[b.bestArm]
}
