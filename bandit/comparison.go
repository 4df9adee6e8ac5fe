package bandit

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gosuri/uilive"
	"github.com/zeu5/rl-bandits/types"
)

// Reporter consumes the results of a comparison once every solver is done
type Reporter func(context.Context, Bandit, []*Result) error

// Comparison runs several independent solvers against the same bandit
type Comparison struct {
	bandit    Bandit
	Solvers   []*Solver
	reporters []Reporter

	out     io.Writer
	refresh int
}

func NewComparison(b Bandit) *Comparison {
	return &Comparison{
		bandit:    b,
		Solvers:   make([]*Solver, 0),
		reporters: make([]Reporter, 0),
		out:       os.Stdout,
		refresh:   100,
	}
}

// WithOutput sets where the live progress is written
func (c *Comparison) WithOutput(out io.Writer) *Comparison {
	c.out = out
	return c
}

func (c *Comparison) Bandit() Bandit {
	return c.bandit
}

// AddStrategy creates a solver with its own state for the strategy
func (c *Comparison) AddStrategy(strategy Strategy) (*Solver, error) {
	s, err := NewSolver(c.bandit, strategy)
	if err != nil {
		return nil, err
	}
	for _, other := range c.Solvers {
		if other.Name() == s.Name() {
			s.WithName(fmt.Sprintf("%s-%d", s.Name(), len(c.Solvers)))
			break
		}
	}
	c.Solvers = append(c.Solvers, s)
	return s, nil
}

func (c *Comparison) AddReporter(r Reporter) {
	c.reporters = append(c.reporters, r)
}

// Solver looks up a solver by name
func (c *Comparison) Solver(name string) (*Solver, bool) {
	for _, s := range c.Solvers {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

func (c *Comparison) Results() []*Result {
	results := make([]*Result, len(c.Solvers))
	for i, s := range c.Solvers {
		results[i] = s.Result()
	}
	return results
}

// Run plays steps rounds with every solver, one solver after the other, then calls the reporters
func (c *Comparison) Run(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("number of steps must be positive, got %d: %w", steps, types.ErrInvalidConfiguration)
	}
	if len(c.Solvers) == 0 {
		return nil
	}

	writer := uilive.New()
	writer.Out = c.out
	lines := make([]io.Writer, len(c.Solvers))
	lines[0] = writer
	for i := 1; i < len(c.Solvers); i++ {
		lines[i] = writer.Newline()
	}
	longestName := 0
	for _, s := range c.Solvers {
		if len(s.Name()) > longestName {
			longestName = len(s.Name())
		}
	}
	display := func() {
		for i, s := range c.Solvers {
			fmt.Fprintf(lines[i], "Solver:%*s, Steps:%d, Regret:%10.3f, Reward:%10.1f\n",
				longestName, s.Name(), s.Steps(), s.CumulativeRegret(), s.TotalReward())
		}
		writer.Flush()
	}

	for _, s := range c.Solvers {
		done := 0
		for done < steps {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			chunk := c.refresh
			if steps-done < chunk {
				chunk = steps - done
			}
			if err := s.Run(chunk); err != nil {
				return err
			}
			done += chunk
			display()
		}
	}

	results := c.Results()
	for _, r := range c.reporters {
		if err := r(ctx, c.bandit, results); err != nil {
			return err
		}
	}
	return nil
}

// Summary prints the final regret and most pulled arm of every solver
func Summary(out io.Writer) Reporter {
	return func(_ context.Context, b Bandit, results []*Result) error {
		for _, r := range results {
			mostPulled := 0
			for i, n := range r.Counts {
				if n > r.Counts[mostPulled] {
					mostPulled = i
				}
			}
			fmt.Fprintf(out, "%s: cumulative regret %.3f after %d steps, most pulled arm %d (p=%.3f)\n",
				r.Name, r.FinalRegret, r.Steps, mostPulled, b.Probability(mostPulled))
		}
		return nil
	}
}
