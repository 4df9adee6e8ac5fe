package benchmarks

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/rl-bandits/bandit"
	"github.com/zeu5/rl-bandits/config"
)

// newComparison builds the bandit of the configuration and one solver per strategy
func newComparison(cfg *config.BanditConfig) (*bandit.Comparison, error) {
	seeds := newSeeder(cfg.Seed)

	var b *bandit.BernoulliBandit
	var err error
	if len(cfg.Probabilities) > 0 {
		b, err = bandit.NewBernoulliBandit(cfg.Probabilities, seeds.source())
	} else {
		b, err = bandit.NewRandomBernoulliBandit(cfg.Arms, seeds.source())
	}
	if err != nil {
		return nil, err
	}
	fmt.Printf("Bernoulli bandit with %d arms, best arm %d with probability %.4f\n", b.Arms(), b.BestArm(), b.BestProbability())

	epsilonGreedy, err := bandit.NewEpsilonGreedy(cfg.Epsilon, seeds.source())
	if err != nil {
		return nil, err
	}
	bayesianUCB, err := bandit.NewBayesianUCB(cfg.UCBC, cfg.PriorA, cfg.PriorB)
	if err != nil {
		return nil, err
	}
	thompson, err := bandit.NewThompsonSampling(cfg.PriorA, cfg.PriorB, seeds.source())
	if err != nil {
		return nil, err
	}

	c := bandit.NewComparison(b)
	for _, s := range []bandit.Strategy{epsilonGreedy, bandit.NewUCB1(), bayesianUCB, thompson} {
		if _, err := c.AddStrategy(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// addReporters wires the summary, plots and recorders selected by the output configuration
func addReporters(c *bandit.Comparison, out *config.OutputConfig) func() {
	c.AddReporter(bandit.Summary(os.Stdout))
	cleanup := func() {}
	if out.SavePath != "" {
		plotPath := path.Join(out.SavePath, "plots")
		c.AddReporter(bandit.RegretPlot(plotPath))
		c.AddReporter(bandit.EstimatesPlot(plotPath))
		c.AddReporter(bandit.CountsPlot(plotPath))
		c.AddReporter(bandit.RecordResults(bandit.NewFileRecorder(path.Join(out.SavePath, "solvers"))))
	}
	if out.RedisAddr != "" {
		recorder := bandit.NewRedisRecorder(out.RedisAddr, out.RedisPrefix, 24*time.Hour)
		c.AddReporter(bandit.RecordResults(recorder))
		cleanup = func() { recorder.Close() }
	}
	return cleanup
}

// BanditExperiment compares epsilon-greedy, UCB1, Bayesian UCB and Thompson sampling on a Bernoulli bandit
func BanditExperiment(ctx context.Context, cfg *config.Config) (*bandit.Comparison, error) {
	c, err := newComparison(&cfg.Bandit)
	if err != nil {
		return nil, err
	}
	cleanup := addReporters(c, &cfg.Output)
	defer cleanup()

	if err := c.Run(ctx, cfg.Bandit.Steps); err != nil {
		return nil, err
	}
	return c, nil
}

func BanditCommand() *cobra.Command {
	var arms int
	var steps int
	var epsilon float64
	var redisAddr string

	cmd := &cobra.Command{
		Use:   "bandit",
		Short: "Compare bandit solvers on a Bernoulli bandit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("arms") {
				cfg.Bandit.Arms = arms
				cfg.Bandit.Probabilities = nil
			}
			if cmd.Flags().Changed("steps") {
				cfg.Bandit.Steps = steps
			}
			if cmd.Flags().Changed("epsilon") {
				cfg.Bandit.Epsilon = epsilon
			}
			if cmd.Flags().Changed("redis") {
				cfg.Output.RedisAddr = redisAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			_, err = BanditExperiment(cmd.Context(), cfg)
			return err
		},
	}
	cmd.PersistentFlags().IntVarP(&arms, "arms", "k", 100, "Number of arms")
	cmd.PersistentFlags().IntVarP(&steps, "steps", "n", 5000, "Number of time steps")
	cmd.PersistentFlags().Float64Var(&epsilon, "epsilon", 0.01, "Exploration rate of epsilon-greedy")
	cmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Address of a redis server to publish the results to")
	return cmd
}
