package benchmarks

import (
	"context"
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/rl-bandits/config"
	"github.com/zeu5/rl-bandits/grid"
	"github.com/zeu5/rl-bandits/policies"
	"github.com/zeu5/rl-bandits/types"
)

func newGrid(cfg *config.MonteCarloConfig) (*grid.GridEnvironment, error) {
	return grid.NewGridEnvironment(cfg.Height, cfg.Width, cfg.Grids, grid.ChainedDoors(cfg.Height, cfg.Width, cfg.Grids)...)
}

// MonteCarloExperiment trains Monte Carlo control on the grid world and compares it to a random walk
func MonteCarloExperiment(ctx context.Context, cfg *config.Config) (*policies.MonteCarloPolicy, error) {
	mc := cfg.MonteCarlo
	seeds := newSeeder(mc.Seed)

	c := types.NewComparison(&types.ComparisonConfig{
		Runs:         mc.Runs,
		Episodes:     mc.Episodes,
		Horizon:      mc.Horizon,
		RecordPath:   cfg.Output.SavePath,
		RecordTraces: false,
	})
	c.AddAnalysis("Summary", types.NewEpisodeReturnAnalyzer(), types.ReturnSummary())
	if cfg.Output.SavePath != "" {
		plotPath := path.Join(cfg.Output.SavePath, "plots")
		c.AddAnalysis("Returns", types.NewEpisodeReturnAnalyzer(), types.ReturnPlotter(plotPath, 50))
		c.AddAnalysis("Coverage", types.NewCoverageAnalyzer(), types.CoveragePlotter(plotPath))
		c.AddAnalysis("GridVisits", grid.NewGridVisitAnalyzer(), grid.GridHeatMapComparator(plotPath))
	}

	policy, err := policies.NewMonteCarloPolicy(mc.Gamma, mc.Epsilon, seeds.source())
	if err != nil {
		return nil, err
	}
	mcEnv, err := newGrid(&mc)
	if err != nil {
		return nil, err
	}
	randomEnv, err := newGrid(&mc)
	if err != nil {
		return nil, err
	}
	c.AddExperiment(types.NewExperiment("MonteCarlo", policy, mcEnv))
	c.AddExperiment(types.NewExperiment("Random", types.NewRandomPolicyWithSource(seeds.source()), randomEnv))

	if err := c.Run(ctx); err != nil {
		return nil, err
	}
	fmt.Printf("Monte Carlo action values: %d entries over %d states\n", policy.Q().Len(), len(policy.Q().States()))
	return policy, nil
}

func MonteCarloCommand() *cobra.Command {
	var episodes int
	var horizon int
	var gamma float64
	var epsilon float64

	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Train on-policy Monte Carlo control on a grid world",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("episodes") {
				cfg.MonteCarlo.Episodes = episodes
			}
			if cmd.Flags().Changed("horizon") {
				cfg.MonteCarlo.Horizon = horizon
			}
			if cmd.Flags().Changed("gamma") {
				cfg.MonteCarlo.Gamma = gamma
			}
			if cmd.Flags().Changed("epsilon") {
				cfg.MonteCarlo.Epsilon = epsilon
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			_, err = MonteCarloExperiment(cmd.Context(), cfg)
			return err
		},
	}
	cmd.PersistentFlags().IntVarP(&episodes, "episodes", "e", 2000, "Number of episodes to run")
	cmd.PersistentFlags().IntVar(&horizon, "horizon", 100, "Horizon of each episode")
	cmd.PersistentFlags().Float64Var(&gamma, "gamma", 1.0, "Discount factor")
	cmd.PersistentFlags().Float64Var(&epsilon, "epsilon", 0.1, "Exploration rate")
	return cmd
}
