package benchmarks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/rl-bandits/config"
)

func smallConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Bandit.Arms = 5
	cfg.Bandit.Steps = 200
	cfg.Bandit.Seed = 3
	cfg.MonteCarlo.Episodes = 50
	cfg.MonteCarlo.Horizon = 30
	cfg.MonteCarlo.Height = 3
	cfg.MonteCarlo.Width = 3
	cfg.MonteCarlo.Grids = 1
	cfg.MonteCarlo.Seed = 5
	cfg.Output.SavePath = t.TempDir()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestBanditExperiment(t *testing.T) {
	cfg := smallConfig(t)
	c, err := BanditExperiment(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, c.Solvers, 4)
	for _, s := range c.Solvers {
		assert.Equal(t, 200, s.Steps())
	}
	_, err = os.Stat(filepath.Join(cfg.Output.SavePath, "plots", "regret.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.Output.SavePath, "solvers", "ucb1.json"))
	assert.NoError(t, err)
}

func TestBanditExperimentSeeded(t *testing.T) {
	cfg := smallConfig(t)
	first, err := BanditExperiment(context.Background(), cfg)
	require.NoError(t, err)
	second, err := BanditExperiment(context.Background(), cfg)
	require.NoError(t, err)
	for i := range first.Solvers {
		assert.Equal(t, first.Solvers[i].Regrets(), second.Solvers[i].Regrets())
	}
}

func TestMonteCarloExperiment(t *testing.T) {
	cfg := smallConfig(t)
	policy, err := MonteCarloExperiment(context.Background(), cfg)
	require.NoError(t, err)
	assert.Greater(t, policy.Q().Len(), 0)
	_, err = os.Stat(filepath.Join(cfg.Output.SavePath, "plots", "0_returns.png"))
	assert.NoError(t, err)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := GetRootCommand()
	for _, name := range []string{"bandit", "montecarlo", "serve"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
