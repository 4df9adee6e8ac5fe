package benchmarks

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/rl-bandits/config"
	"golang.org/x/exp/rand"
)

var (
	configFile string
	saveFile   string
	seed       uint64
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "rl-bandits",
		Short:        "Multi-armed bandit and Monte Carlo control experiments",
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file (yaml, json or toml)")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed of the random sources, 0 seeds from the clock")
	// adding the subcommands here
	rootCommand.AddCommand(BanditCommand())
	rootCommand.AddCommand(MonteCarloCommand())
	rootCommand.AddCommand(ServeCommand())
	return rootCommand
}

// loadConfig reads the configuration file and applies the global flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("save") {
		cfg.Output.SavePath = saveFile
	}
	if cmd.Flags().Changed("seed") {
		cfg.Bandit.Seed = seed
		cfg.MonteCarlo.Seed = seed
	}
	return cfg, nil
}

// seeder hands out independent random sources derived from a single seed
type seeder struct {
	rand *rand.Rand
}

func newSeeder(seed uint64) *seeder {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &seeder{rand: rand.New(rand.NewSource(seed))}
}

func (s *seeder) source() rand.Source {
	return rand.NewSource(s.rand.Uint64())
}
