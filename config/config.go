package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/zeu5/rl-bandits/types"
)

// Config holds the parameters of the bandit and Monte Carlo experiments
type Config struct {
	Bandit     BanditConfig     `mapstructure:"bandit"`
	MonteCarlo MonteCarloConfig `mapstructure:"montecarlo"`
	Output     OutputConfig     `mapstructure:"output"`
}

type BanditConfig struct {
	// number of arms, ignored when Probabilities is set
	Arms  int `mapstructure:"arms"`
	Steps int `mapstructure:"steps"`
	// fixed success probabilities, drawn at random when empty
	Probabilities []float64 `mapstructure:"probabilities"`
	Seed          uint64    `mapstructure:"seed"`

	Epsilon float64 `mapstructure:"epsilon"`
	UCBC    float64 `mapstructure:"ucb_c"`
	PriorA  float64 `mapstructure:"prior_a"`
	PriorB  float64 `mapstructure:"prior_b"`
}

type MonteCarloConfig struct {
	Episodes int     `mapstructure:"episodes"`
	Horizon  int     `mapstructure:"horizon"`
	Runs     int     `mapstructure:"runs"`
	Gamma    float64 `mapstructure:"gamma"`
	Epsilon  float64 `mapstructure:"epsilon"`
	Seed     uint64  `mapstructure:"seed"`

	Height int `mapstructure:"height"`
	Width  int `mapstructure:"width"`
	Grids  int `mapstructure:"grids"`
}

type OutputConfig struct {
	SavePath    string `mapstructure:"save_path"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix"`
	ListenAddr  string `mapstructure:"listen_addr"`
}

// Default returns the configuration of the reference experiment: 100 arms, 5000 steps
func Default() *Config {
	return &Config{
		Bandit: BanditConfig{
			Arms:    100,
			Steps:   5000,
			Epsilon: 0.01,
			UCBC:    3,
			PriorA:  1,
			PriorB:  1,
		},
		MonteCarlo: MonteCarloConfig{
			Episodes: 2000,
			Horizon:  100,
			Runs:     1,
			Gamma:    1.0,
			Epsilon:  0.1,
			Height:   5,
			Width:    5,
			Grids:    2,
		},
		Output: OutputConfig{
			SavePath:    "results",
			RedisPrefix: "bandit",
			ListenAddr:  ":8080",
		},
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("bandit.arms", d.Bandit.Arms)
	v.SetDefault("bandit.steps", d.Bandit.Steps)
	v.SetDefault("bandit.seed", d.Bandit.Seed)
	v.SetDefault("bandit.epsilon", d.Bandit.Epsilon)
	v.SetDefault("bandit.ucb_c", d.Bandit.UCBC)
	v.SetDefault("bandit.prior_a", d.Bandit.PriorA)
	v.SetDefault("bandit.prior_b", d.Bandit.PriorB)

	v.SetDefault("montecarlo.episodes", d.MonteCarlo.Episodes)
	v.SetDefault("montecarlo.horizon", d.MonteCarlo.Horizon)
	v.SetDefault("montecarlo.runs", d.MonteCarlo.Runs)
	v.SetDefault("montecarlo.gamma", d.MonteCarlo.Gamma)
	v.SetDefault("montecarlo.epsilon", d.MonteCarlo.Epsilon)
	v.SetDefault("montecarlo.seed", d.MonteCarlo.Seed)
	v.SetDefault("montecarlo.height", d.MonteCarlo.Height)
	v.SetDefault("montecarlo.width", d.MonteCarlo.Width)
	v.SetDefault("montecarlo.grids", d.MonteCarlo.Grids)

	v.SetDefault("output.save_path", d.Output.SavePath)
	v.SetDefault("output.redis_addr", d.Output.RedisAddr)
	v.SetDefault("output.redis_prefix", d.Output.RedisPrefix)
	v.SetDefault("output.listen_addr", d.Output.ListenAddr)
}

// Load reads the configuration file at path, if any, on top of the defaults.
// Environment variables prefixed with RLB_ override both, e.g. RLB_BANDIT_ARMS.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix("RLB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), types.ErrInvalidConfiguration)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	b := c.Bandit
	if len(b.Probabilities) == 0 && b.Arms <= 0 {
		return invalid("bandit.arms must be positive")
	}
	for i, p := range b.Probabilities {
		if p < 0 || p > 1 {
			return invalid("bandit.probabilities[%d] = %f outside [0, 1]", i, p)
		}
	}
	if b.Steps <= 0 {
		return invalid("bandit.steps must be positive")
	}
	if b.Epsilon < 0 || b.Epsilon > 1 {
		return invalid("bandit.epsilon must be in [0, 1]")
	}
	if b.UCBC < 0 {
		return invalid("bandit.ucb_c must not be negative")
	}
	if b.PriorA <= 0 || b.PriorB <= 0 {
		return invalid("bandit.prior_a and bandit.prior_b must be positive")
	}

	m := c.MonteCarlo
	if m.Episodes <= 0 || m.Horizon <= 0 {
		return invalid("montecarlo.episodes and montecarlo.horizon must be positive")
	}
	if m.Gamma < 0 || m.Gamma > 1 {
		return invalid("montecarlo.gamma must be in [0, 1]")
	}
	if m.Epsilon < 0 || m.Epsilon > 1 {
		return invalid("montecarlo.epsilon must be in [0, 1]")
	}
	if m.Height <= 0 || m.Width <= 0 || m.Grids <= 0 {
		return invalid("montecarlo grid dimensions must be positive")
	}
	return nil
}

// ArmCount is the number of arms of the configured bandit
func (b BanditConfig) ArmCount() int {
	if len(b.Probabilities) > 0 {
		return len(b.Probabilities)
	}
	return b.Arms
}
