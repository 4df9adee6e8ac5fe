package types

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/rl-bandits/util"
)

type experimentRunConfig struct {
	CurrentRun int
	Episodes   int
	Horizon    int
	Analyzers  []Analyzer
	Context    context.Context

	RecordTraces   bool
	ReportSavePath string

	LongestExpNameLen int
}

// Experiment encapsulates the different parameters to configure an agent and analyze the traces
type Experiment struct {
	Name        string
	policy      Policy
	environment Environment
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, policy Policy, environment Environment) *Experiment {
	return &Experiment{
		Name:        name,
		policy:      policy,
		environment: environment,
	}
}

// Policy used by the experiment, exposed so that learned values can be inspected after a run
func (e *Experiment) Policy() Policy {
	return e.policy
}

// traceRecord is the serialized form of a trace, one json line per episode
type traceRecord struct {
	Episode int       `json:"episode"`
	States  []string  `json:"states"`
	Actions []string  `json:"actions"`
	Rewards []float64 `json:"rewards"`
}

func newTraceRecord(episode int, trace *Trace) *traceRecord {
	r := &traceRecord{
		Episode: episode,
		States:  make([]string, trace.Len()),
		Actions: make([]string, trace.Len()),
		Rewards: make([]float64, trace.Len()),
	}
	for i := 0; i < trace.Len(); i++ {
		s, a, reward, _ := trace.Get(i)
		r.States[i] = s.Hash()
		r.Actions[i] = a.Hash()
		r.Rewards[i] = reward
	}
	return r
}

func (e *Experiment) recordTrace(rConfig *experimentRunConfig, episode int, trace *Trace) error {
	tracesFile := path.Join(rConfig.ReportSavePath, "traces", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".jsonl")
	bs, err := json.Marshal(newTraceRecord(episode, trace))
	if err != nil {
		return err
	}
	return util.AppendToFile(tracesFile, string(bs))
}

// Run the experiment for the specified number of episodes
// Each trace is handed to the analyzers once the policy has been updated
func (e *Experiment) Run(rConfig *experimentRunConfig) error {
	if rConfig.RecordTraces {
		tracesFolder := path.Join(rConfig.ReportSavePath, "traces")
		if _, err := os.Stat(tracesFolder); err != nil {
			os.MkdirAll(tracesFolder, os.ModePerm)
		}
	}

	agent := NewAgent(&AgentConfig{
		Episodes:    rConfig.Episodes,
		Horizon:     rConfig.Horizon,
		Policy:      e.policy,
		Environment: e.environment,
	})

	EPPadding := len(strconv.Itoa(rConfig.Episodes))
	NamePadding := rConfig.LongestExpNameLen
	totalReward := 0.0

	for episode := 0; episode < rConfig.Episodes; episode++ {
		select {
		case <-rConfig.Context.Done():
			return rConfig.Context.Err()
		default:
		}

		trace, err := agent.RunEpisode(episode)
		if err != nil {
			fmt.Println("")
			return fmt.Errorf("experiment %s: %w", e.Name, err)
		}
		totalReward += trace.TotalReward()

		if rConfig.RecordTraces {
			if err := e.recordTrace(rConfig, episode, trace); err != nil {
				return fmt.Errorf("experiment %s: recording trace: %w", e.Name, err)
			}
		}

		for _, a := range rConfig.Analyzers {
			a.Analyze(rConfig.CurrentRun, episode, e.Name, trace)
		}

		fmt.Printf("\rExp:%*s, Eps:%*d/%d, Avg return:%8.4f",
			NamePadding, e.Name, EPPadding, episode+1, rConfig.Episodes, totalReward/float64(episode+1))
	}
	fmt.Println("")
	return nil
}

func (e *Experiment) Reset() {
	e.policy.Reset()
}

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the information in the traces to a DataSet
type Analyzer interface {
	// Run, episode, experiment, trace
	Analyze(int, int, string, *Trace)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Comparator differentiates between different datasets with associated names
// run, total episodes, experiment names, datasets
type Comparator func(int, int, []string, []DataSet) error

func NoopComparator() Comparator {
	return func(_, _ int, _ []string, _ []DataSet) error { return nil }
}

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs     int // number of runs
	Episodes int // number of episodes
	Horizon  int // number of steps

	RecordPath   string // path to store the results
	RecordTraces bool
}

// Comparison contains the different experiments to compare
// The traces obtained from the experiments are analyzed
// The analyzed datasets are then compared
type Comparison struct {
	Experiments   []*Experiment
	analyzers     map[string]Analyzer
	comparators   map[string]Comparator
	analysisNames []string
	cConfig       *ComparisonConfig
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig) *Comparison {
	if config.RecordPath != "" {
		os.MkdirAll(config.RecordPath, 0777)
	}
	return &Comparison{
		Experiments:   make([]*Experiment, 0),
		analyzers:     make(map[string]Analyzer),
		comparators:   make(map[string]Comparator),
		analysisNames: make([]string, 0),
		cConfig:       config,
	}
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	if _, ok := c.analyzers[name]; !ok {
		c.analysisNames = append(c.analysisNames, name)
	}
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	if c.cConfig.Episodes <= 0 || c.cConfig.Horizon <= 0 {
		return fmt.Errorf("episodes and horizon must be positive: %w", ErrInvalidConfiguration)
	}
	longestNameLen := 0
	for _, e := range c.Experiments {
		if len(e.Name) > longestNameLen {
			longestNameLen = len(e.Name)
		}
	}

	runs := c.cConfig.Runs
	if runs < 1 {
		runs = 1
	}
	for run := 0; run < runs; run++ {
		fmt.Printf("Run %d\n", run+1)
		datasets := make(map[string][]DataSet)
		for _, name := range c.analysisNames {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := e.Run(c.prepareRunConfig(ctx, run, longestNameLen)); err != nil {
				return err
			}
			for _, name := range c.analysisNames {
				a := c.analyzers[name]
				datasets[name][i] = a.DataSet()
				a.Reset()
			}
			names[i] = e.Name
			// the learned values stay inspectable until the next run starts
			if run < runs-1 {
				e.Reset()
			}
		}
		for _, name := range c.analysisNames {
			if err := c.comparators[name](run, c.cConfig.Episodes, names, datasets[name]); err != nil {
				return fmt.Errorf("comparing %s: %w", name, err)
			}
		}
	}
	return nil
}

// prepare the run configuration for the experiment
func (c *Comparison) prepareRunConfig(ctx context.Context, run, longestExpNameLen int) *experimentRunConfig {
	rCfg := &experimentRunConfig{
		CurrentRun:        run,
		Episodes:          c.cConfig.Episodes,
		Horizon:           c.cConfig.Horizon,
		Analyzers:         make([]Analyzer, 0, len(c.analysisNames)),
		RecordTraces:      c.cConfig.RecordTraces,
		ReportSavePath:    c.cConfig.RecordPath,
		Context:           ctx,
		LongestExpNameLen: longestExpNameLen,
	}
	for _, name := range c.analysisNames {
		rCfg.Analyzers = append(rCfg.Analyzers, c.analyzers[name])
	}
	return rCfg
}
