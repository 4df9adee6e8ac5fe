package types

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// EpisodeReturnAnalyzer records the undiscounted return of every episode
type EpisodeReturnAnalyzer struct {
	returns []float64
}

var _ Analyzer = &EpisodeReturnAnalyzer{}

func NewEpisodeReturnAnalyzer() *EpisodeReturnAnalyzer {
	return &EpisodeReturnAnalyzer{returns: make([]float64, 0)}
}

func (e *EpisodeReturnAnalyzer) Analyze(_ int, _ int, _ string, trace *Trace) {
	e.returns = append(e.returns, trace.TotalReward())
}

func (e *EpisodeReturnAnalyzer) DataSet() DataSet {
	out := make([]float64, len(e.returns))
	copy(out, e.returns)
	return out
}

func (e *EpisodeReturnAnalyzer) Reset() {
	e.returns = make([]float64, 0)
}

// CoverageAnalyzer counts the distinct states seen after each episode
type CoverageAnalyzer struct {
	uniqueStates    map[string]bool
	numUniqueStates []int
}

var _ Analyzer = &CoverageAnalyzer{}

func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{
		uniqueStates:    make(map[string]bool),
		numUniqueStates: make([]int, 0),
	}
}

func (c *CoverageAnalyzer) Analyze(_ int, _ int, _ string, trace *Trace) {
	for j := 0; j < trace.Len(); j++ {
		s, _, _, _ := trace.Get(j)
		c.uniqueStates[s.Hash()] = true
	}
	c.numUniqueStates = append(c.numUniqueStates, len(c.uniqueStates))
}

func (c *CoverageAnalyzer) DataSet() DataSet {
	out := make([]int, len(c.numUniqueStates))
	copy(out, c.numUniqueStates)
	return out
}

func (c *CoverageAnalyzer) Reset() {
	c.uniqueStates = make(map[string]bool)
	c.numUniqueStates = make([]int, 0)
}

// ReturnSummary prints the mean and standard deviation of the episode returns per experiment
func ReturnSummary() Comparator {
	return func(run, _ int, names []string, ds []DataSet) error {
		for i, name := range names {
			returns, ok := ds[i].([]float64)
			if !ok {
				return fmt.Errorf("unexpected dataset %T for %s", ds[i], name)
			}
			if len(returns) == 0 {
				continue
			}
			mean, std := stat.MeanStdDev(returns, nil)
			fmt.Printf("Run %d, %s: mean return %.4f (std %.4f) over %d episodes\n", run+1, name, mean, std, len(returns))
		}
		return nil
	}
}

// ReturnPlotter plots the moving average of episode returns for every experiment
func ReturnPlotter(plotPath string, window int) Comparator {
	if window < 1 {
		window = 1
	}
	return func(run, _ int, names []string, ds []DataSet) error {
		if _, err := os.Stat(plotPath); err != nil {
			if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
				return err
			}
		}
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "Average return"
		for i := 0; i < len(names); i++ {
			returns := ds[i].([]float64)
			points := make(plotter.XYs, len(returns))
			sum := 0.0
			for j, v := range returns {
				sum += v
				if j >= window {
					sum -= returns[j-window]
				}
				n := window
				if j+1 < window {
					n = j + 1
				}
				points[j] = plotter.XY{X: float64(j), Y: sum / float64(n)}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_returns.png"))
	}
}

// CoveragePlotter plots the number of distinct states visited per episode
func CoveragePlotter(plotPath string) Comparator {
	return func(run, _ int, names []string, ds []DataSet) error {
		if _, err := os.Stat(plotPath); err != nil {
			if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
				return err
			}
		}
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "States covered"
		for i := 0; i < len(names); i++ {
			uniqueStates := ds[i].([]int)
			points := make(plotter.XYs, len(uniqueStates))
			for j, v := range uniqueStates {
				points[j] = plotter.XY{
					X: float64(j),
					Y: float64(v),
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
			if len(uniqueStates) > 0 {
				fmt.Printf("Number of unique states: %d for experiment: %s\n", uniqueStates[len(uniqueStates)-1], names[i])
			}
		}
		return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_coverage.png"))
	}
}
