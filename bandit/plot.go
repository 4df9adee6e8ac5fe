package bandit

import (
	"context"
	"image/color"
	"path"
	"sort"

	"github.com/zeu5/rl-bandits/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// RegretPlot draws the cumulative regret of every solver over time
func RegretPlot(plotPath string) Reporter {
	return func(_ context.Context, _ Bandit, results []*Result) error {
		if err := util.EnsureDir(plotPath); err != nil {
			return err
		}
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Time step"
		p.Y.Label.Text = "Cumulative regret"
		for i, r := range results {
			points := make(plotter.XYs, len(r.Regrets))
			for j, v := range r.Regrets {
				points[j] = plotter.XY{X: float64(j), Y: v}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(r.Name, line)
		}
		p.Legend.Top = true
		p.Legend.Left = true
		return p.Save(8*vg.Inch, 6*vg.Inch, path.Join(plotPath, "regret.png"))
	}
}

// sortedArms orders the arms by true success probability
func sortedArms(b Bandit, arms int) []int {
	order := make([]int, arms)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return b.Probability(order[i]) < b.Probability(order[j])
	})
	return order
}

// EstimatesPlot compares the estimated probabilities against the true ones, arms sorted by true probability
func EstimatesPlot(plotPath string) Reporter {
	return func(_ context.Context, b Bandit, results []*Result) error {
		if err := util.EnsureDir(plotPath); err != nil {
			return err
		}
		order := sortedArms(b, b.Arms())
		p := plot.New()
		p.Title.Text = "Estimated probabilities"
		p.X.Label.Text = "Arms sorted by true probability"
		p.Y.Label.Text = "Estimated"

		truth := make(plotter.XYs, len(order))
		for x, arm := range order {
			truth[x] = plotter.XY{X: float64(x), Y: b.Probability(arm)}
		}
		line, err := plotter.NewLine(truth)
		if err != nil {
			return err
		}
		line.Color = color.Black
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(line)
		p.Legend.Add("true", line)

		for i, r := range results {
			points := make(plotter.XYs, len(order))
			for x, arm := range order {
				points[x] = plotter.XY{X: float64(x), Y: r.Estimates[arm]}
			}
			scatter, err := plotter.NewScatter(points)
			if err != nil {
				continue
			}
			scatter.GlyphStyle.Color = plotutil.Color(i)
			scatter.GlyphStyle.Shape = draw.CrossGlyph{}
			p.Add(scatter)
			p.Legend.Add(r.Name, scatter)
		}
		return p.Save(8*vg.Inch, 6*vg.Inch, path.Join(plotPath, "estimates.png"))
	}
}

// CountsPlot draws the fraction of pulls every arm received
func CountsPlot(plotPath string) Reporter {
	return func(_ context.Context, b Bandit, results []*Result) error {
		if err := util.EnsureDir(plotPath); err != nil {
			return err
		}
		p := plot.New()
		p.Title.Text = "Pulls"
		p.X.Label.Text = "Arms"
		p.Y.Label.Text = "Fraction of trials"
		for i, r := range results {
			if r.Steps == 0 {
				continue
			}
			points := make(plotter.XYs, len(r.Counts))
			for arm, n := range r.Counts {
				points[arm] = plotter.XY{X: float64(arm), Y: float64(n) / float64(r.Steps)}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.StepStyle = plotter.PreStep
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(r.Name, line)
		}
		return p.Save(8*vg.Inch, 6*vg.Inch, path.Join(plotPath, "counts.png"))
	}
}
