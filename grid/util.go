package grid

import (
	"encoding/json"
	"fmt"
	"path"
	"strconv"

	"github.com/zeu5/rl-bandits/types"
	"github.com/zeu5/rl-bandits/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// GridDataSet counts the visits of every (i, j) cell, all grids merged
type GridDataSet struct {
	Visits map[int]map[int]int
	Height int
	Width  int
}

var _ plotter.GridXYZ = &GridDataSet{}

func NewGridDataSet() *GridDataSet {
	return &GridDataSet{
		Visits: make(map[int]map[int]int),
	}
}

func (g *GridDataSet) Dims() (int, int) {
	return g.Width, g.Height
}

func (g *GridDataSet) Z(j, i int) float64 {
	return float64(g.Visits[i][j])
}

func (g *GridDataSet) X(j int) float64 {
	return float64(j)
}

func (g *GridDataSet) Y(i int) float64 {
	return float64(i)
}

func (g *GridDataSet) Min() float64 {
	return 0.0
}

func (g *GridDataSet) Max() float64 {
	max := 0
	for _, vals := range g.Visits {
		for _, count := range vals {
			if count > max {
				max = count
			}
		}
	}
	return float64(max)
}

func (g *GridDataSet) add(p *Position) {
	if _, ok := g.Visits[p.I]; !ok {
		g.Visits[p.I] = make(map[int]int)
	}
	g.Visits[p.I][p.J] += 1
	if p.I+1 > g.Height {
		g.Height = p.I + 1
	}
	if p.J+1 > g.Width {
		g.Width = p.J + 1
	}
}

// GridVisitAnalyzer accumulates the cells visited across the episodes of an experiment
type GridVisitAnalyzer struct {
	ds *GridDataSet
}

var _ types.Analyzer = &GridVisitAnalyzer{}

func NewGridVisitAnalyzer() *GridVisitAnalyzer {
	return &GridVisitAnalyzer{ds: NewGridDataSet()}
}

func (a *GridVisitAnalyzer) Analyze(_ int, _ int, _ string, trace *types.Trace) {
	for i := 0; i < trace.Len(); i++ {
		state, _, _, _ := trace.Get(i)
		if pos, ok := state.(*Position); ok {
			a.ds.add(pos)
		}
	}
}

func (a *GridVisitAnalyzer) DataSet() types.DataSet {
	return a.ds
}

func (a *GridVisitAnalyzer) Reset() {
	a.ds = NewGridDataSet()
}

// GridHeatMapComparator stores the visit counts as json and draws one heat map per experiment
func GridHeatMapComparator(figPath string) types.Comparator {
	return func(run, _ int, names []string, ds []types.DataSet) error {
		if err := util.EnsureDir(figPath); err != nil {
			return err
		}
		for i := 0; i < len(names); i++ {
			name := names[i]
			dataSet, ok := ds[i].(*GridDataSet)
			if !ok {
				return fmt.Errorf("unexpected dataset %T for %s", ds[i], name)
			}
			prefix := path.Join(figPath, strconv.Itoa(run)+"_"+name)

			bs, err := json.Marshal(dataSet)
			if err != nil {
				return err
			}
			if err := util.WriteToFile(prefix+"_visits.json", string(bs)); err != nil {
				return err
			}
			if dataSet.Width == 0 || dataSet.Height == 0 {
				continue
			}

			p := plot.New()
			p.Title.Text = name
			p.Add(plotter.NewHeatMap(dataSet, palette.Heat(20, 1)))
			if err := p.Save(4*vg.Inch, 4*vg.Inch, prefix+"_visits.png"); err != nil {
				return err
			}
		}
		return nil
	}
}
