package types

import (
	"fmt"
	"math"
	"os"
	"path"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/zeu5/easy21-rl/util"
)

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the information in the traces to a DataSet
type Analyzer interface {
	// run, episode, experiment, trace
	Analyze(int, int, string, *Trace)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Finisher is implemented by analyzers that inspect the learnt values once an experiment is over
type Finisher interface {
	Finish(string, ValueEstimator) error
}

// Comparator differentiates between different datasets with associated names
// run, total episodes, experiment names, datasets
type Comparator func(int, int, []string, []DataSet) error

func NoopComparator() Comparator {
	return func(_, _ int, _ []string, _ []DataSet) error { return nil }
}

type OutcomeDataSet struct {
	Episodes int
	Steps    int
	Wins     int
	Draws    int
	Losses   int
	// mean reward of every consecutive Window episodes
	Window      int
	WindowMeans []float64
}

func (o *OutcomeDataSet) MeanReward() float64 {
	if o.Episodes == 0 {
		return 0
	}
	return float64(o.Wins-o.Losses) / float64(o.Episodes)
}

func (o *OutcomeDataSet) MeanLength() float64 {
	if o.Episodes == 0 {
		return 0
	}
	return float64(o.Steps) / float64(o.Episodes)
}

// OutcomeAnalyzer counts wins, draws and losses and tracks the windowed mean reward
type OutcomeAnalyzer struct {
	window  int
	pending []float64
	ds      *OutcomeDataSet
}

var _ Analyzer = &OutcomeAnalyzer{}

func NewOutcomeAnalyzer(window int) *OutcomeAnalyzer {
	if window <= 0 {
		window = 1
	}
	o := &OutcomeAnalyzer{window: window}
	o.Reset()
	return o
}

func (o *OutcomeAnalyzer) Analyze(_ int, _ int, _ string, trace *Trace) {
	o.ds.Episodes++
	o.ds.Steps += trace.Len()
	switch r := trace.Reward(); {
	case r > 0:
		o.ds.Wins++
	case r < 0:
		o.ds.Losses++
	default:
		o.ds.Draws++
	}
	o.pending = append(o.pending, float64(trace.Reward()))
	if len(o.pending) == o.window {
		o.ds.WindowMeans = append(o.ds.WindowMeans, stat.Mean(o.pending, nil))
		o.pending = o.pending[:0]
	}
}

func (o *OutcomeAnalyzer) DataSet() DataSet {
	return o.ds
}

func (o *OutcomeAnalyzer) Reset() {
	o.pending = make([]float64, 0, o.window)
	o.ds = &OutcomeDataSet{
		Window:      o.window,
		WindowMeans: make([]float64, 0),
	}
}

// OutcomePrinter prints a summary line per experiment
func OutcomePrinter() Comparator {
	return func(run, _ int, names []string, ds []DataSet) error {
		for i, name := range names {
			o := ds[i].(*OutcomeDataSet)
			fmt.Printf("Run %d, %s: win %.3f, draw %.3f, loss %.3f, mean reward %.4f, mean length %.2f\n",
				run+1, name,
				float64(o.Wins)/float64(o.Episodes),
				float64(o.Draws)/float64(o.Episodes),
				float64(o.Losses)/float64(o.Episodes),
				o.MeanReward(), o.MeanLength())
		}
		return nil
	}
}

// RewardCurvePlotter plots the windowed mean reward of every experiment
func RewardCurvePlotter(plotPath string) Comparator {
	return func(run, _ int, names []string, ds []DataSet) error {
		if err := util.EnsureDir(plotPath); err != nil {
			return err
		}
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "Mean reward"
		for i := 0; i < len(names); i++ {
			o := ds[i].(*OutcomeDataSet)
			points := make(plotter.XYs, len(o.WindowMeans))
			for j, v := range o.WindowMeans {
				points[j] = plotter.XY{
					X: float64((j + 1) * o.Window),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		return p.Save(8*vg.Inch, 6*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_reward.png"))
	}
}

// RewardChartWriter writes the windowed mean rewards as an interactive HTML line chart
func RewardChartWriter(chartPath string) Comparator {
	return func(run, _ int, names []string, ds []DataSet) error {
		if err := util.EnsureDir(chartPath); err != nil {
			return err
		}
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title: fmt.Sprintf("Mean reward, run %d", run+1),
			}),
			charts.WithInitializationOpts(opts.Initialization{
				Theme: "shine",
			}),
		)

		points := 0
		for i := range names {
			if n := len(ds[i].(*OutcomeDataSet).WindowMeans); n > points {
				points = n
			}
		}
		episodes := make([]string, points)
		for i := range episodes {
			episodes[i] = strconv.Itoa((i + 1) * ds[0].(*OutcomeDataSet).Window)
		}
		line = line.SetXAxis(episodes)
		for i, name := range names {
			o := ds[i].(*OutcomeDataSet)
			items := make([]opts.LineData, 0, len(o.WindowMeans))
			for _, v := range o.WindowMeans {
				items = append(items, opts.LineData{Value: v})
			}
			line.AddSeries(name, items)
		}

		page := components.NewPage()
		page.AddCharts(line)
		f, err := os.Create(path.Join(chartPath, strconv.Itoa(run)+"_reward.html"))
		if err != nil {
			return err
		}
		defer f.Close()
		return page.Render(f)
	}
}

type ValueDataSet struct {
	Values       *ValueTable  `json:"values"`
	Policy       *PolicyTable `json:"policy"`
	ActionValues []float64    `json:"action_values"`
}

// ValueAnalyzer captures the learnt value function and greedy policy when an experiment ends
type ValueAnalyzer struct {
	ds *ValueDataSet
}

var _ Analyzer = &ValueAnalyzer{}
var _ Finisher = &ValueAnalyzer{}

func NewValueAnalyzer() *ValueAnalyzer {
	return &ValueAnalyzer{}
}

func (v *ValueAnalyzer) Analyze(_ int, _ int, _ string, _ *Trace) {}

func (v *ValueAnalyzer) Finish(_ string, estimator ValueEstimator) error {
	actionValues, err := ActionValues(estimator)
	if err != nil {
		return err
	}
	v.ds = &ValueDataSet{
		Values:       estimator.ValueFunction(),
		Policy:       estimator.GreedyPolicy(),
		ActionValues: actionValues,
	}
	return nil
}

func (v *ValueAnalyzer) DataSet() DataSet {
	return v.ds
}

func (v *ValueAnalyzer) Reset() {
	v.ds = nil
}

func valueDataSets(names []string, ds []DataSet) ([]*ValueDataSet, error) {
	out := make([]*ValueDataSet, len(ds))
	for i, d := range ds {
		v, ok := d.(*ValueDataSet)
		if !ok || v == nil {
			return nil, errors.Errorf("no values recorded for %s", names[i])
		}
		out[i] = v
	}
	return out, nil
}

// ValueHeatmapPlotter draws V(s) and the greedy policy of every experiment as heat maps
func ValueHeatmapPlotter(plotPath string) Comparator {
	return func(run, _ int, names []string, ds []DataSet) error {
		values, err := valueDataSets(names, ds)
		if err != nil {
			return err
		}
		if err := util.EnsureDir(plotPath); err != nil {
			return err
		}
		for i, name := range names {
			prefix := path.Join(plotPath, strconv.Itoa(run)+"_"+name)
			if err := saveHeatMap(name+" V(s)", values[i].Values, palette.Heat(12, 1), prefix+"_value.png"); err != nil {
				return err
			}
			if err := saveHeatMap(name+" greedy policy", values[i].Policy, palette.Heat(2, 1), prefix+"_policy.png"); err != nil {
				return err
			}
		}
		return nil
	}
}

func saveHeatMap(title string, grid plotter.GridXYZ, pal palette.Palette, file string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Dealer showing"
	p.Y.Label.Text = "Player sum"
	h := plotter.NewHeatMap(grid, pal)
	// a constant grid still needs a non empty colour range
	if h.Min == h.Max {
		h.Min, h.Max = h.Min-1, h.Max+1
	}
	p.Add(h)
	return p.Save(6*vg.Inch, 8*vg.Inch, file)
}

// ValueJSONComparator writes the value table and greedy policy of every experiment as JSON
func ValueJSONComparator(savePath string) Comparator {
	return func(run, _ int, names []string, ds []DataSet) error {
		values, err := valueDataSets(names, ds)
		if err != nil {
			return err
		}
		for i, name := range names {
			file := path.Join(savePath, strconv.Itoa(run)+"_"+name+"_values.json")
			if err := util.WriteJSON(file, values[i]); err != nil {
				return err
			}
		}
		return nil
	}
}

// MeanSquaredError over two equally long vectors
func MeanSquaredError(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	d := floats.Distance(a, b, 2)
	return d * d / float64(len(a))
}

// MSEComparator reports the mean squared error between the action values
// of every experiment and those of the first one
func MSEComparator(report func(name string, mse float64)) Comparator {
	return func(run, _ int, names []string, ds []DataSet) error {
		values, err := valueDataSets(names, ds)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		reference := values[0].ActionValues
		for i := 1; i < len(values); i++ {
			mse := MeanSquaredError(reference, values[i].ActionValues)
			if math.IsNaN(mse) {
				return errors.Errorf("mse of %s is not a number", names[i])
			}
			glog.V(1).Infof("Run %d: MSE of %s against %s: %f", run, names[i], names[0], mse)
			if report != nil {
				report(names[i], mse)
			} else {
				fmt.Printf("Run %d, MSE %s vs %s: %.5f\n", run+1, names[i], names[0], mse)
			}
		}
		return nil
	}
}
