package types

import (
	"fmt"
	"path"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/zeu5/easy21-rl/easy21"
	"github.com/zeu5/easy21-rl/util"
)

// VisitGraph records the states an agent acted in and the transitions it observed.
// Terminal states (including busts) appear as targets only.
type VisitGraph struct {
	Nodes map[string]*Node `json:"nodes"`
}

func NewVisitGraph() *VisitGraph {
	return &VisitGraph{
		Nodes: make(map[string]*Node),
	}
}

// Update adds the transition and reports whether from was acted in for the first time
func (v *VisitGraph) Update(from easy21.State, action easy21.Action, to easy21.State) bool {
	fromNode := v.node(from)
	toNode := v.node(to)
	fromNode.Visits++
	fromNode.addNext(action, toNode.Key)
	toNode.addPrev(action, fromNode.Key)
	return fromNode.Visits == 1
}

func (v *VisitGraph) node(s easy21.State) *Node {
	key := s.Hash()
	n, ok := v.Nodes[key]
	if !ok {
		n = NewNode(s)
		v.Nodes[key] = n
	}
	return n
}

// Covered is the number of states acted in at least once
func (v *VisitGraph) Covered() int {
	covered := 0
	for _, n := range v.Nodes {
		if n.Visits > 0 {
			covered++
		}
	}
	return covered
}

func (v *VisitGraph) GetVisits() map[string]int {
	results := make(map[string]int)
	for k, n := range v.Nodes {
		results[k] = n.Visits
	}
	return results
}

type Node struct {
	Key    string       `json:"key"`
	State  easy21.State `json:"state"`
	Visits int          `json:"visits"`
	// action -> set of successor keys
	Next map[string]map[string]bool `json:"next"`
	Prev map[string]map[string]bool `json:"prev"`
}

func NewNode(s easy21.State) *Node {
	return &Node{
		Key:   s.Hash(),
		State: s,
		Next:  make(map[string]map[string]bool),
		Prev:  make(map[string]map[string]bool),
	}
}

func (n *Node) addPrev(a easy21.Action, prev string) {
	if _, ok := n.Prev[a.Hash()]; !ok {
		n.Prev[a.Hash()] = make(map[string]bool)
	}
	n.Prev[a.Hash()][prev] = true
}

func (n *Node) addNext(a easy21.Action, next string) {
	if _, ok := n.Next[a.Hash()]; !ok {
		n.Next[a.Hash()] = make(map[string]bool)
	}
	n.Next[a.Hash()][next] = true
}

type CoverageDataSet struct {
	Graph *VisitGraph
	// states covered after each episode
	Covered []int
}

// CoverageAnalyzer tracks how many of the 210 states an experiment has acted in
type CoverageAnalyzer struct {
	ds *CoverageDataSet
}

var _ Analyzer = &CoverageAnalyzer{}

func NewCoverageAnalyzer() *CoverageAnalyzer {
	c := &CoverageAnalyzer{}
	c.Reset()
	return c
}

func (c *CoverageAnalyzer) Analyze(_ int, _ int, _ string, trace *Trace) {
	covered := 0
	if n := len(c.ds.Covered); n > 0 {
		covered = c.ds.Covered[n-1]
	}
	for i := 0; i < trace.Len(); i++ {
		s, a, next, _ := trace.Get(i)
		if c.ds.Graph.Update(s, a, next) {
			covered++
		}
	}
	c.ds.Covered = append(c.ds.Covered, covered)
}

func (c *CoverageAnalyzer) DataSet() DataSet {
	return c.ds
}

func (c *CoverageAnalyzer) Reset() {
	c.ds = &CoverageDataSet{
		Graph:   NewVisitGraph(),
		Covered: make([]int, 0),
	}
}

// CoveragePlotter plots the states covered over the episodes and stores every visit graph
func CoveragePlotter(plotPath string) Comparator {
	return func(run, _ int, names []string, ds []DataSet) error {
		if err := util.EnsureDir(plotPath); err != nil {
			return err
		}
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "States covered"
		for i := 0; i < len(names); i++ {
			coverage := ds[i].(*CoverageDataSet)
			points := make(plotter.XYs, len(coverage.Covered))
			for j, v := range coverage.Covered {
				points[j] = plotter.XY{
					X: float64(j + 1),
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

			graphFile := path.Join(plotPath, strconv.Itoa(run)+"_"+names[i]+"_visits.json")
			if err := util.WriteJSON(graphFile, coverage.Graph); err != nil {
				return err
			}
		}
		return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_coverage.png"))
	}
}

// CoveragePrinter prints the number of states covered by each experiment
func CoveragePrinter() Comparator {
	return func(run, _ int, names []string, ds []DataSet) error {
		for i, name := range names {
			coverage := ds[i].(*CoverageDataSet)
			fmt.Printf("Run %d, %s: %d/%d states covered\n", run+1, name, coverage.Graph.Covered(), easy21.NumStates)
		}
		return nil
	}
}
