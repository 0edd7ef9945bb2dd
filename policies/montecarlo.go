package policies

import (
	"math"

	"github.com/pkg/errors"

	"github.com/zeu5/easy21-rl/easy21"
	"github.com/zeu5/easy21-rl/types"
)

type MonteCarloConfig struct {
	// N0 controls how fast exploration decays, larger is slower
	N0   float64 `mapstructure:"n0"`
	Seed uint64  `mapstructure:"seed"`
}

func DefaultMonteCarloConfig() *MonteCarloConfig {
	return &MonteCarloConfig{N0: 100}
}

func (c *MonteCarloConfig) Validate() error {
	if !(c.N0 > 0) || math.IsInf(c.N0, 1) {
		return errors.Errorf("n0 must be positive and finite, got %v", c.N0)
	}
	return nil
}

// ActionValueTable is the tabular state of the Monte Carlo agent.
// Entries start at zero and are only ever updated during a training run.
type ActionValueTable struct {
	Q                 [easy21.NumDealerStates][easy21.NumPlayerStates][easy21.NumActions]float64
	StateActionVisits [easy21.NumDealerStates][easy21.NumPlayerStates][easy21.NumActions]int
	StateVisits       [easy21.NumDealerStates][easy21.NumPlayerStates]int
}

// visit counts an arrival in the state
func (t *ActionValueTable) visit(d, p int) {
	t.StateVisits[d][p]++
}

// epsilon(s) = N0 / (N0 + N(s))
func (t *ActionValueTable) epsilon(n0 float64, d, p int) float64 {
	return n0 / (n0 + float64(t.StateVisits[d][p]))
}

func (t *ActionValueTable) greedy(d, p int) easy21.Action {
	return argmax(t.Q[d][p][easy21.Stick], t.Q[d][p][easy21.Hit])
}

// update moves Q(s, a) towards the return g by 1/N(s, a)
func (t *ActionValueTable) update(d, p int, a easy21.Action, g float64) {
	t.StateActionVisits[d][p][a]++
	n := float64(t.StateActionVisits[d][p][a])
	t.Q[d][p][a] += (g - t.Q[d][p][a]) / n
}

// MonteCarloControl is every-episode, first-visit Monte Carlo control
// with a state dependent epsilon-greedy policy
type MonteCarloControl struct {
	config   *MonteCarloConfig
	table    *ActionValueTable
	explorer *explorer
}

var _ types.LearningPolicy = &MonteCarloControl{}

func NewMonteCarloControl(config *MonteCarloConfig) *MonteCarloControl {
	return &MonteCarloControl{
		config:   config,
		table:    &ActionValueTable{},
		explorer: newExplorer(config.Seed),
	}
}

// Table gives read access to the learnt estimates and visit counts
func (m *MonteCarloControl) Table() *ActionValueTable {
	return m.table
}

func (m *MonteCarloControl) Seed(seed uint64) {
	m.explorer.seed(seed)
}

func (m *MonteCarloControl) Reset() {
	m.table = &ActionValueTable{}
}

// NextAction counts the visit to the state before acting
func (m *MonteCarloControl) NextAction(_ int, state easy21.State) (easy21.Action, error) {
	d, p, err := easy21.StateIndex(state)
	if err != nil {
		return easy21.Stick, err
	}
	m.table.visit(d, p)
	return m.explorer.choose(m.table.epsilon(m.config.N0, d, p), func() (easy21.Action, error) {
		return m.table.greedy(d, p), nil
	})
}

func (m *MonteCarloControl) Update(_ *types.Transition) error {
	return nil
}

type stateAction struct {
	state  easy21.State
	action easy21.Action
}

// UpdateIteration applies the terminal reward, which is the undiscounted
// return of every step, to the first visit of each (s, a) in the episode.
// Only N(s, a) moves here, N(s) is counted once per arrival by NextAction.
func (m *MonteCarloControl) UpdateIteration(_ int, trace *types.Trace) error {
	g := float64(trace.Reward())
	visited := make(map[stateAction]bool)
	for i := 0; i < trace.Len(); i++ {
		s, a, _, _ := trace.Get(i)
		key := stateAction{s, a}
		if visited[key] {
			continue
		}
		visited[key] = true

		d, p, err := easy21.StateIndex(s)
		if err != nil {
			return err
		}
		m.table.update(d, p, a, g)
	}
	return nil
}

func (m *MonteCarloControl) QValue(s easy21.State, a easy21.Action) (float64, error) {
	d, p, err := easy21.StateIndex(s)
	if err != nil {
		return 0, err
	}
	if !a.Valid() {
		return 0, errors.Wrapf(easy21.ErrInvalidAction, "%d", int(a))
	}
	return m.table.Q[d][p][a], nil
}

// ValueFunction is max_a Q(s, a) for every state
func (m *MonteCarloControl) ValueFunction() *types.ValueTable {
	v := types.NewValueTable()
	for d := 0; d < easy21.NumDealerStates; d++ {
		for p := 0; p < easy21.NumPlayerStates; p++ {
			q := m.table.Q[d][p]
			v.Set(d, p, math.Max(q[easy21.Stick], q[easy21.Hit]))
		}
	}
	return v
}

func (m *MonteCarloControl) GreedyPolicy() *types.PolicyTable {
	pt := types.NewPolicyTable()
	for d := 0; d < easy21.NumDealerStates; d++ {
		for p := 0; p < easy21.NumPlayerStates; p++ {
			pt.Set(d, p, m.table.greedy(d, p))
		}
	}
	return pt
}
