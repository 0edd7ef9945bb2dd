package policies

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/zeu5/easy21-rl/easy21"
	"github.com/zeu5/easy21-rl/types"
)

type SarsaLambdaConfig struct {
	Alpha   float64 `mapstructure:"alpha"`   // step size
	Lambda  float64 `mapstructure:"lambda"`  // trace decay
	Epsilon float64 `mapstructure:"epsilon"` // fixed exploration rate
	Gamma   float64 `mapstructure:"gamma"`   // discount
	Seed    uint64  `mapstructure:"seed"`
}

func DefaultSarsaLambdaConfig() *SarsaLambdaConfig {
	return &SarsaLambdaConfig{
		Alpha:   0.01,
		Lambda:  0.5,
		Epsilon: 0.05,
		Gamma:   1.0,
	}
}

func (c *SarsaLambdaConfig) Validate() error {
	if !(c.Alpha > 0) || math.IsInf(c.Alpha, 1) {
		return errors.Errorf("alpha must be positive and finite, got %v", c.Alpha)
	}
	if !(c.Lambda >= 0 && c.Lambda <= 1) {
		return errors.Errorf("lambda must be in [0, 1], got %v", c.Lambda)
	}
	if !(c.Epsilon >= 0 && c.Epsilon <= 1) {
		return errors.Errorf("epsilon must be in [0, 1], got %v", c.Epsilon)
	}
	if !(c.Gamma >= 0 && c.Gamma <= 1) {
		return errors.Errorf("gamma must be in [0, 1], got %v", c.Gamma)
	}
	return nil
}

// LinearModel is Q(s, a) = w . x(s, a)
type LinearModel struct {
	Weights []float64
}

func NewLinearModel() *LinearModel {
	return &LinearModel{Weights: make([]float64, NumFeatures)}
}

func (m *LinearModel) QValue(s easy21.State, a easy21.Action) (float64, error) {
	x, err := FeatureVector(s, a)
	if err != nil {
		return 0, err
	}
	return floats.Dot(m.Weights, x), nil
}

// GreedyAction compares the two action values, ties go to Stick
func (m *LinearModel) GreedyAction(s easy21.State) (easy21.Action, error) {
	stick, err := m.QValue(s, easy21.Stick)
	if err != nil {
		return easy21.Stick, err
	}
	hit, err := m.QValue(s, easy21.Hit)
	if err != nil {
		return easy21.Stick, err
	}
	return argmax(stick, hit), nil
}

// SarsaLambda is on-line SARSA(lambda) with accumulating eligibility traces
// over the coarse coded features
type SarsaLambda struct {
	config      *SarsaLambdaConfig
	model       *LinearModel
	eligibility []float64
	explorer    *explorer

	// action already chosen for the next step
	next    easy21.Action
	hasNext bool
}

var _ types.LearningPolicy = &SarsaLambda{}

func NewSarsaLambda(config *SarsaLambdaConfig) *SarsaLambda {
	return &SarsaLambda{
		config:      config,
		model:       NewLinearModel(),
		eligibility: make([]float64, NumFeatures),
		explorer:    newExplorer(config.Seed),
	}
}

func (s *SarsaLambda) Model() *LinearModel {
	return s.model
}

// Eligibility returns the trace of the current episode
func (s *SarsaLambda) Eligibility() []float64 {
	return s.eligibility
}

func (s *SarsaLambda) Seed(seed uint64) {
	s.explorer.seed(seed)
}

func (s *SarsaLambda) Reset() {
	s.model = NewLinearModel()
	s.eligibility = make([]float64, NumFeatures)
	s.hasNext = false
}

func (s *SarsaLambda) policy(state easy21.State) (easy21.Action, error) {
	return s.explorer.choose(s.config.Epsilon, func() (easy21.Action, error) {
		return s.model.GreedyAction(state)
	})
}

// NextAction returns the action picked during the previous update.
// At step 0 the trace is cleared and the first action drawn.
func (s *SarsaLambda) NextAction(step int, state easy21.State) (easy21.Action, error) {
	if step == 0 {
		floats.Scale(0, s.eligibility)
		s.hasNext = false
	}
	if s.hasNext {
		s.hasNext = false
		return s.next, nil
	}
	return s.policy(state)
}

// Update performs one TD(lambda) step on the weights
func (s *SarsaLambda) Update(t *types.Transition) error {
	x, err := FeatureVector(t.State, t.Action)
	if err != nil {
		return err
	}

	target := float64(t.Reward)
	if !t.Done {
		nextAction, err := s.policy(t.NextState)
		if err != nil {
			return err
		}
		q, err := s.model.QValue(t.NextState, nextAction)
		if err != nil {
			return err
		}
		target += s.config.Gamma * q
		s.next = nextAction
		s.hasNext = true
	}
	delta := target - floats.Dot(s.model.Weights, x)

	floats.Scale(s.config.Gamma*s.config.Lambda, s.eligibility)
	floats.Add(s.eligibility, x)
	floats.AddScaled(s.model.Weights, s.config.Alpha*delta, s.eligibility)
	return nil
}

func (s *SarsaLambda) UpdateIteration(_ int, _ *types.Trace) error {
	return nil
}

func (s *SarsaLambda) QValue(state easy21.State, a easy21.Action) (float64, error) {
	return s.model.QValue(state, a)
}

func (s *SarsaLambda) GreedyAction(state easy21.State) (easy21.Action, error) {
	return s.model.GreedyAction(state)
}

// ValueFunction sweeps every state and reports max_a Q(s, a)
func (s *SarsaLambda) ValueFunction() *types.ValueTable {
	v := types.NewValueTable()
	for d := 0; d < easy21.NumDealerStates; d++ {
		for p := 0; p < easy21.NumPlayerStates; p++ {
			state := easy21.StateAt(d, p)
			stick, err := s.model.QValue(state, easy21.Stick)
			if err != nil {
				panic(fmt.Sprintf("sarsa: indexed state %s: %s", state, err))
			}
			hit, err := s.model.QValue(state, easy21.Hit)
			if err != nil {
				panic(fmt.Sprintf("sarsa: indexed state %s: %s", state, err))
			}
			v.Set(d, p, math.Max(stick, hit))
		}
	}
	return v
}

// GreedyPolicy is the greedy action table over every state
func (s *SarsaLambda) GreedyPolicy() *types.PolicyTable {
	pt := types.NewPolicyTable()
	for d := 0; d < easy21.NumDealerStates; d++ {
		for p := 0; p < easy21.NumPlayerStates; p++ {
			state := easy21.StateAt(d, p)
			a, err := s.model.GreedyAction(state)
			if err != nil {
				panic(fmt.Sprintf("sarsa: indexed state %s: %s", state, err))
			}
			pt.Set(d, p, a)
		}
	}
	return pt
}
