package types

import (
	"golang.org/x/exp/rand"

	"github.com/zeu5/easy21-rl/easy21"
)

// Transition is one environment step as seen by the policy
type Transition struct {
	Step      int
	State     easy21.State
	Action    easy21.Action
	NextState easy21.State
	Reward    int
	Done      bool
}

type Policy interface {
	// NextAction picks the action for the state reached at the given step.
	// Step 0 marks the start of a new episode.
	NextAction(int, easy21.State) (easy21.Action, error)
	// Update is called after every environment step
	Update(*Transition) error
	// UpdateIteration is called once the episode has terminated
	UpdateIteration(int, *Trace) error
	// Seed reseeds the exploration source from a run seed,
	// implementations derive their stream with ExplorationSeed
	Seed(uint64)
	// Reset discards everything learnt so far
	Reset()
}

// ValueEstimator exposes the learnt action values
type ValueEstimator interface {
	QValue(easy21.State, easy21.Action) (float64, error)
	ValueFunction() *ValueTable
	GreedyPolicy() *PolicyTable
}

type LearningPolicy interface {
	Policy
	ValueEstimator
}

// ExplorationSeed derives the seed of a policy's exploration source from a run seed.
// Decks seed their generator with the run seed itself, so policies mix it first
// (splitmix64 finalizer) to avoid replaying the card stream.
func ExplorationSeed(seed uint64) uint64 {
	z := seed + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// RandomPolicy picks uniformly among the actions and never learns.
// All its estimates are zero.
type RandomPolicy struct {
	rand *rand.Rand
}

var _ LearningPolicy = &RandomPolicy{}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(ExplorationSeed(seed))),
	}
}

func (r *RandomPolicy) Seed(seed uint64) {
	r.rand.Seed(ExplorationSeed(seed))
}

func (r *RandomPolicy) Reset() {}

func (r *RandomPolicy) NextAction(_ int, _ easy21.State) (easy21.Action, error) {
	return easy21.AllActions[r.rand.Intn(len(easy21.AllActions))], nil
}

func (r *RandomPolicy) Update(_ *Transition) error { return nil }

func (r *RandomPolicy) UpdateIteration(_ int, _ *Trace) error { return nil }

func (r *RandomPolicy) QValue(s easy21.State, a easy21.Action) (float64, error) {
	if _, _, err := easy21.StateIndex(s); err != nil {
		return 0, err
	}
	if !a.Valid() {
		return 0, easy21.ErrInvalidAction
	}
	return 0, nil
}

func (r *RandomPolicy) ValueFunction() *ValueTable {
	return NewValueTable()
}

func (r *RandomPolicy) GreedyPolicy() *PolicyTable {
	return NewPolicyTable()
}
