package policies

import (
	"golang.org/x/exp/rand"

	"github.com/zeu5/easy21-rl/easy21"
	"github.com/zeu5/easy21-rl/types"
)

// explorer is the exploration source of a policy, separate from the environment's cards
type explorer struct {
	rand *rand.Rand
}

func newExplorer(seed uint64) *explorer {
	return &explorer{
		rand: rand.New(rand.NewSource(types.ExplorationSeed(seed))),
	}
}

func (e *explorer) seed(seed uint64) {
	e.rand.Seed(types.ExplorationSeed(seed))
}

// choose returns a uniformly random action with probability epsilon
// and the greedy action otherwise
func (e *explorer) choose(epsilon float64, greedy func() (easy21.Action, error)) (easy21.Action, error) {
	if e.rand.Float64() < epsilon {
		return easy21.AllActions[e.rand.Intn(len(easy21.AllActions))], nil
	}
	return greedy()
}

// argmax over the two actions, ties go to Stick
func argmax(stick, hit float64) easy21.Action {
	if hit > stick {
		return easy21.Hit
	}
	return easy21.Stick
}
