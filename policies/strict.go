package policies

import (
	"github.com/zeu5/easy21-rl/easy21"
	"github.com/zeu5/easy21-rl/types"
)

// StateAction forces an action in the states it matches
type StateAction func(easy21.State) (easy21.Action, bool)

type IfThenStateAction struct {
	If func(easy21.State) bool
	T  easy21.Action
}

func If(cond func(easy21.State) bool) *IfThenStateAction {
	return &IfThenStateAction{
		If: cond,
	}
}

func (i *IfThenStateAction) Then(action easy21.Action) StateAction {
	i.T = action
	return func(s easy21.State) (easy21.Action, bool) {
		if i.If(s) {
			return i.T, true
		}
		return easy21.Stick, false
	}
}

// PlayerAtLeast matches states where the player sum is n or more
func PlayerAtLeast(n int) func(easy21.State) bool {
	return func(s easy21.State) bool {
		return s.Player >= n
	}
}

// StrictPolicy applies fixed rules before falling back to the wrapped policy.
// Learning and value estimates are those of the wrapped policy.
type StrictPolicy struct {
	types.LearningPolicy
	conds []StateAction
}

func NewStrictPolicy(def types.LearningPolicy) *StrictPolicy {
	return &StrictPolicy{
		LearningPolicy: def,
		conds:          make([]StateAction, 0),
	}
}

var _ types.LearningPolicy = &StrictPolicy{}

func (s *StrictPolicy) AddPolicy(sa StateAction) {
	s.conds = append(s.conds, sa)
}

func (s *StrictPolicy) NextAction(step int, state easy21.State) (easy21.Action, error) {
	for _, c := range s.conds {
		if a, ok := c(state); ok {
			return a, nil
		}
	}
	return s.LearningPolicy.NextAction(step, state)
}

// StickAbove is the dealer's own rule applied to the player: stick on n or
// more, hit otherwise
func StickAbove(n int) *StrictPolicy {
	p := NewStrictPolicy(types.NewRandomPolicy(0))
	p.AddPolicy(If(PlayerAtLeast(n)).Then(easy21.Stick))
	p.AddPolicy(If(func(easy21.State) bool { return true }).Then(easy21.Hit))
	return p
}
