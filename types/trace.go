package types

import (
	"encoding/json"

	"github.com/zeu5/easy21-rl/easy21"
)

// Trace of an episode as triplets (state, action, nextState)
// together with the single terminal reward
type Trace struct {
	states     []easy21.State
	actions    []easy21.Action
	nextStates []easy21.State
	reward     int
}

func NewTrace() *Trace {
	return &Trace{
		states:     make([]easy21.State, 0),
		actions:    make([]easy21.Action, 0),
		nextStates: make([]easy21.State, 0),
	}
}

func (t *Trace) Append(step int, state easy21.State, action easy21.Action, nextState easy21.State) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.nextStates = append(t.nextStates, nextState)
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (easy21.State, easy21.Action, easy21.State, bool) {
	if i < 0 || i >= len(t.states) {
		return easy21.State{}, easy21.Stick, easy21.State{}, false
	}
	return t.states[i], t.actions[i], t.nextStates[i], true
}

func (t *Trace) Last() (easy21.State, easy21.Action, easy21.State, bool) {
	return t.Get(len(t.states) - 1)
}

func (t *Trace) SetReward(reward int) {
	t.reward = reward
}

// Reward is the terminal reward, which is also the undiscounted return of every step
func (t *Trace) Reward() int {
	return t.reward
}

type traceStep struct {
	State     easy21.State  `json:"state"`
	Action    easy21.Action `json:"action"`
	NextState easy21.State  `json:"next_state"`
}

func (t *Trace) MarshalJSON() ([]byte, error) {
	steps := make([]traceStep, t.Len())
	for i := range steps {
		steps[i] = traceStep{State: t.states[i], Action: t.actions[i], NextState: t.nextStates[i]}
	}
	return json.Marshal(struct {
		Steps  []traceStep `json:"steps"`
		Reward int         `json:"reward"`
	}{steps, t.reward})
}
