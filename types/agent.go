package types

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/zeu5/easy21-rl/easy21"
)

// ErrInvalidEpisodes is returned when training for a non positive number of episodes
var ErrInvalidEpisodes = errors.New("episodes must be positive")

type AgentConfig struct {
	Policy      LearningPolicy
	Environment Environment
}

// RL Agent configured with the corresponding
// policy and environment
type Agent struct {
	config      *AgentConfig
	policy      LearningPolicy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		policy:      config.Policy,
		environment: config.Environment,
	}
}

type trainConfig struct {
	seed     *uint64
	callback func(int, *Trace)
}

type TrainOption func(*trainConfig)

// WithSeed reseeds both the environment and the policy's exploration before training
func WithSeed(seed uint64) TrainOption {
	return func(c *trainConfig) {
		c.seed = &seed
	}
}

// WithEpisodeCallback observes the trace of every completed episode
func WithEpisodeCallback(f func(episode int, trace *Trace)) TrainOption {
	return func(c *trainConfig) {
		c.callback = f
	}
}

// Seed reseeds the environment and the policy from one run seed.
// The deck uses the seed as is while the policy's exploration source is
// seeded with ExplorationSeed(seed), so exploration does not replay the cards.
func (a *Agent) Seed(seed uint64) {
	a.environment.Seed(seed)
	a.policy.Seed(seed)
}

// Train runs the agent for the given number of episodes, one after the other
func (a *Agent) Train(episodes int, opts ...TrainOption) error {
	if episodes <= 0 {
		return errors.Wrapf(ErrInvalidEpisodes, "got %d", episodes)
	}
	cfg := &trainConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.seed != nil {
		a.Seed(*cfg.seed)
	}

	logEvery := episodes / 10
	if logEvery == 0 {
		logEvery = 1
	}
	for i := 0; i < episodes; i++ {
		trace, err := a.RunEpisode(i)
		if err != nil {
			return err
		}
		if cfg.callback != nil {
			cfg.callback(i, trace)
		}
		if (i+1)%logEvery == 0 {
			glog.V(1).Infof("Trained %d/%d episodes", i+1, episodes)
		}
	}
	return nil
}

// RunEpisode plays one episode to termination and returns its trace
func (a *Agent) RunEpisode(episode int) (*Trace, error) {
	state, err := a.environment.Reset()
	if err != nil {
		return nil, errors.Wrapf(err, "episode %d: reset", episode)
	}
	trace := NewTrace()

	for step := 0; ; step++ {
		action, err := a.policy.NextAction(step, state)
		if err != nil {
			return nil, errors.Wrapf(err, "episode %d step %d: next action", episode, step)
		}
		nextState, reward, done, err := a.environment.Step(action)
		if err != nil {
			return nil, errors.Wrapf(err, "episode %d step %d: %s", episode, step, action)
		}
		err = a.policy.Update(&Transition{
			Step:      step,
			State:     state,
			Action:    action,
			NextState: nextState,
			Reward:    reward,
			Done:      done,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "episode %d step %d: update", episode, step)
		}
		trace.Append(step, state, action, nextState)
		if done {
			trace.SetReward(reward)
			break
		}
		state = nextState
	}

	if err := a.policy.UpdateIteration(episode, trace); err != nil {
		return nil, errors.Wrapf(err, "episode %d: update iteration", episode)
	}
	glog.V(2).Infof("Episode %d: %d steps, reward %d", episode, trace.Len(), trace.Reward())
	return trace, nil
}

func (a *Agent) Policy() LearningPolicy {
	return a.policy
}

func (a *Agent) QValue(s easy21.State, action easy21.Action) (float64, error) {
	return a.policy.QValue(s, action)
}

func (a *Agent) ValueFunction() *ValueTable {
	return a.policy.ValueFunction()
}

func (a *Agent) GreedyPolicy() *PolicyTable {
	return a.policy.GreedyPolicy()
}
