package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/easy21-rl/easy21"
	"github.com/zeu5/easy21-rl/types"
)

func TestMonteCarloConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultMonteCarloConfig().Validate())
	for _, n0 := range []float64{0, -1} {
		c := &MonteCarloConfig{N0: n0}
		assert.Error(t, c.Validate(), "n0 %v", n0)
	}
}

type sa struct {
	s easy21.State
	a easy21.Action
}

func traceOf(reward int, steps ...sa) *types.Trace {
	trace := types.NewTrace()
	for i, step := range steps {
		trace.Append(i, step.s, step.a, step.s)
	}
	trace.SetReward(reward)
	return trace
}

func TestMonteCarlo_IncrementalMean(t *testing.T) {
	mc := NewMonteCarloControl(DefaultMonteCarloConfig())
	s := easy21.State{Dealer: 3, Player: 14}
	other := easy21.State{Dealer: 3, Player: 18}

	rewards := []int{1, -1, 1, 1, 0}
	sum := 0
	for i, r := range rewards {
		require.NoError(t, mc.UpdateIteration(i, traceOf(r, sa{s, easy21.Hit}, sa{other, easy21.Stick})))
		sum += r

		q, err := mc.QValue(s, easy21.Hit)
		require.NoError(t, err)
		assert.InDelta(t, float64(sum)/float64(i+1), q, 1e-12)
	}
	assert.Equal(t, len(rewards), mc.Table().StateActionVisits[2][13][easy21.Hit])
	assert.Equal(t, 0, mc.Table().StateActionVisits[2][13][easy21.Stick])

	q, err := mc.QValue(s, easy21.Stick)
	require.NoError(t, err)
	assert.Equal(t, 0.0, q)
}

func TestMonteCarlo_FirstVisitOnly(t *testing.T) {
	mc := NewMonteCarloControl(DefaultMonteCarloConfig())
	s := easy21.State{Dealer: 1, Player: 5}
	require.NoError(t, mc.UpdateIteration(0, traceOf(1, sa{s, easy21.Hit}, sa{s, easy21.Hit}, sa{s, easy21.Stick})))

	assert.Equal(t, 1, mc.Table().StateActionVisits[0][4][easy21.Hit])
	assert.Equal(t, 1, mc.Table().StateActionVisits[0][4][easy21.Stick])
	assert.Equal(t, 1.0, mc.Table().Q[0][4][easy21.Hit])
	assert.Equal(t, 1.0, mc.Table().Q[0][4][easy21.Stick])
}

func TestMonteCarlo_ExplorationDecays(t *testing.T) {
	mc := NewMonteCarloControl(&MonteCarloConfig{N0: 100, Seed: 3})
	s := easy21.State{Dealer: 4, Player: 9}
	for i := 0; i < 100; i++ {
		_, err := mc.NextAction(i, s)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, mc.Table().StateVisits[3][8])
	assert.InDelta(t, 0.5, mc.Table().epsilon(100, 3, 8), 1e-12)
	assert.InDelta(t, 1.0, mc.Table().epsilon(100, 0, 0), 1e-12)
}

func TestMonteCarlo_GreedyTieSticks(t *testing.T) {
	mc := NewMonteCarloControl(&MonteCarloConfig{N0: 1e-12})
	s := easy21.State{Dealer: 10, Player: 10}
	for i := 0; i < 50; i++ {
		a, err := mc.NextAction(i, s)
		require.NoError(t, err)
		assert.Equal(t, easy21.Stick, a)
	}
	assert.Equal(t, easy21.Stick, mc.GreedyPolicy().At(9, 9))
}

func TestMonteCarlo_OutOfBounds(t *testing.T) {
	mc := NewMonteCarloControl(DefaultMonteCarloConfig())
	_, err := mc.NextAction(0, easy21.State{Dealer: 5, Player: 22})
	assert.ErrorIs(t, err, easy21.ErrStateOutOfBounds)

	_, err = mc.QValue(easy21.State{Dealer: 0, Player: 5}, easy21.Hit)
	assert.ErrorIs(t, err, easy21.ErrStateOutOfBounds)

	_, err = mc.QValue(easy21.State{Dealer: 1, Player: 5}, easy21.Action(-1))
	assert.ErrorIs(t, err, easy21.ErrInvalidAction)
}

func TestMonteCarlo_Training(t *testing.T) {
	mc := NewMonteCarloControl(&MonteCarloConfig{N0: 100, Seed: 1})
	agent := types.NewAgent(&types.AgentConfig{
		Policy:      mc,
		Environment: easy21.NewEnvironment(&easy21.Config{Seed: 1}),
	})

	steps := 0
	returns := make(map[sa]float64)
	counts := make(map[sa]int)
	err := agent.Train(2000, types.WithEpisodeCallback(func(_ int, trace *types.Trace) {
		steps += trace.Len()
		seen := make(map[sa]bool)
		for i := 0; i < trace.Len(); i++ {
			s, a, _, _ := trace.Get(i)
			key := sa{s, a}
			if seen[key] {
				continue
			}
			seen[key] = true
			returns[key] += float64(trace.Reward())
			counts[key]++
		}
	}))
	require.NoError(t, err)

	// Q is the mean of the first visit returns of each pair
	for key, n := range counts {
		d, p, err := easy21.StateIndex(key.s)
		require.NoError(t, err)
		assert.Equal(t, n, mc.Table().StateActionVisits[d][p][key.a], "%v %s", key.s, key.a)
		assert.InDelta(t, returns[key]/float64(n), mc.Table().Q[d][p][key.a], 1e-9, "%v %s", key.s, key.a)
	}
	for _, s := range easy21.States() {
		d, p, _ := easy21.StateIndex(s)
		for _, a := range easy21.AllActions {
			if counts[sa{s, a}] == 0 {
				assert.Equal(t, 0.0, mc.Table().Q[d][p][a])
			}
		}
	}

	visits := 0
	for d := 0; d < easy21.NumDealerStates; d++ {
		for p := 0; p < easy21.NumPlayerStates; p++ {
			visits += mc.Table().StateVisits[d][p]
			for _, a := range easy21.AllActions {
				q := mc.Table().Q[d][p][a]
				assert.GreaterOrEqual(t, q, -1.0)
				assert.LessOrEqual(t, q, 1.0)
				assert.LessOrEqual(t, mc.Table().StateActionVisits[d][p][a], mc.Table().StateVisits[d][p])
			}
		}
	}
	assert.Equal(t, steps, visits)

	v := mc.ValueFunction()
	for _, s := range easy21.States() {
		d, p, _ := easy21.StateIndex(s)
		q := mc.Table().Q[d][p]
		assert.Equal(t, max(q[easy21.Stick], q[easy21.Hit]), v.At(d, p))
	}

	mc.Reset()
	assert.Equal(t, 0, mc.Table().StateVisits[0][0])
}
