package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/easy21-rl/easy21"
	"github.com/zeu5/easy21-rl/types"
)

func TestStickAbove(t *testing.T) {
	p := StickAbove(17)
	for _, s := range easy21.States() {
		a, err := p.NextAction(0, s)
		require.NoError(t, err)
		if s.Player >= 17 {
			assert.Equal(t, easy21.Stick, a, "state %s", s)
		} else {
			assert.Equal(t, easy21.Hit, a, "state %s", s)
		}
	}
}

func TestStrictPolicy_FallsBackToWrapped(t *testing.T) {
	mc := NewMonteCarloControl(&MonteCarloConfig{N0: 1e-12})
	p := NewStrictPolicy(mc)
	p.AddPolicy(If(func(s easy21.State) bool { return s.Dealer == 1 }).Then(easy21.Hit))

	a, err := p.NextAction(0, easy21.State{Dealer: 1, Player: 20})
	require.NoError(t, err)
	assert.Equal(t, easy21.Hit, a)
	// rules do not reach the wrapped policy
	assert.Equal(t, 0, mc.Table().StateVisits[0][19])

	a, err = p.NextAction(0, easy21.State{Dealer: 2, Player: 20})
	require.NoError(t, err)
	assert.Equal(t, easy21.Stick, a)
	assert.Equal(t, 1, mc.Table().StateVisits[1][19])
}

func TestStickAbove_Plays(t *testing.T) {
	agent := types.NewAgent(&types.AgentConfig{
		Policy:      StickAbove(17),
		Environment: easy21.NewEnvironment(&easy21.Config{Seed: 11}),
	})
	require.NoError(t, agent.Train(200, types.WithEpisodeCallback(func(_ int, trace *types.Trace) {
		for i := 0; i < trace.Len(); i++ {
			s, a, _, _ := trace.Get(i)
			if a == easy21.Stick {
				assert.GreaterOrEqual(t, s.Player, 17)
			} else {
				assert.Less(t, s.Player, 17)
			}
		}
	})))
}
