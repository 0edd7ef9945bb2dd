package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/easy21-rl/easy21"
)

func TestActiveFeatures(t *testing.T) {
	tests := []struct {
		name   string
		state  easy21.State
		action easy21.Action
		want   []int
	}{
		{"overlapping bins hit", easy21.State{Dealer: 7, Player: 12}, easy21.Hit, []int{26, 27, 32, 33}},
		{"overlapping bins stick", easy21.State{Dealer: 7, Player: 12}, easy21.Stick, []int{8, 9, 14, 15}},
		{"lowest corner", easy21.State{Dealer: 1, Player: 1}, easy21.Hit, []int{18}},
		{"highest corner", easy21.State{Dealer: 10, Player: 21}, easy21.Stick, []int{17}},
		{"single dealer bin", easy21.State{Dealer: 5, Player: 10}, easy21.Stick, []int{8, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ActiveFeatures(tt.state, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeatureVector_EveryState(t *testing.T) {
	for _, s := range easy21.States() {
		for _, a := range easy21.AllActions {
			x, err := FeatureVector(s, a)
			require.NoError(t, err)
			require.Len(t, x, NumFeatures)

			active := 0
			for i, v := range x {
				if v == 0 {
					continue
				}
				assert.Equal(t, 1.0, v)
				active++
				// features only ever light up in the block of their own action
				assert.Equal(t, int(a), i/featuresPerAction, "state %s action %s", s, a)
			}
			assert.GreaterOrEqual(t, active, 1, "state %s", s)
			assert.LessOrEqual(t, active, 4, "state %s", s)
		}
	}
}

func TestActiveFeatures_InvalidAction(t *testing.T) {
	_, err := ActiveFeatures(easy21.State{Dealer: 1, Player: 1}, easy21.Action(2))
	assert.ErrorIs(t, err, easy21.ErrInvalidAction)
}
