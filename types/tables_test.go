package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/easy21-rl/easy21"
)

func TestValueTable(t *testing.T) {
	v := NewValueTable()
	v.Set(4, 16, 0.75)

	got, err := v.Value(easy21.State{Dealer: 5, Player: 17})
	require.NoError(t, err)
	assert.Equal(t, 0.75, got)
	_, err = v.Value(easy21.State{Dealer: 5, Player: 0})
	assert.ErrorIs(t, err, easy21.ErrStateOutOfBounds)

	c, r := v.Dims()
	assert.Equal(t, easy21.NumDealerStates, c)
	assert.Equal(t, easy21.NumPlayerStates, r)
	assert.Equal(t, 0.75, v.Z(4, 16))
	assert.Equal(t, 1.0, v.X(0))
	assert.Equal(t, 10.0, v.X(9))
	assert.Equal(t, 21.0, v.Y(20))

	bs, err := json.Marshal(v)
	require.NoError(t, err)
	var rows [][]float64
	require.NoError(t, json.Unmarshal(bs, &rows))
	require.Len(t, rows, easy21.NumDealerStates)
	assert.Len(t, rows[0], easy21.NumPlayerStates)
	assert.Equal(t, 0.75, rows[4][16])
}

func TestPolicyTable(t *testing.T) {
	p := NewPolicyTable()
	p.Set(0, 20, easy21.Hit)
	p.Set(9, 0, easy21.Hit)

	a, err := p.Action(easy21.State{Dealer: 1, Player: 21})
	require.NoError(t, err)
	assert.Equal(t, easy21.Hit, a)
	assert.Equal(t, 1.0, p.Z(9, 0))

	lines := strings.Split(strings.TrimSuffix(p.String(), "\n"), "\n")
	require.Len(t, lines, easy21.NumPlayerStates)
	assert.Equal(t, "HSSSSSSSSS", lines[0])
	assert.Equal(t, "SSSSSSSSSH", lines[20])
	assert.Equal(t, "SSSSSSSSSS", lines[10])
}

func TestActionValues(t *testing.T) {
	values, err := ActionValues(NewRandomPolicy(0))
	require.NoError(t, err)
	assert.Len(t, values, 420)
	for _, v := range values {
		assert.Equal(t, 0.0, v)
	}
}
