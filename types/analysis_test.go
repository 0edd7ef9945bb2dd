package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/easy21-rl/easy21"
)

func episodeWith(reward, steps int) *Trace {
	trace := NewTrace()
	s := easy21.State{Dealer: 2, Player: 12}
	for i := 0; i < steps; i++ {
		trace.Append(i, s, easy21.Hit, s)
	}
	trace.SetReward(reward)
	return trace
}

func TestOutcomeAnalyzer(t *testing.T) {
	o := NewOutcomeAnalyzer(2)
	for i, r := range []int{1, -1, 0, 1, 1} {
		o.Analyze(0, i, "exp", episodeWith(r, i+1))
	}
	ds := o.DataSet().(*OutcomeDataSet)
	assert.Equal(t, 5, ds.Episodes)
	assert.Equal(t, 15, ds.Steps)
	assert.Equal(t, 3, ds.Wins)
	assert.Equal(t, 1, ds.Draws)
	assert.Equal(t, 1, ds.Losses)
	assert.Equal(t, []float64{0, 0.5}, ds.WindowMeans)
	assert.InDelta(t, 0.4, ds.MeanReward(), 1e-12)
	assert.InDelta(t, 3.0, ds.MeanLength(), 1e-12)

	o.Reset()
	ds = o.DataSet().(*OutcomeDataSet)
	assert.Equal(t, 0, ds.Episodes)
	assert.Empty(t, ds.WindowMeans)
	assert.Equal(t, 0.0, ds.MeanReward())
}

func TestMeanSquaredError(t *testing.T) {
	assert.Equal(t, 0.0, MeanSquaredError(nil, nil))
	assert.InDelta(t, 2.0, MeanSquaredError([]float64{1, 2}, []float64{1, 4}), 1e-12)
	assert.InDelta(t, 1.0, MeanSquaredError([]float64{0, 0, 0}, []float64{1, -1, 1}), 1e-12)
}

func TestValueAnalyzerAndMSEComparator(t *testing.T) {
	v := NewValueAnalyzer()
	assert.Nil(t, v.DataSet())
	require.NoError(t, v.Finish("random", NewRandomPolicy(0)))
	random := v.DataSet().(*ValueDataSet)
	assert.Len(t, random.ActionValues, easy21.NumStates*easy21.NumActions)

	shifted := &ValueDataSet{
		Values:       NewValueTable(),
		Policy:       NewPolicyTable(),
		ActionValues: make([]float64, len(random.ActionValues)),
	}
	for i := range shifted.ActionValues {
		shifted.ActionValues[i] = 0.5
	}

	reported := make(map[string]float64)
	cmp := MSEComparator(func(name string, mse float64) {
		reported[name] = mse
	})
	require.NoError(t, cmp(0, 10, []string{"random", "shifted"}, []DataSet{random, shifted}))
	assert.Len(t, reported, 1)
	assert.InDelta(t, 0.25, reported["shifted"], 1e-12)

	err := cmp(0, 10, []string{"random", "missing"}, []DataSet{random, nil})
	assert.Error(t, err)

	v.Reset()
	assert.Nil(t, v.DataSet())
}

func TestValueJSONComparator(t *testing.T) {
	dir := t.TempDir()
	v := NewValueAnalyzer()
	require.NoError(t, v.Finish("random", NewRandomPolicy(0)))

	require.NoError(t, ValueJSONComparator(dir)(1, 10, []string{"random"}, []DataSet{v.DataSet()}))

	out := make(map[string]json.RawMessage)
	readJSON(t, dir+"/1_random_values.json", &out)
	assert.Contains(t, out, "values")
	assert.Contains(t, out, "policy")
	assert.Contains(t, out, "action_values")
	assert.True(t, strings.HasPrefix(string(out["values"]), "[["))
}
