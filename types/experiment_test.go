package types

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/easy21-rl/easy21"
)

func readJSON(t *testing.T, file string, v interface{}) {
	bs, err := os.ReadFile(file)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bs, v))
}

func countLines(t *testing.T, file string) int {
	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	require.NoError(t, scanner.Err())
	return lines
}

func newTestComparison(dir string) *Comparison {
	c := NewComparison(&ComparisonConfig{
		Runs:         2,
		Episodes:     20,
		Seed:         3,
		RecordPath:   dir,
		RecordTraces: true,
	})
	c.AddExperiment(NewExperiment("first", NewRandomPolicy(0), easy21.NewEnvironment(&easy21.Config{})))
	c.AddExperiment(NewExperiment("second", NewRandomPolicy(1), easy21.NewEnvironment(&easy21.Config{})))
	return c
}

func TestComparison_Run(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(path.Join(dir, "stale.txt"), []byte("old"), 0644))

	c := newTestComparison(dir)
	runs := make([]int, 0)
	c.AddAnalysis("outcome", NewOutcomeAnalyzer(5), func(run, episodes int, names []string, ds []DataSet) error {
		runs = append(runs, run)
		assert.Equal(t, 20, episodes)
		assert.Equal(t, []string{"first", "second"}, names)
		for _, d := range ds {
			o := d.(*OutcomeDataSet)
			assert.Equal(t, 20, o.Episodes)
			assert.Equal(t, 20, o.Wins+o.Draws+o.Losses)
			assert.Len(t, o.WindowMeans, 4)
		}
		return nil
	})
	c.AddAnalysis("values", NewValueAnalyzer(), ValueJSONComparator(dir))

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, []int{0, 1}, runs)

	_, err := os.Stat(path.Join(dir, "stale.txt"))
	assert.True(t, os.IsNotExist(err))

	config := make(map[string]interface{})
	readJSON(t, path.Join(dir, "comparison_config.json"), &config)
	assert.Equal(t, c.ID, config["id"])
	assert.Equal(t, []interface{}{"first", "second"}, config["experiments"])
	assert.Equal(t, []interface{}{"outcome", "values"}, config["analyzers"])

	for _, name := range []string{"first_0", "first_1", "second_0", "second_1"} {
		assert.Equal(t, 20, countLines(t, path.Join(dir, "traces", name+".jsonl")), name)
	}
	assert.FileExists(t, path.Join(dir, "1_second_values.json"))
}

func TestComparison_RunsAreReproducible(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	require.NoError(t, newTestComparison(first).Run(context.Background()))
	require.NoError(t, newTestComparison(second).Run(context.Background()))

	a, err := os.ReadFile(path.Join(first, "traces", "first_1.jsonl"))
	require.NoError(t, err)
	b, err := os.ReadFile(path.Join(second, "traces", "first_1.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComparison_InvalidConfig(t *testing.T) {
	c := NewComparison(&ComparisonConfig{Runs: 0, Episodes: 10})
	assert.ErrorIs(t, c.Run(context.Background()), ErrInvalidEpisodes)
}

func TestComparison_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newTestComparison("")
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}
