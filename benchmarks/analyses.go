package benchmarks

import (
	"fmt"
	"path"

	"github.com/zeu5/easy21-rl/config"
	"github.com/zeu5/easy21-rl/types"
)

// chain runs the comparators one after the other, stopping at the first error
func chain(comparators ...types.Comparator) types.Comparator {
	return func(run, episodes int, names []string, ds []types.DataSet) error {
		for _, c := range comparators {
			if err := c(run, episodes, names, ds); err != nil {
				return err
			}
		}
		return nil
	}
}

// policyPrinter prints the greedy policy learnt by every experiment
func policyPrinter() types.Comparator {
	return func(run, _ int, names []string, ds []types.DataSet) error {
		for i, name := range names {
			v, ok := ds[i].(*types.ValueDataSet)
			if !ok || v == nil {
				continue
			}
			fmt.Printf("Run %d, %s greedy policy (rows: player sum 21 to 1, columns: dealer 1 to 10)\n%s",
				run+1, name, v.Policy.String())
		}
		return nil
	}
}

// addAnalyses wires the outcome, coverage and value analyses shared by every command.
// Plots and JSON files only get written when a save folder is configured.
func addAnalyses(comparison *types.Comparison, c *config.Config, mse bool) {
	outcome := []types.Comparator{types.OutcomePrinter()}
	coverage := []types.Comparator{types.CoveragePrinter()}
	values := []types.Comparator{policyPrinter()}
	if c.Save != "" {
		plots := path.Join(c.Save, "plots")
		outcome = append(outcome, types.RewardCurvePlotter(plots), types.RewardChartWriter(plots))
		coverage = append(coverage, types.CoveragePlotter(plots))
		values = append(values, types.ValueHeatmapPlotter(plots), types.ValueJSONComparator(c.Save))
	}
	if mse {
		values = append(values, types.MSEComparator(nil))
	}
	comparison.AddAnalysis("outcome", types.NewOutcomeAnalyzer(c.Window), chain(outcome...))
	comparison.AddAnalysis("coverage", types.NewCoverageAnalyzer(), chain(coverage...))
	comparison.AddAnalysis("values", types.NewValueAnalyzer(), chain(values...))
}
