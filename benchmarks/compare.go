package benchmarks

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zeu5/easy21-rl/config"
	"github.com/zeu5/easy21-rl/easy21"
	"github.com/zeu5/easy21-rl/policies"
	"github.com/zeu5/easy21-rl/types"
)

// Compare runs Monte Carlo control, SARSA(lambda) for each lambda and the fixed
// baselines side by side. Mean squared errors are taken against Monte Carlo.
func Compare(ctx context.Context, c *config.Config, lambdas []float64) error {
	comparison := types.NewComparison(c.Comparison())
	addAnalyses(comparison, c, true)

	comparison.AddExperiment(types.NewExperiment(
		"montecarlo",
		policies.NewMonteCarloControl(c.MonteCarlo()),
		easy21.NewEnvironment(c.Environment()),
	))

	if len(lambdas) == 0 {
		lambdas = []float64{c.Lambda}
	}
	for _, lambda := range lambdas {
		sc := c.SarsaLambda()
		sc.Lambda = lambda
		if err := sc.Validate(); err != nil {
			return errors.Wrap(err, "sarsa")
		}
		comparison.AddExperiment(types.NewExperiment(
			fmt.Sprintf("sarsa-%g", lambda),
			policies.NewSarsaLambda(sc),
			easy21.NewEnvironment(c.Environment()),
		))
	}

	comparison.AddExperiment(types.NewExperiment(
		"stick17",
		policies.StickAbove(easy21.DealerThreshold),
		easy21.NewEnvironment(c.Environment()),
	))
	comparison.AddExperiment(types.NewExperiment(
		"random",
		types.NewRandomPolicy(c.Seed),
		easy21.NewEnvironment(c.Environment()),
	))
	return comparison.Run(ctx)
}

func CompareCommand() *cobra.Command {
	var lambdas []float64
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare Monte Carlo control, SARSA(lambda) and fixed baselines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return profiled(cfg, func(ctx context.Context) error {
				return Compare(ctx, cfg, lambdas)
			})
		},
	}
	cmd.Flags().Float64SliceVar(&lambdas, "lambdas", nil, "Trace decays to sweep, defaults to --lambda")
	return cmd
}
