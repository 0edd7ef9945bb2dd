package benchmarks

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zeu5/easy21-rl/config"
	"github.com/zeu5/easy21-rl/easy21"
	"github.com/zeu5/easy21-rl/policies"
	"github.com/zeu5/easy21-rl/types"
)

// MonteCarlo trains Monte Carlo control and reports its outcomes and value function
func MonteCarlo(ctx context.Context, c *config.Config) error {
	comparison := types.NewComparison(c.Comparison())
	addAnalyses(comparison, c, false)
	comparison.AddExperiment(types.NewExperiment(
		"montecarlo",
		policies.NewMonteCarloControl(c.MonteCarlo()),
		easy21.NewEnvironment(c.Environment()),
	))
	return comparison.Run(ctx)
}

func MonteCarloCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "mc",
		Aliases: []string{"montecarlo"},
		Short:   "Train Monte Carlo control",
		RunE: func(cmd *cobra.Command, args []string) error {
			return profiled(cfg, func(ctx context.Context) error {
				return MonteCarlo(ctx, cfg)
			})
		},
	}
}
