package benchmarks

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zeu5/easy21-rl/config"
	"github.com/zeu5/easy21-rl/easy21"
	"github.com/zeu5/easy21-rl/policies"
	"github.com/zeu5/easy21-rl/types"
)

// Sarsa trains SARSA(lambda) with linear function approximation
func Sarsa(ctx context.Context, c *config.Config) error {
	comparison := types.NewComparison(c.Comparison())
	addAnalyses(comparison, c, false)
	comparison.AddExperiment(types.NewExperiment(
		"sarsa",
		policies.NewSarsaLambda(c.SarsaLambda()),
		easy21.NewEnvironment(c.Environment()),
	))
	return comparison.Run(ctx)
}

func SarsaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sarsa",
		Short: "Train SARSA(lambda) with coarse coded linear features",
		RunE: func(cmd *cobra.Command, args []string) error {
			return profiled(cfg, func(ctx context.Context) error {
				return Sarsa(ctx, cfg)
			})
		},
	}
}
