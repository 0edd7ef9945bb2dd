package benchmarks

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"strings"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zeu5/easy21-rl/config"
)

var (
	cfg        = config.Default()
	configFile string
	envFile    string
)

func GetRootCommand() *cobra.Command {
	v := viper.New()
	defaults := config.Default()

	rootCommand := &cobra.Command{
		Use:          "easy21",
		Short:        "Reinforcement learning on the Easy21 card game",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// variables already set in the environment win over the file
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return errors.Wrapf(err, "loading %s", envFile)
			}
			if configFile != "" {
				v.SetConfigFile(configFile)
				if err := v.ReadInConfig(); err != nil {
					return errors.Wrapf(err, "reading %s", configFile)
				}
			}
			c, err := config.Load(v)
			if err != nil {
				return err
			}
			cfg = c
			glog.V(1).Infof("Config: %+v", *cfg)
			return nil
		},
	}

	flags := rootCommand.PersistentFlags()
	flags.IntP("episodes", "e", defaults.Episodes, "Number of episodes to run")
	flags.Uint64("seed", defaults.Seed, "Seed of the environment and the exploration")
	flags.Int("runs", defaults.Runs, "Number of experiment runs")
	flags.StringP("save", "s", defaults.Save, "Save the result data in the specified folder")
	flags.Bool("record-traces", defaults.RecordTraces, "Record every episode as a JSON line")
	flags.Int("window", defaults.Window, "Episodes averaged per point of the reward curve")
	flags.String("deal", defaults.Deal, "Initial deal, one or two player cards")
	flags.Float64("n0", defaults.N0, "Exploration constant of Monte Carlo control")
	flags.Float64("alpha", defaults.Alpha, "SARSA step size")
	flags.Float64("lambda", defaults.Lambda, "SARSA trace decay")
	flags.Float64("epsilon", defaults.Epsilon, "SARSA exploration rate")
	flags.Float64("gamma", defaults.Gamma, "SARSA discount")
	flags.String("cpuprofile", defaults.CPUProfile, "Write a CPU profile to this file in the save folder")
	flags.String("memprofile", defaults.MemProfile, "Write a heap profile to this file in the save folder")
	if err := v.BindPFlags(flags); err != nil {
		glog.Fatalf("binding flags: %s", err)
	}
	flags.StringVar(&configFile, "config", "", "Config file, flags and EASY21_ variables take precedence")
	flags.StringVar(&envFile, "env-file", ".env", "File of EASY21_ variables to load when present")

	v.SetEnvPrefix("EASY21")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// glog flags (-v, -logtostderr, ...)
	flags.AddGoFlagSet(flag.CommandLine)
	flag.CommandLine.Parse([]string{})

	// adding the subcommands here
	rootCommand.AddCommand(MonteCarloCommand())
	rootCommand.AddCommand(SarsaCommand())
	rootCommand.AddCommand(CompareCommand())
	rootCommand.AddCommand(PlayCommand())
	return rootCommand
}

// withInterrupt runs f under a context that is cancelled on interrupt
func withInterrupt(f func(context.Context) error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	doneCh := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
			glog.Info("Interrupted, stopping after the current episode")
		case <-doneCh:
		}
		cancel()
	}()

	err := f(ctx)
	close(doneCh)
	return err
}

// profiled wraps a run with the profiling requested in the config
func profiled(c *config.Config, f func(context.Context) error) error {
	stop, err := startProfiling(c)
	if err != nil {
		return err
	}
	defer stop()
	return withInterrupt(f)
}
