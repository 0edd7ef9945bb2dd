package config

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/zeu5/easy21-rl/easy21"
	"github.com/zeu5/easy21-rl/policies"
	"github.com/zeu5/easy21-rl/types"
)

// Config holds everything a run of the command line needs
type Config struct {
	// Run settings
	Episodes     int    `mapstructure:"episodes"`
	Seed         uint64 `mapstructure:"seed"`
	Runs         int    `mapstructure:"runs"`
	Save         string `mapstructure:"save"`
	RecordTraces bool   `mapstructure:"record-traces"`
	Window       int    `mapstructure:"window"`

	// Environment
	Deal string `mapstructure:"deal"`

	// Monte Carlo control
	N0 float64 `mapstructure:"n0"`

	// SARSA(lambda)
	Alpha   float64 `mapstructure:"alpha"`
	Lambda  float64 `mapstructure:"lambda"`
	Epsilon float64 `mapstructure:"epsilon"`
	Gamma   float64 `mapstructure:"gamma"`

	// Profiling, paths relative to Save
	CPUProfile string `mapstructure:"cpuprofile"`
	MemProfile string `mapstructure:"memprofile"`
}

// Default returns a config with the standard Easy21 hyperparameters
func Default() *Config {
	mc := policies.DefaultMonteCarloConfig()
	sarsa := policies.DefaultSarsaLambdaConfig()
	return &Config{
		Episodes: 10000,
		Runs:     1,
		Save:     "results",
		Window:   1000,
		Deal:     easy21.DealOneCard.String(),
		N0:       mc.N0,
		Alpha:    sarsa.Alpha,
		Lambda:   sarsa.Lambda,
		Epsilon:  sarsa.Epsilon,
		Gamma:    sarsa.Gamma,
	}
}

// Load decodes the values known to v on top of the defaults
func Load(v *viper.Viper) (*Config, error) {
	c := Default()
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Episodes <= 0 {
		return errors.Wrapf(types.ErrInvalidEpisodes, "episodes %d", c.Episodes)
	}
	if c.Runs <= 0 {
		return errors.Errorf("runs must be positive, got %d", c.Runs)
	}
	if c.Window <= 0 {
		return errors.Errorf("window must be positive, got %d", c.Window)
	}
	if _, err := easy21.ParseDealMode(c.Deal); err != nil {
		return err
	}
	if err := c.MonteCarlo().Validate(); err != nil {
		return errors.Wrap(err, "monte carlo")
	}
	if err := c.SarsaLambda().Validate(); err != nil {
		return errors.Wrap(err, "sarsa")
	}
	return nil
}

// Environment converts to an environment config seeded like the run.
// It panics on a deal mode that Validate would have rejected.
func (c *Config) Environment() *easy21.Config {
	deal, err := easy21.ParseDealMode(c.Deal)
	if err != nil {
		panic(fmt.Sprintf("config: %s", err))
	}
	return &easy21.Config{
		Seed: c.Seed,
		Deal: deal,
	}
}

func (c *Config) MonteCarlo() *policies.MonteCarloConfig {
	return &policies.MonteCarloConfig{
		N0:   c.N0,
		Seed: c.Seed,
	}
}

func (c *Config) SarsaLambda() *policies.SarsaLambdaConfig {
	return &policies.SarsaLambdaConfig{
		Alpha:   c.Alpha,
		Lambda:  c.Lambda,
		Epsilon: c.Epsilon,
		Gamma:   c.Gamma,
		Seed:    c.Seed,
	}
}

func (c *Config) Comparison() *types.ComparisonConfig {
	return &types.ComparisonConfig{
		Runs:         c.Runs,
		Episodes:     c.Episodes,
		Seed:         c.Seed,
		RecordPath:   c.Save,
		RecordTraces: c.RecordTraces,
	}
}
