package types

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/zeu5/easy21-rl/util"
)

type experimentRunConfig struct {
	// execution configuration
	CurrentRun int
	Episodes   int
	Seed       uint64
	Analyzers  []Analyzer
	Context    context.Context

	// record flags
	RecordTraces   bool
	ReportSavePath string

	//misc
	LongestExpNameLen int
}

// Experiment encapsulates the different parameters to configure an agent and analyze the traces
type Experiment struct {
	Name        string
	policy      LearningPolicy
	environment Environment
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, policy LearningPolicy, environment Environment) *Experiment {
	return &Experiment{
		Name:        name,
		policy:      policy,
		environment: environment,
	}
}

func (e *Experiment) tracesFile(rConfig *experimentRunConfig) string {
	return path.Join(rConfig.ReportSavePath, "traces", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".jsonl")
}

// Run the experiment for the specified number of episodes.
// The context is only checked between episodes, an episode always runs to termination.
func (e *Experiment) Run(rConfig *experimentRunConfig) error {
	agent := NewAgent(&AgentConfig{
		Policy:      e.policy,
		Environment: e.environment,
	})
	agent.Seed(rConfig.Seed)

	EPPadding := len(strconv.Itoa(rConfig.Episodes))
	NamePadding := rConfig.LongestExpNameLen
	display := rConfig.Episodes / 100
	if display == 0 {
		display = 1
	}

	wins, losses := 0, 0
	for i := 0; i < rConfig.Episodes; i++ {
		select {
		case <-rConfig.Context.Done():
			return rConfig.Context.Err()
		default:
		}

		trace, err := agent.RunEpisode(i)
		if err != nil {
			return errors.Wrapf(err, "experiment %s", e.Name)
		}
		switch {
		case trace.Reward() > 0:
			wins++
		case trace.Reward() < 0:
			losses++
		}

		if rConfig.RecordTraces {
			if err := util.AppendJSONLine(e.tracesFile(rConfig), trace); err != nil {
				return errors.Wrap(err, "recording trace")
			}
		}
		for _, a := range rConfig.Analyzers {
			a.Analyze(rConfig.CurrentRun, i, e.Name, trace)
		}

		// terminal execution display
		if (i+1)%display == 0 || i+1 == rConfig.Episodes {
			fmt.Printf("\rExp:%*s, Eps:%*d/%d, Win:%*d, Loss:%*d",
				NamePadding, e.Name, EPPadding, i+1, rConfig.Episodes, EPPadding, wins, EPPadding, losses)
		}
	}
	fmt.Println("")

	for _, a := range rConfig.Analyzers {
		if f, ok := a.(Finisher); ok {
			if err := f.Finish(e.Name, agent); err != nil {
				return errors.Wrapf(err, "experiment %s: finishing analysis", e.Name)
			}
		}
	}
	glog.V(1).Infof("Experiment %s run %d: %d wins, %d losses over %d episodes",
		e.Name, rConfig.CurrentRun, wins, losses, rConfig.Episodes)
	return nil
}

// Reset discards what the policy learnt
func (e *Experiment) Reset() {
	e.policy.Reset()
}

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs     int    // number of runs
	Episodes int    // number of episodes per run
	Seed     uint64 // run r is seeded with Seed+r

	RecordPath   string // path to store the results
	RecordTraces bool
}

// Comparison contains the different experiments to compare
// The traces obtained from the experiments are analyzed
// The analyzed datasets are then compared
type Comparison struct {
	ID          string
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	names       []string
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig) *Comparison {
	return &Comparison{
		ID:          uuid.New().String(),
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		names:       make([]string, 0),
		cConfig:     config,
	}
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	if _, ok := c.analyzers[name]; !ok {
		c.names = append(c.names, name)
	}
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) prepareRecordPath() error {
	cfg := c.cConfig
	if cfg.RecordPath == "" {
		return nil
	}
	if _, err := os.Stat(cfg.RecordPath); err == nil {
		if err := util.RemoveContents(cfg.RecordPath); err != nil {
			return err
		}
	}
	if err := util.EnsureDir(cfg.RecordPath); err != nil {
		return err
	}
	if cfg.RecordTraces {
		return util.EnsureDir(path.Join(cfg.RecordPath, "traces"))
	}
	return nil
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	if cfg.RecordPath == "" {
		return nil
	}
	out := make(map[string]interface{})
	out["id"] = c.ID
	out["runs"] = cfg.Runs
	out["episodes"] = cfg.Episodes
	out["seed"] = cfg.Seed
	out["record_traces"] = cfg.RecordTraces

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments
	out["analyzers"] = c.names

	return util.WriteJSON(path.Join(cfg.RecordPath, "comparison_config.json"), out)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	if c.cConfig.Runs <= 0 || c.cConfig.Episodes <= 0 {
		return errors.Wrapf(ErrInvalidEpisodes, "runs %d, episodes %d", c.cConfig.Runs, c.cConfig.Episodes)
	}
	if err := c.prepareRecordPath(); err != nil {
		return errors.Wrap(err, "preparing record path")
	}
	if err := c.recordConfig(); err != nil { // store configuration details to a file
		return errors.Wrap(err, "recording config")
	}
	glog.Infof("Comparison %s: %d experiments, %d runs of %d episodes",
		c.ID, len(c.Experiments), c.cConfig.Runs, c.cConfig.Episodes)

	longestNameLen := 0
	for _, e := range c.Experiments {
		if len(e.Name) > longestNameLen {
			longestNameLen = len(e.Name)
		}
	}

	for run := 0; run < c.cConfig.Runs; run++ {
		fmt.Printf("Run %d\n", run+1)
		datasets := make(map[string][]DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			if err := e.Run(c.prepareRunConfig(ctx, run, longestNameLen)); err != nil {
				return err
			}
			for name, a := range c.analyzers {
				datasets[name][i] = a.DataSet()
				a.Reset()
			}
			names[i] = e.Name
			e.Reset()
		}
		for _, name := range c.names {
			if err := c.comparators[name](run, c.cConfig.Episodes, names, datasets[name]); err != nil {
				return errors.Wrapf(err, "comparator %s", name)
			}
		}
	}
	return nil
}

// prepare the run configuration for the experiment
func (c *Comparison) prepareRunConfig(ctx context.Context, run int, longestExpNameLen int) *experimentRunConfig {
	rCfg := &experimentRunConfig{
		CurrentRun:     run,
		Episodes:       c.cConfig.Episodes,
		Seed:           c.cConfig.Seed + uint64(run),
		Analyzers:      make([]Analyzer, 0),
		Context:        ctx,
		RecordTraces:   c.cConfig.RecordTraces && c.cConfig.RecordPath != "",
		ReportSavePath: c.cConfig.RecordPath,

		LongestExpNameLen: longestExpNameLen,
	}
	for _, name := range c.names {
		rCfg.Analyzers = append(rCfg.Analyzers, c.analyzers[name])
	}
	return rCfg
}
