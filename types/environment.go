package types

import "github.com/zeu5/easy21-rl/easy21"

// Environment that the agent plays episodes against.
// Rewards are only non-zero on the terminal step.
type Environment interface {
	// Reset called at the start of each episode
	Reset() (easy21.State, error)
	// Step returns the next state, the reward and whether the episode ended
	Step(easy21.Action) (easy21.State, int, bool, error)
	// Seed reseeds the card source
	Seed(uint64)
}

var _ Environment = &easy21.Environment{}
