package easy21

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	MinCard = 1
	MaxCard = 10

	MinSum = 1
	MaxSum = 21

	// DealerThreshold is the sum at which the dealer stops drawing
	DealerThreshold = 17

	NumDealerStates = MaxCard - MinCard + 1
	NumPlayerStates = MaxSum - MinSum + 1
	NumStates       = NumDealerStates * NumPlayerStates
)

// State observed by the player: the dealer's first card and the player's running sum.
// The player sum may fall outside [MinSum, MaxSum] on the terminal step of a bust.
type State struct {
	Dealer int `json:"dealer"`
	Player int `json:"player"`
}

func (s State) Hash() string {
	return fmt.Sprintf("(%d, %d)", s.Dealer, s.Player)
}

func (s State) String() string {
	return s.Hash()
}

func (s State) InBounds() bool {
	return s.Dealer >= MinCard && s.Dealer <= MaxCard && inSumRange(s.Player)
}

// StateIndex maps a state to its zero based (dealer, player) coordinates
func StateIndex(s State) (int, int, error) {
	if !s.InBounds() {
		return 0, 0, errors.Wrapf(ErrStateOutOfBounds, "state %s", s)
	}
	return s.Dealer - MinCard, s.Player - MinSum, nil
}

// StateAt is the inverse of StateIndex
func StateAt(dealer, player int) State {
	return State{Dealer: dealer + MinCard, Player: player + MinSum}
}

// States lists every in-bounds state, dealer major
func States() []State {
	states := make([]State, 0, NumStates)
	for d := 0; d < NumDealerStates; d++ {
		for p := 0; p < NumPlayerStates; p++ {
			states = append(states, StateAt(d, p))
		}
	}
	return states
}

func inSumRange(sum int) bool {
	return sum >= MinSum && sum <= MaxSum
}
