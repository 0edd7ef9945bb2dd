package easy21

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	RewardLoss = -1
	RewardDraw = 0
	RewardWin  = 1
)

// DealMode selects how many initial cards the player receives on Reset
type DealMode int

const (
	// DealOneCard gives one black card to the dealer and one to the player
	DealOneCard DealMode = iota
	// DealTwoPlayerCards gives the player two black cards instead of one
	DealTwoPlayerCards
)

func (m DealMode) String() string {
	if m == DealTwoPlayerCards {
		return "two"
	}
	return "one"
}

func ParseDealMode(s string) (DealMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "one", "1":
		return DealOneCard, nil
	case "two", "2":
		return DealTwoPlayerCards, nil
	}
	return DealOneCard, errors.Errorf("easy21: unknown deal mode %q", s)
}

type Config struct {
	Seed uint64
	Deal DealMode
	// Deck overrides the seeded RandomDeck when set
	Deck Deck
}

// Environment simulates one Easy21 episode at a time
type Environment struct {
	deck Deck
	deal DealMode

	dealerShowing int
	dealerSum     int
	playerSum     int

	started bool
	done    bool
}

func NewEnvironment(config *Config) *Environment {
	deck := config.Deck
	if deck == nil {
		deck = NewRandomDeck(config.Seed)
	}
	return &Environment{
		deck: deck,
		deal: config.Deal,
		done: true,
	}
}

// Seed reseeds the deck. Decks that cannot be seeded are left untouched.
func (e *Environment) Seed(seed uint64) {
	if s, ok := e.deck.(Seeder); ok {
		s.Seed(seed)
	}
}

// Reset deals the initial cards and starts a new episode
func (e *Environment) Reset() (State, error) {
	dealer, err := e.deck.DrawBlack()
	if err != nil {
		return State{}, errors.Wrap(err, "dealing dealer card")
	}
	player, err := e.deck.DrawBlack()
	if err != nil {
		return State{}, errors.Wrap(err, "dealing player card")
	}
	playerSum := player.Value
	if e.deal == DealTwoPlayerCards {
		second, err := e.deck.DrawBlack()
		if err != nil {
			return State{}, errors.Wrap(err, "dealing second player card")
		}
		playerSum += second.Value
	}

	e.dealerShowing = dealer.Value
	e.dealerSum = dealer.Value
	e.playerSum = playerSum
	e.started = true
	e.done = false
	return e.State(), nil
}

// Step applies the action and returns the next state, the reward and whether the episode ended
func (e *Environment) Step(a Action) (State, int, bool, error) {
	if !e.started {
		return State{}, 0, false, ErrEpisodeNotStarted
	}
	if e.done {
		return e.State(), 0, true, ErrEpisodeDone
	}
	if !a.Valid() {
		return e.State(), 0, false, errors.Wrapf(ErrInvalidAction, "%d", int(a))
	}

	if a == Hit {
		card, err := e.deck.Draw()
		if err != nil {
			return e.State(), 0, false, errors.Wrap(err, "player draw")
		}
		e.playerSum += card.Signed()
		if !inSumRange(e.playerSum) {
			e.done = true
			return e.State(), RewardLoss, true, nil
		}
		return e.State(), RewardDraw, false, nil
	}

	e.done = true
	reward, err := e.dealerPlay()
	if err != nil {
		return e.State(), 0, true, err
	}
	return e.State(), reward, true, nil
}

// dealerPlay draws for the dealer until it reaches the threshold or busts
func (e *Environment) dealerPlay() (int, error) {
	if !inSumRange(e.dealerSum) {
		panic(fmt.Sprintf("easy21: dealer sum %d out of range before drawing", e.dealerSum))
	}
	for e.dealerSum < DealerThreshold {
		card, err := e.deck.Draw()
		if err != nil {
			return 0, errors.Wrap(err, "dealer draw")
		}
		e.dealerSum += card.Signed()
		if !inSumRange(e.dealerSum) {
			return RewardWin, nil
		}
	}

	switch {
	case e.playerSum > e.dealerSum:
		return RewardWin, nil
	case e.playerSum < e.dealerSum:
		return RewardLoss, nil
	}
	return RewardDraw, nil
}

func (e *Environment) State() State {
	return State{Dealer: e.dealerShowing, Player: e.playerSum}
}

func (e *Environment) DealerSum() int {
	return e.dealerSum
}

func (e *Environment) Done() bool {
	return e.done
}

// ValidActions returns both actions while the episode is in progress
func (e *Environment) ValidActions() []Action {
	if e.done {
		return []Action{}
	}
	return []Action{Stick, Hit}
}

func (e *Environment) Render() string {
	if !e.started {
		return "Environment not initialized. Call Reset()."
	}
	status := ""
	if e.done {
		status = " (terminal)"
	}
	return fmt.Sprintf("Dealer shows: %d | Player sum: %d%s", e.dealerShowing, e.playerSum, status)
}
