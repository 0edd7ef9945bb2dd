package easy21

import "github.com/pkg/errors"

var (
	// ErrEpisodeNotStarted is returned by Step before the first Reset
	ErrEpisodeNotStarted = errors.New("easy21: step before reset")
	// ErrEpisodeDone is returned by Step once the episode has terminated
	ErrEpisodeDone = errors.New("easy21: episode is done, call reset")
	// ErrInvalidAction is returned for anything other than Stick or Hit
	ErrInvalidAction = errors.New("easy21: invalid action")
	// ErrStateOutOfBounds is returned when indexing a state outside the table
	ErrStateOutOfBounds = errors.New("easy21: state out of bounds")

	ErrDeckExhausted = errors.New("easy21: deck exhausted")
	ErrInvalidCard   = errors.New("easy21: invalid card")
)
