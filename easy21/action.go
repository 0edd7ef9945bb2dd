package easy21

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Action taken by the player. The zero value is Stick.
type Action int

const (
	Stick Action = iota
	Hit
)

// NumActions is the size of the action space
const NumActions = 2

var AllActions = []Action{Stick, Hit}

func (a Action) Valid() bool {
	return a == Stick || a == Hit
}

func (a Action) Hash() string {
	return a.String()
}

func (a Action) String() string {
	switch a {
	case Stick:
		return "stick"
	case Hit:
		return "hit"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, errors.Wrapf(ErrInvalidAction, "%d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction reads the textual form of an action.
// Accepts "stick"/"hit" in any case and the indices "0"/"1".
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stick", "0":
		return Stick, nil
	case "hit", "1":
		return Hit, nil
	}
	return Stick, errors.Wrapf(ErrInvalidAction, "%q", s)
}
