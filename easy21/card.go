package easy21

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// RedProbability is the chance that a drawn card subtracts from the sum
const RedProbability = 1.0 / 3.0

type Color int

const (
	Black Color = iota
	Red
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

type Card struct {
	Value int
	Color Color
}

func BlackCard(value int) Card {
	return Card{Value: value, Color: Black}
}

func RedCard(value int) Card {
	return Card{Value: value, Color: Red}
}

// Signed value of the card: positive when black, negative when red
func (c Card) Signed() int {
	if c.Color == Red {
		return -c.Value
	}
	return c.Value
}

func (c Card) Valid() bool {
	return c.Value >= MinCard && c.Value <= MaxCard && (c.Color == Black || c.Color == Red)
}

func (c Card) String() string {
	return fmt.Sprintf("%s %d", c.Color, c.Value)
}

// Deck is the only source of cards for an Environment
type Deck interface {
	// Draw a card of either colour
	Draw() (Card, error)
	// DrawBlack draws one of the initial cards, which are always black
	DrawBlack() (Card, error)
}

// Seeder is implemented by decks whose draws can be replayed from a seed
type Seeder interface {
	Seed(uint64)
}

// RandomDeck draws with replacement from an infinite deck.
// Each instance owns its random source.
type RandomDeck struct {
	rand *rand.Rand
	red  distuv.Bernoulli
}

var _ Deck = &RandomDeck{}
var _ Seeder = &RandomDeck{}

func NewRandomDeck(seed uint64) *RandomDeck {
	d := &RandomDeck{}
	d.Seed(seed)
	return d
}

func (d *RandomDeck) Seed(seed uint64) {
	src := rand.NewSource(seed)
	d.rand = rand.New(src)
	d.red = distuv.Bernoulli{P: RedProbability, Src: src}
}

func (d *RandomDeck) value() int {
	return MinCard + d.rand.Intn(MaxCard-MinCard+1)
}

func (d *RandomDeck) Draw() (Card, error) {
	card := Card{Value: d.value(), Color: Black}
	if d.red.Rand() == 1 {
		card.Color = Red
	}
	return card, nil
}

func (d *RandomDeck) DrawBlack() (Card, error) {
	return BlackCard(d.value()), nil
}

// ReplayDeck hands out a recorded sequence of cards, in order
type ReplayDeck struct {
	cards []Card
	pos   int
}

var _ Deck = &ReplayDeck{}

func NewReplayDeck(cards ...Card) *ReplayDeck {
	return &ReplayDeck{cards: cards}
}

func (d *ReplayDeck) next() (Card, error) {
	if d.pos >= len(d.cards) {
		return Card{}, errors.Wrapf(ErrDeckExhausted, "after %d cards", d.pos)
	}
	card := d.cards[d.pos]
	if !card.Valid() {
		return Card{}, errors.Wrapf(ErrInvalidCard, "card %d: %s", d.pos, card)
	}
	d.pos++
	return card, nil
}

func (d *ReplayDeck) Draw() (Card, error) {
	return d.next()
}

func (d *ReplayDeck) DrawBlack() (Card, error) {
	if d.pos < len(d.cards) && d.cards[d.pos].Color != Black {
		return Card{}, errors.Wrapf(ErrInvalidCard, "card %d: initial card must be black", d.pos)
	}
	return d.next()
}

// Drawn returns the number of cards handed out so far
func (d *ReplayDeck) Drawn() int {
	return d.pos
}

// Remaining returns the number of cards left to replay
func (d *ReplayDeck) Remaining() int {
	return len(d.cards) - d.pos
}
