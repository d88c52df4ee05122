// internal/game/deck.go
package game

import (
	"fmt"
	"math/rand"

	"github.com/jason-s-yu/uno/internal/models"
)

// DeckSize is the number of cards in one deck generation.
const DeckSize = 108

// Deck owns the draw pile and the discard pile. Both slices keep their top card at the end.
type Deck struct {
	drawPile    []models.Card
	discardPile []models.Card
	rng         *rand.Rand

	// OnReshuffle, if set, is called after the discard pile is shuffled back into the draw pile.
	OnReshuffle func(moved int)
}

// NewDeck builds a full, shuffled deck. A nil rng gets a time-seeded source.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = newRand(0)
	}
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// buildCards returns the 108-card composition in a fixed order.
func buildCards() []models.Card {
	cards := make([]models.Card, 0, DeckSize)
	mustAdd := func(c models.Card, err error) {
		if err != nil {
			// the composition below is static; a failure here is a programming error
			panic(fmt.Sprintf("building deck: %v", err))
		}
		cards = append(cards, c)
	}

	for _, color := range models.PlayableColors {
		// one 0, two each of 1-9
		mustAdd(models.NewNumberCard(color, 0))
		for n := 1; n <= 9; n++ {
			mustAdd(models.NewNumberCard(color, n))
			mustAdd(models.NewNumberCard(color, n))
		}
		// two each of the colored action cards
		for i := 0; i < 2; i++ {
			mustAdd(models.NewActionCard(color, models.KindSkip))
			mustAdd(models.NewActionCard(color, models.KindReverse))
			mustAdd(models.NewActionCard(color, models.KindDrawTwo))
		}
	}
	for i := 0; i < 4; i++ {
		mustAdd(models.NewActionCard(models.ColorWild, models.KindWild))
		mustAdd(models.NewActionCard(models.ColorWild, models.KindWildDrawFour))
	}
	return cards
}

// Reset starts a new deck generation: both piles are cleared, the full composition is rebuilt and
// the draw pile shuffled.
func (d *Deck) Reset() {
	d.drawPile = buildCards()
	d.discardPile = d.discardPile[:0]
	d.shuffle(d.drawPile)
}

func (d *Deck) shuffle(cards []models.Card) {
	d.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Draw pops the top of the draw pile, reshuffling the discard pile first if the draw pile is empty.
// ErrDeckExhausted means no card is left anywhere outside the hands.
func (d *Deck) Draw() (models.Card, error) {
	if len(d.drawPile) == 0 {
		d.ReshuffleFromDiscard()
	}
	if len(d.drawPile) == 0 {
		return models.Card{}, fmt.Errorf("%w: draw pile empty, %d card(s) in discard pile", ErrDeckExhausted, len(d.discardPile))
	}
	idx := len(d.drawPile) - 1
	card := d.drawPile[idx]
	d.drawPile = d.drawPile[:idx]
	return card, nil
}

// Discard puts card on top of the discard pile.
func (d *Deck) Discard(card models.Card) {
	d.discardPile = append(d.discardPile, card)
}

// PeekTopDiscard returns the top of the discard pile, or false if nothing was discarded yet.
func (d *Deck) PeekTopDiscard() (models.Card, bool) {
	if len(d.discardPile) == 0 {
		return models.Card{}, false
	}
	return d.discardPile[len(d.discardPile)-1], true
}

// ReshuffleFromDiscard moves every discard except the top one into the draw pile and shuffles it.
// The visible top of the discard pile does not change.
func (d *Deck) ReshuffleFromDiscard() {
	if len(d.discardPile) <= 1 {
		return
	}
	top := d.discardPile[len(d.discardPile)-1]
	rest := d.discardPile[:len(d.discardPile)-1]

	d.drawPile = append(d.drawPile, rest...)
	d.shuffle(d.drawPile)
	d.discardPile = []models.Card{top}

	if d.OnReshuffle != nil {
		d.OnReshuffle(len(rest))
	}
}

// ReturnToDrawPile puts a drawn card back into the draw pile and shuffles it.
func (d *Deck) ReturnToDrawPile(card models.Card) {
	d.drawPile = append(d.drawPile, card)
	d.shuffle(d.drawPile)
}

func (d *Deck) DrawLen() int    { return len(d.drawPile) }
func (d *Deck) DiscardLen() int { return len(d.discardPile) }

// DrawPile returns a copy of the draw pile, top card first.
func (d *Deck) DrawPile() []models.Card { return topFirst(d.drawPile) }

// DiscardPile returns a copy of the discard pile, top card first.
func (d *Deck) DiscardPile() []models.Card { return topFirst(d.discardPile) }

func topFirst(pile []models.Card) []models.Card {
	out := make([]models.Card, len(pile))
	for i, c := range pile {
		out[len(pile)-1-i] = c
	}
	return out
}
