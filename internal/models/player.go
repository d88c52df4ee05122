package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Player is a seat at the table. Hand and round counters reset every round;
// GamePoints accumulates until the game ends.
type Player struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	IsBot bool      `json:"isBot"`
	Hand  []Card    `json:"hand"`

	RoundPoints   int `json:"roundPoints"`
	PenaltyPoints int `json:"penaltyPoints"`
	GamePoints    int `json:"gamePoints"`

	// Provider supplies this player's decisions.
	Provider DecisionProvider `json:"-"`
}

func NewPlayer(name string, isBot bool, provider DecisionProvider) *Player {
	return &Player{
		ID:       uuid.New(),
		Name:     name,
		IsBot:    isBot,
		Hand:     []Card{},
		Provider: provider,
	}
}

// TakeCard adds a card to the end of the hand.
func (p *Player) TakeCard(c Card) {
	p.Hand = append(p.Hand, c)
}

// RemoveCard takes the card at idx out of the hand.
func (p *Player) RemoveCard(idx int) (Card, error) {
	if idx < 0 || idx >= len(p.Hand) {
		return Card{}, fmt.Errorf("card index %d out of range for hand of %d", idx, len(p.Hand))
	}
	c := p.Hand[idx]
	p.Hand = append(p.Hand[:idx:idx], p.Hand[idx+1:]...)
	return c, nil
}

// HandPoints sums the point value of every card still held.
func (p *Player) HandPoints() int {
	total := 0
	for _, c := range p.Hand {
		total += c.Points()
	}
	return total
}

// HasUno reports whether exactly one card is left.
func (p *Player) HasUno() bool {
	return len(p.Hand) == 1
}

// StartRound clears the hand and the per-round counters.
func (p *Player) StartRound() {
	p.Hand = p.Hand[:0]
	p.RoundPoints = 0
	p.PenaltyPoints = 0
}

// EndRound folds round and penalty points into game points and zeroes both.
func (p *Player) EndRound() {
	p.GamePoints += p.RoundPoints + p.PenaltyPoints
	p.RoundPoints = 0
	p.PenaltyPoints = 0
}

// EndGame resets every counter and the hand.
func (p *Player) EndGame() {
	p.StartRound()
	p.GamePoints = 0
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (points: %d, cards: %d)", p.Name, p.GamePoints, len(p.Hand))
}
