// internal/models/view.go
package models

import "github.com/google/uuid"

// OpponentView is the public information about another seat.
type OpponentView struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Name          string    `json:"name"`
	IsBot         bool      `json:"isBot"`
	HandSize      int       `json:"handSize"`
	GamePoints    int       `json:"gamePoints"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
}

// TurnView is what a decision provider sees: its own hand in full, everyone else obfuscated.
type TurnView struct {
	GameID      uuid.UUID `json:"gameId"`
	Round       int       `json:"round"`
	Turn        int       `json:"turn"`
	PlayerID    uuid.UUID `json:"playerId"`
	Hand        []Card    `json:"hand"`
	TopDiscard  Card      `json:"topDiscard"`
	ActiveColor Color     `json:"activeColor"`
	Clockwise   bool      `json:"clockwise"`
	DrawPile    int       `json:"drawPileSize"`

	// Playable lists the indices into Hand that are legal plays right now.
	Playable []int `json:"playable"`

	// Opponents are listed in seat order, excluding the viewer.
	Opponents []OpponentView `json:"opponents"`
}

// CanPlay reports whether hand[idx] is in Playable.
func (v TurnView) CanPlay(idx int) bool {
	for _, i := range v.Playable {
		if i == idx {
			return true
		}
	}
	return false
}
