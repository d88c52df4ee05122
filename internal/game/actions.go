// internal/game/actions.go
package game

import "github.com/jason-s-yu/uno/internal/models"

// Effect describes what a played card does to the turn order. It is plain data: Resolve builds
// it, the engine applies it.
type Effect struct {
	SkipCount           int  `json:"skipCount"`
	ReverseDirection    bool `json:"reverseDirection"`
	DrawCountForNext    int  `json:"drawCountForNext"`
	RequiresColorChoice bool `json:"requiresColorChoice"`
}

// IsZero reports whether the effect does nothing.
func (e Effect) IsZero() bool { return e == Effect{} }

// Resolve maps a card to its effect for a table of playerCount players. With two players a
// Reverse also skips, which hands the turn straight back.
func Resolve(card models.Card, playerCount int) Effect {
	switch card.Kind() {
	case models.KindNumber:
		return Effect{}
	case models.KindSkip:
		return Effect{SkipCount: 1}
	case models.KindReverse:
		eff := Effect{ReverseDirection: true}
		if playerCount == 2 {
			eff.SkipCount = 1
		}
		return eff
	case models.KindDrawTwo:
		return Effect{DrawCountForNext: 2, SkipCount: 1}
	case models.KindWild:
		return Effect{RequiresColorChoice: true}
	case models.KindWildDrawFour:
		return Effect{DrawCountForNext: 4, SkipCount: 1, RequiresColorChoice: true}
	}
	return Effect{}
}
