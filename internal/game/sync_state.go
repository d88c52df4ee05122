// internal/game/sync_state.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/jason-s-yu/uno/internal/referee"
)

// PublicPlayerState is what every seat may know about a player.
type PublicPlayerState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Name          string    `json:"name"`
	IsBot         bool      `json:"isBot"`
	HandSize      int       `json:"handSize"`
	GamePoints    int       `json:"gamePoints"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
}

// PublicGameState is a snapshot of the table with every hand hidden.
type PublicGameState struct {
	GameID          uuid.UUID           `json:"gameId"`
	Phase           string              `json:"phase"`
	Round           int                 `json:"round"`
	Turn            int                 `json:"turn"`
	CurrentPlayerID uuid.UUID           `json:"currentPlayerId"`
	Direction       string              `json:"direction"`
	ActiveColor     string              `json:"activeColor"`
	DrawPileSize    int                 `json:"drawPileSize"`
	DiscardSize     int                 `json:"discardSize"`
	DiscardTop      *models.Card        `json:"discardTop,omitempty"`
	Players         []PublicPlayerState `json:"players"`
}

// GetPublicGameState generates a snapshot of the game safe to show any observer.
func (g *UnoGame) GetPublicGameState() PublicGameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	st := PublicGameState{
		GameID:      g.ID,
		Phase:       g.Phase.String(),
		Round:       g.Round,
		Turn:        g.TurnID,
		Direction:   g.Direction.String(),
		ActiveColor: g.ActiveColor.String(),
	}
	if g.Deck != nil {
		st.DrawPileSize = g.Deck.DrawLen()
		st.DiscardSize = g.Deck.DiscardLen()
		if top, ok := g.Deck.PeekTopDiscard(); ok {
			st.DiscardTop = &top
		}
	}
	if len(g.Players) > 0 {
		st.CurrentPlayerID = g.Players[g.CurrentPlayerIndex].ID
	}
	for i, p := range g.Players {
		st.Players = append(st.Players, PublicPlayerState{
			PlayerID:      p.ID,
			Name:          p.Name,
			IsBot:         p.IsBot,
			HandSize:      len(p.Hand),
			GamePoints:    p.GamePoints,
			IsCurrentTurn: i == g.CurrentPlayerIndex,
		})
	}
	return st
}

// GetTurnView builds the view a player's decision provider would see right now.
func (g *UnoGame) GetTurnView(playerID uuid.UUID) (models.TurnView, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Deck == nil {
		return models.TurnView{}, fmt.Errorf("game %s has not started", g.ID)
	}
	for i, p := range g.Players {
		if p.ID == playerID {
			return g.viewFor(i), nil
		}
	}
	return models.TurnView{}, fmt.Errorf("player %s is not seated in game %s", playerID, g.ID)
}

// viewFor builds seat idx's view: their own hand in full, opponents reduced to hand sizes.
func (g *UnoGame) viewFor(idx int) models.TurnView {
	p := g.Players[idx]
	top := g.topDiscard()
	hand := make([]models.Card, len(p.Hand))
	copy(hand, p.Hand)

	view := models.TurnView{
		GameID:      g.ID,
		Round:       g.Round,
		Turn:        g.TurnID,
		PlayerID:    p.ID,
		Hand:        hand,
		TopDiscard:  top,
		ActiveColor: g.ActiveColor,
		Clockwise:   g.Direction == Clockwise,
		DrawPile:    g.Deck.DrawLen(),
		Playable:    referee.PlayableIndices(hand, top, g.ActiveColor),
	}
	for i, o := range g.Players {
		if i == idx {
			continue
		}
		view.Opponents = append(view.Opponents, models.OpponentView{
			PlayerID:      o.ID,
			Name:          o.Name,
			IsBot:         o.IsBot,
			HandSize:      len(o.Hand),
			GamePoints:    o.GamePoints,
			IsCurrentTurn: i == g.CurrentPlayerIndex,
		})
	}
	return view
}
