// internal/game/events.go
package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/models"
)

// GameEventType is an enum-like type for broadcasting game actions.
type GameEventType string

const (
	EventRoundStart        GameEventType = "round_start"
	EventOpeningCard       GameEventType = "opening_card"
	EventOpeningRedraw     GameEventType = "opening_redraw" // a WildDrawFour went back into the deck
	EventPlayerTurn        GameEventType = "player_turn"
	EventInvalidPlay       GameEventType = "invalid_play"
	EventCardPlayed        GameEventType = "card_played"
	EventCardDrawn         GameEventType = "card_drawn"
	EventDeckReshuffled    GameEventType = "deck_reshuffled"
	EventDirectionReversed GameEventType = "direction_reversed"
	EventPlayerSkipped     GameEventType = "player_skipped"
	EventForcedDraw        GameEventType = "forced_draw"
	EventDrawStacked       GameEventType = "draw_stacked"
	EventJumpIn            GameEventType = "jump_in"
	EventColorChosen       GameEventType = "color_chosen"
	EventUnoCalled         GameEventType = "uno_called"
	EventUnoPenalty        GameEventType = "uno_penalty"
	EventRoundEnd          GameEventType = "round_end"
	EventGameEnd           GameEventType = "game_end"
)

// EventUser identifies the player an event is about.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// GameEvent holds data about an event in a consistent format for display layers.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	Round   int                    `json:"round"`
	Turn    int                    `json:"turn"`
	User    *EventUser             `json:"user,omitempty"`
	Card    *models.Card           `json:"card,omitempty"`
	Color   string                 `json:"color,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ActionLogger receives every game action for the historian. cache.Publisher implements it.
type ActionLogger interface {
	PublishGameAction(ctx context.Context, record cache.GameActionRecord) error
}

// OnGameEndFunc handles a finished game, e.g. reporting results.
type OnGameEndFunc func(gameID uuid.UUID, winner *models.Player, scores map[uuid.UUID]int)

func userOf(p *models.Player) *EventUser {
	if p == nil {
		return nil
	}
	return &EventUser{ID: p.ID, Name: p.Name}
}

// fireEvent stamps the event, hands it to BroadcastFn and logs it to the historian.
func (g *UnoGame) fireEvent(ctx context.Context, ev GameEvent) {
	ev.Round = g.Round
	ev.Turn = g.TurnID
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}

	actor := uuid.Nil
	if ev.User != nil {
		actor = ev.User.ID
	}
	payload := map[string]interface{}{}
	for k, v := range ev.Payload {
		payload[k] = v
	}
	if ev.Card != nil {
		payload["card"] = ev.Card
	}
	if ev.Color != "" {
		payload["color"] = ev.Color
	}
	g.logAction(ctx, actor, string(ev.Type), payload)
}

// logAction sends the action details to the historian queue. Failures are logged, never fatal.
func (g *UnoGame) logAction(ctx context.Context, actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if g.ActionLog == nil {
		return
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	pubCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := g.ActionLog.PublishGameAction(pubCtx, record); err != nil {
		g.log().WithError(err).WithField("action", actionType).Warn("failed to publish game action")
	}
}
