// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/jason-s-yu/uno/internal/referee"
	"github.com/sirupsen/logrus"
)

// Direction is the order in which turns pass around the table.
type Direction int8

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

func (d Direction) String() string {
	if d == CounterClockwise {
		return "counterclockwise"
	}
	return "clockwise"
}

// Phase is the lifecycle position of a game.
type Phase uint8

const (
	PhaseSetup Phase = iota
	PhaseRoundInProgress
	PhaseRoundEnd
	PhaseGameEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseRoundInProgress:
		return "round_in_progress"
	case PhaseRoundEnd:
		return "round_end"
	case PhaseGameEnd:
		return "game_end"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Result summarizes a finished game.
type Result struct {
	GameID uuid.UUID         `json:"gameId"`
	Winner *models.Player    `json:"winner"`
	Scores map[uuid.UUID]int `json:"scores"`
	Rounds int               `json:"rounds"`
}

// UnoGame holds the entire state for a single game instance in memory.
type UnoGame struct {
	ID         uuid.UUID
	HouseRules models.HouseRules

	Players []*models.Player
	Deck    *Deck

	CurrentPlayerIndex int
	Direction          Direction
	ActiveColor        models.Color

	Phase       Phase
	Round       int
	TurnID      int // increments each turn
	actionIndex int // increments for each game action for the historian

	Mu sync.Mutex

	// Rand drives every shuffle and the start-player pick. If nil at Start, a time-seeded source is used.
	Rand *rand.Rand

	// Logger receives engine diagnostics. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger

	// BroadcastFn receives every game event. If nil, no broadcast is done.
	BroadcastFn func(ev GameEvent)

	// ActionLog, if set, receives every game action for the historian.
	ActionLog ActionLogger

	// OnGameEnd is invoked once when the game is over.
	OnGameEnd OnGameEndFunc
}

// NewUnoGame builds a game for the seated players. Seats are fixed for the whole game.
func NewUnoGame(rules models.HouseRules, players []*models.Player) (*UnoGame, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if len(players) < 2 || len(players) > models.MaxPlayers {
		return nil, fmt.Errorf("%w: need 2-%d players, got %d", models.ErrInvalidConfigInput, models.MaxPlayers, len(players))
	}
	for i, p := range players {
		if p == nil || p.Provider == nil {
			return nil, fmt.Errorf("%w: seat %d has no decision provider", models.ErrInvalidConfigInput, i)
		}
	}
	id, _ := uuid.NewRandom()
	return &UnoGame{
		ID:         id,
		HouseRules: rules,
		Players:    players,
		Direction:  Clockwise,
		Phase:      PhaseSetup,
	}, nil
}

// Start builds the deck and deals the first round. Calling it twice is a no-op.
func (g *UnoGame) Start(ctx context.Context) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.start(ctx)
}

func (g *UnoGame) start(ctx context.Context) error {
	if g.Phase != PhaseSetup {
		return nil
	}
	if g.Rand == nil {
		g.Rand = newRand(0)
	}
	g.Deck = NewDeck(g.Rand)
	g.watchDeck(ctx)
	for _, p := range g.Players {
		p.EndGame()
	}
	g.log().WithField("players", len(g.Players)).Info("game started")
	return g.startRound(ctx)
}

// watchDeck reports reshuffles as events of the call currently driving the game.
func (g *UnoGame) watchDeck(ctx context.Context) {
	g.Deck.OnReshuffle = func(moved int) {
		g.log().WithField("moved", moved).Info("discard pile reshuffled into draw pile")
		g.fireEvent(ctx, GameEvent{Type: EventDeckReshuffled, Payload: map[string]interface{}{"moved": moved}})
	}
}

// Play runs turns until the game ends or ctx is cancelled.
func (g *UnoGame) Play(ctx context.Context) (Result, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.start(ctx); err != nil {
		return Result{}, err
	}
	for g.Phase != PhaseGameEnd {
		if err := g.playTurn(ctx); err != nil {
			return Result{}, err
		}
	}
	return g.result(), nil
}

// PlayTurn plays exactly one turn, starting the game first if needed.
func (g *UnoGame) PlayTurn(ctx context.Context) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase == PhaseSetup {
		if err := g.start(ctx); err != nil {
			return err
		}
	}
	return g.playTurn(ctx)
}

// GameOver reports whether a winner has been declared.
func (g *UnoGame) GameOver() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Phase == PhaseGameEnd
}

// Result returns the final standings. Before the game ends Winner is nil.
func (g *UnoGame) Result() Result {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.result()
}

func (g *UnoGame) result() Result {
	res := Result{GameID: g.ID, Scores: g.computeScores(), Rounds: g.Round}
	if g.Phase == PhaseGameEnd {
		res.Winner = referee.Leader(g.Players)
	}
	return res
}

func (g *UnoGame) computeScores() map[uuid.UUID]int {
	scores := make(map[uuid.UUID]int, len(g.Players))
	for _, p := range g.Players {
		scores[p.ID] = p.GamePoints
	}
	return scores
}

// startRound resets the deck, deals, and turns over the opening card.
func (g *UnoGame) startRound(ctx context.Context) error {
	g.Round++
	g.Deck.Reset()
	g.Direction = Clockwise
	for _, p := range g.Players {
		p.StartRound()
	}

	for i := 0; i < g.HouseRules.HandSize; i++ {
		for _, p := range g.Players {
			c, err := g.Deck.Draw()
			if err != nil {
				return fmt.Errorf("dealing round %d: %w", g.Round, err)
			}
			p.TakeCard(c)
		}
	}

	opening, err := g.drawOpeningCard(ctx)
	if err != nil {
		return err
	}
	g.Deck.Discard(opening)
	if !opening.IsWild() {
		g.ActiveColor = opening.Color()
	}
	g.CurrentPlayerIndex = g.Rand.Intn(len(g.Players))
	g.Phase = PhaseRoundInProgress

	g.log().WithFields(logrus.Fields{
		"opening": opening.String(),
		"starter": g.Players[g.CurrentPlayerIndex].Name,
	}).Info("round started")
	g.fireEvent(ctx, GameEvent{
		Type: EventRoundStart,
		User: userOf(g.Players[g.CurrentPlayerIndex]),
		Payload: map[string]interface{}{
			"handSize": g.HouseRules.HandSize,
		},
	})
	g.fireEvent(ctx, GameEvent{Type: EventOpeningCard, Card: &opening})

	return g.applyOpeningEffect(ctx, opening)
}

// drawOpeningCard turns over cards until one is not a WildDrawFour. Rejected cards go back into
// the draw pile, which is reshuffled.
func (g *UnoGame) drawOpeningCard(ctx context.Context) (models.Card, error) {
	for {
		c, err := g.Deck.Draw()
		if err != nil {
			return models.Card{}, fmt.Errorf("opening card: %w", err)
		}
		if c.Kind() != models.KindWildDrawFour {
			return c, nil
		}
		g.Deck.ReturnToDrawPile(c)
		g.fireEvent(ctx, GameEvent{Type: EventOpeningRedraw, Card: &c})
	}
}

// applyOpeningEffect applies the opening card's effect as if it had been played at the start
// player. The start player absorbs any forced draw and is the one skipped.
func (g *UnoGame) applyOpeningEffect(ctx context.Context, opening models.Card) error {
	eff := Resolve(opening, len(g.Players))
	if eff.IsZero() {
		return nil
	}
	if eff.ReverseDirection {
		g.reverse(ctx)
	}
	if eff.RequiresColorChoice {
		if err := g.chooseColor(ctx, g.CurrentPlayerIndex); err != nil {
			return err
		}
	}
	if eff.DrawCountForNext > 0 {
		if err := g.forceDraw(ctx, g.CurrentPlayerIndex, eff.DrawCountForNext); err != nil {
			return err
		}
	}
	for i := 0; i < eff.SkipCount; i++ {
		g.fireEvent(ctx, GameEvent{Type: EventPlayerSkipped, User: userOf(g.Players[g.CurrentPlayerIndex])})
		g.CurrentPlayerIndex = g.offset(g.CurrentPlayerIndex, 1)
	}
	return nil
}

// endRound scores the round and either starts the next one or ends the game.
func (g *UnoGame) endRound(ctx context.Context, winnerIdx int) error {
	g.Phase = PhaseRoundEnd
	winner := g.Players[winnerIdx]
	referee.CalculateRoundPoints(g.Players, winner)

	roundScores := make(map[string]interface{}, len(g.Players))
	for _, p := range g.Players {
		roundScores[p.ID.String()] = map[string]int{
			"roundPoints":   p.RoundPoints,
			"penaltyPoints": p.PenaltyPoints,
		}
		p.EndRound()
	}

	g.log().WithFields(logrus.Fields{
		"winner": winner.Name,
		"points": winner.GamePoints,
	}).Info("round finished")
	g.fireEvent(ctx, GameEvent{
		Type:    EventRoundEnd,
		User:    userOf(winner),
		Payload: map[string]interface{}{"scores": roundScores},
	})

	if referee.CheckGameWinCondition(g.Players, g.HouseRules.WinningScore) {
		g.endGame(ctx)
		return nil
	}
	return g.startRound(ctx)
}

// endGame declares the leader the winner and reports the standings.
func (g *UnoGame) endGame(ctx context.Context) {
	g.Phase = PhaseGameEnd
	winner := referee.Leader(g.Players)
	scores := g.computeScores()

	g.log().WithFields(logrus.Fields{
		"winner": winner.Name,
		"points": winner.GamePoints,
		"rounds": g.Round,
	}).Info("game over")

	payload := make(map[string]interface{}, len(scores))
	for id, s := range scores {
		payload[id.String()] = s
	}
	g.fireEvent(ctx, GameEvent{
		Type:    EventGameEnd,
		User:    userOf(winner),
		Payload: map[string]interface{}{"scores": payload, "rounds": g.Round},
	})

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winner, scores)
	}
}

// offset returns the seat steps places away from seat from in the current direction.
func (g *UnoGame) offset(from, steps int) int {
	n := len(g.Players)
	return ((from+steps*int(g.Direction))%n + n) % n
}

// reverse flips the direction of play.
func (g *UnoGame) reverse(ctx context.Context) {
	g.Direction = -g.Direction
	g.fireEvent(ctx, GameEvent{Type: EventDirectionReversed, Payload: map[string]interface{}{"direction": g.Direction.String()}})
}

// advanceTurn moves the pointer steps seats along, reporting every seat passed over as skipped.
func (g *UnoGame) advanceTurn(ctx context.Context, steps int) {
	for i := 1; i < steps; i++ {
		g.CurrentPlayerIndex = g.offset(g.CurrentPlayerIndex, 1)
		g.fireEvent(ctx, GameEvent{Type: EventPlayerSkipped, User: userOf(g.Players[g.CurrentPlayerIndex])})
	}
	if steps > 0 {
		g.CurrentPlayerIndex = g.offset(g.CurrentPlayerIndex, 1)
	}
}

// drawCards moves n cards from the deck into a player's hand.
func (g *UnoGame) drawCards(ctx context.Context, idx, n int) ([]models.Card, error) {
	p := g.Players[idx]
	drawn := make([]models.Card, 0, n)
	for i := 0; i < n; i++ {
		c, err := g.Deck.Draw()
		if err != nil {
			g.log().WithError(err).WithFields(logrus.Fields{
				"player": p.Name,
				"wanted": n,
			}).Error("cannot draw")
			return drawn, fmt.Errorf("drawing for %s: %w", p.Name, err)
		}
		p.TakeCard(c)
		drawn = append(drawn, c)
	}
	return drawn, nil
}

// forceDraw makes a player draw n cards as a card effect.
func (g *UnoGame) forceDraw(ctx context.Context, idx, n int) error {
	if _, err := g.drawCards(ctx, idx, n); err != nil {
		return err
	}
	g.fireEvent(ctx, GameEvent{
		Type:    EventForcedDraw,
		User:    userOf(g.Players[idx]),
		Payload: map[string]interface{}{"count": n},
	})
	return nil
}

// chooseColor asks a player for the new active color until they name one of the four colors.
func (g *UnoGame) chooseColor(ctx context.Context, idx int) error {
	p := g.Players[idx]
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := p.Provider.ChooseColor(ctx, g.viewFor(idx))
		if err != nil {
			return fmt.Errorf("%s choosing color: %w", p.Name, err)
		}
		if c.IsPlayable() {
			g.ActiveColor = c
			g.fireEvent(ctx, GameEvent{Type: EventColorChosen, User: userOf(p), Color: c.String()})
			return nil
		}
		g.log().WithFields(logrus.Fields{"player": p.Name, "color": c.String()}).Debug("rejected color choice")
	}
}

// checkUno asks a player left with one card to declare it, penalizing silence.
func (g *UnoGame) checkUno(ctx context.Context, idx int) error {
	p := g.Players[idx]
	if !p.HasUno() {
		return nil
	}
	declared, err := p.Provider.DeclareUno(ctx, g.viewFor(idx))
	if err != nil {
		return fmt.Errorf("%s declaring uno: %w", p.Name, err)
	}
	if declared {
		g.fireEvent(ctx, GameEvent{Type: EventUnoCalled, User: userOf(p)})
		return nil
	}

	n := referee.ApplyUnoPenalty(p, g.HouseRules.UnoPenaltyCards)
	g.log().WithField("player", p.Name).Debug("missed uno call")
	if _, err := g.drawCards(ctx, idx, n); err != nil {
		return err
	}
	g.fireEvent(ctx, GameEvent{
		Type: EventUnoPenalty,
		User: userOf(p),
		Payload: map[string]interface{}{
			"cards":  n,
			"points": n * referee.PenaltyPointsPerCard,
		},
	})
	return nil
}

// topDiscard returns the visible discard. A round in progress always has one.
func (g *UnoGame) topDiscard() models.Card {
	top, _ := g.Deck.PeekTopDiscard()
	return top
}

// IsFatal reports whether err is a game fault: neither a recoverable invalid play nor the
// caller cancelling the context.
func IsFatal(err error) bool {
	switch {
	case err == nil, errors.Is(err, ErrInvalidPlay):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
