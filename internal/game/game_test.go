// internal/game/game_test.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/bot"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster collects events instead of displaying them.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []GameEvent
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.events = append(mb.events, ev)
}

func (mb *mockBroadcaster) count(typ GameEventType) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	n := 0
	for _, ev := range mb.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// scripted is a decision provider that replays fixed answers.
type scripted struct {
	decisions []models.Decision // exhausted means draw
	colors    []models.Color    // exhausted means red
	skipUno   bool
	playDrawn bool
	stack     bool
	jump      bool

	decideCalls int
	colorCalls  int
	unoCalls    int
}

func (s *scripted) Decide(_ context.Context, _ models.TurnView) (models.Decision, error) {
	s.decideCalls++
	if len(s.decisions) == 0 {
		return models.Draw(), nil
	}
	d := s.decisions[0]
	s.decisions = s.decisions[1:]
	return d, nil
}

func (s *scripted) ChooseColor(_ context.Context, _ models.TurnView) (models.Color, error) {
	s.colorCalls++
	if len(s.colors) == 0 {
		return models.ColorRed, nil
	}
	c := s.colors[0]
	s.colors = s.colors[1:]
	return c, nil
}

func (s *scripted) DeclareUno(_ context.Context, _ models.TurnView) (bool, error) {
	s.unoCalls++
	return !s.skipUno, nil
}

func (s *scripted) PlayDrawn(_ context.Context, _ models.TurnView, _ models.Card) (bool, error) {
	return s.playDrawn, nil
}

func (s *scripted) StackDraw(_ context.Context, _ models.TurnView, candidates []int, _ int) (int, bool, error) {
	if !s.stack {
		return 0, false, nil
	}
	return candidates[0], true, nil
}

func (s *scripted) JumpIn(_ context.Context, _ models.TurnView, candidates []int) (int, bool, error) {
	if !s.jump {
		return 0, false, nil
	}
	return candidates[0], true, nil
}

// recordingLog captures historian records in memory.
type recordingLog struct {
	records []cache.GameActionRecord
}

func (r *recordingLog) PublishGameAction(_ context.Context, rec cache.GameActionRecord) error {
	r.records = append(r.records, rec)
	return nil
}

// setupTestGame seats one scripted provider per player and puts the game mid-round without
// dealing, so each test can lay out the table itself.
func setupTestGame(t *testing.T, rules models.HouseRules, provs ...*scripted) (*UnoGame, *mockBroadcaster) {
	t.Helper()
	players := make([]*models.Player, len(provs))
	for i, p := range provs {
		players[i] = models.NewPlayer(fmt.Sprintf("P%d", i), false, p)
	}
	g, err := NewUnoGame(rules, players)
	require.NoError(t, err)

	mb := &mockBroadcaster{}
	g.BroadcastFn = mb.broadcastFn
	g.Rand = newRand(1)
	g.Deck = NewDeck(g.Rand)
	g.Phase = PhaseRoundInProgress
	g.Round = 1
	return g, mb
}

// layTable sets the discard top, the draw pile (last card drawn first) and each hand.
func layTable(g *UnoGame, top models.Card, draw []models.Card, hands ...[]models.Card) {
	g.Deck.discardPile = []models.Card{top}
	g.Deck.drawPile = draw
	g.ActiveColor = top.Color()
	for i, h := range hands {
		g.Players[i].Hand = h
	}
}

func fillers(t *testing.T, n int) []models.Card {
	out := make([]models.Card, n)
	for i := range out {
		out[i] = num(t, models.ColorYellow, i%10)
	}
	return out
}

func TestNewUnoGameValidation(t *testing.T) {
	rules := models.DefaultHouseRules()
	one := []*models.Player{models.NewPlayer("A", false, &scripted{})}
	_, err := NewUnoGame(rules, one)
	assert.ErrorIs(t, err, models.ErrInvalidConfigInput)

	noProvider := []*models.Player{models.NewPlayer("A", false, &scripted{}), models.NewPlayer("B", false, nil)}
	_, err = NewUnoGame(rules, noProvider)
	assert.ErrorIs(t, err, models.ErrInvalidConfigInput)

	bad := rules
	bad.WinningScore = 0
	_, err = NewUnoGame(bad, append(one, models.NewPlayer("B", false, &scripted{})))
	assert.ErrorIs(t, err, models.ErrInvalidConfigInput)
}

func TestReverseWithTwoPlayersReturnsTurn(t *testing.T) {
	a := &scripted{decisions: []models.Decision{models.Play(0)}}
	b := &scripted{}
	g, mb := setupTestGame(t, models.DefaultHouseRules(), a, b)
	layTable(g, num(t, models.ColorRed, 5), fillers(t, 5),
		[]models.Card{act(t, models.ColorRed, models.KindReverse), num(t, models.ColorBlue, 1), num(t, models.ColorBlue, 2)},
		[]models.Card{num(t, models.ColorGreen, 3), num(t, models.ColorGreen, 4)},
	)

	require.NoError(t, g.PlayTurn(context.Background()))
	assert.Equal(t, 0, g.CurrentPlayerIndex, "the opponent is skipped")
	assert.Equal(t, CounterClockwise, g.Direction)
	assert.Zero(t, b.decideCalls)
	assert.Len(t, g.Players[1].Hand, 2)
	assert.Equal(t, 1, mb.count(EventPlayerSkipped))
	assert.Equal(t, 1, mb.count(EventDirectionReversed))
}

func TestDrawTwoHitsNextPlayerAndSkipsThem(t *testing.T) {
	p0 := &scripted{decisions: []models.Decision{models.Play(0)}}
	p1, p2, p3 := &scripted{}, &scripted{}, &scripted{}
	g, _ := setupTestGame(t, models.DefaultHouseRules(), p0, p1, p2, p3)
	layTable(g, num(t, models.ColorRed, 5), fillers(t, 4),
		[]models.Card{act(t, models.ColorRed, models.KindDrawTwo), num(t, models.ColorBlue, 1), num(t, models.ColorBlue, 2)},
		fillers(t, 3), fillers(t, 3), fillers(t, 3),
	)

	require.NoError(t, g.PlayTurn(context.Background()))
	assert.Len(t, g.Players[1].Hand, 5, "exactly two cards drawn")
	assert.Len(t, g.Players[2].Hand, 3)
	assert.Equal(t, 2, g.CurrentPlayerIndex)
	assert.Zero(t, p1.decideCalls)
	assert.Equal(t, 2, g.Deck.DrawLen())
}

func TestReverseTwiceRestoresDirection(t *testing.T) {
	p0 := &scripted{decisions: []models.Decision{models.Play(0)}}
	p1 := &scripted{}
	p2 := &scripted{decisions: []models.Decision{models.Play(0)}}
	g, _ := setupTestGame(t, models.DefaultHouseRules(), p0, p1, p2)
	layTable(g, num(t, models.ColorRed, 5), fillers(t, 5),
		[]models.Card{act(t, models.ColorRed, models.KindReverse), num(t, models.ColorBlue, 1), num(t, models.ColorBlue, 2)},
		fillers(t, 3),
		[]models.Card{act(t, models.ColorGreen, models.KindReverse), num(t, models.ColorBlue, 3), num(t, models.ColorBlue, 4)},
	)

	ctx := context.Background()
	require.NoError(t, g.PlayTurn(ctx))
	assert.Equal(t, CounterClockwise, g.Direction)
	assert.Equal(t, 2, g.CurrentPlayerIndex, "counterclockwise from seat 0 wraps to the last seat")

	require.NoError(t, g.PlayTurn(ctx))
	assert.Equal(t, Clockwise, g.Direction)
	assert.Equal(t, 0, g.CurrentPlayerIndex)
	assert.Equal(t, models.ColorGreen, g.ActiveColor)
}

func TestInvalidPlayIsResolicited(t *testing.T) {
	p0 := &scripted{decisions: []models.Decision{models.Play(7), models.Play(1), models.Play(0)}}
	g, mb := setupTestGame(t, models.DefaultHouseRules(), p0, &scripted{})
	layTable(g, num(t, models.ColorRed, 5), fillers(t, 5),
		[]models.Card{num(t, models.ColorRed, 8), num(t, models.ColorBlue, 1), num(t, models.ColorBlue, 2)},
		fillers(t, 3),
	)

	require.NoError(t, g.PlayTurn(context.Background()))
	assert.Equal(t, 3, p0.decideCalls)
	assert.Equal(t, 2, mb.count(EventInvalidPlay))
	assert.Len(t, g.Players[0].Hand, 2)
	top, _ := g.Deck.PeekTopDiscard()
	assert.Equal(t, "red 8", top.String())
	assert.Equal(t, 1, g.CurrentPlayerIndex)
}

func TestWildChoosesColorAndRejectsWild(t *testing.T) {
	p0 := &scripted{
		decisions: []models.Decision{models.Play(0)},
		colors:    []models.Color{models.ColorWild, models.ColorGreen},
	}
	g, mb := setupTestGame(t, models.DefaultHouseRules(), p0, &scripted{})
	layTable(g, num(t, models.ColorRed, 5), fillers(t, 5),
		[]models.Card{act(t, models.ColorWild, models.KindWild), num(t, models.ColorBlue, 1), num(t, models.ColorBlue, 2)},
		fillers(t, 3),
	)

	require.NoError(t, g.PlayTurn(context.Background()))
	assert.Equal(t, 2, p0.colorCalls)
	assert.Equal(t, models.ColorGreen, g.ActiveColor)
	assert.Equal(t, 1, mb.count(EventColorChosen))
}

func TestUnoDeclaration(t *testing.T) {
	t.Run("called", func(t *testing.T) {
		p0 := &scripted{decisions: []models.Decision{models.Play(0)}}
		g, mb := setupTestGame(t, models.DefaultHouseRules(), p0, &scripted{})
		layTable(g, num(t, models.ColorRed, 5), fillers(t, 5),
			[]models.Card{num(t, models.ColorRed, 1), num(t, models.ColorBlue, 2)},
			fillers(t, 3),
		)
		require.NoError(t, g.PlayTurn(context.Background()))
		assert.Equal(t, 1, p0.unoCalls)
		assert.Len(t, g.Players[0].Hand, 1)
		assert.Zero(t, g.Players[0].PenaltyPoints)
		assert.Equal(t, 1, mb.count(EventUnoCalled))
	})

	t.Run("missed", func(t *testing.T) {
		p0 := &scripted{decisions: []models.Decision{models.Play(0)}, skipUno: true}
		g, mb := setupTestGame(t, models.DefaultHouseRules(), p0, &scripted{})
		layTable(g, num(t, models.ColorRed, 5), fillers(t, 5),
			[]models.Card{num(t, models.ColorRed, 1), num(t, models.ColorBlue, 2)},
			fillers(t, 3),
		)
		require.NoError(t, g.PlayTurn(context.Background()))
		assert.Len(t, g.Players[0].Hand, 3, "two penalty cards drawn")
		assert.Equal(t, 20, g.Players[0].PenaltyPoints)
		assert.Equal(t, 1, mb.count(EventUnoPenalty))
	})

	t.Run("not asked with more cards", func(t *testing.T) {
		p0 := &scripted{decisions: []models.Decision{models.Play(0)}}
		g, _ := setupTestGame(t, models.DefaultHouseRules(), p0, &scripted{})
		layTable(g, num(t, models.ColorRed, 5), fillers(t, 5), fillers(t, 3), fillers(t, 3))
		g.Players[0].Hand[0] = num(t, models.ColorRed, 2)
		require.NoError(t, g.PlayTurn(context.Background()))
		assert.Zero(t, p0.unoCalls)
	})
}

func TestDrawnCardMayBePlayed(t *testing.T) {
	red7 := num(t, models.ColorRed, 7)

	t.Run("played", func(t *testing.T) {
		p0 := &scripted{playDrawn: true}
		g, mb := setupTestGame(t, models.DefaultHouseRules(), p0, &scripted{})
		layTable(g, num(t, models.ColorRed, 5), []models.Card{num(t, models.ColorBlue, 1), red7},
			[]models.Card{num(t, models.ColorBlue, 2), num(t, models.ColorBlue, 3)},
			fillers(t, 3),
		)
		require.NoError(t, g.PlayTurn(context.Background()))
		top, _ := g.Deck.PeekTopDiscard()
		assert.Equal(t, red7.ID(), top.ID())
		assert.Len(t, g.Players[0].Hand, 2)
		assert.Equal(t, 1, mb.count(EventCardDrawn))
		assert.Equal(t, 1, mb.count(EventCardPlayed))
		assert.Equal(t, 1, g.CurrentPlayerIndex)
	})

	t.Run("kept", func(t *testing.T) {
		p0 := &scripted{}
		g, _ := setupTestGame(t, models.DefaultHouseRules(), p0, &scripted{})
		layTable(g, num(t, models.ColorRed, 5), []models.Card{red7},
			[]models.Card{num(t, models.ColorBlue, 2), num(t, models.ColorBlue, 3)},
			fillers(t, 3),
		)
		require.NoError(t, g.PlayTurn(context.Background()))
		assert.Len(t, g.Players[0].Hand, 3)
		assert.Equal(t, 1, g.CurrentPlayerIndex)
	})
}

// fourSeatRoundEnd lays out seat 0 about to go out while the others hold 12, 8 and 17 points.
func fourSeatRoundEnd(t *testing.T, rules models.HouseRules) (*UnoGame, *mockBroadcaster) {
	g, mb := setupTestGame(t, rules,
		&scripted{decisions: []models.Decision{models.Play(0)}}, &scripted{}, &scripted{}, &scripted{})
	layTable(g, num(t, models.ColorRed, 5), fillers(t, 5),
		[]models.Card{num(t, models.ColorRed, 3)},
		[]models.Card{num(t, models.ColorRed, 5), num(t, models.ColorRed, 7)},
		[]models.Card{num(t, models.ColorBlue, 8)},
		[]models.Card{num(t, models.ColorGreen, 9), num(t, models.ColorYellow, 8)},
	)
	return g, mb
}

func TestRoundEndScoresAndDealsNextRound(t *testing.T) {
	g, mb := fourSeatRoundEnd(t, models.DefaultHouseRules())
	g.Players[0].PenaltyPoints = 20

	require.NoError(t, g.PlayTurn(context.Background()))
	assert.Equal(t, 57, g.Players[0].GamePoints, "37 from the table plus 20 penalty")
	assert.Equal(t, 12, g.Players[1].GamePoints)
	assert.Equal(t, 8, g.Players[2].GamePoints)
	assert.Equal(t, 17, g.Players[3].GamePoints)
	for _, p := range g.Players {
		assert.Zero(t, p.RoundPoints)
		assert.Zero(t, p.PenaltyPoints)
	}

	assert.Equal(t, 2, g.Round)
	assert.Equal(t, PhaseRoundInProgress, g.Phase)
	assert.Equal(t, 1, mb.count(EventRoundEnd))
	assert.Equal(t, 1, mb.count(EventRoundStart))
	assertConserved(t, g)
}

func TestGameEndsAtWinningScore(t *testing.T) {
	rules := models.DefaultHouseRules()
	rules.WinningScore = 37
	g, mb := fourSeatRoundEnd(t, rules)

	var gotWinner *models.Player
	var gotScores map[uuid.UUID]int
	g.OnGameEnd = func(_ uuid.UUID, winner *models.Player, scores map[uuid.UUID]int) {
		gotWinner, gotScores = winner, scores
	}

	ctx := context.Background()
	require.NoError(t, g.PlayTurn(ctx))
	assert.True(t, g.GameOver())
	require.NotNil(t, gotWinner)
	assert.Equal(t, "P0", gotWinner.Name)
	assert.Equal(t, 37, gotScores[gotWinner.ID])
	assert.Equal(t, 1, mb.count(EventGameEnd))

	res := g.Result()
	assert.Same(t, gotWinner, res.Winner)
	assert.Equal(t, 1, res.Rounds)

	assert.ErrorIs(t, g.PlayTurn(ctx), ErrGameOver)
}

func TestForcedDrawCountsBeforeScoring(t *testing.T) {
	p0 := &scripted{decisions: []models.Decision{models.Play(0)}}
	g, _ := setupTestGame(t, models.DefaultHouseRules(), p0, &scripted{})
	layTable(g, num(t, models.ColorRed, 5), []models.Card{num(t, models.ColorBlue, 5), num(t, models.ColorBlue, 6)},
		[]models.Card{act(t, models.ColorRed, models.KindDrawTwo)},
		[]models.Card{num(t, models.ColorRed, 1)},
	)

	require.NoError(t, g.PlayTurn(context.Background()))
	assert.Equal(t, 12, g.Players[0].GamePoints)
	assert.Equal(t, 12, g.Players[1].GamePoints)
}

func TestStackingPassesTheDraw(t *testing.T) {
	rules := models.DefaultHouseRules()
	rules.AllowStackingDrawCards = true

	p0 := &scripted{decisions: []models.Decision{models.Play(0)}}
	p1 := &scripted{stack: true}
	p2 := &scripted{stack: true}
	g, mb := setupTestGame(t, rules, p0, p1, p2)
	layTable(g, num(t, models.ColorRed, 5), fillers(t, 6),
		[]models.Card{act(t, models.ColorRed, models.KindDrawTwo), num(t, models.ColorBlue, 1), num(t, models.ColorBlue, 2)},
		[]models.Card{act(t, models.ColorBlue, models.KindDrawTwo), num(t, models.ColorGreen, 1), num(t, models.ColorGreen, 2)},
		[]models.Card{num(t, models.ColorGreen, 3), num(t, models.ColorGreen, 4)},
	)

	require.NoError(t, g.PlayTurn(context.Background()))
	assert.Len(t, g.Players[1].Hand, 2, "seat 1 stacked instead of drawing")
	assert.Len(t, g.Players[2].Hand, 6, "seat 2 draws the stacked four")
	assert.Equal(t, 0, g.CurrentPlayerIndex, "seat 2 is skipped")
	assert.Equal(t, models.ColorBlue, g.ActiveColor)
	assert.Equal(t, 1, mb.count(EventDrawStacked))
}

func TestStackingDisabledByDefault(t *testing.T) {
	p0 := &scripted{decisions: []models.Decision{models.Play(0)}}
	p1 := &scripted{stack: true}
	g, _ := setupTestGame(t, models.DefaultHouseRules(), p0, p1, &scripted{})
	layTable(g, num(t, models.ColorRed, 5), fillers(t, 6),
		[]models.Card{act(t, models.ColorRed, models.KindDrawTwo), num(t, models.ColorBlue, 1), num(t, models.ColorBlue, 2)},
		[]models.Card{act(t, models.ColorBlue, models.KindDrawTwo), num(t, models.ColorGreen, 1)},
		fillers(t, 2),
	)

	require.NoError(t, g.PlayTurn(context.Background()))
	assert.Len(t, g.Players[1].Hand, 4)
	assert.Equal(t, 2, g.CurrentPlayerIndex)
}

func TestJumpInTakesOverTurn(t *testing.T) {
	rules := models.DefaultHouseRules()
	rules.AllowJumpIn = true

	p0 := &scripted{decisions: []models.Decision{models.Play(0)}}
	p1 := &scripted{jump: true}
	p2 := &scripted{jump: true}
	g, mb := setupTestGame(t, rules, p0, p1, p2)
	twin := num(t, models.ColorRed, 5)
	layTable(g, num(t, models.ColorRed, 3), fillers(t, 5),
		[]models.Card{num(t, models.ColorRed, 5), num(t, models.ColorBlue, 1), num(t, models.ColorBlue, 2)},
		[]models.Card{num(t, models.ColorBlue, 5), num(t, models.ColorGreen, 2)},
		[]models.Card{twin, num(t, models.ColorYellow, 1), num(t, models.ColorYellow, 2)},
	)

	require.NoError(t, g.PlayTurn(context.Background()))
	top, _ := g.Deck.PeekTopDiscard()
	assert.Equal(t, twin.ID(), top.ID())
	assert.Len(t, g.Players[1].Hand, 2, "a same-number card of another color cannot jump in")
	assert.Len(t, g.Players[2].Hand, 2)
	assert.Equal(t, 0, g.CurrentPlayerIndex, "play continues after the jumper")
	assert.Equal(t, 1, mb.count(EventJumpIn))
}

func TestNoJumpInAfterPlainDraw(t *testing.T) {
	rules := models.DefaultHouseRules()
	rules.AllowJumpIn = true

	p0 := &scripted{}
	p1 := &scripted{jump: true}
	p2 := &scripted{jump: true}
	g, mb := setupTestGame(t, rules, p0, p1, p2)
	layTable(g, act(t, models.ColorRed, models.KindSkip), []models.Card{num(t, models.ColorYellow, 4)},
		[]models.Card{num(t, models.ColorBlue, 1), num(t, models.ColorBlue, 2)},
		[]models.Card{act(t, models.ColorRed, models.KindSkip), num(t, models.ColorGreen, 2)},
		[]models.Card{num(t, models.ColorYellow, 1), num(t, models.ColorYellow, 2)},
	)

	require.NoError(t, g.PlayTurn(context.Background()))
	assert.Len(t, g.Players[0].Hand, 3, "the drawn card stays in hand")
	assert.Len(t, g.Players[1].Hand, 2, "nobody jumps in on a card that was not played this turn")
	assert.Equal(t, 0, mb.count(EventJumpIn))
	assert.Equal(t, 0, mb.count(EventPlayerSkipped))
	assert.Equal(t, 1, g.CurrentPlayerIndex)
}

func TestOpeningCardEffects(t *testing.T) {
	tests := []struct {
		name      string
		card      func(t *testing.T) models.Card
		wantIdx   int
		wantDir   Direction
		wantHand  int
		wantColor models.Color
	}{
		{"skip", func(t *testing.T) models.Card { return act(t, models.ColorBlue, models.KindSkip) }, 1, Clockwise, 3, models.ColorBlue},
		{"draw two", func(t *testing.T) models.Card { return act(t, models.ColorBlue, models.KindDrawTwo) }, 1, Clockwise, 5, models.ColorBlue},
		{"reverse", func(t *testing.T) models.Card { return act(t, models.ColorBlue, models.KindReverse) }, 0, CounterClockwise, 3, models.ColorBlue},
		{"wild", func(t *testing.T) models.Card { return act(t, models.ColorWild, models.KindWild) }, 0, Clockwise, 3, models.ColorYellow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			starter := &scripted{colors: []models.Color{models.ColorYellow}}
			g, _ := setupTestGame(t, models.DefaultHouseRules(), starter, &scripted{}, &scripted{})
			opening := tt.card(t)
			layTable(g, opening, fillers(t, 4), fillers(t, 3), fillers(t, 3), fillers(t, 3))

			require.NoError(t, g.applyOpeningEffect(context.Background(), opening))
			assert.Equal(t, tt.wantIdx, g.CurrentPlayerIndex)
			assert.Equal(t, tt.wantDir, g.Direction)
			assert.Len(t, g.Players[0].Hand, tt.wantHand)
			assert.Equal(t, tt.wantColor, g.ActiveColor)
		})
	}
}

func TestOpeningWildDrawFourGoesBack(t *testing.T) {
	g, mb := setupTestGame(t, models.DefaultHouseRules(), &scripted{}, &scripted{})
	red2 := num(t, models.ColorRed, 2)
	wd4 := act(t, models.ColorWild, models.KindWildDrawFour)
	g.Deck.drawPile = []models.Card{red2, wd4}

	got, err := g.drawOpeningCard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, red2.ID(), got.ID())
	assert.Equal(t, []uuid.UUID{wd4.ID()}, ids(g.Deck.DrawPile()))
	assert.GreaterOrEqual(t, mb.count(EventOpeningRedraw), 1)
}

func TestStartDealsAndOpens(t *testing.T) {
	g, err := NewUnoGame(models.DefaultHouseRules(), []*models.Player{
		models.NewPlayer("A", false, &scripted{}),
		models.NewPlayer("B", false, &scripted{}),
		models.NewPlayer("C", false, &scripted{}),
	})
	require.NoError(t, err)
	g.Rand = newRand(99)

	require.NoError(t, g.Start(context.Background()))
	assert.Equal(t, PhaseRoundInProgress, g.Phase)
	assert.Equal(t, 1, g.Round)
	assert.True(t, g.ActiveColor.IsPlayable())
	top, ok := g.Deck.PeekTopDiscard()
	require.True(t, ok)
	assert.NotEqual(t, models.KindWildDrawFour, top.Kind())
	assertConserved(t, g)

	st := g.GetPublicGameState()
	assert.Len(t, st.Players, 3)
	assert.Equal(t, g.Deck.DrawLen(), st.DrawPileSize)
}

func TestTurnViewHidesOpponentHands(t *testing.T) {
	g, _ := setupTestGame(t, models.DefaultHouseRules(), &scripted{}, &scripted{})
	layTable(g, num(t, models.ColorRed, 5), fillers(t, 2),
		[]models.Card{num(t, models.ColorRed, 1), num(t, models.ColorBlue, 2)},
		fillers(t, 4),
	)

	view, err := g.GetTurnView(g.Players[0].ID)
	require.NoError(t, err)
	assert.Len(t, view.Hand, 2)
	assert.Equal(t, []int{0}, view.Playable)
	require.Len(t, view.Opponents, 1)
	assert.Equal(t, 4, view.Opponents[0].HandSize)
	assert.True(t, view.Clockwise)

	_, err = g.GetTurnView(uuid.New())
	assert.Error(t, err)
}

func TestEventJSON(t *testing.T) {
	c := num(t, models.ColorGreen, 4)
	out := EventJSON(GameEvent{Type: EventCardPlayed, Card: &c, User: &EventUser{Name: "Ada"}})
	assert.Contains(t, out, `"type":"card_played"`)
	assert.Contains(t, out, `"name":"Ada"`)
	assert.Contains(t, out, `"color":"green"`)
}

func TestCancelledContextAbortsTurn(t *testing.T) {
	g, _ := setupTestGame(t, models.DefaultHouseRules(), &scripted{}, &scripted{})
	layTable(g, num(t, models.ColorRed, 5), fillers(t, 2), fillers(t, 3), fillers(t, 3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.PlayTurn(ctx), context.Canceled)
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(fmt.Errorf("wrapped: %w", ErrInvalidPlay)))
	assert.False(t, IsFatal(fmt.Errorf("P0 deciding: %w", context.Canceled)))
	assert.False(t, IsFatal(context.DeadlineExceeded))
	assert.True(t, IsFatal(fmt.Errorf("drawing: %w", ErrDeckExhausted)))
	assert.True(t, IsFatal(fmt.Errorf("P1 choosing color: %w", errors.New("provider went away"))))
}

func TestActionLogNumbersEveryEvent(t *testing.T) {
	p0 := &scripted{decisions: []models.Decision{models.Play(0)}}
	g, mb := setupTestGame(t, models.DefaultHouseRules(), p0, &scripted{})
	rec := &recordingLog{}
	g.ActionLog = rec
	layTable(g, num(t, models.ColorRed, 5), fillers(t, 2), fillers(t, 3), fillers(t, 3))
	g.Players[0].Hand[0] = num(t, models.ColorRed, 2)

	require.NoError(t, g.PlayTurn(context.Background()))
	require.Len(t, rec.records, len(mb.events))
	for i, r := range rec.records {
		assert.Equal(t, g.ID, r.GameID)
		assert.Equal(t, i+1, r.ActionIndex)
	}
	assert.Equal(t, string(EventCardPlayed), rec.records[1].ActionType)
	assert.Equal(t, g.Players[0].ID, rec.records[1].ActorUserID)
}

func TestBotGameConservesCards(t *testing.T) {
	rules := models.DefaultHouseRules()
	rules.WinningScore = 150

	players := make([]*models.Player, 4)
	for i := range players {
		level := bot.LevelSimple
		if i%2 == 1 {
			level = bot.LevelGreedy
		}
		b, err := bot.NewProvider(level, newRand(int64(i+1)))
		require.NoError(t, err)
		players[i] = models.NewPlayer(fmt.Sprintf("Bot %d", i+1), true, b)
	}
	g, err := NewUnoGame(rules, players)
	require.NoError(t, err)
	g.Rand = newRand(2024)

	violations := 0
	g.BroadcastFn = func(ev GameEvent) {
		if g.Deck != nil && !conserved(g) {
			violations++
		}
		if ev.Type == EventRoundEnd {
			for _, p := range g.Players {
				assert.GreaterOrEqual(t, p.GamePoints, 0)
			}
		}
	}

	res, err := g.Play(context.Background())
	require.NoError(t, err)
	assert.Zero(t, violations)
	require.NotNil(t, res.Winner)
	assert.GreaterOrEqual(t, res.Winner.GamePoints, 150)
	for _, s := range res.Scores {
		assert.LessOrEqual(t, s, res.Winner.GamePoints)
	}
	assert.Equal(t, PhaseGameEnd, g.Phase)
}

// conserved reports whether draw pile, discard pile and hands hold exactly one deck generation.
func conserved(g *UnoGame) bool {
	seen := map[uuid.UUID]bool{}
	add := func(cards []models.Card) bool {
		for _, c := range cards {
			if seen[c.ID()] {
				return false
			}
			seen[c.ID()] = true
		}
		return true
	}
	ok := add(g.Deck.drawPile) && add(g.Deck.discardPile)
	for _, p := range g.Players {
		ok = ok && add(p.Hand)
	}
	return ok && len(seen) == DeckSize
}

func assertConserved(t *testing.T, g *UnoGame) {
	t.Helper()
	assert.True(t, conserved(g), "cards are not conserved")
}
