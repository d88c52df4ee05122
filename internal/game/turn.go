// internal/game/turn.go
package game

import (
	"context"
	"fmt"

	"github.com/jason-s-yu/uno/internal/models"
	"github.com/jason-s-yu/uno/internal/referee"
	"github.com/sirupsen/logrus"
)

// turnOutcome is what remains to do after a card or draw resolved: how far to move the pointer,
// which seat (if any) emptied their hand, and whether a card went down at all.
type turnOutcome struct {
	steps  int
	winner int
	played bool
}

func noWinner(steps int) turnOutcome { return turnOutcome{steps: steps, winner: -1} }

// playTurn runs the current player's turn, any jump-ins it allows, and the pointer advance.
func (g *UnoGame) playTurn(ctx context.Context) error {
	switch g.Phase {
	case PhaseGameEnd:
		return ErrGameOver
	case PhaseRoundInProgress:
	default:
		return fmt.Errorf("cannot play a turn in phase %s", g.Phase)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	g.watchDeck(ctx)
	g.TurnID++
	idx := g.CurrentPlayerIndex
	g.fireEvent(ctx, GameEvent{Type: EventPlayerTurn, User: userOf(g.Players[idx])})

	out, err := g.takeTurn(ctx, idx)
	if err != nil {
		return err
	}
	// jump-in only answers a card put down this turn, never a stale top after a plain draw
	for out.played && out.winner < 0 && g.HouseRules.AllowJumpIn {
		jumper, handIdx, ok, err := g.offerJumpIn(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		g.CurrentPlayerIndex = jumper
		g.fireEvent(ctx, GameEvent{Type: EventJumpIn, User: userOf(g.Players[jumper])})
		if out, err = g.playCard(ctx, jumper, handIdx); err != nil {
			return err
		}
	}

	if out.winner >= 0 {
		return g.endRound(ctx, out.winner)
	}
	g.advanceTurn(ctx, out.steps)
	return nil
}

// takeTurn asks the player for a move until they make a legal one.
func (g *UnoGame) takeTurn(ctx context.Context, idx int) (turnOutcome, error) {
	p := g.Players[idx]
	for {
		if err := ctx.Err(); err != nil {
			return turnOutcome{}, err
		}
		d, err := p.Provider.Decide(ctx, g.viewFor(idx))
		if err != nil {
			return turnOutcome{}, fmt.Errorf("%s deciding: %w", p.Name, err)
		}
		switch d.Action {
		case models.ActionDraw:
			return g.drawForTurn(ctx, idx)
		case models.ActionPlay:
			if err := g.checkPlay(p, d.Index); err != nil {
				g.rejectPlay(ctx, p, err)
				continue
			}
			return g.playCard(ctx, idx, d.Index)
		default:
			g.rejectPlay(ctx, p, fmt.Errorf("%w: unknown action %s", ErrInvalidPlay, d.Action))
		}
	}
}

// checkPlay validates playing hand[handIdx] against the discard top and active color.
func (g *UnoGame) checkPlay(p *models.Player, handIdx int) error {
	if handIdx < 0 || handIdx >= len(p.Hand) {
		return fmt.Errorf("%w: hand index %d out of range (hand size %d)", ErrInvalidPlay, handIdx, len(p.Hand))
	}
	card := p.Hand[handIdx]
	if !referee.IsValidPlay(card, g.topDiscard(), g.ActiveColor) {
		return fmt.Errorf("%w: %s does not match %s with active color %s", ErrInvalidPlay, card, g.topDiscard(), g.ActiveColor)
	}
	return nil
}

func (g *UnoGame) rejectPlay(ctx context.Context, p *models.Player, err error) {
	g.log().WithError(err).WithField("player", p.Name).Debug("rejected play")
	g.fireEvent(ctx, GameEvent{
		Type:    EventInvalidPlay,
		User:    userOf(p),
		Payload: map[string]interface{}{"reason": err.Error()},
	})
}

// drawForTurn draws one card and lets the player play it straight away if it is legal.
func (g *UnoGame) drawForTurn(ctx context.Context, idx int) (turnOutcome, error) {
	p := g.Players[idx]
	drawn, err := g.drawCards(ctx, idx, 1)
	if err != nil {
		return turnOutcome{}, err
	}
	card := drawn[0]
	g.fireEvent(ctx, GameEvent{Type: EventCardDrawn, User: userOf(p)})

	if !referee.IsValidPlay(card, g.topDiscard(), g.ActiveColor) {
		return noWinner(1), nil
	}
	play, err := p.Provider.PlayDrawn(ctx, g.viewFor(idx), card)
	if err != nil {
		return turnOutcome{}, fmt.Errorf("%s deciding on drawn card: %w", p.Name, err)
	}
	if !play {
		return noWinner(1), nil
	}
	return g.playCard(ctx, idx, len(p.Hand)-1)
}

// playCard moves hand[handIdx] to the discard pile and applies its effect. The caller has
// already checked the play is legal. On return the pointer sits on the last player to act.
func (g *UnoGame) playCard(ctx context.Context, idx, handIdx int) (turnOutcome, error) {
	p := g.Players[idx]
	card, err := p.RemoveCard(handIdx)
	if err != nil {
		return turnOutcome{}, fmt.Errorf("%w: %v", ErrInvalidPlay, err)
	}
	g.Deck.Discard(card)
	if !card.IsWild() {
		g.ActiveColor = card.Color()
	}
	g.log().WithFields(logrus.Fields{"player": p.Name, "card": card.String()}).Debug("card played")
	g.fireEvent(ctx, GameEvent{Type: EventCardPlayed, User: userOf(p), Card: &card})

	eff := Resolve(card, len(g.Players))
	out := noWinner(1 + eff.SkipCount)
	out.played = true

	if eff.ReverseDirection {
		g.reverse(ctx)
	}
	if eff.RequiresColorChoice {
		if err := g.chooseColor(ctx, idx); err != nil {
			return turnOutcome{}, err
		}
	}
	if err := g.checkUno(ctx, idx); err != nil {
		return turnOutcome{}, err
	}
	if len(p.Hand) == 0 {
		out.winner = idx
	}

	if eff.DrawCountForNext > 0 {
		last, stackWinner, err := g.resolveForcedDraw(ctx, idx, card, eff.DrawCountForNext, out.winner >= 0)
		if err != nil {
			return turnOutcome{}, err
		}
		g.CurrentPlayerIndex = last
		if out.winner < 0 {
			out.winner = stackWinner
		}
	} else {
		g.CurrentPlayerIndex = idx
	}
	return out, nil
}

// resolveForcedDraw hands a pending draw to the next seat. With stacking enabled, each victim may
// pass it on by playing a matching draw card, growing the total. It returns the seat of the last
// attacker and the seat of a stacker who emptied their hand, or -1.
func (g *UnoGame) resolveForcedDraw(ctx context.Context, attacker int, pendingCard models.Card, pending int, roundOver bool) (int, int, error) {
	winner := -1
	for g.HouseRules.AllowStackingDrawCards && !roundOver && winner < 0 {
		victimIdx := g.offset(attacker, 1)
		victim := g.Players[victimIdx]
		stacker, ok := victim.Provider.(models.Stacker)
		if !ok {
			break
		}
		candidates := referee.StackableIndices(victim.Hand, pendingCard)
		if len(candidates) == 0 {
			break
		}
		handIdx, accept, err := stacker.StackDraw(ctx, g.viewFor(victimIdx), candidates, pending)
		if err != nil {
			return attacker, -1, fmt.Errorf("%s stacking: %w", victim.Name, err)
		}
		if !accept {
			break
		}
		if !containsIndex(candidates, handIdx) {
			g.log().WithFields(logrus.Fields{"player": victim.Name, "index": handIdx}).Debug("invalid stack treated as decline")
			break
		}

		card, _ := victim.RemoveCard(handIdx)
		g.Deck.Discard(card)
		if !card.IsWild() {
			g.ActiveColor = card.Color()
		}
		eff := Resolve(card, len(g.Players))
		pending += eff.DrawCountForNext
		g.fireEvent(ctx, GameEvent{
			Type:    EventDrawStacked,
			User:    userOf(victim),
			Card:    &card,
			Payload: map[string]interface{}{"pending": pending},
		})
		if eff.RequiresColorChoice {
			if err := g.chooseColor(ctx, victimIdx); err != nil {
				return attacker, -1, err
			}
		}
		if err := g.checkUno(ctx, victimIdx); err != nil {
			return attacker, -1, err
		}

		pendingCard = card
		attacker = victimIdx
		if len(victim.Hand) == 0 {
			winner = victimIdx
		}
	}

	if err := g.forceDraw(ctx, g.offset(attacker, 1), pending); err != nil {
		return attacker, -1, err
	}
	return attacker, winner, nil
}

// offerJumpIn asks the other seats, in turn order after the current one, whether they play an
// identical copy of the discard top. The first taker wins.
func (g *UnoGame) offerJumpIn(ctx context.Context) (int, int, bool, error) {
	top := g.topDiscard()
	for i := 1; i < len(g.Players); i++ {
		idx := g.offset(g.CurrentPlayerIndex, i)
		p := g.Players[idx]
		jumper, ok := p.Provider.(models.JumpInner)
		if !ok {
			continue
		}
		candidates := referee.JumpInIndices(p.Hand, top)
		if len(candidates) == 0 {
			continue
		}
		handIdx, accept, err := jumper.JumpIn(ctx, g.viewFor(idx), candidates)
		if err != nil {
			return 0, 0, false, fmt.Errorf("%s jumping in: %w", p.Name, err)
		}
		if !accept {
			continue
		}
		if !containsIndex(candidates, handIdx) {
			g.log().WithFields(logrus.Fields{"player": p.Name, "index": handIdx}).Debug("invalid jump-in treated as decline")
			continue
		}
		return idx, handIdx, true, nil
	}
	return 0, 0, false, nil
}

func containsIndex(idxs []int, idx int) bool {
	for _, i := range idxs {
		if i == idx {
			return true
		}
	}
	return false
}
