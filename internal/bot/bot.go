// Package bot provides computer-controlled decision providers.
package bot

import (
	"context"
	"math/rand"

	"github.com/jason-s-yu/uno/internal/models"
)

// Bot is a DecisionProvider driven by a Strategy. It always declares UNO, always plays a playable
// drawn card, and always stacks or jumps in when offered.
type Bot struct {
	Strategy Strategy
	rng      *rand.Rand
}

var (
	_ models.DecisionProvider = (*Bot)(nil)
	_ models.Stacker          = (*Bot)(nil)
	_ models.JumpInner        = (*Bot)(nil)
)

func (b *Bot) Decide(ctx context.Context, view models.TurnView) (models.Decision, error) {
	if err := ctx.Err(); err != nil {
		return models.Decision{}, err
	}
	if len(view.Playable) == 0 {
		return models.Draw(), nil
	}
	return models.Play(b.Strategy.PickPlay(view)), nil
}

// ChooseColor names the color the bot holds most of.
func (b *Bot) ChooseColor(ctx context.Context, view models.TurnView) (models.Color, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return b.favoriteColor(view.Hand), nil
}

func (b *Bot) DeclareUno(ctx context.Context, _ models.TurnView) (bool, error) {
	return true, ctx.Err()
}

func (b *Bot) PlayDrawn(ctx context.Context, _ models.TurnView, _ models.Card) (bool, error) {
	return true, ctx.Err()
}

func (b *Bot) StackDraw(ctx context.Context, view models.TurnView, candidates []int, _ int) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	return b.Strategy.PickFrom(view, candidates), true, nil
}

func (b *Bot) JumpIn(ctx context.Context, view models.TurnView, candidates []int) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	return b.Strategy.PickFrom(view, candidates), true, nil
}

// favoriteColor counts the colored cards in hand. Ties go to the earlier color in
// models.PlayableColors; a hand of only wild cards picks at random.
func (b *Bot) favoriteColor(hand []models.Card) models.Color {
	counts := make(map[models.Color]int, len(models.PlayableColors))
	for _, c := range hand {
		if !c.IsWild() {
			counts[c.Color()]++
		}
	}

	best, bestN := models.PlayableColors[0], 0
	for _, c := range models.PlayableColors {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	if bestN == 0 && b.rng != nil {
		return models.PlayableColors[b.rng.Intn(len(models.PlayableColors))]
	}
	return best
}
