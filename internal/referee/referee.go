// Package referee holds the stateless rule checks: play legality, UNO penalties, round scoring
// and the game-end condition. Nothing here mutates anything but the players passed in.
package referee

import "github.com/jason-s-yu/uno/internal/models"

// PenaltyPointsPerCard is recorded for each card drawn as an UNO penalty.
const PenaltyPointsPerCard = 10

// IsValidPlay decides whether chosen may be played on top. Wild cards are always legal. On a wild
// top only the color chosen for it counts; the wild's own color is ignored. Otherwise the raw
// matching rule applies.
func IsValidPlay(chosen, top models.Card, activeColor models.Color) bool {
	if chosen.IsWild() {
		return true
	}
	if top.IsWild() {
		return chosen.Color() == activeColor
	}
	return chosen.CanPlayOn(top, activeColor)
}

// PlayableIndices lists the indices of hand that are valid plays.
func PlayableIndices(hand []models.Card, top models.Card, activeColor models.Color) []int {
	var out []int
	for i, c := range hand {
		if IsValidPlay(c, top, activeColor) {
			out = append(out, i)
		}
	}
	return out
}

// ApplyUnoPenalty records the penalty for ending a turn on one card without declaring it and
// returns how many cards the caller must draw into the player's hand.
func ApplyUnoPenalty(p *models.Player, cards int) int {
	if cards < 0 {
		cards = 0
	}
	p.PenaltyPoints += cards * PenaltyPointsPerCard
	return cards
}

// CalculateRoundPoints credits the winner with the sum of every other hand, and credits each
// other player with their own hand total.
func CalculateRoundPoints(players []*models.Player, winner *models.Player) {
	sum := 0
	for _, p := range players {
		if p == winner {
			continue
		}
		pts := p.HandPoints()
		p.RoundPoints += pts
		sum += pts
	}
	winner.RoundPoints += sum
}

// CheckGameWinCondition reports whether any player has reached winningScore.
func CheckGameWinCondition(players []*models.Player, winningScore int) bool {
	for _, p := range players {
		if p.GamePoints >= winningScore {
			return true
		}
	}
	return false
}

// Leader returns the player with the most game points; the earliest seat wins ties.
func Leader(players []*models.Player) *models.Player {
	var best *models.Player
	for _, p := range players {
		if best == nil || p.GamePoints > best.GamePoints {
			best = p
		}
	}
	return best
}

// CanStack reports whether candidate may answer a pending forced draw started by pending.
// DrawTwo stacks on DrawTwo and WildDrawFour on WildDrawFour.
func CanStack(candidate, pending models.Card) bool {
	switch pending.Kind() {
	case models.KindDrawTwo, models.KindWildDrawFour:
		return candidate.Kind() == pending.Kind()
	}
	return false
}

// StackableIndices lists the cards in hand that may be stacked on pending.
func StackableIndices(hand []models.Card, pending models.Card) []int {
	var out []int
	for i, c := range hand {
		if CanStack(c, pending) {
			out = append(out, i)
		}
	}
	return out
}

// CanJumpIn reports whether candidate is identical to top and may be played out of turn.
// Wild-family cards only need the same kind since their printed color is always wild.
func CanJumpIn(candidate, top models.Card) bool {
	return candidate.SameFace(top)
}

// JumpInIndices lists the cards in hand that are identical to top.
func JumpInIndices(hand []models.Card, top models.Card) []int {
	var out []int
	for i, c := range hand {
		if CanJumpIn(c, top) {
			out = append(out, i)
		}
	}
	return out
}
