package bot

import "github.com/jason-s-yu/uno/internal/models"

// Strategy picks which playable card to put down. It is only asked when view.Playable is not
// empty and must return one of those indices.
type Strategy interface {
	PickPlay(view models.TurnView) int
	// PickFrom chooses among candidate indices offered for a stack or a jump-in.
	PickFrom(view models.TurnView, candidates []int) int
}

// SimpleStrategy follows suit when it can and keeps wild cards as a last resort.
type SimpleStrategy struct{}

func (SimpleStrategy) PickPlay(view models.TurnView) int {
	for _, i := range view.Playable {
		if !view.Hand[i].IsWild() {
			return i
		}
	}
	return view.Playable[0]
}

func (SimpleStrategy) PickFrom(_ models.TurnView, candidates []int) int {
	return candidates[0]
}

// GreedyStrategy sheds the most expensive playable card first to limit what it gives away if an
// opponent goes out.
type GreedyStrategy struct{}

func (GreedyStrategy) PickPlay(view models.TurnView) int {
	return highestPoints(view.Hand, view.Playable)
}

func (GreedyStrategy) PickFrom(view models.TurnView, candidates []int) int {
	return highestPoints(view.Hand, candidates)
}

// highestPoints returns the index with the highest card points, earliest on ties.
func highestPoints(hand []models.Card, idxs []int) int {
	best := idxs[0]
	for _, i := range idxs[1:] {
		if hand[i].Points() > hand[best].Points() {
			best = i
		}
	}
	return best
}
