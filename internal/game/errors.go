// internal/game/errors.go
package game

import "errors"

var (
	// ErrInvalidPlay is a rejected move. The engine re-solicits the same player; it never escapes
	// a turn.
	ErrInvalidPlay = errors.New("invalid play")

	// ErrDeckExhausted means both piles are empty on a draw. Cards are conserved, so this is a
	// broken invariant and aborts the game.
	ErrDeckExhausted = errors.New("deck exhausted")

	// ErrGameOver is returned when a turn is requested after the game has ended.
	ErrGameOver = errors.New("game is over")
)
