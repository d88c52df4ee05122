// internal/models/decision.go
package models

import (
	"context"
	"fmt"
)

// ActionType distinguishes the two moves a player can make on their turn.
type ActionType uint8

const (
	ActionPlay ActionType = iota
	ActionDraw
)

func (a ActionType) String() string {
	switch a {
	case ActionPlay:
		return "play"
	case ActionDraw:
		return "draw"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// Decision is a player's move: play the card at Index, or draw.
type Decision struct {
	Action ActionType `json:"action"`
	Index  int        `json:"index,omitempty"`
}

// Play builds a decision to play hand[idx].
func Play(idx int) Decision { return Decision{Action: ActionPlay, Index: idx} }

// Draw builds a decision to draw one card.
func Draw() Decision { return Decision{Action: ActionDraw} }

// DecisionProvider supplies one player's choices. Calls block until the player decides;
// implementations may honor ctx for cancellation or timeouts.
type DecisionProvider interface {
	// Decide is asked for the turn's move.
	Decide(ctx context.Context, view TurnView) (Decision, error)
	// ChooseColor is asked whenever a Wild-family effect needs a new active color.
	ChooseColor(ctx context.Context, view TurnView) (Color, error)
	// DeclareUno is asked when a play leaves the player with exactly one card.
	DeclareUno(ctx context.Context, view TurnView) (bool, error)
	// PlayDrawn is asked when the card just drawn is playable.
	PlayDrawn(ctx context.Context, view TurnView, drawn Card) (bool, error)
}

// Stacker is implemented by providers that may answer a forced draw by stacking a matching draw
// card. It is only consulted when stacking is enabled. candidates index into view.Hand.
type Stacker interface {
	StackDraw(ctx context.Context, view TurnView, candidates []int, pending int) (idx int, ok bool, err error)
}

// JumpInner is implemented by providers that may play an identical card out of turn. It is only
// consulted when jump-in is enabled. candidates index into view.Hand.
type JumpInner interface {
	JumpIn(ctx context.Context, view TurnView, candidates []int) (idx int, ok bool, err error)
}
