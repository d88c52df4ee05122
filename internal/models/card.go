// internal/models/card.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Color is the color printed on a card. Wild is only ever the color of Wild-family cards;
// it is never a valid active color.
type Color uint8

const (
	ColorRed Color = iota
	ColorBlue
	ColorGreen
	ColorYellow
	ColorWild
)

// PlayableColors lists the four colors that may become the active color.
var PlayableColors = [...]Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorBlue:
		return "blue"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorWild:
		return "wild"
	default:
		return fmt.Sprintf("color(%d)", uint8(c))
	}
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// IsPlayable reports whether c is one of the four non-wild colors.
func (c Color) IsPlayable() bool {
	return c <= ColorYellow
}

// ParseColor maps a color name (case-insensitive) to a Color.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return ColorRed, nil
	case "blue", "b":
		return ColorBlue, nil
	case "green", "g":
		return ColorGreen, nil
	case "yellow", "y":
		return ColorYellow, nil
	case "wild", "w":
		return ColorWild, nil
	}
	return 0, fmt.Errorf("%w: unknown color %q", ErrInvalidConfigInput, s)
}

// Kind is the symbol on a card.
type Kind uint8

const (
	KindNumber Kind = iota
	KindSkip
	KindReverse
	KindDrawTwo
	KindWild
	KindWildDrawFour
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindSkip:
		return "skip"
	case KindReverse:
		return "reverse"
	case KindDrawTwo:
		return "draw_two"
	case KindWild:
		return "wild"
	case KindWildDrawFour:
		return "wild_draw_four"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsWild reports whether the kind belongs to the Wild family.
func (k Kind) IsWild() bool {
	return k == KindWild || k == KindWildDrawFour
}

// Card is an immutable playing card. The zero value is not a valid card; build cards with
// NewNumberCard or NewActionCard.
type Card struct {
	id     uuid.UUID
	color  Color
	kind   Kind
	number int8
}

// NewNumberCard builds a number card with face value n in [0,9].
func NewNumberCard(color Color, n int) (Card, error) {
	if n < 0 || n > 9 {
		return Card{}, fmt.Errorf("%w: number %d outside [0,9]", ErrInvalidCardConstruction, n)
	}
	if !color.IsPlayable() {
		return Card{}, fmt.Errorf("%w: number card cannot be %s", ErrInvalidCardConstruction, color)
	}
	return Card{id: uuid.New(), color: color, kind: KindNumber, number: int8(n)}, nil
}

// NewActionCard builds a card of any non-number kind. Such cards never carry a face value.
func NewActionCard(color Color, kind Kind) (Card, error) {
	switch kind {
	case KindNumber:
		return Card{}, fmt.Errorf("%w: number cards need a face value", ErrInvalidCardConstruction)
	case KindSkip, KindReverse, KindDrawTwo:
		if !color.IsPlayable() {
			return Card{}, fmt.Errorf("%w: %s card cannot be %s", ErrInvalidCardConstruction, kind, color)
		}
	case KindWild, KindWildDrawFour:
		if color != ColorWild {
			return Card{}, fmt.Errorf("%w: %s card must be wild, got %s", ErrInvalidCardConstruction, kind, color)
		}
	default:
		return Card{}, fmt.Errorf("%w: unknown kind %d", ErrInvalidCardConstruction, uint8(kind))
	}
	return Card{id: uuid.New(), color: color, kind: kind, number: -1}, nil
}

func (c Card) ID() uuid.UUID { return c.id }
func (c Card) Color() Color   { return c.color }
func (c Card) Kind() Kind     { return c.kind }

// Number returns the face value and true for number cards, and (0, false) otherwise.
func (c Card) Number() (int, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return int(c.number), true
}

// IsWild reports whether the card is a Wild or WildDrawFour.
func (c Card) IsWild() bool { return c.kind.IsWild() }

// IsZero reports whether c is the zero Card (no card).
func (c Card) IsZero() bool { return c.id == uuid.Nil }

// Points is the card's value when left in a hand at round end.
func (c Card) Points() int {
	switch c.kind {
	case KindNumber:
		return int(c.number)
	case KindSkip, KindReverse, KindDrawTwo:
		return 20
	case KindWild, KindWildDrawFour:
		return 50
	}
	return 0
}

// SameFace reports whether two cards show the same face (color, kind and number) regardless of identity.
func (c Card) SameFace(o Card) bool {
	return c.color == o.color && c.kind == o.kind && c.number == o.number
}

// CanPlayOn is the raw matching rule: wild cards always match; otherwise the candidate must share the
// active color, the top card's color, the top card's kind, or (for two number cards) the face value.
// Equal numbers match across colors.
func (c Card) CanPlayOn(top Card, activeColor Color) bool {
	if c.IsWild() {
		return true
	}
	if c.color == activeColor || c.color == top.color {
		return true
	}
	if c.kind == top.kind && c.kind != KindNumber {
		return true
	}
	if c.kind == KindNumber && top.kind == KindNumber && c.number == top.number {
		return true
	}
	return false
}

func (c Card) String() string {
	switch c.kind {
	case KindNumber:
		return fmt.Sprintf("%s %d", c.color, c.number)
	case KindWild, KindWildDrawFour:
		return c.kind.String()
	default:
		return fmt.Sprintf("%s %s", c.color, c.kind)
	}
}

// cardJSON is the wire shape for events and snapshots.
type cardJSON struct {
	ID     uuid.UUID `json:"id"`
	Color  string    `json:"color"`
	Kind   string    `json:"kind"`
	Number *int      `json:"number,omitempty"`
	Points int       `json:"points"`
}

// MarshalJSON lets cards travel inside events despite unexported fields.
func (c Card) MarshalJSON() ([]byte, error) {
	out := cardJSON{ID: c.id, Color: c.color.String(), Kind: c.kind.String(), Points: c.Points()}
	if n, ok := c.Number(); ok {
		out.Number = &n
	}
	return json.Marshal(out)
}
