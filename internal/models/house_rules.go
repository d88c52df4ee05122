// internal/models/house_rules.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultWinningScore    = 500
	DefaultUnoPenaltyCards = 2
	DefaultHandSize        = 7

	// MaxPlayers is the fixed table size; setup fills empty seats with bots.
	MaxPlayers = 4
)

// HouseRules captures the game-time configuration chosen at setup.
type HouseRules struct {
	// WinningScore ends the game once any player's game points reach it (inclusive).
	WinningScore int `json:"winningScore"`

	// AllowStackingDrawCards lets a player answer a DrawTwo with a DrawTwo (or a WildDrawFour with a
	// WildDrawFour), passing the accumulated draw on to the next player.
	AllowStackingDrawCards bool `json:"allowStackingDrawCards"`

	// AllowJumpIn lets a player holding a card identical to the top discard play it out of turn.
	AllowJumpIn bool `json:"allowJumpIn"`

	// UnoPenaltyCards is how many cards a player draws for failing to declare UNO.
	UnoPenaltyCards int `json:"unoPenaltyCards"`

	// HandSize is the number of cards dealt to each player at the start of a round.
	HandSize int `json:"handSize"`
}

// DefaultHouseRules returns the standard rules: 500 points, no stacking, no jump-in.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		WinningScore:    DefaultWinningScore,
		UnoPenaltyCards: DefaultUnoPenaltyCards,
		HandSize:        DefaultHandSize,
	}
}

// Validate checks the rules are usable by the engine.
func (rules HouseRules) Validate() error {
	if rules.WinningScore <= 0 {
		return fmt.Errorf("%w: winningScore must be positive", ErrInvalidConfigInput)
	}
	if rules.UnoPenaltyCards < 0 {
		return fmt.Errorf("%w: unoPenaltyCards must be non-negative", ErrInvalidConfigInput)
	}
	// 4 players * 25 cards still leaves a draw pile out of 108
	if rules.HandSize < 1 || rules.HandSize > 25 {
		return fmt.Errorf("%w: handSize must be between 1 and 25", ErrInvalidConfigInput)
	}
	return nil
}

// Update will update the house rules with the new rules provided.
// If a rule is not set or defined, it will be ignored, and the old value will persist.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	var ok bool

	assignBool := func(field *bool, key string) error {
		if val, exists := newRules[key]; exists && val != nil {
			*field, ok = val.(bool)
			if !ok {
				return fmt.Errorf("%w: invalid type for %s", ErrInvalidConfigInput, key)
			}
		}
		return nil
	}

	assignInt := func(field *int, key string, minVal int) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		var n int
		switch v := val.(type) {
		case float64: // JSON numbers
			n = int(v)
		case int:
			n = v
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidConfigInput, key, v)
			}
			n = parsed
		default:
			return fmt.Errorf("%w: invalid type for %s", ErrInvalidConfigInput, key)
		}
		if n < minVal {
			return fmt.Errorf("%w: %s must be at least %d", ErrInvalidConfigInput, key, minVal)
		}
		*field = n
		return nil
	}

	if err := assignInt(&rules.WinningScore, "winningScore", 1); err != nil {
		return err
	}
	if err := assignBool(&rules.AllowStackingDrawCards, "allowStackingDrawCards"); err != nil {
		return err
	}
	if err := assignBool(&rules.AllowJumpIn, "allowJumpIn"); err != nil {
		return err
	}
	if err := assignInt(&rules.UnoPenaltyCards, "unoPenaltyCards", 0); err != nil {
		return err
	}
	if err := assignInt(&rules.HandSize, "handSize", 1); err != nil {
		return err
	}
	return rules.Validate()
}

// ParseRules converts a map of rules to a HouseRules struct. It will ensure the types are valid.
func ParseRules(rules map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	err := houseRules.Update(rules)
	return houseRules, err
}

// ParseWinningScore parses a winning score typed at setup. Non-numeric or non-positive input is
// an ErrInvalidConfigInput so the caller can re-prompt.
func ParseWinningScore(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: winning score %q is not a number", ErrInvalidConfigInput, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: winning score must be positive, got %d", ErrInvalidConfigInput, n)
	}
	return n, nil
}
