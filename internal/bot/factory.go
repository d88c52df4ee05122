package bot

import (
	"fmt"
	"math/rand"
)

// NewStrategy creates the play strategy for the specified level.
func NewStrategy(level Level) (Strategy, error) {
	switch level {
	case LevelSimple:
		return SimpleStrategy{}, nil
	case LevelGreedy:
		return GreedyStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewProvider creates a bot decision provider for the specified level. rng breaks color-choice
// ties when the bot holds no colored card; nil means it falls back to the first color.
func NewProvider(level Level, rng *rand.Rand) (*Bot, error) {
	s, err := NewStrategy(level)
	if err != nil {
		return nil, err
	}
	return &Bot{Strategy: s, rng: rng}, nil
}
