package bot

import (
	"fmt"
	"strings"

	"github.com/jason-s-yu/uno/internal/models"
)

// Level selects a bot's play strategy.
type Level uint8

const (
	LevelSimple Level = iota
	LevelGreedy
)

func (l Level) String() string {
	switch l {
	case LevelSimple:
		return "simple"
	case LevelGreedy:
		return "greedy"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// ParseLevel accepts a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "":
		return LevelSimple, nil
	case "greedy":
		return LevelGreedy, nil
	default:
		return 0, fmt.Errorf("%w: unknown bot level %q", models.ErrInvalidConfigInput, s)
	}
}
