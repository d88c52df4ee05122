// internal/game/setup.go
package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/jason-s-yu/uno/internal/bot"
	"github.com/jason-s-yu/uno/internal/models"
)

// HumanSeat is one human player to seat at the table.
type HumanSeat struct {
	Name     string
	Provider models.DecisionProvider
}

// SetupProvider supplies the human players. Prompting for names and counts lives behind it.
type SetupProvider interface {
	HumanSeats(ctx context.Context) ([]HumanSeat, error)
}

// BotFactory builds the provider for the n-th bot (1-based).
type BotFactory func(n int) (models.DecisionProvider, error)

// LevelBots returns a BotFactory that cycles through levels, bot n getting levels[(n-1)%len].
// With no levels every bot is simple. Each bot gets its own clock-seeded source.
func LevelBots(levels ...bot.Level) BotFactory {
	return SeededLevelBots(0, levels...)
}

// SeededLevelBots is LevelBots with bot sources derived from seed, so a seeded game is
// reproducible including the bots' random picks. A zero seed means clock-seeded.
func SeededLevelBots(seed int64, levels ...bot.Level) BotFactory {
	if len(levels) == 0 {
		levels = []bot.Level{bot.LevelSimple}
	}
	return func(n int) (models.DecisionProvider, error) {
		var botSeed int64
		if seed != 0 {
			botSeed = seed*int64(models.MaxPlayers+1) + int64(n)
		}
		b, err := bot.NewProvider(levels[(n-1)%len(levels)], newRand(botSeed))
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

// SeatPlayers seats the humans in the order given and fills the remaining seats up to
// models.MaxPlayers with bots named "Bot 1", "Bot 2", ... A nil factory builds simple bots.
func SeatPlayers(ctx context.Context, setup SetupProvider, bots BotFactory) ([]*models.Player, error) {
	var humans []HumanSeat
	if setup != nil {
		var err error
		if humans, err = setup.HumanSeats(ctx); err != nil {
			return nil, fmt.Errorf("collecting human seats: %w", err)
		}
	}
	if len(humans) > models.MaxPlayers {
		return nil, fmt.Errorf("%w: %d human players, at most %d seats", models.ErrInvalidConfigInput, len(humans), models.MaxPlayers)
	}
	if bots == nil {
		bots = LevelBots()
	}

	players := make([]*models.Player, 0, models.MaxPlayers)
	for i, h := range humans {
		name := strings.TrimSpace(h.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: human seat %d has no name", models.ErrInvalidConfigInput, i+1)
		}
		if h.Provider == nil {
			return nil, fmt.Errorf("%w: human seat %d (%s) has no decision provider", models.ErrInvalidConfigInput, i+1, name)
		}
		players = append(players, models.NewPlayer(name, false, h.Provider))
	}
	for n := 1; len(players) < models.MaxPlayers; n++ {
		p, err := bots(n)
		if err != nil {
			return nil, fmt.Errorf("building bot %d: %w", n, err)
		}
		players = append(players, models.NewPlayer(fmt.Sprintf("Bot %d", n), true, p))
	}
	return players, nil
}
