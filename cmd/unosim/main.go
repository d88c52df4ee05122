// cmd/unosim/main.go runs bot-only games and reports the standings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/config"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/historian"
	"github.com/jason-s-yu/uno/internal/middleware"
	"github.com/jason-s-yu/uno/internal/rating"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	var pub *cache.Publisher
	if cfg.Historian {
		if rdb, err = cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB); err != nil {
			logger.WithError(err).Fatal("historian enabled but redis is unreachable")
		}
		defer rdb.Close()
		pub = cache.NewPublisher(rdb, cfg.HistorianQueue)
		logger.WithField("queue", pub.Queue()).Info("publishing game actions")
	}

	if cfg.HumanSeats > 0 {
		logger.WithField("humanSeats", cfg.HumanSeats).Warn("the simulator seats bots only; UNO_HUMAN_SEATS ignored")
	}

	store := game.NewGameStore()
	for i := 0; i < cfg.Games; i++ {
		g, err := newGame(ctx, cfg, i, logger)
		if err != nil {
			logger.WithError(err).Fatal("cannot set up game")
		}
		if pub != nil {
			g.ActionLog = pub
		}
		if err := store.AddGame(g); err != nil {
			logger.WithError(err).Fatal("cannot register game")
		}
	}

	results := make(chan game.Result, cfg.Games)
	var wg sync.WaitGroup
	for _, g := range store.ActiveGames() {
		wg.Add(1)
		go func(g *game.UnoGame) {
			defer wg.Done()
			res, err := middleware.PlayLogged(ctx, logger, g)
			if err != nil {
				return
			}
			results <- res
		}(g)
	}
	wg.Wait()
	close(results)

	ladder := rating.NewLadder()
	wins := map[string]int{}
	finished := 0
	for res := range results {
		finished++
		g, _ := store.GetGame(res.GameID)
		outcomes := make([]rating.Outcome, len(g.Players))
		for i, p := range g.Players {
			outcomes[i] = rating.Outcome{Name: seatName(cfg, i, p.Name), Points: res.Scores[p.ID]}
		}
		ladder.RecordGame(outcomes)
		wins[seatName(cfg, indexOf(g, res.Winner.ID), res.Winner.Name)]++

		if rdb != nil {
			summarize(ctx, logger, rdb, cfg.HistorianQueue, res)
		}
	}

	fmt.Printf("%d/%d games finished\n", finished, cfg.Games)
	for _, st := range ladder.Standings() {
		fmt.Printf("  %-18s elo %6.1f  rd %5.1f  wins %d/%d\n", st.Name, st.Elo, st.RD, wins[st.Name], st.Games)
	}
	if finished < cfg.Games {
		os.Exit(1)
	}
}

// newGame seats four bots and wires logging. Game i of a seeded run gets seed+i so runs are
// reproducible game by game.
func newGame(ctx context.Context, cfg config.Config, i int, logger *logrus.Logger) (*game.UnoGame, error) {
	var seed int64
	if cfg.Seed != 0 {
		seed = cfg.Seed + int64(i)
	}
	players, err := game.SeatPlayers(ctx, nil, game.SeededLevelBots(seed, cfg.BotLevels...))
	if err != nil {
		return nil, err
	}
	g, err := game.NewUnoGame(cfg.Rules, players)
	if err != nil {
		return nil, err
	}
	if seed != 0 {
		g.Rand = game.NewRand(seed)
	}
	g.Logger = logger
	g.BroadcastFn = middleware.LogEvents(logger, g.ID.String(), nil)
	return g, nil
}

// seatName labels a bot seat with its level so the ladder compares strategies.
func seatName(cfg config.Config, seat int, name string) string {
	level := cfg.BotLevels[seat%len(cfg.BotLevels)]
	return fmt.Sprintf("%s (%s)", name, level)
}

func indexOf(g *game.UnoGame, id uuid.UUID) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return 0
}

// summarize reads a finished game's log back from the historian queue.
func summarize(ctx context.Context, logger *logrus.Logger, rdb *redis.Client, queue string, res game.Result) {
	recs, err := historian.ReadGame(ctx, rdb, queue, res.GameID)
	if err != nil {
		logger.WithError(err).WithField("game", res.GameID).Warn("cannot read action log")
		return
	}
	s := historian.Summarize(res.GameID, recs)
	entry := logger.WithFields(logrus.Fields{
		"game":    res.GameID,
		"actions": s.Actions,
		"plays":   s.ByType[string(game.EventCardPlayed)],
	})
	if len(s.Gaps) > 0 {
		entry.WithField("gaps", len(s.Gaps)).Warn("action log incomplete")
		return
	}
	entry.Info("action log complete")
}
