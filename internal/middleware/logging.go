// internal/middleware/logging.go

package middleware

import (
	"context"
	"time"

	"github.com/jason-s-yu/uno/internal/game"
	"github.com/sirupsen/logrus"
)

// LogEvents wraps an event handler so every game event is also logged at Debug.
// next may be nil.
func LogEvents(logger logrus.FieldLogger, gameID string, next func(game.GameEvent)) func(game.GameEvent) {
	return func(ev game.GameEvent) {
		fields := logrus.Fields{
			"game":  gameID,
			"event": ev.Type,
			"round": ev.Round,
			"turn":  ev.Turn,
		}
		if ev.User != nil {
			fields["player"] = ev.User.Name
		}
		if ev.Card != nil {
			fields["card"] = ev.Card.String()
		}
		if ev.Color != "" {
			fields["color"] = ev.Color
		}
		logger.WithFields(fields).Debug("game event")

		if next != nil {
			next(ev)
		}
	}
}

// PlayLogged runs g to completion and logs the outcome and how long it took.
func PlayLogged(ctx context.Context, logger logrus.FieldLogger, g *game.UnoGame) (game.Result, error) {
	start := time.Now()
	res, err := g.Play(ctx)
	duration := time.Since(start)

	entry := logger.WithFields(logrus.Fields{
		"game":     g.ID,
		"duration": duration,
		"rounds":   res.Rounds,
	})
	if err != nil {
		if game.IsFatal(err) {
			entry.WithError(err).Error("game aborted")
		} else {
			entry.WithError(err).Warn("game stopped")
		}
		return res, err
	}
	entry.WithFields(logrus.Fields{
		"winner": res.Winner.Name,
		"points": res.Winner.GamePoints,
	}).Info("game finished")
	return res, nil
}
